// Package tracing records what the firmware core does while it runs.
package tracing

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/incsim/datarecording"
	"github.com/sarchlab/incsim/firmware"
	"github.com/sarchlab/incsim/sim"
)

// RegisterTableName is the table that RegisterTracer writes to.
const RegisterTableName = "register_trace"

// RegisterSample is one row of the register trace.
type RegisterSample struct {
	Retired     uint64
	Time        float64
	Accumulator uint16
	Counter     uint16
	ByteCounter uint8
}

// RegisterTracer records the registers of a core every SampleInterval
// iterations.
type RegisterTracer struct {
	lock     sync.Mutex
	recorder datarecording.DataRecorder
	interval uint64
	samples  uint64
	logger   *logrus.Entry
}

// NewRegisterTracer creates the register table in recorder and returns a
// tracer that fills it. An interval of 0 is treated as 1.
func NewRegisterTracer(
	recorder datarecording.DataRecorder,
	interval uint64,
	logger *logrus.Entry,
) *RegisterTracer {
	if interval == 0 {
		interval = 1
	}

	recorder.CreateTable(RegisterTableName, RegisterSample{})

	return &RegisterTracer{
		recorder: recorder,
		interval: interval,
		logger:   logger,
	}
}

// Func records a sample when an iteration is due.
func (t *RegisterTracer) Func(ctx sim.HookCtx) {
	if ctx.Pos != firmware.HookPosIteration {
		return
	}

	snapshot, ok := ctx.Item.(firmware.Snapshot)
	if !ok || snapshot.Retired%t.interval != 0 {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	t.recorder.InsertData(RegisterTableName, RegisterSample{
		Retired:     snapshot.Retired,
		Time:        float64(snapshot.Time),
		Accumulator: snapshot.Registers.Accumulator,
		Counter:     snapshot.Registers.Counter,
		ByteCounter: snapshot.Registers.ByteCounter,
	})
	t.samples++
}

// Samples returns the number of samples recorded so far.
func (t *RegisterTracer) Samples() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.samples
}

// Handle flushes the recorder when the simulation ends.
func (t *RegisterTracer) Handle(now sim.VTimeInSec) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.recorder.Flush()

	t.logger.WithFields(logrus.Fields{
		"samples": t.samples,
		"time":    float64(now),
	}).Info("register trace flushed")
}
