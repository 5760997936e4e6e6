package tracing

import (
	"sync"

	"github.com/sarchlab/incsim/firmware"
	"github.com/sarchlab/incsim/sim"
)

// WrapCountTracer counts how many times each counter register wrapped
// around.
type WrapCountTracer struct {
	lock        sync.Mutex
	last        firmware.Registers
	counterWrap uint64
	byteWrap    uint64
}

// NewWrapCountTracer creates a WrapCountTracer for a core that starts from
// the zero register state.
func NewWrapCountTracer() *WrapCountTracer {
	return &WrapCountTracer{}
}

// Func compares the new registers with the previous ones.
func (t *WrapCountTracer) Func(ctx sim.HookCtx) {
	if ctx.Pos != firmware.HookPosIteration {
		return
	}

	snapshot, ok := ctx.Item.(firmware.Snapshot)
	if !ok {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	regs := snapshot.Registers

	if regs.Counter < t.last.Counter {
		t.counterWrap++
	}

	if regs.ByteCounter < t.last.ByteCounter {
		t.byteWrap++
	}

	t.last = regs
}

// CounterWraps returns the number of times the iteration counter wrapped.
func (t *WrapCountTracer) CounterWraps() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.counterWrap
}

// ByteCounterWraps returns the number of times the byte counter wrapped.
func (t *WrapCountTracer) ByteCounterWraps() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.byteWrap
}
