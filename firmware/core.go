package firmware

import (
	"sync"
	"sync/atomic"

	"github.com/sarchlab/incsim/incrementer"
	"github.com/sarchlab/incsim/sim"
)

// HookPosIteration marks the completion of one loop iteration. The hook item
// is a Snapshot.
var HookPosIteration = &sim.HookPos{Name: "Iteration"}

// Snapshot describes the state of a Core right after an iteration.
type Snapshot struct {
	Time      sim.VTimeInSec
	Retired   uint64
	Registers Registers
}

// Core runs the firmware loop, one iteration per cycle.
type Core struct {
	*sim.TickingComponent

	inc    incrementer.Incrementer
	budget uint64

	regsLock sync.RWMutex
	regs     Registers
	retired  atomic.Uint64
	halted   atomic.Bool
}

// Start schedules the first iteration.
func (c *Core) Start() {
	c.TickNow()
}

// Tick runs one loop iteration. It returns false once the core is halted or
// has used up its iteration budget.
func (c *Core) Tick() bool {
	if c.halted.Load() {
		return false
	}

	if c.budget > 0 && c.retired.Load() >= c.budget {
		return false
	}

	c.regsLock.Lock()
	c.regs = Step(c.inc, c.regs)
	regs := c.regs
	retired := c.retired.Add(1)
	c.regsLock.Unlock()

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosIteration,
		Item: Snapshot{
			Time:      c.CurrentTime(),
			Retired:   retired,
			Registers: regs,
		},
	})

	return !c.halted.Load() && (c.budget == 0 || retired < c.budget)
}

// Halt asks the core to stop at the next tick boundary. It can be called from
// any goroutine.
func (c *Core) Halt() {
	c.halted.Store(true)
}

// Halted tells if Halt has been called.
func (c *Core) Halted() bool {
	return c.halted.Load()
}

// Registers returns a copy of the current register values.
func (c *Core) Registers() Registers {
	c.regsLock.RLock()
	defer c.regsLock.RUnlock()

	return c.regs
}

// State returns a *Snapshot of the core taken at the current engine time. It
// is safe to call while the core is running.
func (c *Core) State() any {
	c.regsLock.RLock()
	defer c.regsLock.RUnlock()

	return &Snapshot{
		Time:      c.CurrentTime(),
		Retired:   c.retired.Load(),
		Registers: c.regs,
	}
}

// Retired returns the number of completed iterations.
func (c *Core) Retired() uint64 {
	return c.retired.Load()
}

// Budget returns the iteration budget. Zero means unbounded.
func (c *Core) Budget() uint64 {
	return c.budget
}

// Step returns the addend of the core's Incrementer.
func (c *Core) Step() uint16 {
	return c.inc.Step()
}
