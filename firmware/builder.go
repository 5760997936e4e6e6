package firmware

import (
	"github.com/sarchlab/incsim/incrementer"
	"github.com/sarchlab/incsim/sim"
)

// Builder can build Cores.
type Builder struct {
	engine sim.Engine
	freq   sim.Freq
	inc    incrementer.Incrementer
	budget uint64
}

// MakeBuilder returns a Builder with a 1 GHz clock, the default Incrementer
// and no iteration budget.
func MakeBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
		inc:  incrementer.New(),
	}
}

// WithEngine sets the engine that drives the core.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the clock frequency. One iteration takes one cycle.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithIncrementer replaces the default Incrementer.
func (b Builder) WithIncrementer(inc incrementer.Incrementer) Builder {
	b.inc = inc
	return b
}

// WithIterationBudget limits the number of iterations. Zero keeps the loop
// running until the core is halted.
func (b Builder) WithIterationBudget(n uint64) Builder {
	b.budget = n
	return b
}

// Build creates a Core with the given name.
func (b Builder) Build(name string) *Core {
	if b.engine == nil {
		panic("firmware: engine is required to build a core")
	}

	c := &Core{
		inc:    b.inc,
		budget: b.budget,
		regs:   InitialRegisters(),
	}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	return c
}
