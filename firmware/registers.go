// Package firmware models the counter firmware as a ticking component. Every
// tick runs one iteration of the firmware's main loop.
package firmware

import "github.com/sarchlab/incsim/incrementer"

// IterationStride is how much the iteration counter advances per iteration.
const IterationStride uint16 = 2

// InitialAccumulator is the value the accumulator holds before the first
// iteration overwrites it.
const InitialAccumulator uint16 = 11

// Registers is the architectural state of the firmware.
type Registers struct {
	// Accumulator holds the latest Incrementer output. The loop never reads
	// it back.
	Accumulator uint16

	// Counter is the loop input. It advances by IterationStride and wraps
	// modulo 65536.
	Counter uint16

	// ByteCounter advances by one per iteration and wraps modulo 256. Nothing
	// consumes it.
	ByteCounter uint8
}

// InitialRegisters returns the register state at reset.
func InitialRegisters() Registers {
	return Registers{Accumulator: InitialAccumulator}
}

// Step runs one iteration of the loop body on regs.
func Step(inc incrementer.Incrementer, regs Registers) Registers {
	regs.Accumulator = inc.IncrementTwice(regs.Counter)
	regs.Counter += IterationStride
	regs.ByteCounter++

	return regs
}

// Run applies Step n times starting from regs.
func Run(inc incrementer.Incrementer, regs Registers, n uint64) Registers {
	for i := uint64(0); i < n; i++ {
		regs = Step(inc, regs)
	}

	return regs
}
