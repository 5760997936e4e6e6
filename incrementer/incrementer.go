// Package incrementer provides the fixed-step 16-bit arithmetic that the
// firmware loop runs on every iteration.
package incrementer

// DefaultStep is the addend baked into the firmware image.
const DefaultStep uint16 = 7

// An Incrementer adds a fixed step to 16-bit values. All arithmetic wraps
// modulo 65536.
type Incrementer struct {
	step uint16
}

// New returns an Incrementer that uses DefaultStep.
func New() Incrementer {
	return Incrementer{step: DefaultStep}
}

// NewWithStep returns an Incrementer with a custom step.
func NewWithStep(step uint16) Incrementer {
	return Incrementer{step: step}
}

// Step returns the addend.
func (i Incrementer) Step() uint16 {
	return i.step
}

// IncrementOnce returns x + step.
func (i Incrementer) IncrementOnce(x uint16) uint16 {
	return x + i.step
}

// IncrementTwice returns IncrementOnce(x) + IncrementOnce(x). The two calls
// are independent, and each sum wraps on its own.
func (i Incrementer) IncrementTwice(x uint16) uint16 {
	return i.IncrementOnce(x) + i.IncrementOnce(x)
}

// IncrementOnce applies the default Incrementer.
func IncrementOnce(x uint16) uint16 {
	return New().IncrementOnce(x)
}

// IncrementTwice applies the default Incrementer.
func IncrementTwice(x uint16) uint16 {
	return New().IncrementTwice(x)
}
