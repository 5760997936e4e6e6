package sim

import (
	"log"
	"math"
)

// Freq is a clock frequency in Hz.
type Freq float64

// Frequency units.
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

// Valid tells if f is a finite, positive frequency.
func (f Freq) Valid() bool {
	v := float64(f)

	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Period returns the time between two consecutive ticks.
func (f Freq) Period() VTimeInSec {
	f.mustBeValid()

	return VTimeInSec(1.0 / f)
}

// ThisTick returns the first tick at or after now.
//
//	           now
//	           (          ]
//	|----------|----------|----------|----->
//	                      |
//	                      ThisTick
func (f Freq) ThisTick(now VTimeInSec) VTimeInSec {
	return VTimeInSec(math.Ceil(f.cycles(now)) / float64(f))
}

// NextTick returns the first tick strictly after now.
//
//	           now
//	           [          )
//	|----------|----------|----------|----->
//	                      |
//	                      NextTick
func (f Freq) NextTick(now VTimeInSec) VTimeInSec {
	return VTimeInSec((math.Floor(f.cycles(now)) + 1) / float64(f))
}

// cycles converts now into a cycle count, rounded to a tenth of a cycle so
// that float error does not move a time across a tick boundary.
func (f Freq) cycles(now VTimeInSec) float64 {
	f.mustBeValid()
	mustBeValidTime(now)

	return math.Round(float64(now)*10*float64(f)) / 10
}

func (f Freq) mustBeValid() {
	if !f.Valid() {
		log.Panicf("invalid frequency %g", float64(f))
	}
}

func mustBeValidTime(t VTimeInSec) {
	if math.IsNaN(float64(t)) || math.IsInf(float64(t), 0) {
		log.Panic("invalid time")
	}
}
