package sim

import "math"

// VTimeInSec is a point in simulated time, in seconds.
type VTimeInSec float64

// An Event is something that happens to a Handler at a point in time.
type Event interface {
	Time() VTimeInSec
	Handler() Handler
}

// A Handler reacts to the events scheduled for it.
type Handler interface {
	Handle(e Event) error
}

// EventBase carries the fields every event needs.
type EventBase struct {
	ID      string
	time    VTimeInSec
	handler Handler
}

// NewEventBase creates an EventBase with a fresh ID.
func NewEventBase(t VTimeInSec, handler Handler) *EventBase {
	return &EventBase{
		ID:      GetIDGenerator().Generate(),
		time:    t,
		handler: handler,
	}
}

// Time returns when the event happens.
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// Handler returns who handles the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

func vtimeToBits(t VTimeInSec) uint64 {
	return math.Float64bits(float64(t))
}

func vtimeFromBits(b uint64) VTimeInSec {
	return VTimeInSec(math.Float64frombits(b))
}
