package sim

import "sync"

// TickEvent asks a ticking component to run one cycle.
type TickEvent struct {
	EventBase
}

// MakeTickEvent creates a TickEvent for handler at time t.
func MakeTickEvent(handler Handler, t VTimeInSec) TickEvent {
	return TickEvent{EventBase: *NewEventBase(t, handler)}
}

// A Ticker advances its state by one cycle. It returns false when it has
// nothing more to do.
type Ticker interface {
	Tick() bool
}

// TickScheduler schedules tick events on cycle boundaries, keeping at most
// one tick pending.
type TickScheduler struct {
	Freq   Freq
	Engine Engine

	lock    sync.Mutex
	handler Handler
	pending VTimeInSec
}

// NewTickScheduler creates a scheduler that delivers ticks to handler.
func NewTickScheduler(
	handler Handler,
	engine Engine,
	freq Freq,
) *TickScheduler {
	return &TickScheduler{
		Freq:    freq,
		Engine:  engine,
		handler: handler,
		pending: -1,
	}
}

// TickNow schedules a tick on the current cycle.
func (t *TickScheduler) TickNow() {
	t.scheduleAt(t.Freq.ThisTick(t.CurrentTime()))
}

// TickLater schedules a tick on the cycle after the current time.
func (t *TickScheduler) TickLater() {
	t.scheduleAt(t.Freq.NextTick(t.CurrentTime()))
}

func (t *TickScheduler) scheduleAt(at VTimeInSec) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if at <= t.pending {
		return
	}

	t.pending = at
	t.Engine.Schedule(MakeTickEvent(t.handler, at))
}

// CurrentTime returns the engine time.
func (t *TickScheduler) CurrentTime() VTimeInSec {
	return t.Engine.CurrentTime()
}

// TickingComponent is a component driven cycle by cycle by its Ticker. It
// keeps ticking as long as the Ticker reports progress.
type TickingComponent struct {
	*ComponentBase
	*TickScheduler

	ticker Ticker
}

// NewTickingComponent creates a TickingComponent named name.
func NewTickingComponent(
	name string,
	engine Engine,
	freq Freq,
	ticker Ticker,
) *TickingComponent {
	tc := &TickingComponent{
		ComponentBase: NewComponentBase(name),
		ticker:        ticker,
	}
	tc.TickScheduler = NewTickScheduler(tc, engine, freq)

	return tc
}

// Handle runs one tick and asks for the next one if it made progress.
func (c *TickingComponent) Handle(_ Event) error {
	if c.ticker.Tick() {
		c.TickLater()
	}

	return nil
}
