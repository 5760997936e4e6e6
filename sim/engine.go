package sim

// A SimulationEndHandler is told the final time when a run is finished.
type SimulationEndHandler interface {
	Handle(now VTimeInSec)
}

// An Engine owns simulated time and dispatches events in time order.
type Engine interface {
	Hookable

	// CurrentTime returns the time of the event being handled, or of the last
	// handled event between events.
	CurrentTime() VTimeInSec

	// Schedule queues an event. The event must not be earlier than
	// CurrentTime.
	Schedule(e Event)

	// Run handles events until the queue drains or a handler fails.
	Run() error

	// Pause holds Run before its next event. Continue releases it.
	Pause()
	Continue()

	// RegisterSimulationEndHandler adds a handler that Finished calls.
	RegisterSimulationEndHandler(handler SimulationEndHandler)

	// Finished notifies the end handlers.
	Finished()
}
