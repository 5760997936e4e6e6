package sim

import (
	"fmt"
	"log"
	"reflect"
	"sync"
	"sync/atomic"
)

// A SerialEngine handles events one at a time, in time order.
type SerialEngine struct {
	HookableBase

	queue      EventQueue
	now        atomic.Uint64
	eventCount atomic.Uint64

	gateLock sync.Mutex
	gate     *sync.Cond
	paused   bool

	runLock sync.Mutex

	endHandlersLock sync.Mutex
	endHandlers     []SimulationEndHandler
}

// NewSerialEngine creates a SerialEngine with an empty queue at time 0.
func NewSerialEngine() *SerialEngine {
	e := &SerialEngine{queue: NewEventQueue()}
	e.gate = sync.NewCond(&e.gateLock)

	return e
}

// Schedule queues an event. Scheduling before the current time panics.
func (e *SerialEngine) Schedule(evt Event) {
	if now := e.CurrentTime(); evt.Time() < now {
		log.Panicf("scheduling %s @ %.10f, before now %.10f",
			reflect.TypeOf(evt), evt.Time(), now)
	}

	e.queue.Push(evt)
}

// CurrentTime returns the time of the latest event taken from the queue.
func (e *SerialEngine) CurrentTime() VTimeInSec {
	return vtimeFromBits(e.now.Load())
}

// Run handles events until the queue is empty. It stops at the first handler
// error and returns it wrapped.
func (e *SerialEngine) Run() error {
	e.runLock.Lock()
	defer e.runLock.Unlock()

	for {
		e.waitWhilePaused()

		evt := e.queue.Pop()
		if evt == nil {
			return nil
		}

		if err := e.handle(evt); err != nil {
			return err
		}
	}
}

func (e *SerialEngine) handle(evt Event) error {
	e.now.Store(vtimeToBits(evt.Time()))

	ctx := HookCtx{Domain: e, Pos: HookPosBeforeEvent, Item: evt}
	e.InvokeHook(ctx)

	err := evt.Handler().Handle(evt)
	e.eventCount.Add(1)

	ctx.Pos = HookPosAfterEvent
	e.InvokeHook(ctx)

	if err != nil {
		return fmt.Errorf("handling %s @ %.10f: %w",
			reflect.TypeOf(evt), evt.Time(), err)
	}

	return nil
}

func (e *SerialEngine) waitWhilePaused() {
	e.gateLock.Lock()
	defer e.gateLock.Unlock()

	for e.paused {
		e.gate.Wait()
	}
}

// Pause stops Run before its next event. The event being handled, if any,
// completes.
func (e *SerialEngine) Pause() {
	e.gateLock.Lock()
	e.paused = true
	e.gateLock.Unlock()
}

// Continue releases a paused Run. It is a no-op if the engine is not paused.
func (e *SerialEngine) Continue() {
	e.gateLock.Lock()
	e.paused = false
	e.gateLock.Unlock()

	e.gate.Broadcast()
}

// IsPaused tells if the engine is currently held by Pause.
func (e *SerialEngine) IsPaused() bool {
	e.gateLock.Lock()
	defer e.gateLock.Unlock()

	return e.paused
}

// EventCount returns the number of events that have been handled.
func (e *SerialEngine) EventCount() uint64 {
	return e.eventCount.Load()
}

// RegisterSimulationEndHandler registers a handler to be invoked by Finished.
func (e *SerialEngine) RegisterSimulationEndHandler(
	handler SimulationEndHandler,
) {
	e.endHandlersLock.Lock()
	defer e.endHandlersLock.Unlock()

	e.endHandlers = append(e.endHandlers, handler)
}

// Finished calls every registered SimulationEndHandler with the current time.
func (e *SerialEngine) Finished() {
	e.endHandlersLock.Lock()
	handlers := append([]SimulationEndHandler(nil), e.endHandlers...)
	e.endHandlersLock.Unlock()

	now := e.CurrentTime()
	for _, h := range handlers {
		h.Handle(now)
	}
}
