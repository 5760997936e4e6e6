package sim

import (
	"container/heap"
	"sync"
)

// EventQueue holds pending events, earliest first.
type EventQueue interface {
	Push(evt Event)
	Pop() Event
	Len() int
}

// EventQueueImpl is a goroutine-safe EventQueue backed by a binary heap.
type EventQueueImpl struct {
	lock   sync.Mutex
	events eventHeap
}

// NewEventQueue creates an empty EventQueueImpl.
func NewEventQueue() *EventQueueImpl {
	return &EventQueueImpl{}
}

// Push adds an event.
func (q *EventQueueImpl) Push(evt Event) {
	q.lock.Lock()
	defer q.lock.Unlock()

	heap.Push(&q.events, evt)
}

// Pop removes and returns the earliest event, or nil if there is none.
func (q *EventQueueImpl) Pop() Event {
	q.lock.Lock()
	defer q.lock.Unlock()

	if len(q.events) == 0 {
		return nil
	}

	return heap.Pop(&q.events).(Event)
}

// Len returns the number of pending events.
func (q *EventQueueImpl) Len() int {
	q.lock.Lock()
	defer q.lock.Unlock()

	return len(q.events)
}

type eventHeap []Event

func (h eventHeap) Len() int           { return len(h) }
func (h eventHeap) Less(i, j int) bool { return h[i].Time() < h[j].Time() }
func (h eventHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	evt := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]

	return evt
}
