package sim

import "container/heap"

// EventHeap is the queue of pending simulation events. Events pop in
// (timestamp, type priority, event ID) order, so simultaneous events are
// processed the same way on every run.
type EventHeap struct {
	q eventQueue
}

// NewEventHeap creates an empty event heap
func NewEventHeap() *EventHeap {
	return &EventHeap{}
}

// Len is the number of pending events.
func (h *EventHeap) Len() int {
	return h.q.Len()
}

// Schedule adds an event to the heap
func (h *EventHeap) Schedule(e Event) {
	heap.Push(&h.q, e)
}

// PopNext removes and returns the next event, or nil when empty.
func (h *EventHeap) PopNext() Event {
	if h.q.Len() == 0 {
		return nil
	}
	return heap.Pop(&h.q).(Event)
}

// Peek returns the next event without removing it, or nil when empty.
func (h *EventHeap) Peek() Event {
	if h.q.Len() == 0 {
		return nil
	}
	return h.q[0]
}

// precedes is the total order of the heap.
func precedes(a, b Event) bool {
	if a.Timestamp() != b.Timestamp() {
		return a.Timestamp() < b.Timestamp()
	}
	if pa, pb := EventTypePriority[a.Type()], EventTypePriority[b.Type()]; pa != pb {
		return pa < pb
	}
	return a.EventID() < b.EventID()
}

// eventQueue implements heap.Interface.
type eventQueue []Event

func (q eventQueue) Len() int           { return len(q) }
func (q eventQueue) Less(i, j int) bool { return precedes(q[i], q[j]) }
func (q eventQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) {
	*q = append(*q, x.(Event))
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}
