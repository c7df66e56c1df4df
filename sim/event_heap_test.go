package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent(ts float64, typ EventType, id uint64) Event {
	return &VMCreationEvent{BaseEvent: BaseEvent{timestamp: ts, eventType: typ, eventID: id}}
}

func TestEventHeap_TimestampOrdering(t *testing.T) {
	h := NewEventHeap()
	h.Schedule(testEvent(1.5, EventTypeWorkloadCompletion, 1))
	h.Schedule(testEvent(0.5, EventTypeWorkloadCompletion, 2))
	h.Schedule(testEvent(3, EventTypeWorkloadCompletion, 3))

	var got []float64
	for h.Len() > 0 {
		got = append(got, h.PopNext().Timestamp())
	}
	assert.Equal(t, []float64{0.5, 1.5, 3}, got)
}

func TestEventHeap_TypePriorityThenID(t *testing.T) {
	// GIVEN simultaneous events scheduled in reverse priority order
	h := NewEventHeap()
	h.Schedule(testEvent(0, EventTypeWorkloadSubmission, 1))
	h.Schedule(testEvent(0, EventTypeWorkloadCompletion, 3))
	h.Schedule(testEvent(0, EventTypeWorkloadCompletion, 2))
	h.Schedule(testEvent(0, EventTypeVMCreation, 4))

	// THEN placement precedes completions, which precede submission; ids break ties
	require.Equal(t, EventTypeVMCreation, h.Peek().Type())
	want := []uint64{4, 2, 3, 1}
	for _, id := range want {
		assert.Equal(t, id, h.PopNext().EventID())
	}
	assert.Nil(t, h.PopNext())
	assert.Nil(t, h.Peek())
}
