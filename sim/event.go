package sim

import "github.com/sirupsen/logrus"

// EventType names an event kind.
type EventType string

const (
	EventTypeVMCreation         EventType = "VMCreation"
	EventTypeWorkloadSubmission EventType = "WorkloadSubmission"
	EventTypeWorkloadCompletion EventType = "WorkloadCompletion"
)

// EventTypePriority defines ordering for simultaneous events.
// Lower values are processed first
var EventTypePriority = map[EventType]int{
	EventTypeVMCreation:         1,
	EventTypeWorkloadCompletion: 2,
	EventTypeWorkloadSubmission: 3,
}

// Event defines the interface for all simulation events.
// Each event must have a Timestamp (in simulated seconds) and an Execute method
// that advances simulation state when invoked.
type Event interface {
	Timestamp() float64
	EventID() uint64
	Type() EventType
	Execute(*Simulation)
}

// BaseEvent provides common event fields
type BaseEvent struct {
	timestamp float64
	eventID   uint64
	eventType EventType
}

func (e *BaseEvent) Timestamp() float64 {
	return e.timestamp
}

func (e *BaseEvent) EventID() uint64 {
	return e.eventID
}

func (e *BaseEvent) Type() EventType {
	return e.eventType
}

// VMCreationEvent asks the datacenter to place every submitted VM.
type VMCreationEvent struct {
	BaseEvent
}

func (e *VMCreationEvent) Execute(sim *Simulation) {
	logrus.Debugf("<< VMCreation at %.3f", e.timestamp)
	sim.createVMs()
}

// WorkloadSubmissionEvent binds submitted workloads to placed VMs.
type WorkloadSubmissionEvent struct {
	BaseEvent
}

func (e *WorkloadSubmissionEvent) Execute(sim *Simulation) {
	logrus.Debugf("<< WorkloadSubmission at %.3f", e.timestamp)
	sim.submitWorkloads()
}

// WorkloadCompletionEvent wakes a VM whose next execution should complete.
// Stale events (the VM was rescheduled since) are ignored.
type WorkloadCompletionEvent struct {
	BaseEvent
	VM      *VM
	version uint64
}

func (e *WorkloadCompletionEvent) Execute(sim *Simulation) {
	if sim.vmVersion[e.VM] != e.version {
		return
	}
	sim.updateVM(e.VM)
}
