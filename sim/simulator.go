// sim/simulator.go
package sim

import (
	"math"

	"github.com/sirupsen/logrus"
)

// Result is what a completed simulation hands back to its caller.
type Result struct {
	Submitted   int         // Workloads submitted to the broker
	Finished    []*Workload // Completed workloads, in completion order
	UnplacedVMs []*VM       // VMs no host could accept
	EndTime     float64     // Clock when the event queue drained
}

// Simulation is the core object that holds simulation time, the datacenter and the event loop.
// It also plays the broker: VMs and workloads are submitted to it, workloads are bound to
// placed VMs round-robin.
type Simulation struct {
	Clock float64

	Datacenter *Datacenter
	EventQueue *EventHeap

	vms       []*VM
	workloads []*Workload
	finished  []*Workload
	unplaced  []*VM

	// vmVersion invalidates completion events scheduled before a VM's last reschedule.
	vmVersion   map[*VM]uint64
	nextEventID uint64
}

// NewSimulation creates a simulation over dc.
func NewSimulation(dc *Datacenter) *Simulation {
	return &Simulation{
		Datacenter: dc,
		EventQueue: NewEventHeap(),
		vmVersion:  make(map[*VM]uint64),
	}
}

// SubmitVMs queues VMs for placement at time zero.
func (s *Simulation) SubmitVMs(vms []*VM) {
	s.vms = append(s.vms, vms...)
}

// SubmitWorkloads queues workloads for binding at time zero.
func (s *Simulation) SubmitWorkloads(ws []*Workload) {
	s.workloads = append(s.workloads, ws...)
}

// Schedule pushes an event into the simulator's EventQueue.
func (s *Simulation) Schedule(ev Event) {
	s.EventQueue.Schedule(ev)
}

func (s *Simulation) newBaseEvent(timestamp float64, eventType EventType) BaseEvent {
	s.nextEventID++
	return BaseEvent{timestamp: timestamp, eventID: s.nextEventID, eventType: eventType}
}

// Run executes the simulation until no events remain.
func (s *Simulation) Run() *Result {
	s.Schedule(&VMCreationEvent{BaseEvent: s.newBaseEvent(0, EventTypeVMCreation)})
	s.Schedule(&WorkloadSubmissionEvent{BaseEvent: s.newBaseEvent(0, EventTypeWorkloadSubmission)})

	for s.EventQueue.Len() > 0 {
		ev := s.EventQueue.PopNext()
		s.Clock = ev.Timestamp()
		ev.Execute(s)
	}
	logrus.Debugf("[t=%.3f] Simulation ended, %d/%d workloads finished", s.Clock, len(s.finished), len(s.workloads))

	finished := make([]*Workload, len(s.finished))
	copy(finished, s.finished)
	return &Result{
		Submitted:   len(s.workloads),
		Finished:    finished,
		UnplacedVMs: s.unplaced,
		EndTime:     s.Clock,
	}
}

func (s *Simulation) createVMs() {
	for _, vm := range s.vms {
		if err := s.Datacenter.Place(vm); err != nil {
			logrus.Warnf("vm creation failed: %v", err)
			s.unplaced = append(s.unplaced, vm)
		}
	}
}

func (s *Simulation) submitWorkloads() {
	placed := make([]*VM, 0, len(s.vms))
	for _, vm := range s.vms {
		if vm.Placed() {
			placed = append(placed, vm)
		}
	}
	if len(placed) == 0 {
		logrus.Warnf("no VM was placed; %d workloads cannot run", len(s.workloads))
		for _, w := range s.workloads {
			w.Status = StatusFailed
		}
		return
	}

	touched := make([]*VM, 0, len(placed))
	seen := make(map[*VM]bool, len(placed))
	for i, w := range s.workloads {
		vm := placed[i%len(placed)]
		w.VM = vm
		s.collect(vm.Scheduler.Update(vm, s.Clock))
		vm.Scheduler.Submit(vm, w, s.Clock)
		if !seen[vm] {
			seen[vm] = true
			touched = append(touched, vm)
		}
	}
	for _, vm := range touched {
		s.scheduleNext(vm)
	}
}

func (s *Simulation) updateVM(vm *VM) {
	s.collect(vm.Scheduler.Update(vm, s.Clock))
	s.scheduleNext(vm)
}

func (s *Simulation) collect(done []*ExecutionRecord) {
	for _, r := range done {
		logrus.Debugf("workload %d finished on vm %d at %.3f (expected %.3f)",
			r.Workload.ID, r.Workload.VM.ID, r.FinishTime, r.ExpectedFinishTime)
		s.finished = append(s.finished, r.Workload)
	}
}

func (s *Simulation) scheduleNext(vm *VM) {
	s.vmVersion[vm]++
	next := vm.Scheduler.NextCompletion()
	if math.IsInf(next, 1) {
		return
	}
	s.Schedule(&WorkloadCompletionEvent{
		BaseEvent: s.newBaseEvent(max(next, s.Clock), EventTypeWorkloadCompletion),
		VM:        vm,
		version:   s.vmVersion[vm],
	})
}
