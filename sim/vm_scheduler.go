package sim

import "math"

var inf = math.Inf(1)

// finishTolerance absorbs floating-point residue (in MI) when deciding that
// an execution has completed.
const finishTolerance = 1e-6

// VMScheduler arbitrates a VM's PEs among the workloads bound to it.
// Instances are stateful and belong to exactly one VM.
//
// The simulation always calls Update(vm, clock) before Submit at the same clock.
type VMScheduler interface {
	// Submit queues w at clock and admits whatever the policy allows.
	Submit(vm *VM, w *Workload, clock float64)
	// Update advances running executions to clock and returns those that completed.
	Update(vm *VM, clock float64) []*ExecutionRecord
	// NextCompletion is the earliest time a running execution completes, or +Inf.
	NextCompletion() float64
	// Finished returns completed executions in completion order.
	Finished() []*ExecutionRecord
}

// executionQueue holds the bookkeeping shared by the VM schedulers.
type executionQueue struct {
	waiting    []*ExecutionRecord
	running    []*ExecutionRecord
	finished   []*ExecutionRecord
	lastUpdate float64
}

func (q *executionQueue) enqueue(w *Workload, clock float64) {
	w.SubmissionTime = clock
	w.Status = StatusQueued
	q.waiting = append(q.waiting, newExecutionRecord(w, clock))
}

// advance progresses running executions to clock and moves completed ones to finished.
func (q *executionQueue) advance(clock float64) []*ExecutionRecord {
	dt := clock - q.lastUpdate
	q.lastUpdate = clock
	var done []*ExecutionRecord
	still := make([]*ExecutionRecord, 0, len(q.running))
	for _, r := range q.running {
		r.advance(dt)
		if r.remaining <= finishTolerance {
			r.finish(clock)
			done = append(done, r)
			continue
		}
		still = append(still, r)
	}
	q.running = still
	q.finished = append(q.finished, done...)
	return done
}

func (q *executionQueue) NextCompletion() float64 {
	next := inf
	for _, r := range q.running {
		next = min(next, q.lastUpdate+r.timeToFinish())
	}
	return next
}

func (q *executionQueue) Finished() []*ExecutionRecord {
	out := make([]*ExecutionRecord, len(q.finished))
	copy(out, q.finished)
	return out
}

// TimeSharedVMScheduler runs every submitted workload at once. When the PEs
// requested by running workloads exceed the VM's PEs, capacity is shared
// proportionally and each execution is slowed down.
type TimeSharedVMScheduler struct {
	executionQueue
}

func NewTimeSharedVMScheduler() *TimeSharedVMScheduler { return &TimeSharedVMScheduler{} }

func (s *TimeSharedVMScheduler) Submit(vm *VM, w *Workload, clock float64) {
	s.enqueue(w, clock)
	s.reschedule(vm, clock)
}

func (s *TimeSharedVMScheduler) Update(vm *VM, clock float64) []*ExecutionRecord {
	done := s.advance(clock)
	if len(done) > 0 {
		s.reschedule(vm, clock)
	}
	return done
}

func (s *TimeSharedVMScheduler) reschedule(vm *VM, clock float64) {
	for _, r := range s.waiting {
		r.admit(vm, clock)
		s.running = append(s.running, r)
	}
	s.waiting = s.waiting[:0]

	demand := 0.0
	for _, r := range s.running {
		demand += float64(r.effectivePEs) * cpuUtilization(r.Workload, clock)
	}
	share := 1.0
	if demand > float64(vm.PEs) {
		share = float64(vm.PEs) / demand
	}
	for _, r := range s.running {
		r.rate = float64(r.effectivePEs) * vm.MIPS * cpuUtilization(r.Workload, clock) * share
	}
}

// SpaceSharedVMScheduler dedicates PEs to each running workload. Workloads
// that do not fit wait in submission order until PEs are released.
type SpaceSharedVMScheduler struct {
	executionQueue
}

func NewSpaceSharedVMScheduler() *SpaceSharedVMScheduler { return &SpaceSharedVMScheduler{} }

func (s *SpaceSharedVMScheduler) Submit(vm *VM, w *Workload, clock float64) {
	s.enqueue(w, clock)
	s.reschedule(vm, clock)
}

func (s *SpaceSharedVMScheduler) Update(vm *VM, clock float64) []*ExecutionRecord {
	done := s.advance(clock)
	if len(done) > 0 {
		s.reschedule(vm, clock)
	}
	return done
}

func (s *SpaceSharedVMScheduler) reschedule(vm *VM, clock float64) {
	free := vm.PEs
	for _, r := range s.running {
		free -= r.effectivePEs
	}
	still := make([]*ExecutionRecord, 0, len(s.waiting))
	for _, r := range s.waiting {
		need := min(r.Workload.PEs, vm.PEs)
		if need > free {
			still = append(still, r)
			continue
		}
		r.admit(vm, clock)
		r.rate = r.nominalRate
		free -= r.effectivePEs
		s.running = append(s.running, r)
	}
	s.waiting = still
}
