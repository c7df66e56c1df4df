// Defines the Workload struct that models one unit of simulated work submitted to a VM,
// and the ExecutionRecord the VM scheduler keeps while the workload runs.

package sim

import (
	"fmt"
)

// WorkloadStatus represents the lifecycle state of a workload.
type WorkloadStatus string

const (
	StatusInstantiated WorkloadStatus = "INSTANTIATED"
	StatusQueued       WorkloadStatus = "QUEUED"
	StatusExecuting    WorkloadStatus = "INEXEC"
	StatusSuccess      WorkloadStatus = "SUCCESS"
	StatusFailed       WorkloadStatus = "FAILED"
)

// oversubscriptionEpsilon is the smallest accumulated delay (in seconds)
// that counts as oversubscription.
const oversubscriptionEpsilon = 1e-9

type Workload struct {
	ID         int   // Unique identifier for the workload
	PEs        int   // Requested processing elements
	Length     int64 // Instructions to execute, in MI
	FileSize   int64 // Input size
	OutputSize int64 // Output size

	Status         WorkloadStatus
	SubmissionTime float64 // Time the workload reached its VM
	ExecStartTime  float64 // Time execution started (after any wait in the VM queue)
	FinishTime     float64 // Time execution completed; -1 until then

	VM *VM // Bound VM; nil until the broker binds it

	CPU UtilizationModel
	RAM UtilizationModel
	BW  UtilizationModel
}

// NewWorkload creates a workload with full CPU utilization and no RAM/BW models.
func NewWorkload(id, pes int, length int64) *Workload {
	return &Workload{
		ID:         id,
		PEs:        pes,
		Length:     length,
		Status:     StatusInstantiated,
		FinishTime: -1,
		CPU:        UtilizationFull{},
	}
}

// Finished reports whether the workload completed successfully.
func (w *Workload) Finished() bool {
	return w.Status == StatusSuccess
}

// ExecTime is the wall time spent executing.
func (w *Workload) ExecTime() float64 {
	if !w.Finished() {
		return 0
	}
	return w.FinishTime - w.ExecStartTime
}

// StartWaitTime is the time spent queued in the VM before execution started.
func (w *Workload) StartWaitTime() float64 {
	return w.ExecStartTime - w.SubmissionTime
}

// Host returns the host of the bound VM, or nil.
func (w *Workload) Host() *Host {
	if w.VM == nil {
		return nil
	}
	return w.VM.Host
}

func (w Workload) String() string {
	return fmt.Sprintf("Workload: (ID: %d, PEs: %d, Length: %d, Status: %s)", w.ID, w.PEs, w.Length, w.Status)
}

// ExecutionRecord is the VM scheduler's trace of one workload.
//
// ExpectedFinishTime is fixed at admission from the nominal, uncontended rate.
// While executing, every interval in which the granted rate falls below the
// nominal rate adds to the oversubscription delay.
type ExecutionRecord struct {
	Workload *Workload

	ArrivalTime        float64
	StartTime          float64
	FinishTime         float64
	ExpectedFinishTime float64

	// Sampled once at admission.
	RAMUtilization float64
	BWUtilization  float64

	effectivePEs int
	nominalRate  float64 // MI per second without contention
	rate         float64 // MI per second currently granted
	remaining    float64 // MI left
	delay        float64 // accumulated oversubscription delay, seconds
}

func newExecutionRecord(w *Workload, clock float64) *ExecutionRecord {
	return &ExecutionRecord{
		Workload:    w,
		ArrivalTime: clock,
		StartTime:   -1,
		FinishTime:  -1,
		remaining:   float64(w.Length),
	}
}

// admit starts execution at clock with the given effective PE count.
func (r *ExecutionRecord) admit(vm *VM, clock float64) {
	w := r.Workload
	r.StartTime = clock
	r.effectivePEs = min(w.PEs, vm.PEs)
	r.nominalRate = float64(r.effectivePEs) * vm.MIPS * cpuUtilization(w, clock)
	if r.nominalRate > 0 {
		r.ExpectedFinishTime = clock + r.remaining/r.nominalRate
	}
	if w.RAM != nil {
		r.RAMUtilization = w.RAM.Utilization(clock)
	}
	if w.BW != nil {
		r.BWUtilization = w.BW.Utilization(clock)
	}
	w.ExecStartTime = clock
	w.Status = StatusExecuting
}

// advance executes dt seconds at the current rate.
func (r *ExecutionRecord) advance(dt float64) {
	if dt <= 0 {
		return
	}
	r.remaining -= r.rate * dt
	if r.nominalRate > 0 && r.rate < r.nominalRate {
		r.delay += dt * (1 - r.rate/r.nominalRate)
	}
}

// timeToFinish is the time needed to complete at the current rate.
func (r *ExecutionRecord) timeToFinish() float64 {
	if r.rate <= 0 {
		return inf
	}
	return max(0, r.remaining) / r.rate
}

func (r *ExecutionRecord) finish(clock float64) {
	r.remaining = 0
	r.FinishTime = clock
	r.Workload.FinishTime = clock
	r.Workload.Status = StatusSuccess
}

// OversubscriptionDelay returns the accumulated delay caused by contention.
func (r *ExecutionRecord) OversubscriptionDelay() float64 {
	return r.delay
}

// HasOversubscription reports whether contention delayed this execution past
// its expected finish time. Always false before the execution finishes.
func (r *ExecutionRecord) HasOversubscription() bool {
	return r.delay > oversubscriptionEpsilon && r.FinishTime > r.ExpectedFinishTime
}

// ActualFinishTime returns the observed finish time of the workload.
func (r *ExecutionRecord) ActualFinishTime() float64 {
	return r.FinishTime
}

func cpuUtilization(w *Workload, clock float64) float64 {
	if w.CPU == nil {
		return 1
	}
	return w.CPU.Utilization(clock)
}

// NewCompletedExecution builds a finished record from observed timings, for
// engines that replay traces rather than executing workloads. Any excess of
// finish over expectedFinish is treated as oversubscription delay.
func NewCompletedExecution(w *Workload, start, expectedFinish, finish float64) *ExecutionRecord {
	r := newExecutionRecord(w, start)
	r.StartTime = start
	r.ExpectedFinishTime = expectedFinish
	r.remaining = 0
	r.FinishTime = finish
	if finish > expectedFinish {
		r.delay = finish - expectedFinish
	}
	w.ExecStartTime = start
	w.FinishTime = finish
	w.Status = StatusSuccess
	return r
}
