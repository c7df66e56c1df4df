package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeSharedVMScheduler_SharesCapacityProportionally(t *testing.T) {
	// GIVEN a 4-PE VM at 1000 MIPS and two 4-PE workloads of 4000 MI
	vm := NewVM(0, 4, 1000, 0, 0, 0, NewTimeSharedVMScheduler())
	a, b := NewWorkload(0, 4, 4000), NewWorkload(1, 4, 4000)

	// WHEN both are submitted at t=0
	vm.Scheduler.Submit(vm, a, 0)
	vm.Scheduler.Submit(vm, b, 0)

	// THEN each gets half the VM and completes at t=2 instead of t=1
	next := vm.Scheduler.NextCompletion()
	assert.InDelta(t, 2.0, next, 1e-9)

	done := vm.Scheduler.Update(vm, next)
	require.Len(t, done, 2)
	for _, r := range done {
		assert.InDelta(t, 1.0, r.ExpectedFinishTime, 1e-9)
		assert.InDelta(t, 2.0, r.ActualFinishTime(), 1e-9)
		assert.InDelta(t, 1.0, r.OversubscriptionDelay(), 1e-9)
		assert.True(t, r.HasOversubscription())
	}
	assert.True(t, math.IsInf(vm.Scheduler.NextCompletion(), 1))
}

func TestTimeSharedVMScheduler_NoContention_NoOversubscription(t *testing.T) {
	vm := NewVM(0, 4, 1000, 0, 0, 0, NewTimeSharedVMScheduler())
	w := NewWorkload(0, 2, 2000)
	vm.Scheduler.Submit(vm, w, 0)

	done := vm.Scheduler.Update(vm, vm.Scheduler.NextCompletion())

	require.Len(t, done, 1)
	assert.InDelta(t, 1.0, done[0].ActualFinishTime(), 1e-9)
	assert.False(t, done[0].HasOversubscription())
}

func TestTimeSharedVMScheduler_WorkloadWiderThanVM_UsesVMPEs(t *testing.T) {
	// GIVEN a 4-PE workload on a 1-PE VM
	vm := NewVM(0, 1, 500, 0, 0, 0, NewTimeSharedVMScheduler())
	w := NewWorkload(0, 4, 1000)
	vm.Scheduler.Submit(vm, w, 0)

	// THEN nominal rate is capped at the VM's single PE and no delay accrues
	done := vm.Scheduler.Update(vm, vm.Scheduler.NextCompletion())
	require.Len(t, done, 1)
	assert.InDelta(t, 2.0, done[0].ExpectedFinishTime, 1e-9)
	assert.False(t, done[0].HasOversubscription())
}

func TestSpaceSharedVMScheduler_QueuesUntilPEsFree(t *testing.T) {
	// GIVEN a 2-PE VM and three 2-PE workloads
	vm := NewVM(0, 2, 1000, 0, 0, 0, NewSpaceSharedVMScheduler())
	ws := []*Workload{NewWorkload(0, 2, 2000), NewWorkload(1, 2, 2000), NewWorkload(2, 2, 2000)}
	for _, w := range ws {
		vm.Scheduler.Submit(vm, w, 0)
	}
	assert.Equal(t, StatusExecuting, ws[0].Status)
	assert.Equal(t, StatusQueued, ws[1].Status)

	// WHEN time advances through every completion
	var order []int
	for clock := vm.Scheduler.NextCompletion(); !math.IsInf(clock, 1); clock = vm.Scheduler.NextCompletion() {
		for _, r := range vm.Scheduler.Update(vm, clock) {
			order = append(order, r.Workload.ID)
		}
	}

	// THEN they ran one after another in submission order without oversubscription
	assert.Equal(t, []int{0, 1, 2}, order)
	assert.InDelta(t, 3.0, ws[2].FinishTime, 1e-9)
	assert.InDelta(t, 2.0, ws[2].StartWaitTime(), 1e-9)
	for _, r := range vm.Scheduler.Finished() {
		assert.False(t, r.HasOversubscription())
		assert.InDelta(t, r.ExpectedFinishTime, r.ActualFinishTime(), 1e-9)
	}
}

func TestExecutionRecord_SamplesRAMAndBWAtAdmission(t *testing.T) {
	vm := NewVM(0, 1, 1000, 0, 0, 0, NewSpaceSharedVMScheduler())
	w := NewWorkload(0, 1, 1000)
	w.RAM = NewUtilizationDynamic(0.25)
	w.BW = UtilizationFull{}
	vm.Scheduler.Submit(vm, w, 0)
	done := vm.Scheduler.Update(vm, vm.Scheduler.NextCompletion())

	require.Len(t, done, 1)
	assert.Equal(t, 0.25, done[0].RAMUtilization)
	assert.Equal(t, 1.0, done[0].BWUtilization)
}

func TestNewCompletedExecution_DelayFromTimings(t *testing.T) {
	late := NewCompletedExecution(NewWorkload(0, 1, 100), 0, 10, 15)
	assert.True(t, late.HasOversubscription())
	assert.Equal(t, 5.0, late.OversubscriptionDelay())
	assert.Equal(t, StatusSuccess, late.Workload.Status)

	onTime := NewCompletedExecution(NewWorkload(1, 1, 100), 0, 10, 10)
	assert.False(t, onTime.HasOversubscription())
}

func TestHostSchedulers_Admission(t *testing.T) {
	tests := []struct {
		name      string
		scheduler HostScheduler
		vms       []*VM
		wantFits  []bool
		wantFree  int
	}{
		{
			name:      "space-shared dedicates PEs",
			scheduler: NewSpaceSharedHostScheduler(),
			vms:       []*VM{NewVM(0, 4, 1500, 0, 0, 0, nil), NewVM(1, 4, 1500, 0, 0, 0, nil), NewVM(2, 1, 100, 0, 0, 0, nil)},
			wantFits:  []bool{true, true, false},
			wantFree:  0,
		},
		{
			name:      "time-shared budgets MIPS",
			scheduler: NewTimeSharedHostScheduler(),
			vms:       []*VM{NewVM(0, 4, 1500, 0, 0, 0, nil), NewVM(1, 4, 1500, 0, 0, 0, nil), NewVM(2, 2, 1000, 0, 0, 0, nil)},
			wantFits:  []bool{true, true, true},
			wantFree:  1, // 16000 - 12000 - 2000 = 2000 MIPS = 1 PE
		},
		{
			name:      "per-PE demand above host PE is rejected",
			scheduler: NewTimeSharedHostScheduler(),
			vms:       []*VM{NewVM(0, 1, 2500, 0, 0, 0, nil)},
			wantFits:  []bool{false},
			wantFree:  8,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := NewHost(0, 8, 2000, 0, 0, 0, tt.scheduler)
			for i, vm := range tt.vms {
				assert.Equal(t, tt.wantFits[i], tt.scheduler.Allocate(host, vm), "vm %d", i)
			}
			assert.Equal(t, tt.wantFree, host.FreePEs())
		})
	}
}
