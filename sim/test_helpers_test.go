package sim

import "testing"

// newUniformCluster builds 4 hosts x 8 PEs, 8 VMs x 4 PEs and 50 workloads x 2 PEs.
func newUniformCluster(t *testing.T, hostSched func() HostScheduler, vmSched func() VMScheduler) (*Datacenter, []*VM, []*Workload) {
	t.Helper()
	hosts := make([]*Host, 0, 4)
	for i := 0; i < 4; i++ {
		hosts = append(hosts, NewHost(i, 8, 2000, 12288, 8000, 1_000_000, hostSched()))
	}
	dc := NewDatacenter(hosts, NewSimpleAllocation())

	vms := make([]*VM, 0, 8)
	for i := 0; i < 8; i++ {
		vms = append(vms, NewVM(i, 4, 1500, 4048, 500, 100_000, vmSched()))
	}

	ws := make([]*Workload, 0, 50)
	for i := 0; i < 50; i++ {
		ws = append(ws, NewWorkload(i, 2, 10_000))
	}
	return dc, vms, ws
}

func timeSharedHost() HostScheduler  { return NewTimeSharedHostScheduler() }
func spaceSharedHost() HostScheduler { return NewSpaceSharedHostScheduler() }
func timeSharedVM() VMScheduler      { return NewTimeSharedVMScheduler() }
func spaceSharedVM() VMScheduler     { return NewSpaceSharedVMScheduler() }
