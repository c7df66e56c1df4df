package sim

import "math"

// HostScheduler arbitrates a host's PEs among the VMs placed on it.
// Instances are stateful and belong to exactly one host.
type HostScheduler interface {
	// Fits reports whether vm's PE request can be granted on host.
	Fits(host *Host, vm *VM) bool
	// Allocate grants vm's PE request. Returns false if it no longer fits.
	Allocate(host *Host, vm *VM) bool
	// AvailablePEs is the number of whole PEs still available.
	AvailablePEs(host *Host) int
	// AvailableMIPS is the unallocated capacity across all PEs.
	AvailableMIPS(host *Host) float64
}

// TimeSharedHostScheduler lets VMs share physical PEs as long as the host's
// aggregate MIPS is not exceeded. A VM's per-PE demand must not exceed the
// capacity of a single host PE.
type TimeSharedHostScheduler struct {
	allocatedMIPS float64
}

func NewTimeSharedHostScheduler() *TimeSharedHostScheduler { return &TimeSharedHostScheduler{} }

func (s *TimeSharedHostScheduler) Fits(host *Host, vm *VM) bool {
	if vm.MIPS > host.MIPS || vm.PEs > host.PEs {
		return false
	}
	return s.allocatedMIPS+vm.TotalMIPS() <= host.TotalMIPS()
}

func (s *TimeSharedHostScheduler) Allocate(host *Host, vm *VM) bool {
	if !s.Fits(host, vm) {
		return false
	}
	s.allocatedMIPS += vm.TotalMIPS()
	return true
}

func (s *TimeSharedHostScheduler) AvailablePEs(host *Host) int {
	if host.MIPS <= 0 {
		return 0
	}
	return int(math.Floor(s.AvailableMIPS(host) / host.MIPS))
}

func (s *TimeSharedHostScheduler) AvailableMIPS(host *Host) float64 {
	return host.TotalMIPS() - s.allocatedMIPS
}

// SpaceSharedHostScheduler dedicates whole PEs to each VM.
type SpaceSharedHostScheduler struct {
	allocatedPEs int
}

func NewSpaceSharedHostScheduler() *SpaceSharedHostScheduler { return &SpaceSharedHostScheduler{} }

func (s *SpaceSharedHostScheduler) Fits(host *Host, vm *VM) bool {
	if vm.MIPS > host.MIPS {
		return false
	}
	return s.allocatedPEs+vm.PEs <= host.PEs
}

func (s *SpaceSharedHostScheduler) Allocate(host *Host, vm *VM) bool {
	if !s.Fits(host, vm) {
		return false
	}
	s.allocatedPEs += vm.PEs
	return true
}

func (s *SpaceSharedHostScheduler) AvailablePEs(host *Host) int {
	return host.PEs - s.allocatedPEs
}

func (s *SpaceSharedHostScheduler) AvailableMIPS(host *Host) float64 {
	return float64(s.AvailablePEs(host)) * host.MIPS
}
