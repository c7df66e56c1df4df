package sim

// VM is a virtual machine placed on a host and running workloads.
type VM struct {
	ID   int
	PEs  int
	MIPS float64 // Requested capacity per PE
	RAM  int64
	BW   int64
	Size int64

	// Scheduler arbitrates this VM's PEs among its workloads. Owned by this VM only.
	Scheduler VMScheduler

	Host *Host // nil until placed
}

// NewVM creates an unplaced VM.
func NewVM(id, pes int, mips float64, ram, bw, size int64, scheduler VMScheduler) *VM {
	return &VM{
		ID:        id,
		PEs:       pes,
		MIPS:      mips,
		RAM:       ram,
		BW:        bw,
		Size:      size,
		Scheduler: scheduler,
	}
}

// Placed reports whether the VM was allocated to a host.
func (vm *VM) Placed() bool {
	return vm.Host != nil
}

// TotalMIPS is the VM's aggregate requested capacity.
func (vm *VM) TotalMIPS() float64 {
	return float64(vm.PEs) * vm.MIPS
}
