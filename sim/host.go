package sim

// Host is a physical machine in the datacenter.
type Host struct {
	ID      int
	PEs     int     // Number of processing elements
	MIPS    float64 // Capacity of each PE
	RAM     int64
	BW      int64
	Storage int64

	// Scheduler arbitrates this host's PEs among its VMs. Owned by this host only.
	Scheduler HostScheduler

	vms []*VM
}

// NewHost creates a host with an empty VM list.
func NewHost(id, pes int, mips float64, ram, bw, storage int64, scheduler HostScheduler) *Host {
	return &Host{
		ID:        id,
		PEs:       pes,
		MIPS:      mips,
		RAM:       ram,
		BW:        bw,
		Storage:   storage,
		Scheduler: scheduler,
		vms:       make([]*VM, 0),
	}
}

// VMs returns the VMs placed on this host, in placement order.
func (h *Host) VMs() []*VM {
	out := make([]*VM, len(h.vms))
	copy(out, h.vms)
	return out
}

// TotalMIPS is the host's aggregate capacity.
func (h *Host) TotalMIPS() float64 {
	return float64(h.PEs) * h.MIPS
}

// FreePEs is the number of PEs the scheduler still considers available.
func (h *Host) FreePEs() int {
	if h.Scheduler == nil {
		return 0
	}
	return h.Scheduler.AvailablePEs(h)
}

// usedRAM and usedBW are tracked from the VMs already placed.
func (h *Host) usedRAM() int64 {
	var total int64
	for _, vm := range h.vms {
		total += vm.RAM
	}
	return total
}

func (h *Host) usedBW() int64 {
	var total int64
	for _, vm := range h.vms {
		total += vm.BW
	}
	return total
}

func (h *Host) usedStorage() int64 {
	var total int64
	for _, vm := range h.vms {
		total += vm.Size
	}
	return total
}

// Suitable reports whether vm fits on the host: the host scheduler must
// accept the PE request and RAM, BW and storage must not be exceeded.
func (h *Host) Suitable(vm *VM) bool {
	if h.Scheduler == nil {
		return false
	}
	if h.usedRAM()+vm.RAM > h.RAM || h.usedBW()+vm.BW > h.BW || h.usedStorage()+vm.Size > h.Storage {
		return false
	}
	return h.Scheduler.Fits(h, vm)
}

// place binds vm to the host. Callers must check Suitable first.
func (h *Host) place(vm *VM) bool {
	if !h.Scheduler.Allocate(h, vm) {
		return false
	}
	h.vms = append(h.vms, vm)
	vm.Host = h
	return true
}
