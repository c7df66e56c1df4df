package sim

// PlacementPolicy chooses the host a VM is placed on.
// Implementations may keep state between calls; each datacenter owns its own instance.
type PlacementPolicy interface {
	// FindHost returns a suitable host for vm, or nil when none fits.
	FindHost(hosts []*Host, vm *VM) *Host
}

// SimpleAllocation places each VM on the suitable host with the most free PEs
// (worst fit). Ties go to the host that appears first.
type SimpleAllocation struct{}

func NewSimpleAllocation() *SimpleAllocation { return &SimpleAllocation{} }

func (p *SimpleAllocation) FindHost(hosts []*Host, vm *VM) *Host {
	var best *Host
	for _, h := range hosts {
		if !h.Suitable(vm) {
			continue
		}
		if best == nil || h.FreePEs() > best.FreePEs() {
			best = h
		}
	}
	return best
}

// FirstFitAllocation scans hosts starting from the last one used and wraps
// around, placing each VM on the first suitable host.
type FirstFitAllocation struct {
	lastHostIndex int
}

func NewFirstFitAllocation() *FirstFitAllocation { return &FirstFitAllocation{} }

func (p *FirstFitAllocation) FindHost(hosts []*Host, vm *VM) *Host {
	n := len(hosts)
	for tries := 0; tries < n; tries++ {
		idx := (p.lastHostIndex + tries) % n
		if hosts[idx].Suitable(vm) {
			p.lastHostIndex = idx
			return hosts[idx]
		}
	}
	return nil
}

// BestFitAllocation places each VM on the suitable host with the fewest free
// PEs, packing hosts as tightly as possible. Ties go to the host that appears first.
type BestFitAllocation struct{}

func NewBestFitAllocation() *BestFitAllocation { return &BestFitAllocation{} }

func (p *BestFitAllocation) FindHost(hosts []*Host, vm *VM) *Host {
	var best *Host
	for _, h := range hosts {
		if !h.Suitable(vm) {
			continue
		}
		if best == nil || h.FreePEs() < best.FreePEs() {
			best = h
		}
	}
	return best
}
