package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Datacenter owns the hosts and the placement policy that assigns VMs to them.
type Datacenter struct {
	Hosts  []*Host
	Policy PlacementPolicy
}

// NewDatacenter creates a datacenter. A nil policy is rejected at placement time.
func NewDatacenter(hosts []*Host, policy PlacementPolicy) *Datacenter {
	return &Datacenter{Hosts: hosts, Policy: policy}
}

// Place asks the placement policy for a host and allocates vm on it.
func (dc *Datacenter) Place(vm *VM) error {
	if dc.Policy == nil {
		return fmt.Errorf("datacenter has no placement policy")
	}
	host := dc.Policy.FindHost(dc.Hosts, vm)
	if host == nil {
		return fmt.Errorf("no suitable host for vm %d (%d PEs @ %.0f MIPS)", vm.ID, vm.PEs, vm.MIPS)
	}
	if !host.place(vm) {
		return fmt.Errorf("host %d rejected vm %d", host.ID, vm.ID)
	}
	logrus.Debugf("vm %d placed on host %d (%d PEs free)", vm.ID, host.ID, host.FreePEs())
	return nil
}
