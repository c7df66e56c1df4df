package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHosts(pes ...int) []*Host {
	hosts := make([]*Host, 0, len(pes))
	for i, n := range pes {
		hosts = append(hosts, NewHost(i, n, 1000, 1<<20, 1<<20, 1<<20, NewSpaceSharedHostScheduler()))
	}
	return hosts
}

func smallVM(id, pes int) *VM {
	return NewVM(id, pes, 1000, 1, 1, 1, NewTimeSharedVMScheduler())
}

func TestPlacementPolicies_ChooseHost(t *testing.T) {
	tests := []struct {
		name   string
		policy PlacementPolicy
		want   int
	}{
		{"simple picks most free PEs", NewSimpleAllocation(), 1},
		{"best fit picks fewest free PEs", NewBestFitAllocation(), 2},
		{"first fit picks first suitable", NewFirstFitAllocation(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN hosts with 4, 8 and 2 PEs
			hosts := newHosts(4, 8, 2)
			// WHEN a 2-PE VM is placed
			got := tt.policy.FindHost(hosts, smallVM(0, 2))
			// THEN the policy's preferred host is chosen
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestFirstFitAllocation_ResumesFromLastHost(t *testing.T) {
	hosts := newHosts(2, 4, 4)
	dc := NewDatacenter(hosts, NewFirstFitAllocation())

	require.NoError(t, dc.Place(smallVM(0, 2)))
	require.NoError(t, dc.Place(smallVM(1, 4)))
	require.NoError(t, dc.Place(smallVM(2, 1)))

	assert.Equal(t, 0, hosts[0].VMs()[0].ID)
	assert.Equal(t, 1, hosts[1].VMs()[0].ID)
	// host 0 is full, search resumes at host 1 (full) and lands on host 2
	assert.Equal(t, 2, hosts[2].VMs()[0].ID)
}

func TestDatacenter_Place_NoSuitableHost(t *testing.T) {
	dc := NewDatacenter(newHosts(2), NewSimpleAllocation())
	err := dc.Place(smallVM(0, 4))
	assert.Error(t, err)
}

func TestDatacenter_Place_NilPolicy(t *testing.T) {
	dc := NewDatacenter(newHosts(2), nil)
	assert.Error(t, dc.Place(smallVM(0, 1)))
}

func TestHost_Suitable_ChecksMemory(t *testing.T) {
	host := NewHost(0, 8, 1000, 4096, 1000, 10_000, NewTimeSharedHostScheduler())
	assert.True(t, host.Suitable(NewVM(0, 1, 500, 4096, 10, 10, nil)))
	assert.False(t, host.Suitable(NewVM(1, 1, 500, 4097, 10, 10, nil)))
}
