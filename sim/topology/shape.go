// Package topology describes the cluster shapes an experiment can run on.
//
// A Shape is plain data: counted tiers of hosts, VMs and workloads. The same
// run procedure builds any shape; there is no per-shape code path.
package topology

import (
	"fmt"
	"strings"

	"github.com/alloc-bench/alloc-bench/sim"
)

// HostTier is a group of identical hosts.
type HostTier struct {
	Name    string
	Count   int
	PEs     int
	MIPS    float64
	RAM     int64
	BW      int64
	Storage int64
}

// VMTier is a group of identical VMs.
type VMTier struct {
	Name  string
	Count int
	PEs   int
	MIPS  float64
	RAM   int64
	BW    int64
	Size  int64
}

// WorkloadTier is a group of identical workloads.
type WorkloadTier struct {
	Name       string
	Count      int
	PEs        int
	Length     int64
	FileSize   int64
	OutputSize int64
}

// Shape is a topology descriptor. Section names the configuration section
// holding the shape's strategy identifiers.
type Shape struct {
	Name      string
	Section   string
	Hosts     []HostTier
	VMs       []VMTier
	Workloads []WorkloadTier

	// RAMFraction feeds every workload's dynamic RAM utilization model.
	RAMFraction float64
}

// Uniform is 4 identical hosts, 8 identical VMs and 50 identical workloads.
var Uniform = Shape{
	Name:    "uniform",
	Section: "homogeneous",
	Hosts: []HostTier{
		{Name: "host", Count: 4, PEs: 8, MIPS: 2000, RAM: 12288, BW: 8000, Storage: 1_000_000},
	},
	VMs: []VMTier{
		{Name: "vm", Count: 8, PEs: 4, MIPS: 1500, RAM: 4048, BW: 500, Size: 100_000},
	},
	Workloads: []WorkloadTier{
		{Name: "workload", Count: 50, PEs: 2, Length: 10_000, FileSize: 100, OutputSize: 50},
	},
	RAMFraction: 0.25,
}

// Mixed has light, medium and strong tiers at every level.
var Mixed = Shape{
	Name:    "mixed",
	Section: "heterogeneous",
	Hosts: []HostTier{
		{Name: "light", Count: 4, PEs: 4, MIPS: 1000, RAM: 4096, BW: 1000, Storage: 1_000_000},
		{Name: "medium", Count: 2, PEs: 8, MIPS: 2500, RAM: 16384, BW: 5000, Storage: 2_000_000},
		{Name: "strong", Count: 4, PEs: 16, MIPS: 4000, RAM: 32768, BW: 10000, Storage: 2_000_000},
	},
	VMs: []VMTier{
		{Name: "light", Count: 3, PEs: 1, MIPS: 500, RAM: 1024, BW: 200, Size: 40_000},
		{Name: "medium", Count: 4, PEs: 2, MIPS: 1500, RAM: 2048, BW: 300, Size: 60_000},
		{Name: "strong", Count: 3, PEs: 4, MIPS: 3000, RAM: 4096, BW: 1000, Size: 100_000},
	},
	Workloads: []WorkloadTier{
		{Name: "light", Count: 15, PEs: 1, Length: 1000, FileSize: 10, OutputSize: 1},
		{Name: "medium", Count: 20, PEs: 2, Length: 10_000, FileSize: 100, OutputSize: 50},
		{Name: "strong", Count: 15, PEs: 4, Length: 50_000, FileSize: 4000, OutputSize: 100},
	},
	RAMFraction: 0.25,
}

// Shapes lists the built-in shapes in menu order.
var Shapes = []Shape{Uniform, Mixed}

// ParseShape accepts a shape name, its config section, or its menu number.
func ParseShape(s string) (Shape, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, shape := range Shapes {
		if key == shape.Name || key == shape.Section || key == fmt.Sprint(i+1) {
			return shape, nil
		}
	}
	return Shape{}, fmt.Errorf("unknown topology shape %q (valid: uniform, mixed)", s)
}

// DetailReport is the default per-workload report file name.
func (s Shape) DetailReport() string { return s.Section + "_detailed.csv" }

// SummaryReport is the default per-run report file name.
func (s Shape) SummaryReport() string { return s.Section + "_metrics.csv" }

// HostCount returns the total number of hosts across tiers.
func (s Shape) HostCount() int {
	n := 0
	for _, t := range s.Hosts {
		n += t.Count
	}
	return n
}

// VMCount returns the total number of VMs across tiers.
func (s Shape) VMCount() int {
	n := 0
	for _, t := range s.VMs {
		n += t.Count
	}
	return n
}

// WorkloadCount returns the total number of workloads across tiers.
func (s Shape) WorkloadCount() int {
	n := 0
	for _, t := range s.Workloads {
		n += t.Count
	}
	return n
}

// BuildHosts creates the shape's hosts with sequential ids, calling
// newScheduler once per host.
func (s Shape) BuildHosts(newScheduler func() (sim.HostScheduler, error)) ([]*sim.Host, error) {
	hosts := make([]*sim.Host, 0, s.HostCount())
	for _, t := range s.Hosts {
		for i := 0; i < t.Count; i++ {
			sched, err := newScheduler()
			if err != nil {
				return nil, err
			}
			hosts = append(hosts, sim.NewHost(len(hosts), t.PEs, t.MIPS, t.RAM, t.BW, t.Storage, sched))
		}
	}
	return hosts, nil
}

// BuildVMs creates the shape's VMs with sequential ids, calling newScheduler
// once per VM.
func (s Shape) BuildVMs(newScheduler func() (sim.VMScheduler, error)) ([]*sim.VM, error) {
	vms := make([]*sim.VM, 0, s.VMCount())
	for _, t := range s.VMs {
		for i := 0; i < t.Count; i++ {
			sched, err := newScheduler()
			if err != nil {
				return nil, err
			}
			vms = append(vms, sim.NewVM(len(vms), t.PEs, t.MIPS, t.RAM, t.BW, t.Size, sched))
		}
	}
	return vms, nil
}

// BuildWorkloads creates the shape's workloads with sequential ids. CPU use
// is full, RAM use is RAMFraction and BW use is stochastic, drawn from the
// workload's own RNG subsystem.
func (s Shape) BuildWorkloads(rng *sim.PartitionedRNG) []*sim.Workload {
	ws := make([]*sim.Workload, 0, s.WorkloadCount())
	for _, t := range s.Workloads {
		for i := 0; i < t.Count; i++ {
			id := len(ws)
			w := sim.NewWorkload(id, t.PEs, t.Length)
			w.FileSize = t.FileSize
			w.OutputSize = t.OutputSize
			w.CPU = sim.UtilizationFull{}
			w.RAM = sim.NewUtilizationDynamic(s.RAMFraction)
			w.BW = sim.NewUtilizationStochastic(rng.ForSubsystem(sim.SubsystemWorkload(id)))
			ws = append(ws, w)
		}
	}
	return ws
}
