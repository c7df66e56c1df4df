package experiment

import (
	"math"
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/alloc-bench/alloc-bench/sim"
	"github.com/alloc-bench/alloc-bench/sim/report"
	"github.com/alloc-bench/alloc-bench/sim/strategy"
)

// RunMetrics aggregates one run.
type RunMetrics struct {
	RunID  int
	Labels report.Labels

	Makespan              float64
	Throughput            float64 // NaN or +Inf when Makespan is 0
	HostLoadStdDev        float64
	VMLoadStdDev          float64
	OversubscribedCount   int
	AvgPercentageIncrease float64
	TotalCompleted        int
}

// SummaryRow converts the metrics to a report row.
func (m RunMetrics) SummaryRow() report.SummaryRow {
	return report.SummaryRow{
		RunID:                 m.RunID,
		Labels:                m.Labels,
		Makespan:              m.Makespan,
		Throughput:            m.Throughput,
		HostLoadStdDev:        m.HostLoadStdDev,
		VMLoadStdDev:          m.VMLoadStdDev,
		OversubscribedCount:   m.OversubscribedCount,
		AvgPercentageIncrease: m.AvgPercentageIncrease,
		TotalCompleted:        m.TotalCompleted,
	}
}

// Aggregate computes run metrics from the finished workloads and the
// oversubscription entries. RunID and Labels are left for the caller.
func Aggregate(finished []*sim.Workload, over *Oversubscriptions) RunMetrics {
	makespan := Makespan(finished)
	bound := lo.Filter(finished, func(w *sim.Workload, _ int) bool { return w.VM != nil })

	m := RunMetrics{
		Makespan:            makespan,
		Throughput:          Throughput(len(finished), makespan),
		HostLoadStdDev:      LoadStdDev(lo.Filter(bound, func(w *sim.Workload, _ int) bool { return w.Host() != nil }), (*sim.Workload).Host),
		VMLoadStdDev:        LoadStdDev(bound, func(w *sim.Workload) *sim.VM { return w.VM }),
		OversubscribedCount: over.Len(),
		TotalCompleted:      len(finished),
	}

	increases := lo.FilterMap(over.Entries(), func(e OversubscriptionEntry, _ int) (float64, bool) {
		return e.PercentageIncrease, e.Defined
	})
	if len(increases) > 0 {
		m.AvgPercentageIncrease = stat.Mean(increases, nil)
	}
	return m
}

// Makespan is the latest finish time, or 0 for no workloads.
func Makespan(finished []*sim.Workload) float64 {
	if len(finished) == 0 {
		return 0
	}
	return floats.Max(lo.Map(finished, func(w *sim.Workload, _ int) float64 { return w.FinishTime }))
}

// Throughput is completed workloads per unit of makespan. It is not finite
// when makespan is 0.
func Throughput(completed int, makespan float64) float64 {
	if completed == 0 && makespan == 0 {
		return math.NaN()
	}
	return float64(completed) / makespan
}

// LoadStdDev groups workloads by key, sums requested PEs per group and returns
// the population standard deviation of the sums. Only groups with at least one
// workload take part; no groups yields 0.
func LoadStdDev[K comparable](ws []*sim.Workload, key func(*sim.Workload) K) float64 {
	groups := lo.GroupBy(ws, key)
	if len(groups) == 0 {
		return 0
	}
	loads := lo.MapToSlice(groups, func(_ K, members []*sim.Workload) float64 {
		return float64(lo.SumBy(members, func(w *sim.Workload) int { return w.PEs }))
	})
	// fixed summation order keeps repeated runs bit-identical
	sort.Float64s(loads)
	return PopulationStdDev(loads)
}

// PopulationStdDev divides by N. Empty input yields 0.
func PopulationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	_, std := stat.PopMeanStdDev(values, nil)
	return std
}

// LabelRun derives strategy mnemonics from the runtime types of the
// datacenter's placement policy and the first VM's schedulers. The host
// scheduler comes from the first VM's host, or from the first host when that
// VM was not placed.
func LabelRun(dc *sim.Datacenter, vms []*sim.VM) report.Labels {
	labels := report.Labels{
		Placement:     strategy.Unknown,
		HostScheduler: strategy.Unknown,
		VMScheduler:   strategy.Unknown,
	}
	if dc != nil {
		labels.Placement = strategy.MnemonicOf(strategy.FamilyPlacement, dc.Policy)
	}
	if len(vms) == 0 {
		return labels
	}
	first := vms[0]
	labels.VMScheduler = strategy.MnemonicOf(strategy.FamilyVMScheduler, first.Scheduler)
	switch {
	case first.Host != nil:
		labels.HostScheduler = strategy.MnemonicOf(strategy.FamilyHostScheduler, first.Host.Scheduler)
	case dc != nil && len(dc.Hosts) > 0:
		labels.HostScheduler = strategy.MnemonicOf(strategy.FamilyHostScheduler, dc.Hosts[0].Scheduler)
	}
	return labels
}
