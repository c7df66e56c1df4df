// Package experiment runs repeated trials of one topology shape under one
// strategy triple, detects oversubscription and aggregates per-run metrics.
package experiment

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/alloc-bench/alloc-bench/sim"
	"github.com/alloc-bench/alloc-bench/sim/report"
	"github.com/alloc-bench/alloc-bench/sim/strategy"
	"github.com/alloc-bench/alloc-bench/sim/topology"
)

// ErrMixedStrategies is returned when hosts or VMs of one cluster were built
// with different strategy types.
var ErrMixedStrategies = errors.New("cluster mixes strategy types")

// Sink receives report rows. *report.Writer implements it.
type Sink interface {
	AppendDetailRows(path string, rows []report.DetailRow) error
	AppendSummaryRow(path string, row report.SummaryRow) error
}

// Options tune a Runner. Zero values pick the defaults.
type Options struct {
	Seed                 int64     // run N is seeded with Seed+N
	ShowOversubscription bool      // print the oversubscription table after each run
	Display              io.Writer // table destination; os.Stdout when nil
	DetailPath           string    // defaults to the shape's detail report name
	SummaryPath          string    // defaults to the shape's summary report name
}

// Runner executes runs of one shape with the strategies configured for the
// shape's section.
type Runner struct {
	store *strategy.Store
	shape topology.Shape
	sink  Sink
	opts  Options
}

// NewRunner creates a Runner.
func NewRunner(store *strategy.Store, shape topology.Shape, sink Sink, opts Options) *Runner {
	if opts.Display == nil {
		opts.Display = os.Stdout
	}
	if opts.DetailPath == "" {
		opts.DetailPath = shape.DetailReport()
	}
	if opts.SummaryPath == "" {
		opts.SummaryPath = shape.SummaryReport()
	}
	return &Runner{store: store, shape: shape, sink: sink, opts: opts}
}

// Cluster is a fully built run input.
type Cluster struct {
	Datacenter *sim.Datacenter
	VMs        []*sim.VM
	Workloads  []*sim.Workload
	Labels     report.Labels
}

// Build instantiates one placement policy for the datacenter, one host
// scheduler per host and one VM scheduler per VM, then generates the
// workloads. Any strategy resolution failure is returned before anything is
// submitted to the engine.
func (r *Runner) Build(runID int) (*Cluster, error) {
	section := r.shape.Section
	policy, err := r.store.PlacementPolicy(section)
	if err != nil {
		return nil, err
	}
	hosts, err := r.shape.BuildHosts(func() (sim.HostScheduler, error) { return r.store.HostScheduler(section) })
	if err != nil {
		return nil, err
	}
	vms, err := r.shape.BuildVMs(func() (sim.VMScheduler, error) { return r.store.VMScheduler(section) })
	if err != nil {
		return nil, err
	}
	dc := sim.NewDatacenter(hosts, policy)
	if err := assertUniform(dc, vms); err != nil {
		return nil, err
	}

	rng := sim.NewPartitionedRNG(sim.RunKey(r.opts.Seed, runID))
	return &Cluster{
		Datacenter: dc,
		VMs:        vms,
		Workloads:  r.shape.BuildWorkloads(rng),
		Labels:     LabelRun(dc, vms),
	}, nil
}

// assertUniform checks that every host and every VM uses the same strategy
// type, so that labels sampled from the first VM describe the whole run.
func assertUniform(dc *sim.Datacenter, vms []*sim.VM) error {
	hostTypes := lo.Uniq(lo.Map(dc.Hosts, func(h *sim.Host, _ int) string { return strategy.IdentifierOf(h.Scheduler) }))
	if len(hostTypes) > 1 {
		return fmt.Errorf("%w: host schedulers %v", ErrMixedStrategies, hostTypes)
	}
	vmTypes := lo.Uniq(lo.Map(vms, func(vm *sim.VM, _ int) string { return strategy.IdentifierOf(vm.Scheduler) }))
	if len(vmTypes) > 1 {
		return fmt.Errorf("%w: vm schedulers %v", ErrMixedStrategies, vmTypes)
	}
	return nil
}

// RunOnce builds a cluster, runs it to completion and reports the results.
// Only strategy resolution is fatal; report write failures are logged.
func (r *Runner) RunOnce(runID int) (*RunMetrics, error) {
	cluster, err := r.Build(runID)
	if err != nil {
		return nil, fmt.Errorf("run %d: %w", runID, err)
	}

	s := sim.NewSimulation(cluster.Datacenter)
	s.SubmitVMs(cluster.VMs)
	s.SubmitWorkloads(cluster.Workloads)
	res := s.Run()
	logrus.Debugf("run %d: %d/%d workloads finished, %d vms unplaced, clock %.3f",
		runID, len(res.Finished), res.Submitted, len(res.UnplacedVMs), res.EndTime)

	over := Detect(cluster.VMs)
	if r.opts.ShowOversubscription {
		if err := over.Render(r.opts.Display); err != nil {
			logrus.Warnf("run %d: printing oversubscription table: %v", runID, err)
		}
	}

	m := Aggregate(res.Finished, over)
	m.RunID = runID
	m.Labels = cluster.Labels

	if err := r.sink.AppendDetailRows(r.opts.DetailPath, DetailRows(runID, cluster.Labels, res.Finished, over)); err != nil {
		logrus.Warnf("run %d: %v", runID, err)
	}
	if err := r.sink.AppendSummaryRow(r.opts.SummaryPath, m.SummaryRow()); err != nil {
		logrus.Warnf("run %d: %v", runID, err)
	}
	return &m, nil
}

// RunBatch executes runs 1..runs sequentially and stops at the first fatal
// error. It returns the number of completed runs.
func (r *Runner) RunBatch(runs int) (int, error) {
	if runs <= 0 {
		return 0, fmt.Errorf("run count must be positive, got %d", runs)
	}
	log := logrus.WithFields(logrus.Fields{
		"batch": uuid.NewString(),
		"shape": r.shape.Name,
	})
	log.Infof("starting %d runs", runs)
	for id := 1; id <= runs; id++ {
		m, err := r.RunOnce(id)
		if err != nil {
			return id - 1, err
		}
		log.WithField("run", id).Infof("%s/%s/%s: %d completed, makespan %.2f, %d oversubscribed",
			m.Labels.Placement, m.Labels.HostScheduler, m.Labels.VMScheduler,
			m.TotalCompleted, m.Makespan, m.OversubscribedCount)
	}
	log.Infof("batch complete, reports at %s and %s", r.opts.DetailPath, r.opts.SummaryPath)
	return runs, nil
}

// DetailRows builds one report row per finished workload. The expected
// finish column is only known for oversubscribed workloads and is NaN
// otherwise.
func DetailRows(runID int, labels report.Labels, finished []*sim.Workload, over *Oversubscriptions) []report.DetailRow {
	return lo.Map(finished, func(w *sim.Workload, _ int) report.DetailRow {
		row := report.DetailRow{
			RunID:          runID,
			Labels:         labels,
			WorkloadID:     w.ID,
			HostID:         -1,
			VMID:           -1,
			Status:         string(w.Status),
			ExecTime:       w.ExecTime(),
			StartTime:      w.ExecStartTime,
			FinishTime:     w.FinishTime,
			StartWaitTime:  w.StartWaitTime(),
			ExpectedFinish: math.NaN(),
		}
		if w.VM != nil {
			row.VMID, row.VMPEs = w.VM.ID, w.VM.PEs
		}
		if h := w.Host(); h != nil {
			row.HostID, row.HostPEs = h.ID, h.PEs
		}
		if expected, ok := over.ExpectedFinish(w.ID); ok {
			row.ExpectedFinish = expected
		}
		return row
	})
}
