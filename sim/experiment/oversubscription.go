package experiment

import (
	"fmt"
	"io"

	"github.com/samber/lo"

	"github.com/alloc-bench/alloc-bench/sim"
)

// OversubscriptionEntry describes one workload that finished later than its
// uncontended expectation. Defined is false when the expected finish time is
// not positive; PercentageIncrease is then 0.
type OversubscriptionEntry struct {
	WorkloadID         int
	Expected           float64
	Actual             float64
	PercentageIncrease float64
	Defined            bool
}

// Oversubscriptions holds the entries of one run in detection order.
type Oversubscriptions struct {
	entries []OversubscriptionEntry
	index   map[int]int
}

// PercentageIncrease returns (actual-expected)/expected*100, or false when
// expected is not positive.
func PercentageIncrease(expected, actual float64) (float64, bool) {
	if expected <= 0 {
		return 0, false
	}
	return (actual - expected) / expected * 100, true
}

// Detect walks every VM's finished executions in VM list order and records
// those the engine flagged as oversubscribed.
func Detect(vms []*sim.VM) *Oversubscriptions {
	records := lo.FlatMap(vms, func(vm *sim.VM, _ int) []*sim.ExecutionRecord {
		if vm.Scheduler == nil {
			return nil
		}
		return vm.Scheduler.Finished()
	})

	o := &Oversubscriptions{index: make(map[int]int)}
	for _, r := range records {
		if !r.HasOversubscription() {
			continue
		}
		e := OversubscriptionEntry{
			WorkloadID: r.Workload.ID,
			Expected:   r.ExpectedFinishTime,
			Actual:     r.ActualFinishTime(),
		}
		e.PercentageIncrease, e.Defined = PercentageIncrease(e.Expected, e.Actual)
		o.index[e.WorkloadID] = len(o.entries)
		o.entries = append(o.entries, e)
	}
	return o
}

// Len is the number of oversubscribed workloads.
func (o *Oversubscriptions) Len() int {
	if o == nil {
		return 0
	}
	return len(o.entries)
}

// Entries returns the entries in detection order.
func (o *Oversubscriptions) Entries() []OversubscriptionEntry {
	if o == nil {
		return nil
	}
	out := make([]OversubscriptionEntry, len(o.entries))
	copy(out, o.entries)
	return out
}

// Lookup returns the entry of a workload.
func (o *Oversubscriptions) Lookup(workloadID int) (OversubscriptionEntry, bool) {
	if o == nil {
		return OversubscriptionEntry{}, false
	}
	i, ok := o.index[workloadID]
	if !ok {
		return OversubscriptionEntry{}, false
	}
	return o.entries[i], true
}

// ExpectedFinish returns the expected finish time of an oversubscribed workload.
func (o *Oversubscriptions) ExpectedFinish(workloadID int) (float64, bool) {
	e, ok := o.Lookup(workloadID)
	return e.Expected, ok
}

// Render prints the entries as a table, one line per workload in detection
// order. Nothing is printed when there are no entries.
func (o *Oversubscriptions) Render(w io.Writer) error {
	if o.Len() == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Oversubscribed Workloads:"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-10s %-20s %-20s %-20s\n", "WorkloadID", "ExpectedFinish", "ActualFinish", "PercentageIncrease"); err != nil {
		return err
	}
	for _, e := range o.entries {
		var err error
		if e.Defined {
			_, err = fmt.Fprintf(w, "%-10d %-20.2f %-20.2f %-20.2f\n", e.WorkloadID, e.Expected, e.Actual, e.PercentageIncrease)
		} else {
			_, err = fmt.Fprintf(w, "%-10d %-20.2f %-20.2f %-20s\n", e.WorkloadID, e.Expected, e.Actual, "n/a")
		}
		if err != nil {
			return err
		}
	}
	return nil
}
