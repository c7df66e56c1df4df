package experiment

import (
	"github.com/alloc-bench/alloc-bench/sim"
	"github.com/alloc-bench/alloc-bench/sim/report"
)

// replayScheduler hands back prebuilt execution records.
type replayScheduler struct {
	records []*sim.ExecutionRecord
}

func (s *replayScheduler) Submit(*sim.VM, *sim.Workload, float64)         {}
func (s *replayScheduler) Update(*sim.VM, float64) []*sim.ExecutionRecord { return nil }
func (s *replayScheduler) NextCompletion() float64                        { return 0 }
func (s *replayScheduler) Finished() []*sim.ExecutionRecord               { return s.records }

// replayVM builds a VM whose finished list holds one record per
// {expected, actual} pair; workload ids start at firstID.
func replayVM(id, firstID int, timings ...[2]float64) *sim.VM {
	sched := &replayScheduler{}
	vm := sim.NewVM(id, 2, 1000, 0, 0, 0, sched)
	for i, tm := range timings {
		w := sim.NewWorkload(firstID+i, 1, 1000)
		w.VM = vm
		sched.records = append(sched.records, sim.NewCompletedExecution(w, 0, tm[0], tm[1]))
	}
	return vm
}

// recordingSink keeps rows in memory.
type recordingSink struct {
	details   map[string][]report.DetailRow
	summaries map[string][]report.SummaryRow
	err       error
}

func newRecordingSink() *recordingSink {
	return &recordingSink{
		details:   map[string][]report.DetailRow{},
		summaries: map[string][]report.SummaryRow{},
	}
}

func (s *recordingSink) AppendDetailRows(path string, rows []report.DetailRow) error {
	if s.err != nil {
		return s.err
	}
	s.details[path] = append(s.details[path], rows...)
	return nil
}

func (s *recordingSink) AppendSummaryRow(path string, row report.SummaryRow) error {
	if s.err != nil {
		return s.err
	}
	s.summaries[path] = append(s.summaries[path], row)
	return nil
}

func (s *recordingSink) calls() int {
	n := 0
	for _, rows := range s.details {
		n += len(rows)
	}
	for _, rows := range s.summaries {
		n += len(rows)
	}
	return n
}
