package report

import (
	"strconv"
)

// DetailHeader is the header of the per-workload report.
var DetailHeader = []string{
	"Run ID", "Vm Allocation Policy", "Vm Scheduler", "Cloudlet Scheduler",
	"Cloudlet ID", "Host Id", "Host PEs", "VM ID", "VM PEs",
	"Status", "ExecTime", "StartTime", "FinishTime", "StartWaitTime", "ExpectedFinishTime",
}

// SummaryHeader is the header of the per-run report.
var SummaryHeader = []string{
	"Run ID", "Vm Allocation Policy", "Vm Scheduler", "Cloudlet Scheduler",
	"Makespan", "Throughput", "HostLoadStdDev", "VMLoadStdDev", "OversubscribedCount",
	"AvgPercentageIncreaseInCloudletExecTime", "TotalCompletedTasks",
}

// Labels are the strategy mnemonics a run was executed with.
type Labels struct {
	Placement     string
	HostScheduler string
	VMScheduler   string
}

// DetailRow describes one finished workload of one run.
// ExpectedFinish is NaN when no expected finish time is known.
type DetailRow struct {
	RunID  int
	Labels Labels

	WorkloadID int
	HostID     int
	HostPEs    int
	VMID       int
	VMPEs      int
	Status     string

	ExecTime       float64
	StartTime      float64
	FinishTime     float64
	StartWaitTime  float64
	ExpectedFinish float64
}

// Record renders the row with timings to one decimal place.
func (r DetailRow) Record() []string {
	return []string{
		strconv.Itoa(r.RunID),
		r.Labels.Placement,
		r.Labels.HostScheduler,
		r.Labels.VMScheduler,
		strconv.Itoa(r.WorkloadID),
		strconv.Itoa(r.HostID),
		strconv.Itoa(r.HostPEs),
		strconv.Itoa(r.VMID),
		strconv.Itoa(r.VMPEs),
		r.Status,
		formatFloat(r.ExecTime, 1),
		formatFloat(r.StartTime, 1),
		formatFloat(r.FinishTime, 1),
		formatFloat(r.StartWaitTime, 1),
		formatFloat(r.ExpectedFinish, 1),
	}
}

// SummaryRow holds the aggregate metrics of one run.
type SummaryRow struct {
	RunID  int
	Labels Labels

	Makespan              float64
	Throughput            float64
	HostLoadStdDev        float64
	VMLoadStdDev          float64
	OversubscribedCount   int
	AvgPercentageIncrease float64
	TotalCompleted        int
}

// Record renders the row with metrics to two decimal places.
func (r SummaryRow) Record() []string {
	return []string{
		strconv.Itoa(r.RunID),
		r.Labels.Placement,
		r.Labels.HostScheduler,
		r.Labels.VMScheduler,
		formatFloat(r.Makespan, 2),
		formatFloat(r.Throughput, 2),
		formatFloat(r.HostLoadStdDev, 2),
		formatFloat(r.VMLoadStdDev, 2),
		strconv.Itoa(r.OversubscribedCount),
		formatFloat(r.AvgPercentageIncrease, 2),
		strconv.Itoa(r.TotalCompleted),
	}
}

// formatFloat renders NaN as "NaN" and infinities as "+Inf"/"-Inf".
func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}
