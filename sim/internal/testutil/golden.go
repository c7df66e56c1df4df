// Package testutil provides shared test infrastructure for the experiment
// packages: the golden run dataset and float assertion helpers.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"gopkg.in/yaml.v3"
)

// GoldenDataset represents the structure of testdata/golden_runs.yaml.
type GoldenDataset struct {
	Runs []GoldenRun `yaml:"runs"`
}

// GoldenRun is one shape and strategy triple with its expected metrics.
type GoldenRun struct {
	Name          string        `yaml:"name"`
	Shape         string        `yaml:"shape"`
	Placement     string        `yaml:"placement"`
	HostScheduler string        `yaml:"host_scheduler"`
	VMScheduler   string        `yaml:"vm_scheduler"`
	Seed          int64         `yaml:"seed"`
	Metrics       GoldenMetrics `yaml:"metrics"`
}

// GoldenMetrics represents the expected metrics of a golden run.
type GoldenMetrics struct {
	// Exact match metrics (integers)
	TotalCompleted      int `yaml:"total_completed"`
	OversubscribedCount int `yaml:"oversubscribed_count"`

	// Deterministic floating-point metrics (derived from simulation clock)
	Makespan              float64 `yaml:"makespan"`
	Throughput            float64 `yaml:"throughput"`
	HostLoadStdDev        float64 `yaml:"host_load_stddev"`
	VMLoadStdDev          float64 `yaml:"vm_load_stddev"`
	AvgPercentageIncrease float64 `yaml:"avg_percentage_increase"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "golden_runs.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := yaml.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	if len(dataset.Runs) == 0 {
		t.Fatal("golden dataset has no runs")
	}
	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
