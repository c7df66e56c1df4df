package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alloc-bench/alloc-bench/sim/strategy"
)

func TestPrintStrategies(t *testing.T) {
	store, err := strategy.Parse([]byte(`
homogeneous:
  vmAllocationPolicy: github.com/alloc-bench/alloc-bench/sim.BestFitAllocation
  vmScheduler: example.com/custom.Scheduler
`))
	require.NoError(t, err)

	var out bytes.Buffer
	printStrategies(&out, store)

	got := out.String()
	assert.Contains(t, got, "github.com/alloc-bench/alloc-bench/sim.FirstFitAllocation")
	assert.Contains(t, got, "BF      github.com/alloc-bench/alloc-bench/sim.BestFitAllocation")
	assert.Contains(t, got, "UNKNOWN example.com/custom.Scheduler")
	assert.Contains(t, got, "cloudletScheduler  (not set)")
}
