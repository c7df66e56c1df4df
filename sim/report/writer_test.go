package report

import (
	"encoding/csv"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

var labels = Labels{Placement: "S", HostScheduler: "TS", VMScheduler: "TS"}

func TestWriter_HeaderOncePerPath(t *testing.T) {
	// GIVEN a fresh writer and an empty directory
	w := NewWriter()
	path := filepath.Join(t.TempDir(), "homogeneous_metrics.csv")

	// WHEN two summary rows are appended
	require.NoError(t, w.AppendSummaryRow(path, SummaryRow{RunID: 1, Labels: labels, Makespan: 10}))
	require.NoError(t, w.AppendSummaryRow(path, SummaryRow{RunID: 2, Labels: labels, Makespan: 12}))

	// THEN the file holds one header and two data rows
	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, SummaryHeader, records[0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "2", records[2][0])
	assert.True(t, w.HeaderWritten(path))
}

func TestWriter_IsolatedWritersExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detail.csv")
	require.NoError(t, NewWriter().AppendDetailRows(path, []DetailRow{{RunID: 1, Labels: labels}}))

	// a second writer finds the file non-empty and does not repeat the header
	require.NoError(t, NewWriter().AppendDetailRows(path, []DetailRow{{RunID: 2, Labels: labels}}))

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, DetailHeader, records[0])
}

func TestWriter_ExistingFileWithForeignHeader(t *testing.T) {
	// GIVEN a non-empty file that does not start with the detail header
	path := filepath.Join(t.TempDir(), "detail.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))
	w := NewWriter()

	// WHEN detail rows are appended
	err := w.AppendDetailRows(path, []DetailRow{{RunID: 1, Labels: labels}})

	// THEN the append is refused and the file is left untouched
	assert.True(t, errors.Is(err, ErrReportWrite), "got %v", err)
	assert.True(t, errors.Is(err, ErrHeaderMismatch), "got %v", err)
	assert.False(t, w.HeaderWritten(path))
	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "a,b\n1,2\n", string(data))
}

func TestWriter_EmptyRowsTouchNothing(t *testing.T) {
	w := NewWriter()
	path := filepath.Join(t.TempDir(), "detail.csv")
	require.NoError(t, w.AppendDetailRows(path, nil))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.False(t, w.HeaderWritten(path))
}

func TestWriter_OpenFailure(t *testing.T) {
	w := NewWriter()
	path := filepath.Join(t.TempDir(), "missing-dir", "metrics.csv")

	err := w.AppendSummaryRow(path, SummaryRow{RunID: 1, Labels: labels})

	var werr *WriteError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, path, werr.Path)
	assert.True(t, errors.Is(err, ErrReportWrite))
	assert.False(t, w.HeaderWritten(path))
}

func TestWriter_ConcurrentAppends(t *testing.T) {
	w := NewWriter()
	path := filepath.Join(t.TempDir(), "metrics.csv")

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			assert.NoError(t, w.AppendSummaryRow(path, SummaryRow{RunID: id, Labels: labels}))
		}(i)
	}
	wg.Wait()

	records := readCSV(t, path)
	require.Len(t, records, 21)
	headers := 0
	for _, r := range records {
		if r[0] == "Run ID" {
			headers++
		}
	}
	assert.Equal(t, 1, headers)
}

func TestDetailRow_Record(t *testing.T) {
	row := DetailRow{
		RunID: 3, Labels: labels, WorkloadID: 7, HostID: 1, HostPEs: 8, VMID: 2, VMPEs: 4,
		Status: "SUCCESS", ExecTime: 12.345, StartTime: 0.1, FinishTime: 12.445, StartWaitTime: 0,
		ExpectedFinish: math.NaN(),
	}
	assert.Equal(t,
		"3,S,TS,TS,7,1,8,2,4,SUCCESS,12.3,0.1,12.4,0.0,NaN",
		strings.Join(row.Record(), ","))
}

func TestSummaryRow_Record(t *testing.T) {
	row := SummaryRow{
		RunID: 1, Labels: labels, Makespan: 26.6666, Throughput: 50 / 26.6666,
		HostLoadStdDev: 0, VMLoadStdDev: 0.5, OversubscribedCount: 50,
		AvgPercentageIncrease: 700, TotalCompleted: 50,
	}
	assert.Equal(t,
		"1,S,TS,TS,26.67,1.88,0.00,0.50,50,700.00,50",
		strings.Join(row.Record(), ","))

	row.Throughput = math.NaN()
	assert.Equal(t, "NaN", row.Record()[5])
}
