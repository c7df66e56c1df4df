// Package report appends experiment results to CSV files.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"go.uber.org/multierr"
)

// ErrReportWrite matches every *WriteError.
var ErrReportWrite = errors.New("report write failed")

// ErrHeaderMismatch is wrapped in the WriteError returned when an existing
// file starts with a different header.
var ErrHeaderMismatch = errors.New("existing file has a different header")

// WriteError reports a failed append to a report file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing report %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func (e *WriteError) Is(target error) bool { return target == ErrReportWrite }

// fileState serializes appends to one path and remembers whether its header
// has been written.
type fileState struct {
	mu            sync.Mutex
	headerWritten bool
}

// Writer appends rows to CSV files, writing each file's header once.
// A file that already has content when first touched must start with the
// same header; rows are then appended without repeating it. Safe for
// concurrent use.
type Writer struct {
	mu    sync.Mutex
	files map[string]*fileState
}

// NewWriter creates a Writer with no header state.
func NewWriter() *Writer {
	return &Writer{files: make(map[string]*fileState)}
}

// AppendDetailRows appends one row per finished workload to path.
func (w *Writer) AppendDetailRows(path string, rows []DetailRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.Record())
	}
	return w.append(path, DetailHeader, records)
}

// AppendSummaryRow appends one run summary to path.
func (w *Writer) AppendSummaryRow(path string, row SummaryRow) error {
	return w.append(path, SummaryHeader, [][]string{row.Record()})
}

// HeaderWritten reports whether the writer has written, or found, the header of path.
func (w *Writer) HeaderWritten(path string) bool {
	st := w.state(path)
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.headerWritten
}

func (w *Writer) state(path string) *fileState {
	w.mu.Lock()
	defer w.mu.Unlock()
	st, ok := w.files[path]
	if !ok {
		st = &fileState{}
		w.files[path] = st
	}
	return st
}

func (w *Writer) append(path string, header []string, records [][]string) error {
	if len(records) == 0 {
		return nil
	}
	st := w.state(path)
	st.mu.Lock()
	defer st.mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	writeHeader := !st.headerWritten
	if writeHeader {
		found, err := hasHeader(f, header)
		if err != nil {
			return &WriteError{Path: path, Err: multierr.Append(err, f.Close())}
		}
		if found {
			st.headerWritten = true
			writeHeader = false
		}
	}

	cw := csv.NewWriter(f)
	var errs error
	if writeHeader {
		errs = multierr.Append(errs, cw.Write(header))
	}
	for _, rec := range records {
		errs = multierr.Append(errs, cw.Write(rec))
	}
	cw.Flush()
	errs = multierr.Append(errs, cw.Error())
	errs = multierr.Append(errs, f.Close())
	if errs != nil {
		return &WriteError{Path: path, Err: errs}
	}
	if writeHeader {
		st.headerWritten = true
	}
	return nil
}

// hasHeader reports whether f already holds rows. A non-empty file whose
// first record differs from header is an error.
func hasHeader(f *os.File, header []string) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}
	r := csv.NewReader(io.NewSectionReader(f, 0, info.Size()))
	r.FieldsPerRecord = -1
	first, err := r.Read()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrHeaderMismatch, err)
	}
	if !slices.Equal(first, header) {
		return false, fmt.Errorf("%w: found %q", ErrHeaderMismatch, first)
	}
	return true, nil
}
