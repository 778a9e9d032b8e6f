package sheets

import (
	"context"
	"sync"
)

// MemoryWriter keeps published reports in memory instead of a spreadsheet.
// It serves dry runs and tests.
type MemoryWriter struct {
	err     error
	reports []Report
	mu      sync.Mutex
}

// NewMemoryWriter returns an empty writer that accepts every report.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{}
}

// Write records report, or returns the error set by FailWith.
func (m *MemoryWriter) Write(_ context.Context, report Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.reports = append(m.reports, report)
	return nil
}

// FailWith makes every later Write return err; nil accepts writes again.
func (m *MemoryWriter) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Reports returns the reports written so far, oldest first.
func (m *MemoryWriter) Reports() []Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Report(nil), m.reports...)
}

var _ ReportWriter = (*MemoryWriter)(nil)
