// Package memory is an in-process ReportWriter used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"spendtrack/internal/core"

	ports "spendtrack/internal/export"
)

type Store struct {
	mu    sync.Mutex
	items []core.WeeklyReport
}

var _ ports.ReportWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// AppendReport records the report and returns a synthetic row reference.
func (s *Store) AppendReport(_ context.Context, report core.WeeklyReport) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, report)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Reports returns a copy of everything appended so far.
func (s *Store) Reports() []core.WeeklyReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.WeeklyReport(nil), s.items...)
}
