package export

import (
	"context"

	"spendtrack/internal/core"
)

// Ports for outbound report adapters.
type (
	// ReportWriter appends a generated weekly report to an external
	// destination and returns a reference to where it landed.
	ReportWriter interface {
		AppendReport(ctx context.Context, report core.WeeklyReport) (rowRef string, err error)
	}
)
