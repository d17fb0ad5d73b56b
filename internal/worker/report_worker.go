// Package worker runs the background side of reporting: consuming report
// events from AMQP and generating snapshots on a schedule.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spendtrack/internal/amqp"
	"spendtrack/internal/core"
	"spendtrack/internal/export"
	"spendtrack/internal/services"
)

// ReportWorker exports generated weekly reports and keeps snapshots
// current on a fixed interval.
type ReportWorker struct {
	reports  *services.ReportService
	exporter export.ReportWriter
	interval time.Duration
	now      func() time.Time
}

// NewReportWorker wires a worker. exporter may be nil when no export
// destination is configured; events are then acknowledged without effect.
func NewReportWorker(reports *services.ReportService, exporter export.ReportWriter, interval time.Duration) *ReportWorker {
	return &ReportWorker{
		reports:  reports,
		exporter: exporter,
		interval: interval,
		now:      time.Now,
	}
}

// HandleReportMessage exports the report named by one AMQP message. The
// report is re-read from the database so the export always reflects the
// stored snapshot, not the message payload.
func (w *ReportWorker) HandleReportMessage(ctx context.Context, msg *amqp.ReportGeneratedMessage) error {
	slog.InfoContext(ctx, "Processing report message",
		"message_id", msg.MessageID,
		"report_id", msg.ReportID)

	report, err := w.reports.GetReport(ctx, msg.ReportID)
	if core.IsNotFound(err) {
		// The report was deleted between generation and delivery. Ack
		// and move on, requeueing can never succeed.
		slog.WarnContext(ctx, "Report no longer exists, dropping message",
			"message_id", msg.MessageID,
			"report_id", msg.ReportID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load report %d: %w", msg.ReportID, err)
	}

	if w.exporter == nil {
		slog.WarnContext(ctx, "No exporter configured, skipping report export",
			"report_id", report.ID)
		return nil
	}

	rowRef, err := w.exporter.AppendReport(ctx, report)
	if err != nil {
		return fmt.Errorf("export report %d: %w", report.ID, err)
	}

	slog.InfoContext(ctx, "Report exported",
		"report_id", report.ID,
		"week_start", report.WeekStart.Format("2006-01-02"),
		"row_ref", rowRef)

	return nil
}

// RunScheduler generates the previous and current week snapshots on every
// tick until ctx is done. Generation is idempotent, so a tick that finds
// both snapshots in place is a no-op.
func (w *ReportWorker) RunScheduler(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Report scheduler started", "interval", w.interval)

	// First pass immediately so a restart never waits a full interval.
	w.generateDue(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Report scheduler stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			w.generateDue(ctx)
		}
	}
}

// generateDue snapshots the fully elapsed previous week and the running
// current week. Failures are logged and retried on the next tick.
func (w *ReportWorker) generateDue(ctx context.Context) {
	now := w.now()

	for _, anchor := range []time.Time{now.AddDate(0, 0, -7), now} {
		if _, err := w.reports.GenerateWeeklyReport(ctx, anchor); err != nil {
			slog.ErrorContext(ctx, "Scheduled report generation failed",
				"week_start", core.MondayOf(anchor).Format("2006-01-02"),
				"error", err)
		}
	}
}
