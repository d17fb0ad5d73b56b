package services

import (
	"context"
	"fmt"
	"time"

	"spendtrack/internal/core"
	"spendtrack/internal/log"
)

// ReportService generates and serves weekly spending report snapshots.
// Generation is idempotent per week: the first writer for a given Monday
// wins and every later call returns the stored snapshot unchanged.
type ReportService struct {
	reports      ReportStore
	transactions TransactionStore
	publisher    EventPublisher
	logger       *log.Logger
	now          func() time.Time
}

// NewReportService wires a report service. publisher may be nil when no
// broker is configured.
func NewReportService(reports ReportStore, transactions TransactionStore, publisher EventPublisher, logger *log.Logger) *ReportService {
	return &ReportService{
		reports:      reports,
		transactions: transactions,
		publisher:    publisher,
		logger:       logger.WithComponent(log.ComponentReports),
		now:          time.Now,
	}
}

// GenerateWeeklyReport snapshots the week containing anchor. The anchor is
// normalized to its Monday, so any timestamp inside the week names the same
// report. If a snapshot already exists it is returned as is, even when the
// week's transactions have changed since.
func (s *ReportService) GenerateWeeklyReport(ctx context.Context, anchor time.Time) (core.WeeklyReport, error) {
	week := core.WeekOf(anchor)

	existing, err := s.reports.FindReportByWeekStart(ctx, week.Start)
	if err == nil {
		return existing, nil
	}
	if !core.IsNotFound(err) {
		return core.WeeklyReport{}, fmt.Errorf("look up existing report: %w", err)
	}

	txs, err := s.transactions.ListTransactions(ctx, week.Start, week.End)
	if err != nil {
		return core.WeeklyReport{}, fmt.Errorf("load week transactions: %w", err)
	}

	report := buildReport(week, txs, s.now())

	saved, err := s.reports.SaveReport(ctx, report)
	if core.IsConflict(err) {
		// Lost the race to a concurrent generator; the winner's snapshot
		// is the canonical one.
		s.logger.InfoContext(ctx, "Report already generated concurrently",
			log.FieldWeekStart, week.Start.Format("2006-01-02"))
		return s.reports.FindReportByWeekStart(ctx, week.Start)
	}
	if err != nil {
		return core.WeeklyReport{}, fmt.Errorf("save report: %w", err)
	}

	s.logger.InfoContext(ctx, "Weekly report generated",
		log.FieldOperation, log.OpGenerate,
		log.FieldReportID, saved.ID,
		log.FieldWeekStart, saved.WeekStart.Format("2006-01-02"),
		log.FieldTotalSpent, saved.TotalSpent.String(),
		"categories", len(saved.Breakdowns))

	s.publish(ctx, saved)

	return saved, nil
}

// buildReport assembles the snapshot for one week. The total comes from
// the raw transactions and so includes spending whose category has been
// deleted; breakdowns cover live categories only.
func buildReport(week core.Window, txs []core.Transaction, generatedAt time.Time) core.WeeklyReport {
	summary := core.Summarize(txs)
	groups := core.GroupByCategory(txs)

	breakdowns := make([]core.CategorySpending, 0, len(groups))
	for _, g := range groups {
		breakdowns = append(breakdowns, core.CategorySpending{
			CategoryID:   g.CategoryID,
			CategoryName: g.CategoryName,
			AmountSpent:  g.Total,
			TxCount:      g.Count,
		})
	}

	return core.WeeklyReport{
		WeekStart:   week.Start,
		WeekEnd:     week.Start.AddDate(0, 0, 6),
		TotalSpent:  summary.Total,
		GeneratedAt: generatedAt,
		Breakdowns:  breakdowns,
	}
}

// GetCurrentWeekReport returns the snapshot for the running week,
// generating it on first request.
func (s *ReportService) GetCurrentWeekReport(ctx context.Context) (core.WeeklyReport, error) {
	return s.GenerateWeeklyReport(ctx, s.now())
}

func (s *ReportService) GetReport(ctx context.Context, id int64) (core.WeeklyReport, error) {
	return s.reports.GetReport(ctx, id)
}

func (s *ReportService) GetReportForWeek(ctx context.Context, anchor time.Time) (core.WeeklyReport, error) {
	return s.reports.FindReportByWeekStart(ctx, core.MondayOf(anchor))
}

// GetRecentReports returns the stored snapshots for the last n weeks,
// newest first. Weeks that were never generated are simply absent.
func (s *ReportService) GetRecentReports(ctx context.Context, n int) ([]core.WeeklyReport, error) {
	if n <= 0 {
		n = 4
	}
	from := core.MondayOf(s.now()).AddDate(0, 0, -7*(n-1))
	return s.reports.ListReportsFrom(ctx, from)
}

func (s *ReportService) publish(ctx context.Context, report core.WeeklyReport) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishReportGenerated(ctx, report); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish report event",
			log.FieldReportID, report.ID,
			log.FieldError, err)
	}
}
