package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/core"
	"spendtrack/internal/log"
)

type (
	// DashboardSummary is the at-a-glance view: lifetime and period
	// totals, a month-over-month trend, the running week's aggregates,
	// and the latest transactions.
	DashboardSummary struct {
		TotalSpent         decimal.Decimal      `json:"totalSpent"`
		CurrentMonthSpent  decimal.Decimal      `json:"currentMonthSpent"`
		PreviousMonthSpent decimal.Decimal      `json:"previousMonthSpent"`
		MonthlyTrend       core.TrendData       `json:"monthlyTrend"`
		CurrentWeek        WeekSummary          `json:"currentWeek"`
		RecentTransactions []core.Transaction   `json:"recentTransactions"`
		TopCategories      []CategoryShare      `json:"topCategories"`
	}

	// WeekSummary is the running week's aggregate view.
	WeekSummary struct {
		WeekStart        time.Time       `json:"weekStart"`
		WeekEnd          time.Time       `json:"weekEnd"`
		Total            decimal.Decimal `json:"total"`
		TransactionCount int             `json:"transactionCount"`
		CategoryCount    int             `json:"categoryCount"`
		DailyAverage     decimal.Decimal `json:"dailyAverage"`
	}

	// CategoryShare is a category's slice of the current week with its
	// percentage of the week total.
	CategoryShare struct {
		CategoryID   int64           `json:"categoryId"`
		CategoryName string          `json:"categoryName"`
		Total        decimal.Decimal `json:"total"`
		Count        int             `json:"count"`
		Percentage   decimal.Decimal `json:"percentageOfWeekTotal"`
	}

	// TrendPoint is one week on the spending trend chart.
	TrendPoint struct {
		WeekStart        time.Time       `json:"weekStart"`
		Label            string          `json:"label"`
		Total            decimal.Decimal `json:"total"`
		TransactionCount int             `json:"transactionCount"`
	}

	// WeeklyTrend is a chart-ready series of week totals plus the change
	// between the two most recent weeks.
	WeeklyTrend struct {
		Points []TrendPoint   `json:"points"`
		Change core.TrendData `json:"change"`
	}
)

// DashboardService assembles read-only composite views. It always computes
// from live transactions, never from stored report snapshots.
type DashboardService struct {
	transactions TransactionStore
	logger       *log.Logger
	now          func() time.Time
}

func NewDashboardService(transactions TransactionStore, logger *log.Logger) *DashboardService {
	return &DashboardService{
		transactions: transactions,
		logger:       logger.WithComponent(log.ComponentDashboard),
		now:          time.Now,
	}
}

// GetSummary builds the dashboard view for the instant now.
func (s *DashboardService) GetSummary(ctx context.Context) (DashboardSummary, error) {
	now := s.now()

	total, err := s.transactions.TotalSpent(ctx)
	if err != nil {
		return DashboardSummary{}, fmt.Errorf("total spent: %w", err)
	}

	currentMonth, err := s.windowSummary(ctx, core.CurrentMonth(now))
	if err != nil {
		return DashboardSummary{}, fmt.Errorf("current month: %w", err)
	}
	previousMonth, err := s.windowSummary(ctx, core.PreviousMonth(now))
	if err != nil {
		return DashboardSummary{}, fmt.Errorf("previous month: %w", err)
	}

	week := core.CurrentWeek(now)
	weekTxs, err := s.transactions.ListTransactions(ctx, week.Start, week.End)
	if err != nil {
		return DashboardSummary{}, fmt.Errorf("current week transactions: %w", err)
	}
	summary := core.Summarize(weekTxs)

	recent, err := s.transactions.ListRecentTransactions(ctx, 10)
	if err != nil {
		return DashboardSummary{}, fmt.Errorf("recent transactions: %w", err)
	}

	groups := core.GroupByCategory(weekTxs)
	shares := make([]CategoryShare, 0, len(groups))
	for _, g := range groups {
		cs := core.CategorySpending{AmountSpent: g.Total}
		shares = append(shares, CategoryShare{
			CategoryID:   g.CategoryID,
			CategoryName: g.CategoryName,
			Total:        g.Total,
			Count:        g.Count,
			Percentage:   cs.PercentageOf(summary.Total),
		})
	}

	return DashboardSummary{
		TotalSpent:         total,
		CurrentMonthSpent:  currentMonth.Total,
		PreviousMonthSpent: previousMonth.Total,
		MonthlyTrend:       core.Trend(currentMonth.Total, previousMonth.Total),
		CurrentWeek: WeekSummary{
			WeekStart:        week.Start,
			WeekEnd:          week.End,
			Total:            summary.Total,
			TransactionCount: summary.TransactionCount,
			CategoryCount:    summary.CategoryCount,
			DailyAverage:     summary.DailyAverage,
		},
		RecentTransactions: recent,
		TopCategories:      shares,
	}, nil
}

// GetWeeklyTrend returns the totals of the last n weeks, oldest first,
// with the change between the two most recent weeks.
func (s *DashboardService) GetWeeklyTrend(ctx context.Context, n int) (WeeklyTrend, error) {
	if n <= 0 {
		n = 4
	}

	windows := core.LastNWeeks(s.now(), n)
	points := make([]TrendPoint, 0, len(windows))
	for _, w := range windows {
		summary, err := s.windowSummary(ctx, w)
		if err != nil {
			return WeeklyTrend{}, fmt.Errorf("week of %s: %w", w.Start.Format("2006-01-02"), err)
		}
		points = append(points, TrendPoint{
			WeekStart:        w.Start,
			Label:            w.Start.Format("Jan 02"),
			Total:            summary.Total,
			TransactionCount: summary.TransactionCount,
		})
	}

	var change core.TrendData
	if len(points) >= 2 {
		change = core.Trend(points[len(points)-1].Total, points[len(points)-2].Total)
	} else if len(points) == 1 {
		change = core.Trend(points[0].Total, decimal.Zero)
	}

	return WeeklyTrend{Points: points, Change: change}, nil
}

func (s *DashboardService) windowSummary(ctx context.Context, w core.Window) (core.Summary, error) {
	txs, err := s.transactions.ListTransactions(ctx, w.Start, w.End)
	if err != nil {
		return core.Summary{}, err
	}
	return core.Summarize(txs), nil
}
