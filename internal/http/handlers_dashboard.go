package http

import (
	"fmt"
	"net/http"
	"time"

	"spendtrack/internal/core"
	"spendtrack/internal/services"
)

type (
	dashboardSummaryResponse struct {
		TotalSpent         string                  `json:"totalSpent"`
		CurrentMonthSpent  string                  `json:"currentMonthSpent"`
		PreviousMonthSpent string                  `json:"previousMonthSpent"`
		MonthlyTrend       trendResponse           `json:"monthlyTrend"`
		CurrentWeek        weekSummaryResponse     `json:"currentWeek"`
		RecentTransactions []transactionResponse   `json:"recentTransactions"`
		TopCategories      []categoryShareResponse `json:"topCategories"`
	}

	trendResponse struct {
		Direction  string `json:"direction"`
		Percentage string `json:"percentage"`
	}

	weekSummaryResponse struct {
		WeekStart        string `json:"weekStart"`
		WeekEnd          string `json:"weekEnd"`
		Total            string `json:"total"`
		TransactionCount int    `json:"transactionCount"`
		CategoryCount    int    `json:"categoryCount"`
		DailyAverage     string `json:"dailyAverage"`
	}

	categoryShareResponse struct {
		CategoryID   int64  `json:"categoryId"`
		CategoryName string `json:"categoryName"`
		Total        string `json:"total"`
		Count        int    `json:"count"`
		Percentage   string `json:"percentageOfWeekTotal"`
	}

	weeklyTrendResponse struct {
		Points []trendPointResponse `json:"points"`
		Change trendResponse        `json:"change"`
	}

	trendPointResponse struct {
		WeekStart        string `json:"weekStart"`
		Label            string `json:"label"`
		Total            string `json:"total"`
		TransactionCount int    `json:"transactionCount"`
	}
)

func toTrendResponse(t core.TrendData) trendResponse {
	return trendResponse{
		Direction:  t.Direction,
		Percentage: core.FormatAmount(t.Percentage),
	}
}

func toDashboardSummaryResponse(s services.DashboardSummary) dashboardSummaryResponse {
	shares := make([]categoryShareResponse, 0, len(s.TopCategories))
	for _, share := range s.TopCategories {
		shares = append(shares, categoryShareResponse{
			CategoryID:   share.CategoryID,
			CategoryName: share.CategoryName,
			Total:        core.FormatAmount(share.Total),
			Count:        share.Count,
			Percentage:   core.FormatAmount(share.Percentage),
		})
	}
	return dashboardSummaryResponse{
		TotalSpent:         core.FormatAmount(s.TotalSpent),
		CurrentMonthSpent:  core.FormatAmount(s.CurrentMonthSpent),
		PreviousMonthSpent: core.FormatAmount(s.PreviousMonthSpent),
		MonthlyTrend:       toTrendResponse(s.MonthlyTrend),
		CurrentWeek: weekSummaryResponse{
			WeekStart:        s.CurrentWeek.WeekStart.Format("2006-01-02"),
			WeekEnd:          s.CurrentWeek.WeekEnd.Format(time.RFC3339),
			Total:            core.FormatAmount(s.CurrentWeek.Total),
			TransactionCount: s.CurrentWeek.TransactionCount,
			CategoryCount:    s.CurrentWeek.CategoryCount,
			DailyAverage:     core.FormatAmount(s.CurrentWeek.DailyAverage),
		},
		RecentTransactions: toTransactionResponses(s.RecentTransactions),
		TopCategories:      shares,
	}
}

// handleDashboardSummary serves GET /api/dashboard/summary, cached
// briefly because it reads several aggregates at once.
func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	if cached, ok := s.summaryCache.Get("summary"); ok {
		writeJSON(w, http.StatusOK, toDashboardSummaryResponse(cached))
		return
	}

	summary, err := s.dashboard.GetSummary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.summaryCache.Set("summary", summary)

	writeJSON(w, http.StatusOK, toDashboardSummaryResponse(summary))
}

// handleWeeklyTrend serves GET /api/dashboard/weekly-trend?weeks=n.
func (s *Server) handleWeeklyTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	weeks := parseCountQuery(r, "weeks", 4)
	cacheKey := fmt.Sprintf("trend:%d", weeks)

	trend, ok := s.trendCache.Get(cacheKey)
	if !ok {
		var err error
		trend, err = s.dashboard.GetWeeklyTrend(r.Context(), weeks)
		if err != nil {
			writeError(w, r, err)
			return
		}
		s.trendCache.Set(cacheKey, trend)
	}

	points := make([]trendPointResponse, 0, len(trend.Points))
	for _, p := range trend.Points {
		points = append(points, trendPointResponse{
			WeekStart:        p.WeekStart.Format("2006-01-02"),
			Label:            p.Label,
			Total:            core.FormatAmount(p.Total),
			TransactionCount: p.TransactionCount,
		})
	}
	writeJSON(w, http.StatusOK, weeklyTrendResponse{
		Points: points,
		Change: toTrendResponse(trend.Change),
	})
}
