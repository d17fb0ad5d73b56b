package http

import (
	"net/http"
	"time"

	"spendtrack/internal/core"
)

type (
	reportResponse struct {
		ID          int64               `json:"id"`
		WeekStart   string              `json:"weekStart"`
		WeekEnd     string              `json:"weekEnd"`
		TotalSpent  string              `json:"totalSpent"`
		GeneratedAt string              `json:"generatedAt"`
		Breakdowns  []breakdownResponse `json:"breakdowns"`
	}

	breakdownResponse struct {
		CategoryID            int64  `json:"categoryId"`
		CategoryName          string `json:"categoryName"`
		AmountSpent           string `json:"amountSpent"`
		TransactionCount      int    `json:"transactionCount"`
		AveragePerTransaction string `json:"averagePerTransaction"`
		PercentageOfWeekTotal string `json:"percentageOfWeekTotal"`
	}
)

func toReportResponse(r core.WeeklyReport) reportResponse {
	breakdowns := make([]breakdownResponse, 0, len(r.Breakdowns))
	for _, b := range r.Breakdowns {
		breakdowns = append(breakdowns, breakdownResponse{
			CategoryID:            b.CategoryID,
			CategoryName:          b.CategoryName,
			AmountSpent:           core.FormatAmount(b.AmountSpent),
			TransactionCount:      b.TxCount,
			AveragePerTransaction: core.FormatAmount(b.AveragePerTransaction()),
			PercentageOfWeekTotal: core.FormatAmount(b.PercentageOf(r.TotalSpent)),
		})
	}
	return reportResponse{
		ID:          r.ID,
		WeekStart:   r.WeekStart.Format("2006-01-02"),
		WeekEnd:     r.WeekEnd.Format("2006-01-02"),
		TotalSpent:  core.FormatAmount(r.TotalSpent),
		GeneratedAt: r.GeneratedAt.Format(time.RFC3339),
		Breakdowns:  breakdowns,
	}
}

func toReportResponses(reports []core.WeeklyReport) []reportResponse {
	out := make([]reportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, toReportResponse(r))
	}
	return out
}

// handleReports serves GET /api/reports?weeks=n, the recent snapshots.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	weeks := parseCountQuery(r, "weeks", 4)
	reports, err := s.reports.GetRecentReports(r.Context(), weeks)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportResponses(reports))
}

// handleReportByID serves GET /api/reports/{id}.
func (s *Server) handleReportByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	id, ok := pathID(r, "/api/reports/")
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}

	report, err := s.reports.GetReport(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportResponse(report))
}

// handleCurrentReport serves GET /api/reports/current, generating the
// running week's snapshot on first request.
func (s *Server) handleCurrentReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	report, err := s.reports.GetCurrentWeekReport(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportResponse(report))
}

// handleGenerateReport serves POST /api/reports/generate?date=YYYY-MM-DD.
// Generation is idempotent, so re-posting the same week returns the
// stored snapshot with 200 instead of creating a duplicate.
func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	anchor, ok := parseDateQuery(r, "date", time.Now())
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date, want YYYY-MM-DD"})
		return
	}

	existing, err := s.reports.GetReportForWeek(r.Context(), anchor)
	if err == nil {
		writeJSON(w, http.StatusOK, toReportResponse(existing))
		return
	}
	if !core.IsNotFound(err) {
		writeError(w, r, err)
		return
	}

	report, err := s.reports.GenerateWeeklyReport(r.Context(), anchor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReportResponse(report))
}
