// Package google exports weekly reports to a Google Sheets spreadsheet
// using service account credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"spendtrack/internal/core"

	ports "spendtrack/internal/export"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	reportsSheet  string
}

var _ ports.ReportWriter = (*Client)(nil)

// New creates a Sheets client for the given spreadsheet. Credentials come
// from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, spreadsheetID, reportsSheet string) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if reportsSheet = strings.TrimSpace(reportsSheet); reportsSheet == "" {
		reportsSheet = "Reports"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		reportsSheet:  reportsSheet,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		data, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// AppendReport writes one summary row followed by one row per category
// breakdown. Amounts are written as strings so the sheet never truncates
// the decimals.
func (c *Client) AppendReport(ctx context.Context, report core.WeeklyReport) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	rows := buildRows(report)
	rng := fmt.Sprintf("%s!A:F", c.reportsSheet)
	vr := &gsheet.ValueRange{Values: rows}

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append report to sheet %s: %w", c.reportsSheet, err)
	}

	rowRef := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		rowRef = resp.Updates.UpdatedRange
	}

	slog.InfoContext(ctx, "Exported weekly report to sheet",
		"report_id", report.ID,
		"week_start", report.WeekStart.Format("2006-01-02"),
		"rows", len(rows),
		"range", rowRef)

	return rowRef, nil
}

// buildRows flattens a report into sheet rows. The first row carries the
// week summary; each breakdown row repeats the week start for filtering.
func buildRows(report core.WeeklyReport) [][]any {
	weekStart := report.WeekStart.Format("2006-01-02")
	rows := [][]any{{
		weekStart,
		report.WeekEnd.Format("2006-01-02"),
		"TOTAL",
		core.FormatAmount(report.TotalSpent),
		len(report.Breakdowns),
		report.GeneratedAt.Format("2006-01-02 15:04:05"),
	}}
	for _, b := range report.Breakdowns {
		rows = append(rows, []any{
			weekStart,
			"",
			b.CategoryName,
			core.FormatAmount(b.AmountSpent),
			b.TxCount,
			core.FormatAmount(b.PercentageOf(report.TotalSpent)),
		})
	}
	return rows
}
