// Package services holds the application logic between the HTTP layer
// and storage.
package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/core"
)

// TransactionStore is the persistence surface the spending services need.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
	ListTransactions(ctx context.Context, start, end time.Time) ([]core.Transaction, error)
	ListRecentTransactions(ctx context.Context, limit int) ([]core.Transaction, error)
	ListTransactionsByCategory(ctx context.Context, name string) ([]core.Transaction, error)
	TotalSpent(ctx context.Context) (decimal.Decimal, error)
}

type CategoryStore interface {
	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	GetCategory(ctx context.Context, id int64) (core.Category, error)
	FindCategoryByName(ctx context.Context, name string) (core.Category, error)
	ListCategories(ctx context.Context) ([]core.Category, error)
	RenameCategory(ctx context.Context, id int64, name string) (core.Category, error)
}

type ReportStore interface {
	SaveReport(ctx context.Context, report core.WeeklyReport) (core.WeeklyReport, error)
	GetReport(ctx context.Context, id int64) (core.WeeklyReport, error)
	FindReportByWeekStart(ctx context.Context, weekStart time.Time) (core.WeeklyReport, error)
	ListReportsFrom(ctx context.Context, from time.Time) ([]core.WeeklyReport, error)
}

// EventPublisher announces generated reports to interested consumers.
// Publishing is best effort and must never fail report generation.
type EventPublisher interface {
	PublishReportGenerated(ctx context.Context, report core.WeeklyReport) error
}
