package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/core"
	"spendtrack/internal/log"
)

func testLogger() *log.Logger {
	return log.New(log.DefaultConfig())
}

// fakeStore is an in-memory TransactionStore, CategoryStore and
// ReportStore, enough for the service tests to run without SQLite.
type fakeStore struct {
	transactions map[int64]core.Transaction
	categories   map[int64]core.Category
	reports      map[int64]core.WeeklyReport

	nextID int64

	// saveReportHook runs before SaveReport commits, letting tests
	// inject a concurrent winner.
	saveReportHook func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		transactions: make(map[int64]core.Transaction),
		categories:   make(map[int64]core.Category),
		reports:      make(map[int64]core.WeeklyReport),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	t.ID = f.id()
	f.transactions[t.ID] = t
	return t, nil
}

func (f *fakeStore) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	t, ok := f.transactions[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	if c, ok := f.categories[t.CategoryID]; ok {
		t.CategoryName = c.Name
	} else {
		t.CategoryID = 0
		t.CategoryName = ""
	}
	return t, nil
}

func (f *fakeStore) UpdateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if _, ok := f.transactions[t.ID]; !ok {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", t.ID, core.ErrNotFound)
	}
	f.transactions[t.ID] = t
	return t, nil
}

func (f *fakeStore) DeleteTransaction(_ context.Context, id int64) error {
	if _, ok := f.transactions[id]; !ok {
		return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	delete(f.transactions, id)
	return nil
}

func (f *fakeStore) ListTransactions(ctx context.Context, start, end time.Time) ([]core.Transaction, error) {
	var txs []core.Transaction
	for id := range f.transactions {
		t, _ := f.GetTransaction(ctx, id)
		if t.CreatedAt.Before(start) || t.CreatedAt.After(end) {
			continue
		}
		txs = append(txs, t)
	}
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			return txs[i].ID < txs[j].ID
		}
		return txs[i].CreatedAt.Before(txs[j].CreatedAt)
	})
	return txs, nil
}

func (f *fakeStore) ListRecentTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	var txs []core.Transaction
	for id := range f.transactions {
		t, _ := f.GetTransaction(ctx, id)
		txs = append(txs, t)
	}
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			return txs[i].ID > txs[j].ID
		}
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
	if len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

func (f *fakeStore) ListTransactionsByCategory(ctx context.Context, name string) ([]core.Transaction, error) {
	var txs []core.Transaction
	for id := range f.transactions {
		t, _ := f.GetTransaction(ctx, id)
		if strings.EqualFold(t.CategoryName, name) {
			txs = append(txs, t)
		}
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].ID < txs[j].ID })
	return txs, nil
}

func (f *fakeStore) TotalSpent(context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range f.transactions {
		total = total.Add(t.Amount)
	}
	return total, nil
}

func (f *fakeStore) CreateCategory(_ context.Context, c core.Category) (core.Category, error) {
	for _, existing := range f.categories {
		if strings.EqualFold(existing.Name, c.Name) {
			return core.Category{}, fmt.Errorf("category %q: %w", c.Name, core.ErrConflict)
		}
	}
	c.ID = f.id()
	f.categories[c.ID] = c
	return c, nil
}

func (f *fakeStore) GetCategory(_ context.Context, id int64) (core.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return core.Category{}, fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	return c, nil
}

func (f *fakeStore) FindCategoryByName(_ context.Context, name string) (core.Category, error) {
	for _, c := range f.categories {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return core.Category{}, fmt.Errorf("category %q: %w", name, core.ErrNotFound)
}

func (f *fakeStore) ListCategories(context.Context) ([]core.Category, error) {
	var cats []core.Category
	for _, c := range f.categories {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		return strings.ToLower(cats[i].Name) < strings.ToLower(cats[j].Name)
	})
	return cats, nil
}

func (f *fakeStore) RenameCategory(_ context.Context, id int64, name string) (core.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return core.Category{}, fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	for otherID, other := range f.categories {
		if otherID != id && strings.EqualFold(other.Name, name) {
			return core.Category{}, fmt.Errorf("category name %q: %w", name, core.ErrConflict)
		}
	}
	c.Name = name
	f.categories[id] = c
	return c, nil
}

func (f *fakeStore) SaveReport(_ context.Context, report core.WeeklyReport) (core.WeeklyReport, error) {
	if f.saveReportHook != nil {
		f.saveReportHook()
	}
	for _, existing := range f.reports {
		if existing.WeekStart.Equal(report.WeekStart) {
			return core.WeeklyReport{}, fmt.Errorf("report for week %s: %w",
				report.WeekStart.Format("2006-01-02"), core.ErrConflict)
		}
	}
	report.ID = f.id()
	for i := range report.Breakdowns {
		report.Breakdowns[i].ID = f.id()
		report.Breakdowns[i].ReportID = report.ID
	}
	f.reports[report.ID] = report
	return report, nil
}

func (f *fakeStore) GetReport(_ context.Context, id int64) (core.WeeklyReport, error) {
	r, ok := f.reports[id]
	if !ok {
		return core.WeeklyReport{}, fmt.Errorf("report %d: %w", id, core.ErrNotFound)
	}
	return r, nil
}

func (f *fakeStore) FindReportByWeekStart(_ context.Context, weekStart time.Time) (core.WeeklyReport, error) {
	for _, r := range f.reports {
		if r.WeekStart.Equal(weekStart) {
			return r, nil
		}
	}
	return core.WeeklyReport{}, fmt.Errorf("report for week %s: %w",
		weekStart.Format("2006-01-02"), core.ErrNotFound)
}

func (f *fakeStore) ListReportsFrom(_ context.Context, from time.Time) ([]core.WeeklyReport, error) {
	var reports []core.WeeklyReport
	for _, r := range f.reports {
		if !r.WeekStart.Before(from) {
			reports = append(reports, r)
		}
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].WeekStart.After(reports[j].WeekStart)
	})
	return reports, nil
}

// fakePublisher records published reports.
type fakePublisher struct {
	published []core.WeeklyReport
	err       error
}

func (p *fakePublisher) PublishReportGenerated(_ context.Context, report core.WeeklyReport) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, report)
	return nil
}
