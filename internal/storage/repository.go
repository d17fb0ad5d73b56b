// Package storage persists the domain through SQLite. Amounts are stored
// as exact decimal strings, never floats, and timestamps as naive local
// "2006-01-02 15:04:05" text so range queries compare lexicographically.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/core"

	_ "modernc.org/sqlite"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	dateLayout = "2006-01-02"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint
// failure, the signal both report-week and category-name races rely on.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.ParseInLocation(timeLayout, s, time.Local)
	return t
}

func parseDate(s string) time.Time {
	t, _ := time.ParseInLocation(dateLayout, s, time.Local)
	return t
}

func parseAmountColumn(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt amount %q: %w", s, err)
	}
	return d, nil
}

// --- transactions ---

func (r *Repository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (amount, category_id, note, created_at) VALUES (?, ?, ?, ?)`,
		t.Amount.String(), t.CategoryID, t.Note, formatTime(t.CreatedAt))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction insert id: %w", err)
	}
	t.ID = id

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"amount", t.Amount.String(),
		"category_id", t.CategoryID)

	return t, nil
}

func (r *Repository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT t.id, t.amount, t.category_id, COALESCE(c.name, ''), t.note, t.created_at, t.updated_at
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return t, nil
}

func (r *Repository) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET amount = ?, category_id = ?, note = ?, updated_at = ? WHERE id = ?`,
		t.Amount.String(), t.CategoryID, t.Note, formatTime(t.UpdatedAt), t.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %d: %w", t.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction rows affected: %w", err)
	}
	if affected == 0 {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", t.ID, core.ErrNotFound)
	}
	return r.GetTransaction(ctx, t.ID)
}

func (r *Repository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// ListTransactions returns the transactions whose creation time falls in
// [start, end], both inclusive, in creation order.
func (r *Repository) ListTransactions(ctx context.Context, start, end time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.amount, t.category_id, COALESCE(c.name, ''), t.note, t.created_at, t.updated_at
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.created_at BETWEEN ? AND ?
		ORDER BY t.created_at, t.id`,
		formatTime(start), formatTime(end))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *Repository) ListRecentTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.amount, t.category_id, COALESCE(c.name, ''), t.note, t.created_at, t.updated_at
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *Repository) ListTransactionsByCategory(ctx context.Context, name string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.amount, t.category_id, c.name, t.note, t.created_at, t.updated_at
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE c.name = ? COLLATE NOCASE
		ORDER BY t.created_at DESC, t.id DESC`, name)
	if err != nil {
		return nil, fmt.Errorf("list transactions by category %q: %w", name, err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// TotalSpent sums every transaction amount exactly. The summation happens
// in Go because SQLite's SUM would degrade the decimal text to a float.
func (r *Repository) TotalSpent(ctx context.Context) (decimal.Decimal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT amount FROM transactions`)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total spent: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, fmt.Errorf("scan amount: %w", err)
		}
		d, err := parseAmountColumn(raw)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(d)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("iterate amounts: %w", err)
	}
	return total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t          core.Transaction
		rawAmount  string
		categoryID sql.NullInt64
		createdAt  string
		updatedAt  sql.NullString
	)
	if err := row.Scan(&t.ID, &rawAmount, &categoryID, &t.CategoryName, &t.Note, &createdAt, &updatedAt); err != nil {
		return core.Transaction{}, err
	}
	amount, err := parseAmountColumn(rawAmount)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Amount = amount
	t.CategoryID = categoryID.Int64
	t.CreatedAt = parseTime(createdAt)
	if updatedAt.Valid {
		t.UpdatedAt = parseTime(updatedAt.String)
	}
	return t, nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

// --- categories ---

func (r *Repository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, description, created_at) VALUES (?, ?, ?)`,
		c.Name, c.Description, formatTime(c.CreatedAt))
	if isUniqueViolation(err) {
		return core.Category{}, fmt.Errorf("category %q: %w", c.Name, core.ErrConflict)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category insert id: %w", err)
	}
	c.ID = id

	slog.InfoContext(ctx, "Category created", "id", c.ID, "name", c.Name)
	return c, nil
}

func (r *Repository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, nil
}

// FindCategoryByName looks a category up case-insensitively.
func (r *Repository) FindCategoryByName(ctx context.Context, name string) (core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM categories WHERE name = ? COLLATE NOCASE`, name)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("category %q: %w", name, core.ErrNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("find category %q: %w", name, err)
	}
	return c, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM categories ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return cats, nil
}

func (r *Repository) RenameCategory(ctx context.Context, id int64, name string) (core.Category, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE categories SET name = ? WHERE id = ?`, name, id)
	if isUniqueViolation(err) {
		return core.Category{}, fmt.Errorf("category name %q: %w", name, core.ErrConflict)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("rename category %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Category{}, fmt.Errorf("rename category rows affected: %w", err)
	}
	if affected == 0 {
		return core.Category{}, fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	return r.GetCategory(ctx, id)
}

func scanCategory(row rowScanner) (core.Category, error) {
	var (
		c         core.Category
		createdAt string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &createdAt); err != nil {
		return core.Category{}, err
	}
	c.CreatedAt = parseTime(createdAt)
	return c, nil
}

// --- weekly reports ---

// SaveReport persists a report and its breakdowns in one transaction. The
// UNIQUE week_start constraint turns a concurrent duplicate insert into
// core.ErrConflict so the caller can re-fetch the winner's report.
func (r *Repository) SaveReport(ctx context.Context, report core.WeeklyReport) (core.WeeklyReport, error) {
	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.WeeklyReport{}, fmt.Errorf("begin save report: %w", err)
	}
	defer dbtx.Rollback()

	res, err := dbtx.ExecContext(ctx,
		`INSERT INTO weekly_reports (week_start, week_end, total_spent, generated_at) VALUES (?, ?, ?, ?)`,
		report.WeekStart.Format(dateLayout),
		report.WeekEnd.Format(dateLayout),
		report.TotalSpent.String(),
		formatTime(report.GeneratedAt))
	if isUniqueViolation(err) {
		return core.WeeklyReport{}, fmt.Errorf("report for week %s: %w",
			report.WeekStart.Format(dateLayout), core.ErrConflict)
	}
	if err != nil {
		return core.WeeklyReport{}, fmt.Errorf("insert report: %w", err)
	}
	reportID, err := res.LastInsertId()
	if err != nil {
		return core.WeeklyReport{}, fmt.Errorf("report insert id: %w", err)
	}
	report.ID = reportID

	for i := range report.Breakdowns {
		b := &report.Breakdowns[i]
		b.ReportID = reportID
		res, err := dbtx.ExecContext(ctx,
			`INSERT INTO category_spending (report_id, category_id, amount_spent, tx_count) VALUES (?, ?, ?, ?)`,
			reportID, b.CategoryID, b.AmountSpent.String(), b.TxCount)
		if err != nil {
			return core.WeeklyReport{}, fmt.Errorf("insert breakdown for category %d: %w", b.CategoryID, err)
		}
		if b.ID, err = res.LastInsertId(); err != nil {
			return core.WeeklyReport{}, fmt.Errorf("breakdown insert id: %w", err)
		}
	}

	if err := dbtx.Commit(); err != nil {
		return core.WeeklyReport{}, fmt.Errorf("commit save report: %w", err)
	}

	slog.InfoContext(ctx, "Weekly report saved",
		"id", report.ID,
		"week_start", report.WeekStart.Format(dateLayout),
		"total_spent", report.TotalSpent.String(),
		"breakdowns", len(report.Breakdowns))

	return report, nil
}

func (r *Repository) FindReportByWeekStart(ctx context.Context, weekStart time.Time) (core.WeeklyReport, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, week_start, week_end, total_spent, generated_at
		FROM weekly_reports WHERE week_start = ?`,
		weekStart.Format(dateLayout))
	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.WeeklyReport{}, fmt.Errorf("report for week %s: %w",
			weekStart.Format(dateLayout), core.ErrNotFound)
	}
	if err != nil {
		return core.WeeklyReport{}, fmt.Errorf("find report: %w", err)
	}
	if report.Breakdowns, err = r.loadBreakdowns(ctx, report.ID); err != nil {
		return core.WeeklyReport{}, err
	}
	return report, nil
}

func (r *Repository) GetReport(ctx context.Context, id int64) (core.WeeklyReport, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, week_start, week_end, total_spent, generated_at
		FROM weekly_reports WHERE id = ?`, id)
	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.WeeklyReport{}, fmt.Errorf("report %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.WeeklyReport{}, fmt.Errorf("get report %d: %w", id, err)
	}
	if report.Breakdowns, err = r.loadBreakdowns(ctx, report.ID); err != nil {
		return core.WeeklyReport{}, err
	}
	return report, nil
}

// ListReportsFrom returns reports with week_start >= from, newest first.
func (r *Repository) ListReportsFrom(ctx context.Context, from time.Time) ([]core.WeeklyReport, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, week_start, week_end, total_spent, generated_at
		FROM weekly_reports WHERE week_start >= ?
		ORDER BY week_start DESC`,
		from.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []core.WeeklyReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	for i := range reports {
		if reports[i].Breakdowns, err = r.loadBreakdowns(ctx, reports[i].ID); err != nil {
			return nil, err
		}
	}
	return reports, nil
}

func (r *Repository) DeleteReport(ctx context.Context, id int64) error {
	// category_spending rows go with it via ON DELETE CASCADE.
	res, err := r.db.ExecContext(ctx, `DELETE FROM weekly_reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete report %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete report rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("report %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *Repository) loadBreakdowns(ctx context.Context, reportID int64) ([]core.CategorySpending, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT cs.id, cs.report_id, cs.category_id, COALESCE(c.name, ''), cs.amount_spent, cs.tx_count
		FROM category_spending cs
		LEFT JOIN categories c ON c.id = cs.category_id
		WHERE cs.report_id = ?
		ORDER BY cs.id`, reportID)
	if err != nil {
		return nil, fmt.Errorf("load breakdowns for report %d: %w", reportID, err)
	}
	defer rows.Close()

	var breakdowns []core.CategorySpending
	for rows.Next() {
		var (
			b         core.CategorySpending
			rawAmount string
		)
		if err := rows.Scan(&b.ID, &b.ReportID, &b.CategoryID, &b.CategoryName, &rawAmount, &b.TxCount); err != nil {
			return nil, fmt.Errorf("scan breakdown: %w", err)
		}
		if b.AmountSpent, err = parseAmountColumn(rawAmount); err != nil {
			return nil, err
		}
		breakdowns = append(breakdowns, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate breakdowns: %w", err)
	}
	return breakdowns, nil
}

func scanReport(row rowScanner) (core.WeeklyReport, error) {
	var (
		report      core.WeeklyReport
		weekStart   string
		weekEnd     string
		rawTotal    string
		generatedAt string
	)
	if err := row.Scan(&report.ID, &weekStart, &weekEnd, &rawTotal, &generatedAt); err != nil {
		return core.WeeklyReport{}, err
	}
	total, err := parseAmountColumn(rawTotal)
	if err != nil {
		return core.WeeklyReport{}, err
	}
	report.TotalSpent = total
	report.WeekStart = parseDate(weekStart)
	report.WeekEnd = parseDate(weekEnd)
	report.GeneratedAt = parseTime(generatedAt)
	return report, nil
}
