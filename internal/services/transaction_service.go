package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/core"
	"spendtrack/internal/log"
)

// TransactionService records and edits spending transactions. Categories
// are resolved by name and created on first use.
type TransactionService struct {
	transactions TransactionStore
	categories   CategoryStore
	logger       *log.Logger
	now          func() time.Time
}

func NewTransactionService(transactions TransactionStore, categories CategoryStore, logger *log.Logger) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		categories:   categories,
		logger:       logger.WithComponent(log.ComponentApp),
		now:          time.Now,
	}
}

// RecordTransaction validates and stores a new transaction. The raw amount
// string is parsed exactly, never through a float.
func (s *TransactionService) RecordTransaction(ctx context.Context, rawAmount, categoryName, note string) (core.Transaction, error) {
	amount, err := core.ParseAmount(rawAmount)
	if err != nil {
		return core.Transaction{}, &core.ValidationError{Field: "amount", Reason: err}
	}

	category, err := s.resolveCategory(ctx, categoryName)
	if err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{
		Amount:     amount,
		CategoryID: category.ID,
		Note:       strings.TrimSpace(note),
		CreatedAt:  s.now(),
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	saved, err := s.transactions.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("record transaction: %w", err)
	}
	saved.CategoryName = category.Name

	s.logger.InfoContext(ctx, "Transaction recorded",
		log.FieldOperation, log.OpRecord,
		log.FieldTransactionID, saved.ID,
		log.FieldAmount, saved.Amount.String(),
		log.FieldCategory, category.Name)

	return saved, nil
}

func (s *TransactionService) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	return s.transactions.GetTransaction(ctx, id)
}

// UpdateTransaction replaces the amount, category and note of an existing
// transaction and stamps its update time.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id int64, rawAmount, categoryName, note string) (core.Transaction, error) {
	existing, err := s.transactions.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}

	amount, err := core.ParseAmount(rawAmount)
	if err != nil {
		return core.Transaction{}, &core.ValidationError{Field: "amount", Reason: err}
	}

	category, err := s.resolveCategory(ctx, categoryName)
	if err != nil {
		return core.Transaction{}, err
	}

	existing.Amount = amount
	existing.CategoryID = category.ID
	existing.Note = strings.TrimSpace(note)
	existing.UpdatedAt = s.now()
	if err := existing.Validate(); err != nil {
		return core.Transaction{}, err
	}

	updated, err := s.transactions.UpdateTransaction(ctx, existing)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldTransactionID, updated.ID)

	return updated, nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.transactions.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Transaction deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldTransactionID, id)
	return nil
}

func (s *TransactionService) RecentTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.transactions.ListRecentTransactions(ctx, limit)
}

// TransactionsBetween lists transactions created between two instants,
// inclusive on both ends.
func (s *TransactionService) TransactionsBetween(ctx context.Context, start, end time.Time) ([]core.Transaction, error) {
	return s.transactions.ListTransactions(ctx, start, end)
}

// TodaySpending lists today's transactions along with their exact total.
func (s *TransactionService) TodaySpending(ctx context.Context) ([]core.Transaction, decimal.Decimal, error) {
	window := core.Day(s.now())
	txs, err := s.transactions.ListTransactions(ctx, window.Start, window.End)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("list today's transactions: %w", err)
	}
	return txs, core.Summarize(txs).Total, nil
}

func (s *TransactionService) TransactionsByCategory(ctx context.Context, name string) ([]core.Transaction, error) {
	normalized, err := core.ValidateCategoryName(name)
	if err != nil {
		return nil, err
	}
	return s.transactions.ListTransactionsByCategory(ctx, normalized)
}

// resolveCategory finds a category by name or creates it when missing.
// A concurrent create of the same name is resolved by re-reading.
func (s *TransactionService) resolveCategory(ctx context.Context, name string) (core.Category, error) {
	normalized, err := core.ValidateCategoryName(name)
	if err != nil {
		return core.Category{}, err
	}

	category, err := s.categories.FindCategoryByName(ctx, normalized)
	if err == nil {
		return category, nil
	}
	if !core.IsNotFound(err) {
		return core.Category{}, fmt.Errorf("find category: %w", err)
	}

	created, err := s.categories.CreateCategory(ctx, core.Category{
		Name:      normalized,
		CreatedAt: s.now(),
	})
	if core.IsConflict(err) {
		return s.categories.FindCategoryByName(ctx, normalized)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	return created, nil
}
