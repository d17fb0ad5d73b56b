package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"spendtrack/internal/core"
	"spendtrack/internal/log"
)

// CategoryService manages the category catalogue.
type CategoryService struct {
	categories CategoryStore
	logger     *log.Logger
	now        func() time.Time
}

func NewCategoryService(categories CategoryStore, logger *log.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		logger:     logger.WithComponent(log.ComponentApp),
		now:        time.Now,
	}
}

// CreateCategory adds a category after normalizing its name. Duplicate
// names, compared case-insensitively, are rejected with core.ErrConflict.
func (s *CategoryService) CreateCategory(ctx context.Context, name, description string) (core.Category, error) {
	normalized, err := core.ValidateCategoryName(name)
	if err != nil {
		return core.Category{}, err
	}

	created, err := s.categories.CreateCategory(ctx, core.Category{
		Name:        normalized,
		Description: strings.TrimSpace(description),
		CreatedAt:   s.now(),
	})
	if err != nil {
		return core.Category{}, err
	}

	s.logger.InfoContext(ctx, "Category created",
		log.FieldCategoryID, created.ID,
		log.FieldCategory, created.Name)

	return created, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	return s.categories.GetCategory(ctx, id)
}

func (s *CategoryService) FindByName(ctx context.Context, name string) (core.Category, error) {
	normalized, err := core.ValidateCategoryName(name)
	if err != nil {
		return core.Category{}, err
	}
	return s.categories.FindCategoryByName(ctx, normalized)
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]core.Category, error) {
	return s.categories.ListCategories(ctx)
}

// RenameCategory changes a category's name, keeping the uniqueness rule.
func (s *CategoryService) RenameCategory(ctx context.Context, id int64, name string) (core.Category, error) {
	normalized, err := core.ValidateCategoryName(name)
	if err != nil {
		return core.Category{}, err
	}

	renamed, err := s.categories.RenameCategory(ctx, id, normalized)
	if err != nil {
		return core.Category{}, fmt.Errorf("rename category: %w", err)
	}

	s.logger.InfoContext(ctx, "Category renamed",
		log.FieldCategoryID, renamed.ID,
		log.FieldCategory, renamed.Name)

	return renamed, nil
}
