package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/appetiteapp/backend/internal/model"
)

// CategoryService is the read-only registry of recipe categories.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryService instance
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// Seed upserts the fixed category set. Existing rows are left untouched, so
// running it on every startup is a no-op after the first.
func (s *CategoryService) Seed(ctx context.Context) error {
	categories := model.SeededCategories()
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&categories).Error
	if err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	return nil
}

// List returns all categories ordered by id.
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := s.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Exists reports whether a category with the given id is in the registry.
func (s *CategoryService) Exists(ctx context.Context, id uint) (bool, error) {
	if id == 0 {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check category %d: %w", id, err)
	}
	return count > 0, nil
}
