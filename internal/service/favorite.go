package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/appetiteapp/backend/internal/model"
)

// FavoriteService mutates the favorite flag of a recipe. The flag is a
// single shared field on the recipe row, so concurrent toggles from
// different clients are last-write-wins.
type FavoriteService struct {
	db *gorm.DB
}

// NewFavoriteService creates a new FavoriteService instance
func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// Toggle sets the favorite flag to the desired value. It is an absolute set,
// not an increment, so repeated identical calls converge. Returns
// model.ErrNotFound when the recipe was deleted in the meantime, the common
// race between a list fetch and a favorite action.
func (s *FavoriteService) Toggle(ctx context.Context, recipeID uint, desired bool) (*model.FavoriteStatus, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Recipe{}).
		Where("id = ?", recipeID).
		Update("favorite", desired)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to set favorite on recipe %d: %w", recipeID, result.Error)
	}
	if result.RowsAffected == 0 {
		// Update matched no row: either the recipe is gone, or the flag
		// already holds the desired value on dialects that skip no-op
		// writes. Distinguish with a lookup.
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check recipe %d: %w", recipeID, err)
		}
		if count == 0 {
			return nil, model.ErrNotFound
		}
	}

	return &model.FavoriteStatus{ID: recipeID, Favorite: desired}, nil
}
