package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/appetiteapp/backend/internal/model"
)

// CreateRecipeInput is the validated submission for a new recipe.
type CreateRecipeInput struct {
	Title           string
	Description     string
	Ingredients     model.IngredientList
	Steps           string
	PrepTimeMinutes int
	CategoryID      uint
	Difficulty      string
	Rating          int
	ImageRef        string
	OwnerID         uint
}

// ListOptions narrow a catalog listing. Zero values mean "no filter";
// predicates compose with AND.
type ListOptions struct {
	CategoryID    uint
	Search        string
	Difficulty    string
	FavoritesOnly bool
}

// RecipeService owns persisted recipe records.
type RecipeService struct {
	db         *gorm.DB
	categories *CategoryService
	images     *ImageService
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, categories *CategoryService, images *ImageService) *RecipeService {
	return &RecipeService{
		db:         db,
		categories: categories,
		images:     images,
	}
}

const joinCategoryName = "LEFT JOIN categories ON categories.id = recipes.category_id"

// Create validates and persists a new recipe. Uniqueness of the title rides
// on the store's unique index inside the insert, so concurrent submissions
// with the same title cannot both succeed.
func (s *RecipeService) Create(ctx context.Context, input CreateRecipeInput) (*model.Recipe, error) {
	if err := s.validate(ctx, &input); err != nil {
		return nil, err
	}

	recipe := model.Recipe{
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		Ingredients:     input.Ingredients,
		Steps:           input.Steps,
		PrepTimeMinutes: input.PrepTimeMinutes,
		CategoryID:      input.CategoryID,
		Difficulty:      input.Difficulty,
		Rating:          input.Rating,
		ImageRef:        input.ImageRef,
		Favorite:        false,
		OwnerID:         input.OwnerID,
	}

	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, model.ErrDuplicateTitle
		}
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	return s.GetByID(ctx, recipe.ID)
}

func (s *RecipeService) validate(ctx context.Context, input *CreateRecipeInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return &model.ValidationError{Field: "title", Message: "is required"}
	}
	if input.Difficulty = model.ParseDifficulty(input.Difficulty); input.Difficulty == "" {
		return &model.ValidationError{Field: "difficulty", Message: "must be EASY, MEDIUM or HARD"}
	}
	if input.Rating < 0 || input.Rating > 5 {
		return &model.ValidationError{Field: "rating", Message: "must be between 0 and 5"}
	}
	if input.PrepTimeMinutes < 0 {
		input.PrepTimeMinutes = 0
	}
	ok, err := s.categories.Exists(ctx, input.CategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrInvalidCategory
	}
	return nil
}

// GetByID retrieves a recipe with its joined category name.
func (s *RecipeService) GetByID(ctx context.Context, id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	err := s.db.WithContext(ctx).
		Model(&model.Recipe{}).
		Select("recipes.*, categories.name AS category_name").
		Joins(joinCategoryName).
		First(&recipe, "recipes.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe %d: %w", id, err)
	}
	return &recipe, nil
}

// List returns recipes newest first. Options narrow the result server-side;
// the dominant client fetches everything once and filters locally, but
// category deep-links and polling clients use the narrowed form.
func (s *RecipeService) List(ctx context.Context, opts ListOptions) ([]model.Recipe, error) {
	query := s.db.WithContext(ctx).
		Model(&model.Recipe{}).
		Select("recipes.*, categories.name AS category_name").
		Joins(joinCategoryName)

	if opts.CategoryID != 0 {
		query = query.Where("recipes.category_id = ?", opts.CategoryID)
	}
	if opts.Search != "" {
		like := "%" + strings.ToLower(opts.Search) + "%"
		query = query.Where("LOWER(recipes.title) LIKE ?", like)
	}
	if d := model.ParseDifficulty(opts.Difficulty); d != "" {
		query = query.Where("recipes.difficulty = ?", d)
	}
	if opts.FavoritesOnly {
		query = query.Where("recipes.favorite = ?", true)
	}

	var recipes []model.Recipe
	if err := query.Order("recipes.created_at DESC, recipes.id DESC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// Update applies an owner edit. The favorite flag is not updatable here,
// only through FavoriteService.
func (s *RecipeService) Update(ctx context.Context, id uint, requesterID uint, input CreateRecipeInput) (*model.Recipe, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != requesterID {
		return nil, model.ErrForbidden
	}

	input.OwnerID = existing.OwnerID
	if err := s.validate(ctx, &input); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":             strings.TrimSpace(input.Title),
		"description":       input.Description,
		"ingredients":       input.Ingredients,
		"steps":             input.Steps,
		"prep_time_minutes": input.PrepTimeMinutes,
		"category_id":       input.CategoryID,
		"difficulty":        input.Difficulty,
		"rating":            input.Rating,
	}
	if input.ImageRef != "" {
		updates["image_ref"] = input.ImageRef
	}

	err = s.db.WithContext(ctx).Model(&model.Recipe{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, model.ErrDuplicateTitle
		}
		return nil, fmt.Errorf("failed to update recipe %d: %w", id, err)
	}

	return s.GetByID(ctx, id)
}

// Delete removes a recipe and its stored image. Only the owner may delete.
func (s *RecipeService) Delete(ctx context.Context, id uint, requesterID uint) error {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to get recipe %d: %w", id, err)
	}
	if recipe.OwnerID != requesterID {
		return model.ErrForbidden
	}

	if err := s.db.WithContext(ctx).Delete(&model.Recipe{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete recipe %d: %w", id, err)
	}

	// The record is gone either way; a stranded image object only costs
	// storage, so failures here are logged, not returned.
	if s.images != nil && recipe.ImageRef != "" {
		if err := s.images.Remove(ctx, recipe.ImageRef); err != nil {
			log.Printf("failed to remove image %q for recipe %d: %v", recipe.ImageRef, id, err)
		}
	}

	return nil
}
