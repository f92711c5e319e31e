package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appetiteapp/backend/internal/model"
)

func TestToggleFavoriteIdempotent(t *testing.T) {
	db := setupTestDB(t)
	recipes := newRecipeService(db)
	favorites := NewFavoriteService(db)
	ctx := context.Background()

	recipe, err := recipes.Create(ctx, validInput("Bolo"))
	require.NoError(t, err)
	require.False(t, recipe.Favorite)

	status, err := favorites.Toggle(ctx, recipe.ID, true)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, status.ID)
	assert.True(t, status.Favorite)

	// Repeating the identical call converges without error.
	status, err = favorites.Toggle(ctx, recipe.ID, true)
	require.NoError(t, err)
	assert.True(t, status.Favorite)

	stored, err := recipes.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.True(t, stored.Favorite)

	// And back off again.
	status, err = favorites.Toggle(ctx, recipe.ID, false)
	require.NoError(t, err)
	assert.False(t, status.Favorite)
}

func TestToggleFavoriteNotFound(t *testing.T) {
	db := setupTestDB(t)
	favorites := NewFavoriteService(db)

	_, err := favorites.Toggle(context.Background(), 9999, true)
	assert.ErrorIs(t, err, model.ErrNotFound)

	// No record was created as a side effect.
	var count int64
	require.NoError(t, db.Model(&model.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}
