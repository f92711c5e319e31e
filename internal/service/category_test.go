package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appetiteapp/backend/internal/model"
)

func TestCategorySeedIdempotent(t *testing.T) {
	db := setupTestDB(t) // already seeded once
	svc := NewCategoryService(db)
	ctx := context.Background()

	// Seeding again is a no-op.
	require.NoError(t, svc.Seed(ctx))
	require.NoError(t, svc.Seed(ctx))

	categories, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, len(model.SeededCategories()))

	// Stable order by id.
	for i, c := range categories {
		assert.Equal(t, uint(i+1), c.ID)
	}
	assert.Equal(t, "Sobremesas", categories[0].Name)
	assert.Equal(t, "Bebidas", categories[4].Name)
}

func TestCategoryExists(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)
	ctx := context.Background()

	ok, err := svc.Exists(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Exists(ctx, 99)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Exists(ctx, 0)
	require.NoError(t, err)
	assert.False(t, ok)
}
