package integration

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appetiteapp/backend/internal/model"
	"github.com/appetiteapp/backend/internal/service"
	"github.com/appetiteapp/backend/internal/testdb"
)

// TestCatalogAgainstPostgres runs the duplicate-title and favorite-toggle
// invariants against real postgres, where the unique index and error
// translation differ from the sqlite used in unit tests. Needs a container
// runtime, so it is opt-in.
func TestCatalogAgainstPostgres(t *testing.T) {
	if os.Getenv("INTEGRATION") != "1" {
		t.Skip("set INTEGRATION=1 to run container-backed tests")
	}

	td := testdb.SetupTestDB(t)
	ctx := context.Background()

	categories := service.NewCategoryService(td.DB)
	require.NoError(t, categories.Seed(ctx))
	require.NoError(t, categories.Seed(ctx)) // idempotent against ON CONFLICT

	recipes := service.NewRecipeService(td.DB, categories, nil)
	favorites := service.NewFavoriteService(td.DB)

	input := service.CreateRecipeInput{
		Title:      "Bolo",
		CategoryID: 1,
		Difficulty: "FACIL",
		Ingredients: model.IngredientList{
			{Name: "farinha", Quantity: "2 xícaras"},
		},
		OwnerID: 1,
	}

	created, err := recipes.Create(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "farinha (2 xícaras)", created.Ingredients.String())

	// The unique index, not a pre-check, rejects the duplicate.
	_, err = recipes.Create(ctx, input)
	assert.ErrorIs(t, err, model.ErrDuplicateTitle)

	status, err := favorites.Toggle(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, status.Favorite)

	status, err = favorites.Toggle(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, status.Favorite)

	stored, err := recipes.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, stored.Favorite)
	assert.Equal(t, "Sobremesas", stored.CategoryName)
}
