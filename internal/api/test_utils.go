package api

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/appetiteapp/backend/internal/middleware"
	"github.com/appetiteapp/backend/internal/model"
	"github.com/appetiteapp/backend/internal/service"
)

const testJWTSecret = "test-secret"

// setupTestRouter builds a router over an in-memory database, with auth
// enabled and rate limiting/image storage off.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Category{}, &model.Recipe{}))

	categoryService := service.NewCategoryService(db)
	require.NoError(t, categoryService.Seed(context.Background()))

	recipeService := service.NewRecipeService(db, categoryService, nil)
	favoriteService := service.NewFavoriteService(db)

	recipeHandler := NewRecipeHandler(recipeService, favoriteService, nil)
	categoryHandler := NewCategoryHandler(categoryService)

	var validator middleware.TokenValidator = service.NewAuthService(testJWTSecret)

	engine := gin.New()
	v1 := engine.Group("/api/v1")
	v1.GET("/categories", categoryHandler.ListCategories)
	recipeHandler.RegisterRoutes(v1, validator, nil)

	return engine, db
}

// testToken signs a token for the given user the way the auth provider does.
func testToken(t *testing.T, userID uint) string {
	t.Helper()
	token, err := service.NewAuthService(testJWTSecret).GenerateToken(userID, "tester")
	require.NoError(t, err)
	return token
}
