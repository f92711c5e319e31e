package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/appetiteapp/backend/internal/api"
	"github.com/appetiteapp/backend/internal/database"
	"github.com/appetiteapp/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	recipeHandler *api.RecipeHandler,
	categoryHandler *api.CategoryHandler,
	validator middleware.TokenValidator,
	limiter *middleware.RateLimiter,
	allowedOrigins []string,
	db *gorm.DB,
) *gin.Engine {
	router := gin.Default()

	// CORS middleware
	router.Use(middleware.CORS(allowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.GET("/categories", categoryHandler.ListCategories)
	recipeHandler.RegisterRoutes(v1, validator, limiter)

	return router
}
