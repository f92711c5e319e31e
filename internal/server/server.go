package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/appetiteapp/backend/config"
	"github.com/appetiteapp/backend/internal/api"
	"github.com/appetiteapp/backend/internal/middleware"
	"github.com/appetiteapp/backend/internal/router"
	"github.com/appetiteapp/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
}

// New wires the services, handlers and routes into a runnable server.
// redisClient and s3 may be nil; rate limiting and image storage are then
// disabled.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, s3 *config.S3Config) *Server {
	categoryService := service.NewCategoryService(db)
	var imageService *service.ImageService
	if s3 != nil {
		imageService = service.NewImageService(s3)
	}
	recipeService := service.NewRecipeService(db, categoryService, imageService)
	favoriteService := service.NewFavoriteService(db)
	authService := service.NewAuthService(cfg.JWTSecret)

	recipeHandler := api.NewRecipeHandler(recipeService, favoriteService, imageService)
	categoryHandler := api.NewCategoryHandler(categoryService)

	var limiter *middleware.RateLimiter
	if redisClient != nil {
		limiter = middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     60,
			KeyPrefix: "ratelimit:recipes",
		})
	}

	engine := router.SetupRouter(recipeHandler, categoryHandler, authService, limiter, cfg.AllowedOrigins, db)

	return &Server{
		router: engine,
		db:     db,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: engine,
		},
	}
}

// Start starts the server and blocks until it stops.
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
