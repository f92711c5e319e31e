package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/appetiteapp/backend/config"
	"github.com/appetiteapp/backend/internal/database"
	"github.com/appetiteapp/backend/internal/server"
	"github.com/appetiteapp/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// The category set is fixed; seeding is a no-op after first startup.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := service.NewCategoryService(db).Seed(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to seed categories: %v", err)
	}
	cancel()

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, rate limiting disabled: %v", err)
		redisClient = nil
	}

	s3Config, err := config.NewS3Config(context.Background())
	if err != nil {
		log.Printf("S3 unavailable, image uploads disabled: %v", err)
		s3Config = nil
	}

	srv := server.New(cfg, db, redisClient, s3Config)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)

	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
