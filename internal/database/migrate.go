package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/appetiteapp/backend/internal/model"
)

// Migrate brings the schema up to date. Category seeding happens separately
// through CategoryService.Seed at startup.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Category{},
		&model.Recipe{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
