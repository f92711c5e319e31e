package model

import (
	"strings"
	"time"
)

// Difficulty levels a recipe can carry.
const (
	DifficultyEasy   = "EASY"
	DifficultyMedium = "MEDIUM"
	DifficultyHard   = "HARD"
)

// ParseDifficulty normalizes a difficulty value to its canonical form.
// The mobile app historically sent Portuguese spellings, so those are
// accepted too. Returns "" for anything unrecognized.
func ParseDifficulty(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EASY", "FACIL", "FÁCIL":
		return DifficultyEasy
	case "MEDIUM", "MEDIO", "MÉDIO":
		return DifficultyMedium
	case "HARD", "DIFICIL", "DIFÍCIL":
		return DifficultyHard
	}
	return ""
}

type Recipe struct {
	ID              uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	Title           string         `gorm:"size:255;not null;uniqueIndex" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	Ingredients     IngredientList `gorm:"type:text" json:"ingredients"`
	Steps           string         `gorm:"type:text" json:"steps"`
	PrepTimeMinutes int            `json:"prep_time_minutes"`
	CategoryID      uint           `gorm:"not null;index" json:"category_id"`
	Difficulty      string         `gorm:"size:20;not null" json:"difficulty"`
	Rating          int            `json:"rating"`
	ImageRef        string         `gorm:"size:255" json:"image_ref"`
	Favorite        bool           `gorm:"not null;default:false" json:"favorite"`
	OwnerID         uint           `gorm:"not null;index" json:"owner_id"`

	// CategoryName is filled from the category join on reads.
	CategoryName string `gorm:"->;-:migration" json:"category_name,omitempty"`
}

// FavoriteStatus is the favorite-toggle result payload.
type FavoriteStatus struct {
	ID       uint `json:"id"`
	Favorite bool `json:"favorite"`
}
