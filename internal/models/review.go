package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Difficulty is the perceived difficulty of a game reported in a review.
type Difficulty string

// Difficulty levels.
const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyNormal Difficulty = "Normal"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty resolves a difficulty string, accepting the legacy spellings.
// An empty string yields DifficultyNormal.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DifficultyNormal, true
	case "easy", "fácil", "facil":
		return DifficultyEasy, true
	case "normal":
		return DifficultyNormal, true
	case "hard", "difícil", "dificil":
		return DifficultyHard, true
	default:
		return "", false
	}
}

// ValidRating reports whether a rating is inside the accepted star range.
func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

// Review represents a single rating and written opinion of one game.
type Review struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	GameID      string     `gorm:"size:36;not null;index" json:"game_id" bson:"game_id"`
	Rating      int        `gorm:"not null" json:"rating" bson:"rating"`
	Body        string     `gorm:"type:text;not null" json:"body" bson:"body"`
	HoursPlayed float64    `gorm:"default:0" json:"hours_played" bson:"hours_played"`
	Difficulty  Difficulty `gorm:"size:20;default:Normal" json:"difficulty" bson:"difficulty"`
	Recommended bool       `json:"recommended" bson:"recommended"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}

// TableName specifies the table name for Review model.
func (Review) TableName() string {
	return "reviews"
}

// BeforeCreate assigns an ID when none was provided.
func (r *Review) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Normalize brings the record into its canonical shape before it is written.
func (r *Review) Normalize() {
	r.GameID = strings.TrimSpace(r.GameID)
	if d, ok := ParseDifficulty(string(r.Difficulty)); ok {
		r.Difficulty = d
	}
	if r.HoursPlayed < 0 {
		r.HoursPlayed = 0
	}
}

// Validate checks required fields and bounds.
func (r *Review) Validate() error {
	if r.GameID == "" {
		return NewValidationError("game_id is required")
	}
	if !ValidRating(r.Rating) {
		return NewValidationErrorf("rating must be between %d and %d", MinRating, MaxRating)
	}
	if strings.TrimSpace(r.Body) == "" {
		return NewValidationError("body is required")
	}
	if !validHours(r.HoursPlayed) {
		return NewValidationErrorf("hours_played must be between 0 and %d", MaxHoursPlayed)
	}
	if _, ok := ParseDifficulty(string(r.Difficulty)); !ok {
		return NewValidationErrorf("invalid difficulty: %s", r.Difficulty)
	}
	return nil
}

// ReviewFilter narrows a review listing.
type ReviewFilter struct {
	GameID string
}
