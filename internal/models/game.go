// Package models defines domain models for the game library tracker.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressState is the canonical progress representation of a game.
type ProgressState string

// Progress states.
const (
	ProgressNotStarted ProgressState = "not_started"
	ProgressInProgress ProgressState = "in_progress"
	ProgressCompleted  ProgressState = "completed"
)

// MinReleaseYear is the earliest accepted release year.
const MinReleaseYear = 1950

// MaxHoursPlayed is the largest accepted hours_played value on games and reviews.
const MaxHoursPlayed = 1_000_000

// validHours reports whether h is a finite value in 0..MaxHoursPlayed.
func validHours(h float64) bool {
	return h >= 0 && h <= MaxHoursPlayed
}

// DefaultCoverImage is used when a game is saved without a cover.
const DefaultCoverImage = "https://via.placeholder.com/300x400?text=Sin+Portada"

// progressAliases maps every accepted spelling to its canonical state.
// Keys are lower-cased with spaces, dashes and underscores collapsed to a single space.
var progressAliases = map[string]ProgressState{
	"not started": ProgressNotStarted,
	"no empezado": ProgressNotStarted,
	"pending":     ProgressNotStarted,
	"in progress": ProgressInProgress,
	"en progreso": ProgressInProgress,
	"playing":     ProgressInProgress,
	"completed":   ProgressCompleted,
	"completado":  ProgressCompleted,
	"done":        ProgressCompleted,
}

// ParseProgressState resolves a progress string, including legacy values.
// The second return value is false when the string is empty or unknown.
func ParseProgressState(s string) (ProgressState, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", " ", "-", " ").Replace(key)
	key = strings.Join(strings.Fields(key), " ")
	if key == "" {
		return "", false
	}
	state, ok := progressAliases[key]
	return state, ok
}

// NormalizeProgress reconciles the three-state status with the legacy completion flag.
// A recognised status wins; otherwise the boolean decides; otherwise the game is not started.
func NormalizeProgress(status string, completed *bool) ProgressState {
	if state, ok := ParseProgressState(status); ok {
		return state
	}
	if completed != nil && *completed {
		return ProgressCompleted
	}
	return ProgressNotStarted
}

// Game represents a cataloged title in the library.
type Game struct {
	ID          string        `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	Title       string        `gorm:"uniqueIndex;not null;size:255" json:"title" bson:"title"`
	Genre       string        `gorm:"size:100;not null;index" json:"genre" bson:"genre"`
	Platform    string        `gorm:"size:100;not null;index" json:"platform" bson:"platform"`
	ReleaseYear int           `gorm:"not null" json:"release_year" bson:"release_year"`
	Developer   string        `gorm:"size:255;not null" json:"developer" bson:"developer"`
	CoverImage  string        `gorm:"type:text" json:"cover_image" bson:"cover_image"`
	Description string        `gorm:"type:text;not null" json:"description" bson:"description"`
	Status      ProgressState `gorm:"size:20;index" json:"status" bson:"status,omitempty"`
	Completed   bool          `gorm:"default:false" json:"completed" bson:"completed"`
	HoursPlayed float64       `gorm:"default:0" json:"hours_played" bson:"hours_played"`
	InLibrary   bool          `gorm:"default:false" json:"in_library" bson:"in_library"`
	Favorite    bool          `gorm:"default:false" json:"favorite" bson:"favorite"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" bson:"updated_at"`
}

// TableName specifies the table name for Game model.
func (Game) TableName() string {
	return "games"
}

// BeforeCreate assigns an ID when none was provided.
func (g *Game) BeforeCreate(_ *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// Progress returns the normalized progress of the game, whichever representation it carries.
func (g *Game) Progress() ProgressState {
	completed := g.Completed
	return NormalizeProgress(string(g.Status), &completed)
}

// IsCompleted reports whether the game counts as completed.
func (g *Game) IsCompleted() bool {
	return g.Progress() == ProgressCompleted
}

// Normalize brings the record into its canonical shape before it is written.
func (g *Game) Normalize(placeholderCover string) {
	g.Title = strings.TrimSpace(g.Title)
	g.Genre = strings.TrimSpace(g.Genre)
	g.Platform = strings.TrimSpace(g.Platform)
	g.Developer = strings.TrimSpace(g.Developer)
	g.CoverImage = strings.TrimSpace(g.CoverImage)
	if g.CoverImage == "" {
		if placeholderCover == "" {
			placeholderCover = DefaultCoverImage
		}
		g.CoverImage = placeholderCover
	}
	g.Status = g.Progress()
	g.Completed = g.Status == ProgressCompleted
	if g.HoursPlayed < 0 {
		g.HoursPlayed = 0
	}
}

// Validate checks required fields and bounds. maxYear is the latest accepted release year.
func (g *Game) Validate(maxYear int) error {
	switch {
	case g.Title == "":
		return NewValidationError("title is required")
	case g.Genre == "":
		return NewValidationError("genre is required")
	case g.Platform == "":
		return NewValidationError("platform is required")
	case g.Developer == "":
		return NewValidationError("developer is required")
	case strings.TrimSpace(g.Description) == "":
		return NewValidationError("description is required")
	}
	if g.ReleaseYear < MinReleaseYear || g.ReleaseYear > maxYear {
		return NewValidationErrorf("release_year must be between %d and %d", MinReleaseYear, maxYear)
	}
	if !validHours(g.HoursPlayed) {
		return NewValidationErrorf("hours_played must be between 0 and %d", MaxHoursPlayed)
	}
	if _, ok := ParseProgressState(string(g.Status)); g.Status != "" && !ok {
		return NewValidationErrorf("invalid status: %s", g.Status)
	}
	return nil
}

// GameFilter narrows a game listing.
type GameFilter struct {
	Query     string
	Platform  string
	Genre     string
	Status    ProgressState
	Favorite  *bool
	InLibrary *bool
}

// Matches reports whether the game satisfies the filter.
func (f GameFilter) Matches(g *Game) bool {
	if f.Query != "" && !strings.Contains(strings.ToLower(g.Title), strings.ToLower(f.Query)) {
		return false
	}
	if f.Platform != "" && !strings.EqualFold(g.Platform, f.Platform) {
		return false
	}
	if f.Genre != "" && !strings.EqualFold(g.Genre, f.Genre) {
		return false
	}
	if f.Status != "" && g.Progress() != f.Status {
		return false
	}
	if f.Favorite != nil && g.Favorite != *f.Favorite {
		return false
	}
	if f.InLibrary != nil && g.InLibrary != *f.InLibrary {
		return false
	}
	return true
}
