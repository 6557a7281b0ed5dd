package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/aimd54/gametracker/internal/models"
)

// GameRepository handles game-related database operations.
type GameRepository struct {
	db *DB
}

// NewGameRepository creates a new game repository.
func NewGameRepository(db *DB) *GameRepository {
	return &GameRepository{db: db}
}

// List returns the games matching filter in creation order.
func (r *GameRepository) List(ctx context.Context, filter models.GameFilter) ([]models.Game, error) {
	var games []models.Game
	query := applyGameFilter(r.db.WithContext(ctx), filter)
	if err := query.Order("created_at ASC, id ASC").Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

func applyGameFilter(q *gorm.DB, f models.GameFilter) *gorm.DB {
	if s := strings.TrimSpace(f.Query); s != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if f.Platform != "" {
		q = q.Where("LOWER(platform) = ?", strings.ToLower(f.Platform))
	}
	if f.Genre != "" {
		q = q.Where("LOWER(genre) = ?", strings.ToLower(f.Genre))
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Favorite != nil {
		q = q.Where("favorite = ?", *f.Favorite)
	}
	if f.InLibrary != nil {
		q = q.Where("in_library = ?", *f.InLibrary)
	}
	return q
}

// GetByID retrieves a game by ID.
func (r *GameRepository) GetByID(ctx context.Context, id string) (*models.Game, error) {
	var game models.Game
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&game).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("game %s: %w", id, models.ErrGameNotFound)
		}
		return nil, fmt.Errorf("failed to get game by id %s: %w", id, err)
	}
	return &game, nil
}

// GetByTitle retrieves a game by title, ignoring case.
func (r *GameRepository) GetByTitle(ctx context.Context, title string) (*models.Game, error) {
	var game models.Game
	err := r.db.WithContext(ctx).
		Where("LOWER(title) = ?", strings.ToLower(strings.TrimSpace(title))).
		First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("game titled %q: %w", title, models.ErrGameNotFound)
		}
		return nil, fmt.Errorf("failed to get game by title %s: %w", title, err)
	}
	return &game, nil
}

// Create creates a new game.
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	if err := r.db.WithContext(ctx).Create(game).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("create game %q: %w", game.Title, models.ErrDuplicateTitle)
		}
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

// Update saves every column of an existing game.
func (r *GameRepository) Update(ctx context.Context, game *models.Game) error {
	result := r.db.WithContext(ctx).Model(&models.Game{}).
		Where("id = ?", game.ID).
		Select("*").Omit("id", "created_at").
		Updates(game)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("update game %q: %w", game.Title, models.ErrDuplicateTitle)
		}
		return fmt.Errorf("failed to update game: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("game %s: %w", game.ID, models.ErrGameNotFound)
	}
	return nil
}

// Delete deletes a game.
func (r *GameRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Game{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete game: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("game %s: %w", id, models.ErrGameNotFound)
	}
	return nil
}
