package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/aimd54/gametracker/internal/models"
)

// ReviewRepository handles review-related database operations.
type ReviewRepository struct {
	db *DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// List returns the reviews matching filter in creation order.
func (r *ReviewRepository) List(ctx context.Context, filter models.ReviewFilter) ([]models.Review, error) {
	var reviews []models.Review
	query := r.db.WithContext(ctx)
	if filter.GameID != "" {
		query = query.Where("game_id = ?", filter.GameID)
	}
	if err := query.Order("created_at ASC, id ASC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// GetByID retrieves a review by ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review %s: %w", id, models.ErrReviewNotFound)
		}
		return nil, fmt.Errorf("failed to get review by id %s: %w", id, err)
	}
	return &review, nil
}

// Create creates a new review.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// Update saves every column of an existing review.
func (r *ReviewRepository) Update(ctx context.Context, review *models.Review) error {
	result := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ?", review.ID).
		Select("*").Omit("id", "created_at").
		Updates(review)
	if result.Error != nil {
		return fmt.Errorf("failed to update review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("review %s: %w", review.ID, models.ErrReviewNotFound)
	}
	return nil
}

// Delete deletes a review.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Review{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("review %s: %w", id, models.ErrReviewNotFound)
	}
	return nil
}

// DeleteByGameID deletes every review of a game and returns how many were removed.
func (r *ReviewRepository) DeleteByGameID(ctx context.Context, gameID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("game_id = ?", gameID).Delete(&models.Review{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete reviews for game %s: %w", gameID, result.Error)
	}
	return result.RowsAffected, nil
}
