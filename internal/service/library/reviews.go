package library

import (
	"context"

	"github.com/aimd54/gametracker/internal/metrics"
	"github.com/aimd54/gametracker/internal/models"
)

// ReviewInput carries the client-supplied fields of a review. Nil fields are absent.
type ReviewInput struct {
	GameID      *string
	Rating      *int
	Body        *string
	HoursPlayed *float64
	Difficulty  *string
	Recommended *bool
}

func (in *ReviewInput) apply(r *models.Review) {
	setString(&r.GameID, in.GameID)
	setString(&r.Body, in.Body)
	if in.Rating != nil {
		r.Rating = *in.Rating
	}
	if in.HoursPlayed != nil {
		r.HoursPlayed = *in.HoursPlayed
	}
	if in.Difficulty != nil {
		r.Difficulty = models.Difficulty(*in.Difficulty)
	}
	if in.Recommended != nil {
		r.Recommended = *in.Recommended
	}
}

// prepareReview normalizes and validates a review. When checkGame is set the
// referenced game must exist.
func (s *Service) prepareReview(ctx context.Context, r *models.Review, checkGame bool) error {
	r.Normalize()
	if err := r.Validate(); err != nil {
		return err
	}
	if !checkGame {
		return nil
	}
	_, err := s.games.GetByID(ctx, r.GameID)
	return err
}

// ListReviews returns the reviews matching filter.
func (s *Service) ListReviews(ctx context.Context, filter models.ReviewFilter) ([]models.Review, error) {
	return s.reviews.List(ctx, filter)
}

// GetReview returns a single review.
func (s *Service) GetReview(ctx context.Context, id string) (*models.Review, error) {
	return s.reviews.GetByID(ctx, id)
}

// CreateReview validates and stores a new review of an existing game.
func (s *Service) CreateReview(ctx context.Context, in ReviewInput) (*models.Review, error) {
	r := &models.Review{Recommended: true}
	in.apply(r)
	if err := s.prepareReview(ctx, r, true); err != nil {
		return nil, err
	}

	if err := s.reviews.Create(ctx, r); err != nil {
		return nil, err
	}
	metrics.RecordWrite("review", "create")
	s.invalidate(ctx)

	s.log.Info().
		Str("review_id", r.ID).
		Str("game_id", r.GameID).
		Int("rating", r.Rating).
		Msg("Review created")

	return r, nil
}

// UpdateReview merges the supplied fields into an existing review.
func (s *Service) UpdateReview(ctx context.Context, id string, in ReviewInput) (*models.Review, error) {
	r, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Only a moved review needs its new game checked; orphans stay editable.
	in.apply(r)
	if err := s.prepareReview(ctx, r, in.GameID != nil); err != nil {
		return nil, err
	}

	if err := s.reviews.Update(ctx, r); err != nil {
		return nil, err
	}
	metrics.RecordWrite("review", "update")
	s.invalidate(ctx)

	return r, nil
}

// DeleteReview removes a review.
func (s *Service) DeleteReview(ctx context.Context, id string) error {
	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}
	metrics.RecordWrite("review", "delete")
	s.invalidate(ctx)
	return nil
}
