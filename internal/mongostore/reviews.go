package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aimd54/gametracker/internal/models"
)

// ReviewStore persists reviews in a MongoDB collection.
type ReviewStore struct {
	coll *mongo.Collection
}

func reviewFilterDoc(f models.ReviewFilter) bson.M {
	doc := bson.M{}
	if f.GameID != "" {
		doc["game_id"] = f.GameID
	}
	return doc
}

// List returns the reviews matching filter in creation order.
func (s *ReviewStore) List(ctx context.Context, filter models.ReviewFilter) ([]models.Review, error) {
	cur, err := s.coll.Find(ctx, reviewFilterDoc(filter), options.Find().SetSort(creationOrder))
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	reviews := make([]models.Review, 0)
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

// GetByID retrieves a review by ID.
func (s *ReviewStore) GetByID(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&review); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("review %s: %w", id, models.ErrReviewNotFound)
		}
		return nil, fmt.Errorf("failed to get review %s: %w", id, err)
	}
	return &review, nil
}

// Create inserts a new review, assigning its ID and timestamps.
func (s *ReviewStore) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	review.CreatedAt = now
	review.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, review); err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// Update replaces an existing review document.
func (s *ReviewStore) Update(ctx context.Context, review *models.Review) error {
	review.UpdatedAt = time.Now().UTC()

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": review.ID}, review)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("review %s: %w", review.ID, models.ErrReviewNotFound)
	}
	return nil
}

// Delete deletes a review.
func (s *ReviewStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("review %s: %w", id, models.ErrReviewNotFound)
	}
	return nil
}

// DeleteByGameID deletes every review of a game and returns how many were removed.
func (s *ReviewStore) DeleteByGameID(ctx context.Context, gameID string) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{"game_id": gameID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete reviews for game %s: %w", gameID, err)
	}
	return res.DeletedCount, nil
}
