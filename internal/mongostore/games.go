package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aimd54/gametracker/internal/models"
)

// GameStore persists games in a MongoDB collection.
type GameStore struct {
	coll *mongo.Collection
}

// creationOrder sorts documents the way they were inserted.
var creationOrder = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

// exactFold matches s as a whole value, ignoring case.
func exactFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

// gameFilterDoc translates a filter into a query document.
// Status is not part of the document: stored documents may carry legacy
// spellings or only the completion flag, so it is matched after decoding.
func gameFilterDoc(f models.GameFilter) bson.M {
	doc := bson.M{}
	if q := strings.TrimSpace(f.Query); q != "" {
		doc["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
	}
	if f.Platform != "" {
		doc["platform"] = exactFold(f.Platform)
	}
	if f.Genre != "" {
		doc["genre"] = exactFold(f.Genre)
	}
	if f.Favorite != nil {
		doc["favorite"] = *f.Favorite
	}
	if f.InLibrary != nil {
		doc["in_library"] = *f.InLibrary
	}
	return doc
}

// List returns the games matching filter in creation order.
func (s *GameStore) List(ctx context.Context, filter models.GameFilter) ([]models.Game, error) {
	cur, err := s.coll.Find(ctx, gameFilterDoc(filter), options.Find().SetSort(creationOrder))
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer cur.Close(ctx)

	games := make([]models.Game, 0)
	for cur.Next(ctx) {
		var g models.Game
		if err := cur.Decode(&g); err != nil {
			return nil, fmt.Errorf("failed to decode game: %w", err)
		}
		if filter.Status != "" && g.Progress() != filter.Status {
			continue
		}
		games = append(games, g)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %w", err)
	}
	return games, nil
}

func (s *GameStore) findOne(ctx context.Context, filter bson.M, what string) (*models.Game, error) {
	var game models.Game
	if err := s.coll.FindOne(ctx, filter).Decode(&game); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("game %s: %w", what, models.ErrGameNotFound)
		}
		return nil, fmt.Errorf("failed to get game %s: %w", what, err)
	}
	return &game, nil
}

// GetByID retrieves a game by ID.
func (s *GameStore) GetByID(ctx context.Context, id string) (*models.Game, error) {
	return s.findOne(ctx, bson.M{"_id": id}, id)
}

// GetByTitle retrieves a game by title, ignoring case.
func (s *GameStore) GetByTitle(ctx context.Context, title string) (*models.Game, error) {
	return s.findOne(ctx, bson.M{"title": exactFold(strings.TrimSpace(title))}, fmt.Sprintf("titled %q", title))
}

// Create inserts a new game, assigning its ID and timestamps.
func (s *GameStore) Create(ctx context.Context, game *models.Game) error {
	if game.ID == "" {
		game.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	game.CreatedAt = now
	game.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, game); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("create game %q: %w", game.Title, models.ErrDuplicateTitle)
		}
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

// Update replaces an existing game document.
func (s *GameStore) Update(ctx context.Context, game *models.Game) error {
	game.UpdatedAt = time.Now().UTC()

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": game.ID}, game)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("update game %q: %w", game.Title, models.ErrDuplicateTitle)
		}
		return fmt.Errorf("failed to update game: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("game %s: %w", game.ID, models.ErrGameNotFound)
	}
	return nil
}

// Delete deletes a game.
func (s *GameStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("game %s: %w", id, models.ErrGameNotFound)
	}
	return nil
}
