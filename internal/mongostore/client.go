// Package mongostore implements the game and review stores on MongoDB.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/aimd54/gametracker/internal/config"
	"github.com/aimd54/gametracker/pkg/logger"
)

// Collection names.
const (
	GamesCollection   = "games"
	ReviewsCollection = "reviews"
)

// Store holds the MongoDB client and the application database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a MongoDB connection and verifies it with a ping.
func Connect(ctx context.Context, cfg *config.MongoConfig, log *logger.Logger) (*Store, error) {
	timeout := time.Duration(cfg.ConnectTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	log.Info().Str("database", cfg.Database).Msg("Connected to MongoDB")

	return &Store{client: client, db: client.Database(cfg.Database)}, nil
}

// EnsureIndexes creates the unique title index and the review lookup index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(GamesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "title", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_title"),
	})
	if err != nil {
		return fmt.Errorf("failed to create games index: %w", err)
	}

	_, err = s.db.Collection(ReviewsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "game_id", Value: 1}},
		Options: options.Index().SetName("idx_game_id"),
	})
	if err != nil {
		return fmt.Errorf("failed to create reviews index: %w", err)
	}
	return nil
}

// Games returns the game store.
func (s *Store) Games() *GameStore {
	return &GameStore{coll: s.db.Collection(GamesCollection)}
}

// Reviews returns the review store.
func (s *Store) Reviews() *ReviewStore {
	return &ReviewStore{coll: s.db.Collection(ReviewsCollection)}
}

// Health pings the primary.
func (s *Store) Health(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
