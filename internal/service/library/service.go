// Package library implements the game and review operations behind the HTTP API
// and feeds stored records to the statistics engine.
package library

import (
	"context"
	"time"

	"github.com/aimd54/gametracker/internal/config"
	"github.com/aimd54/gametracker/internal/models"
	"github.com/aimd54/gametracker/pkg/logger"
)

// GameRepository interface for game storage.
type GameRepository interface {
	List(ctx context.Context, filter models.GameFilter) ([]models.Game, error)
	GetByID(ctx context.Context, id string) (*models.Game, error)
	GetByTitle(ctx context.Context, title string) (*models.Game, error)
	Create(ctx context.Context, game *models.Game) error
	Update(ctx context.Context, game *models.Game) error
	Delete(ctx context.Context, id string) error
}

// ReviewRepository interface for review storage.
type ReviewRepository interface {
	List(ctx context.Context, filter models.ReviewFilter) ([]models.Review, error)
	GetByID(ctx context.Context, id string) (*models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id string) error
	DeleteByGameID(ctx context.Context, gameID string) (int64, error)
}

// StatsCache interface for the optional statistics cache.
type StatsCache interface {
	Get(ctx context.Context, name string, dest interface{}) (version int64, hit bool, err error)
	Set(ctx context.Context, version int64, name string, value interface{}) error
	Invalidate(ctx context.Context) error
}

// Service handles library records and statistics.
type Service struct {
	games   GameRepository
	reviews ReviewRepository
	cache   StatsCache
	cfg     config.LibraryConfig
	now     func() time.Time
	log     *logger.Logger
}

// NewService creates a new library service. cache may be nil.
func NewService(
	games GameRepository,
	reviews ReviewRepository,
	cache StatsCache,
	cfg config.LibraryConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		games:   games,
		reviews: reviews,
		cache:   cache,
		cfg:     cfg,
		now:     time.Now,
		log:     log.Component("library"),
	}
}

// maxReleaseYear is the latest release year accepted right now.
func (s *Service) maxReleaseYear() int {
	return s.cfg.MaxReleaseYear(s.now())
}

// invalidate bumps the cache version after a write. Cache failures are logged, never returned.
func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Failed to invalidate statistics cache")
	}
}

// Snapshot returns every stored game and review.
func (s *Service) Snapshot(ctx context.Context) ([]models.Game, []models.Review, error) {
	games, err := s.ListGames(ctx, models.GameFilter{})
	if err != nil {
		return nil, nil, err
	}
	reviews, err := s.reviews.List(ctx, models.ReviewFilter{})
	if err != nil {
		return nil, nil, err
	}
	return games, reviews, nil
}
