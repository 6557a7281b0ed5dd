package library

import (
	"context"
	"fmt"

	"github.com/aimd54/gametracker/internal/metrics"
	"github.com/aimd54/gametracker/internal/models"
	"github.com/aimd54/gametracker/internal/stats"
)

// GameDetail is a game together with its reviews and average rating.
type GameDetail struct {
	Game    *models.Game    `json:"game"`
	Reviews []models.Review `json:"reviews"`
	Rating  stats.Rating    `json:"rating"`
}

// Breakdown summarizes how the library splits over one attribute.
type Breakdown struct {
	Total   int               `json:"total"`
	Entries []stats.Frequency `json:"entries"`
}

// cached serves name from the statistics cache, computing and storing it on a miss.
// The computed value is stored under the version read before computing, so a write that
// lands meanwhile leaves it unreachable. Cache failures fall through to computing the value.
func cached[T any](ctx context.Context, s *Service, name string, compute func(context.Context) (T, error)) (T, error) {
	store := false
	var version int64
	if s.cache != nil {
		var hit T
		v, ok, err := s.cache.Get(ctx, name, &hit)
		switch {
		case err != nil:
			metrics.RecordCacheResult(metrics.CacheError)
			s.log.Warn().Err(err).Str("entry", name).Msg("Statistics cache read failed")
		case ok:
			metrics.RecordCacheResult(metrics.CacheHit)
			return hit, nil
		default:
			metrics.RecordCacheResult(metrics.CacheMiss)
			store, version = true, v
		}
	}

	v, err := compute(ctx)
	if err != nil {
		return v, err
	}

	if store {
		if err := s.cache.Set(ctx, version, name, v); err != nil {
			s.log.Warn().Err(err).Str("entry", name).Msg("Statistics cache write failed")
		}
	}
	return v, nil
}

// GameRating returns the average rating of one game.
func (s *Service) GameRating(ctx context.Context, gameID string) (stats.Rating, error) {
	if _, err := s.games.GetByID(ctx, gameID); err != nil {
		return stats.Rating{}, err
	}
	reviews, err := s.reviews.List(ctx, models.ReviewFilter{GameID: gameID})
	if err != nil {
		return stats.Rating{}, err
	}
	return stats.AverageRating(reviews, gameID), nil
}

// GameDetail returns a game with its reviews and rating.
func (s *Service) GameDetail(ctx context.Context, gameID string) (*GameDetail, error) {
	g, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.List(ctx, models.ReviewFilter{GameID: gameID})
	if err != nil {
		return nil, err
	}
	return &GameDetail{
		Game:    g,
		Reviews: reviews,
		Rating:  stats.AverageRating(reviews, gameID),
	}, nil
}

// LibraryStats computes the library-wide statistics.
func (s *Service) LibraryStats(ctx context.Context) (stats.Library, error) {
	return cached(ctx, s, "library", s.computeLibraryStats)
}

func (s *Service) computeLibraryStats(ctx context.Context) (stats.Library, error) {
	games, reviews, err := s.Snapshot(ctx)
	if err != nil {
		return stats.Library{}, fmt.Errorf("failed to load library: %w", err)
	}

	orphans := stats.Orphans(games, reviews)
	if len(orphans) > 0 {
		ids := make([]string, 0, len(orphans))
		for i := range orphans {
			ids = append(ids, orphans[i].ID)
		}
		s.log.Warn().
			Int("count", len(orphans)).
			Strs("review_ids", ids).
			Msg("Reviews reference missing games; excluded from library rating")
	}

	lib := stats.LibraryStats(games, reviews)
	metrics.SetLibraryGauges(lib.TotalGames, float64(lib.CompletionPercent), len(orphans))
	return lib, nil
}

// TopRated returns the best rated games. A non-positive limit uses the configured default.
func (s *Service) TopRated(ctx context.Context, limit int) ([]stats.GameRating, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultTopRatedLimit
	}
	return cached(ctx, s, fmt.Sprintf("top_rated:%d", limit), func(ctx context.Context) ([]stats.GameRating, error) {
		games, reviews, err := s.Snapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load library: %w", err)
		}
		return stats.TopRated(games, reviews, limit), nil
	})
}

// PlatformBreakdown counts games per platform.
func (s *Service) PlatformBreakdown(ctx context.Context) (Breakdown, error) {
	return s.breakdown(ctx, "platforms", stats.ByPlatform)
}

// GenreBreakdown counts games per genre.
func (s *Service) GenreBreakdown(ctx context.Context) (Breakdown, error) {
	return s.breakdown(ctx, "genres", stats.ByGenre)
}

func (s *Service) breakdown(ctx context.Context, name string, key stats.KeyFunc) (Breakdown, error) {
	return cached(ctx, s, name, func(ctx context.Context) (Breakdown, error) {
		games, err := s.ListGames(ctx, models.GameFilter{})
		if err != nil {
			return Breakdown{}, fmt.Errorf("failed to load games: %w", err)
		}
		return Breakdown{Total: len(games), Entries: stats.Frequencies(games, key)}, nil
	})
}

// ProgressBreakdown counts games per progress state.
func (s *Service) ProgressBreakdown(ctx context.Context) (map[models.ProgressState]int, error) {
	games, err := s.ListGames(ctx, models.GameFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}
	return stats.ProgressBreakdown(games), nil
}
