package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/aimd54/gametracker/internal/metrics"
	"github.com/aimd54/gametracker/internal/models"
)

// GameInput carries the client-supplied fields of a game. Nil fields are absent:
// on create they take their defaults, on update they keep the stored value.
type GameInput struct {
	Title       *string
	Genre       *string
	Platform    *string
	ReleaseYear *int
	Developer   *string
	CoverImage  *string
	Description *string
	Status      *string
	Completed   *bool
	HoursPlayed *float64
	InLibrary   *bool
	Favorite    *bool
}

// apply merges the supplied fields into g.
func (in *GameInput) apply(g *models.Game) error {
	setString(&g.Title, in.Title)
	setString(&g.Genre, in.Genre)
	setString(&g.Platform, in.Platform)
	setString(&g.Developer, in.Developer)
	setString(&g.CoverImage, in.CoverImage)
	setString(&g.Description, in.Description)
	if in.ReleaseYear != nil {
		g.ReleaseYear = *in.ReleaseYear
	}
	if in.HoursPlayed != nil {
		g.HoursPlayed = *in.HoursPlayed
	}
	if in.InLibrary != nil {
		g.InLibrary = *in.InLibrary
	}
	if in.Favorite != nil {
		g.Favorite = *in.Favorite
	}

	// An explicit status wins over the legacy flag; the flag alone resets the status.
	switch {
	case in.Status != nil && *in.Status != "":
		state, ok := models.ParseProgressState(*in.Status)
		if !ok {
			return models.NewValidationErrorf("invalid status: %s", *in.Status)
		}
		g.Status = state
	case in.Completed != nil:
		g.Status = models.NormalizeProgress("", in.Completed)
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// prepare normalizes and validates a game before it is written.
func (s *Service) prepare(ctx context.Context, g *models.Game) error {
	g.Normalize(s.cfg.PlaceholderCover)
	if err := g.Validate(s.maxReleaseYear()); err != nil {
		return err
	}
	return s.checkTitleFree(ctx, g.Title, g.ID)
}

// checkTitleFree returns ErrDuplicateTitle when another game already uses title.
func (s *Service) checkTitleFree(ctx context.Context, title, selfID string) error {
	existing, err := s.games.GetByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, models.ErrGameNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check title: %w", err)
	}
	if existing.ID != selfID {
		return fmt.Errorf("title %q: %w", title, models.ErrDuplicateTitle)
	}
	return nil
}

// ListGames returns the games matching filter.
func (s *Service) ListGames(ctx context.Context, filter models.GameFilter) ([]models.Game, error) {
	games, err := s.games.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range games {
		games[i].Normalize(s.cfg.PlaceholderCover)
	}
	return games, nil
}

// GetGame returns a single game.
func (s *Service) GetGame(ctx context.Context, id string) (*models.Game, error) {
	g, err := s.games.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	g.Normalize(s.cfg.PlaceholderCover)
	return g, nil
}

// CreateGame validates and stores a new game.
func (s *Service) CreateGame(ctx context.Context, in GameInput) (*models.Game, error) {
	g := &models.Game{}
	if err := in.apply(g); err != nil {
		return nil, err
	}
	if err := s.prepare(ctx, g); err != nil {
		return nil, err
	}

	if err := s.games.Create(ctx, g); err != nil {
		return nil, err
	}
	metrics.RecordWrite("game", "create")
	s.invalidate(ctx)

	s.log.Info().
		Str("game_id", g.ID).
		Str("title", g.Title).
		Msg("Game created")

	return g, nil
}

// UpdateGame merges the supplied fields into an existing game.
func (s *Service) UpdateGame(ctx context.Context, id string, in GameInput) (*models.Game, error) {
	g, err := s.games.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(g); err != nil {
		return nil, err
	}
	if err := s.prepare(ctx, g); err != nil {
		return nil, err
	}

	if err := s.games.Update(ctx, g); err != nil {
		return nil, err
	}
	metrics.RecordWrite("game", "update")
	s.invalidate(ctx)

	s.log.Debug().Str("game_id", g.ID).Msg("Game updated")

	return g, nil
}

// DeleteGame removes a game. Its reviews are removed too when cascading is enabled,
// otherwise they are left behind as orphans.
func (s *Service) DeleteGame(ctx context.Context, id string) error {
	if err := s.games.Delete(ctx, id); err != nil {
		return err
	}
	metrics.RecordWrite("game", "delete")

	if s.cfg.CascadeReviewDelete {
		n, err := s.reviews.DeleteByGameID(ctx, id)
		if err != nil {
			s.invalidate(ctx)
			return fmt.Errorf("game deleted but its reviews were not: %w", err)
		}
		if n > 0 {
			metrics.RecordWrite("review", "cascade_delete")
		}
		s.log.Info().Str("game_id", id).Int64("reviews_deleted", n).Msg("Game deleted")
	} else {
		s.log.Info().Str("game_id", id).Msg("Game deleted, reviews kept")
	}

	s.invalidate(ctx)
	return nil
}
