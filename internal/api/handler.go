// Package api provides the REST handlers of the game library tracker.
// It exposes endpoints for games, reviews, library statistics, achievements and audits.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aimd54/gametracker/internal/models"
	"github.com/aimd54/gametracker/internal/service/achievements"
	"github.com/aimd54/gametracker/internal/service/audit"
	"github.com/aimd54/gametracker/internal/service/library"
	"github.com/aimd54/gametracker/internal/stats"
	"github.com/aimd54/gametracker/pkg/logger"
)

// LibraryService interface for game, review and statistics operations.
type LibraryService interface {
	ListGames(ctx context.Context, filter models.GameFilter) ([]models.Game, error)
	GameDetail(ctx context.Context, id string) (*library.GameDetail, error)
	CreateGame(ctx context.Context, in library.GameInput) (*models.Game, error)
	UpdateGame(ctx context.Context, id string, in library.GameInput) (*models.Game, error)
	DeleteGame(ctx context.Context, id string) error
	GameRating(ctx context.Context, id string) (stats.Rating, error)

	ListReviews(ctx context.Context, filter models.ReviewFilter) ([]models.Review, error)
	GetReview(ctx context.Context, id string) (*models.Review, error)
	CreateReview(ctx context.Context, in library.ReviewInput) (*models.Review, error)
	UpdateReview(ctx context.Context, id string, in library.ReviewInput) (*models.Review, error)
	DeleteReview(ctx context.Context, id string) error

	LibraryStats(ctx context.Context) (stats.Library, error)
	TopRated(ctx context.Context, limit int) ([]stats.GameRating, error)
	PlatformBreakdown(ctx context.Context) (library.Breakdown, error)
	GenreBreakdown(ctx context.Context) (library.Breakdown, error)
	ProgressBreakdown(ctx context.Context) (map[models.ProgressState]int, error)
}

// AchievementService interface for achievement evaluation.
type AchievementService interface {
	Evaluate(ctx context.Context) ([]achievements.Achievement, error)
	Get(ctx context.Context, name string) (*achievements.Achievement, error)
}

// AuditService interface for on-demand audits.
type AuditService interface {
	RunOnce(ctx context.Context) (*audit.Report, error)
}

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handler handles API requests.
type Handler struct {
	library         LibraryService
	achievements    AchievementService
	audit           AuditService
	health          HealthChecker
	defaultTopRated int
	log             *logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(
	librarySvc *library.Service,
	achievementSvc *achievements.Service,
	auditSvc *audit.Service,
	health HealthChecker,
	defaultTopRated int,
	log *logger.Logger,
) *Handler {
	return NewHandlerWithInterfaces(librarySvc, achievementSvc, auditSvc, health, defaultTopRated, log)
}

// NewHandlerWithInterfaces creates a new API handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(
	librarySvc LibraryService,
	achievementSvc AchievementService,
	auditSvc AuditService,
	health HealthChecker,
	defaultTopRated int,
	log *logger.Logger,
) *Handler {
	if defaultTopRated < 1 {
		defaultTopRated = 10
	}
	return &Handler{
		library:         librarySvc,
		achievements:    achievementSvc,
		audit:           auditSvc,
		health:          health,
		defaultTopRated: defaultTopRated,
		log:             log.Component("api"),
	}
}

// Health reports service and store health.
// GET /health.
func (h *Handler) Health(c *gin.Context) {
	if h.health != nil {
		if err := h.health.Health(c.Request.Context()); err != nil {
			h.log.Warn().Err(err).Msg("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now().UTC(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Helper functions

// parseLimit extracts and validates the limit query parameter.
func (h *Handler) parseLimit(c *gin.Context, defaultLimit int) (int, error) {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return defaultLimit, nil
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return 0, fmt.Errorf("invalid limit parameter: %s", limitStr)
	}

	if limit < 1 {
		return 0, fmt.Errorf("limit must be greater than 0")
	}

	if limit > 1000 {
		return 0, fmt.Errorf("limit cannot exceed 1000")
	}

	return limit, nil
}

// parseBoolQuery reads an optional boolean query parameter.
func parseBoolQuery(c *gin.Context, name string) (*bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s parameter: %s", name, raw)
	}
	return &v, nil
}

// handleError maps service errors onto HTTP responses.
func (h *Handler) handleError(c *gin.Context, err error, action string) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		h.errorResponse(c, http.StatusBadRequest, ve.Message)
	case errors.Is(err, models.ErrGameNotFound):
		h.errorResponse(c, http.StatusNotFound, "Game not found")
	case errors.Is(err, models.ErrReviewNotFound):
		h.errorResponse(c, http.StatusNotFound, "Review not found")
	case errors.Is(err, achievements.ErrAchievementNotFound):
		h.errorResponse(c, http.StatusNotFound, "Achievement not found")
	case errors.Is(err, models.ErrDuplicateTitle):
		h.errorResponse(c, http.StatusConflict, "A game with this title already exists")
	case errors.Is(err, audit.ErrAlreadyRunning):
		h.errorResponse(c, http.StatusConflict, "An audit is already running")
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("Failed to " + action)
		h.errorResponse(c, http.StatusInternalServerError, "Failed to "+action)
	}
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
