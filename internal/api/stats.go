package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aimd54/gametracker/internal/service/achievements"
)

// GetLibraryStats returns the library-wide statistics.
// GET /api/v1/stats.
func (h *Handler) GetLibraryStats(c *gin.Context) {
	lib, err := h.library.LibraryStats(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "compute library stats")
		return
	}
	c.JSON(http.StatusOK, lib)
}

// GetTopRated returns the best rated games.
// GET /api/v1/stats/top-rated?limit=10.
func (h *Handler) GetTopRated(c *gin.Context) {
	limit, err := h.parseLimit(c, h.defaultTopRated)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	ranked, err := h.library.TopRated(c.Request.Context(), limit)
	if err != nil {
		h.handleError(c, err, "compute top rated games")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"games":        ranked,
		"limit":        limit,
		"generated_at": time.Now().UTC(),
	})
}

// GetPlatformBreakdown returns the number of games per platform.
// GET /api/v1/stats/platforms.
func (h *Handler) GetPlatformBreakdown(c *gin.Context) {
	breakdown, err := h.library.PlatformBreakdown(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "compute platform breakdown")
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// GetGenreBreakdown returns the number of games per genre.
// GET /api/v1/stats/genres.
func (h *Handler) GetGenreBreakdown(c *gin.Context) {
	breakdown, err := h.library.GenreBreakdown(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "compute genre breakdown")
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// GetProgressBreakdown returns the number of games per progress state.
// GET /api/v1/stats/progress.
func (h *Handler) GetProgressBreakdown(c *gin.Context) {
	breakdown, err := h.library.ProgressBreakdown(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "compute progress breakdown")
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// ListAchievements evaluates every configured achievement.
// GET /api/v1/achievements.
func (h *Handler) ListAchievements(c *gin.Context) {
	evaluated, err := h.achievements.Evaluate(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "evaluate achievements")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"achievements": evaluated,
		"unlocked":     len(achievements.Unlocked(evaluated)),
		"total":        len(evaluated),
	})
}

// GetAchievement evaluates a single achievement.
// GET /api/v1/achievements/:name.
func (h *Handler) GetAchievement(c *gin.Context) {
	a, err := h.achievements.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.handleError(c, err, "evaluate achievement")
		return
	}
	c.JSON(http.StatusOK, a)
}

// RunAudit runs the library audit immediately.
// POST /api/v1/admin/audit.
func (h *Handler) RunAudit(c *gin.Context) {
	report, err := h.audit.RunOnce(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "run audit")
		return
	}
	c.JSON(http.StatusOK, report)
}
