package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aimd54/gametracker/internal/models"
	"github.com/aimd54/gametracker/internal/service/library"
)

// gameRequest is the JSON body of game create and update requests.
type gameRequest struct {
	Title       *string  `json:"title"`
	Genre       *string  `json:"genre"`
	Platform    *string  `json:"platform"`
	ReleaseYear *int     `json:"release_year"`
	Developer   *string  `json:"developer"`
	CoverImage  *string  `json:"cover_image"`
	Description *string  `json:"description"`
	Status      *string  `json:"status"`
	Completed   *bool    `json:"completed"`
	HoursPlayed *float64 `json:"hours_played" binding:"omitempty,gte=0,lte=1000000"`
	InLibrary   *bool    `json:"in_library"`
	Favorite    *bool    `json:"favorite"`
}

func (r *gameRequest) input() library.GameInput {
	return library.GameInput{
		Title:       r.Title,
		Genre:       r.Genre,
		Platform:    r.Platform,
		ReleaseYear: r.ReleaseYear,
		Developer:   r.Developer,
		CoverImage:  r.CoverImage,
		Description: r.Description,
		Status:      r.Status,
		Completed:   r.Completed,
		HoursPlayed: r.HoursPlayed,
		InLibrary:   r.InLibrary,
		Favorite:    r.Favorite,
	}
}

// parseGameFilter builds a game filter from the query string.
func parseGameFilter(c *gin.Context) (models.GameFilter, error) {
	filter := models.GameFilter{
		Query:    c.Query("q"),
		Platform: c.Query("platform"),
		Genre:    c.Query("genre"),
	}

	if raw := c.Query("status"); raw != "" {
		state, ok := models.ParseProgressState(raw)
		if !ok {
			return filter, models.NewValidationErrorf("invalid status: %s", raw)
		}
		filter.Status = state
	}

	favorite, err := parseBoolQuery(c, "favorite")
	if err != nil {
		return filter, models.NewValidationError(err.Error())
	}
	filter.Favorite = favorite

	inLibrary, err := parseBoolQuery(c, "in_library")
	if err != nil {
		return filter, models.NewValidationError(err.Error())
	}
	filter.InLibrary = inLibrary

	return filter, nil
}

// ListGames returns the games matching the query filters.
// GET /api/v1/games?q=&platform=&genre=&status=&favorite=&in_library=.
func (h *Handler) ListGames(c *gin.Context) {
	filter, err := parseGameFilter(c)
	if err != nil {
		h.handleError(c, err, "list games")
		return
	}

	games, err := h.library.ListGames(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err, "list games")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"games": games,
		"total": len(games),
	})
}

// GetGame returns a game together with its reviews and average rating.
// GET /api/v1/games/:id.
func (h *Handler) GetGame(c *gin.Context) {
	detail, err := h.library.GameDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err, "get game")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CreateGame adds a game to the catalog.
// POST /api/v1/games.
func (h *Handler) CreateGame(c *gin.Context) {
	var req gameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	game, err := h.library.CreateGame(c.Request.Context(), req.input())
	if err != nil {
		h.handleError(c, err, "create game")
		return
	}
	c.JSON(http.StatusCreated, game)
}

// UpdateGame modifies the supplied fields of a game.
// PUT /api/v1/games/:id.
func (h *Handler) UpdateGame(c *gin.Context) {
	var req gameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	game, err := h.library.UpdateGame(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		h.handleError(c, err, "update game")
		return
	}
	c.JSON(http.StatusOK, game)
}

// DeleteGame removes a game and, when configured, its reviews.
// DELETE /api/v1/games/:id.
func (h *Handler) DeleteGame(c *gin.Context) {
	if err := h.library.DeleteGame(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err, "delete game")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetGameRating returns the average review rating of a game.
// GET /api/v1/games/:id/rating.
func (h *Handler) GetGameRating(c *gin.Context) {
	id := c.Param("id")
	rating, err := h.library.GameRating(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, "get game rating")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"game_id": id,
		"rating":  rating,
	})
}
