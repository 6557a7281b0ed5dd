package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aimd54/gametracker/internal/models"
	"github.com/aimd54/gametracker/internal/service/library"
)

// reviewRequest is the JSON body of review create and update requests.
type reviewRequest struct {
	GameID      *string  `json:"game_id"`
	Rating      *int     `json:"rating" binding:"omitempty,min=1,max=5"`
	Body        *string  `json:"body"`
	HoursPlayed *float64 `json:"hours_played" binding:"omitempty,gte=0,lte=1000000"`
	Difficulty  *string  `json:"difficulty"`
	Recommended *bool    `json:"recommended"`
}

func (r *reviewRequest) input() library.ReviewInput {
	return library.ReviewInput{
		GameID:      r.GameID,
		Rating:      r.Rating,
		Body:        r.Body,
		HoursPlayed: r.HoursPlayed,
		Difficulty:  r.Difficulty,
		Recommended: r.Recommended,
	}
}

// ListReviews returns every review, optionally restricted to one game.
// GET /api/v1/reviews?game_id=.
func (h *Handler) ListReviews(c *gin.Context) {
	filter := models.ReviewFilter{GameID: c.Query("game_id")}

	reviews, err := h.library.ListReviews(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err, "list reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   len(reviews),
	})
}

// GetReview returns a single review.
// GET /api/v1/reviews/:id.
func (h *Handler) GetReview(c *gin.Context) {
	review, err := h.library.GetReview(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err, "get review")
		return
	}
	c.JSON(http.StatusOK, review)
}

// CreateReview records a review of an existing game.
// POST /api/v1/reviews.
func (h *Handler) CreateReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	review, err := h.library.CreateReview(c.Request.Context(), req.input())
	if err != nil {
		h.handleError(c, err, "create review")
		return
	}
	c.JSON(http.StatusCreated, review)
}

// UpdateReview modifies the supplied fields of a review.
// PUT /api/v1/reviews/:id.
func (h *Handler) UpdateReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	review, err := h.library.UpdateReview(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		h.handleError(c, err, "update review")
		return
	}
	c.JSON(http.StatusOK, review)
}

// DeleteReview removes a review.
// DELETE /api/v1/reviews/:id.
func (h *Handler) DeleteReview(c *gin.Context) {
	if err := h.library.DeleteReview(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err, "delete review")
		return
	}
	c.Status(http.StatusNoContent)
}
