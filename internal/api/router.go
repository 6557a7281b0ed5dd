package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aimd54/gametracker/pkg/logger"
)

// RegisterRoutes mounts the versioned API under r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	v1 := r.Group("/api/v1")

	games := v1.Group("/games")
	games.GET("", h.ListGames)
	games.POST("", h.CreateGame)
	games.GET("/:id", h.GetGame)
	games.PUT("/:id", h.UpdateGame)
	games.DELETE("/:id", h.DeleteGame)
	games.GET("/:id/rating", h.GetGameRating)

	reviews := v1.Group("/reviews")
	reviews.GET("", h.ListReviews)
	reviews.POST("", h.CreateReview)
	reviews.GET("/:id", h.GetReview)
	reviews.PUT("/:id", h.UpdateReview)
	reviews.DELETE("/:id", h.DeleteReview)

	statsGroup := v1.Group("/stats")
	statsGroup.GET("", h.GetLibraryStats)
	statsGroup.GET("/top-rated", h.GetTopRated)
	statsGroup.GET("/platforms", h.GetPlatformBreakdown)
	statsGroup.GET("/genres", h.GetGenreBreakdown)
	statsGroup.GET("/progress", h.GetProgressBreakdown)

	v1.GET("/achievements", h.ListAchievements)
	v1.GET("/achievements/:name", h.GetAchievement)
	v1.POST("/admin/audit", h.RunAudit)
}

// NewRouter builds the gin engine with middleware, health and metrics endpoints.
func NewRouter(h *Handler, log *logger.Logger, metricsPath string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log), Metrics())

	router.GET("/health", h.Health)
	if metricsPath != "" {
		router.GET(metricsPath, gin.WrapH(promhttp.Handler()))
	}

	h.RegisterRoutes(router)
	return router
}
