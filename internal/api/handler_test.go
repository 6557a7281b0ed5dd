//nolint:noctx // Test file uses http.NewRequest for simplicity
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aimd54/gametracker/internal/config"
	"github.com/aimd54/gametracker/internal/models"
	"github.com/aimd54/gametracker/internal/service/achievements"
	"github.com/aimd54/gametracker/internal/service/audit"
	"github.com/aimd54/gametracker/internal/service/library"
	"github.com/aimd54/gametracker/internal/stats"
	"github.com/aimd54/gametracker/pkg/logger"
	"github.com/aimd54/gametracker/test/mocks"
)

// Mock Audit Service
type mockAuditService struct {
	report *audit.Report
	err    error
	calls  int
}

func (m *mockAuditService) RunOnce(_ context.Context) (*audit.Report, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

// Mock Health Checker
type mockHealth struct {
	err error
}

func (m *mockHealth) Health(_ context.Context) error {
	return m.err
}

type testEnv struct {
	router  *gin.Engine
	games   *mocks.MockGameRepository
	reviews *mocks.MockReviewRepository
	audit   *mockAuditService
	health  *mockHealth
}

// Test setup helper
func setupRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	games := mocks.NewMockGameRepository()
	reviews := mocks.NewMockReviewRepository()
	log := logger.Nop()

	librarySvc := library.NewService(games, reviews, nil, config.LibraryConfig{
		MaxReleaseYearOffset: 5,
		CascadeReviewDelete:  true,
		DefaultTopRatedLimit: 10,
	}, log)
	achievementSvc := achievements.NewService(librarySvc, config.DefaultAchievements(), log)
	auditSvc := &mockAuditService{report: &audit.Report{RanAt: time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)}}
	health := &mockHealth{}

	handler := NewHandlerWithInterfaces(librarySvc, achievementSvc, auditSvc, health, 10, log)

	return &testEnv{
		router:  NewRouter(handler, log, "/metrics"),
		games:   games,
		reviews: reviews,
		audit:   auditSvc,
		health:  health,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

func gameBody(title, platform string) map[string]interface{} {
	return map[string]interface{}{
		"title":        title,
		"genre":        "Action",
		"platform":     platform,
		"release_year": 2020,
		"developer":    "Studio",
		"description":  "A game.",
	}
}

func (e *testEnv) createGame(t *testing.T, body map[string]interface{}) models.Game {
	t.Helper()
	w := e.do(t, "POST", "/api/v1/games", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var g models.Game
	decode(t, w, &g)
	return g
}

func (e *testEnv) createReview(t *testing.T, gameID string, rating int) models.Review {
	t.Helper()
	w := e.do(t, "POST", "/api/v1/reviews", map[string]interface{}{
		"game_id": gameID,
		"rating":  rating,
		"body":    "Review",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var r models.Review
	decode(t, w, &r)
	return r
}

func TestHealth(t *testing.T) {
	env := setupRouter(t)

	w := env.do(t, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	env.health.err = errors.New("connection refused")
	w = env.do(t, "GET", "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp map[string]interface{}
	decode(t, w, &resp)
	assert.Equal(t, "unhealthy", resp["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupRouter(t)

	env.do(t, "GET", "/api/v1/games", nil)
	w := env.do(t, "GET", "/metrics", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gametracker_http_requests_total")
}

func TestCreateGame(t *testing.T) {
	env := setupRouter(t)

	g := env.createGame(t, gameBody("Celeste", "PC"))

	assert.NotEmpty(t, g.ID)
	assert.Equal(t, "Celeste", g.Title)
	assert.Equal(t, models.ProgressNotStarted, g.Status)
	assert.False(t, g.Completed)
	assert.Equal(t, models.DefaultCoverImage, g.CoverImage)
}

func TestCreateGame_LegacyCompletedFlag(t *testing.T) {
	env := setupRouter(t)

	body := gameBody("Hades", "Switch")
	body["completed"] = true
	g := env.createGame(t, body)

	assert.Equal(t, models.ProgressCompleted, g.Status)
	assert.True(t, g.Completed)
}

func TestCreateGame_Errors(t *testing.T) {
	env := setupRouter(t)
	env.createGame(t, gameBody("Celeste", "PC"))

	missingTitle := gameBody("", "PC")
	badYear := gameBody("Old", "PC")
	badYear["release_year"] = 1900
	badStatus := gameBody("Odd", "PC")
	badStatus["status"] = "abandoned"
	negativeHours := gameBody("Neg", "PC")
	negativeHours["hours_played"] = -3
	hugeHours := gameBody("Huge", "PC")
	hugeHours["hours_played"] = 1e17

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{name: "missing title", body: missingTitle, wantStatus: http.StatusBadRequest},
		{name: "release year out of range", body: badYear, wantStatus: http.StatusBadRequest},
		{name: "unknown status", body: badStatus, wantStatus: http.StatusBadRequest},
		{name: "negative hours", body: negativeHours, wantStatus: http.StatusBadRequest},
		{name: "hours above limit", body: hugeHours, wantStatus: http.StatusBadRequest},
		{name: "malformed json", body: "{not json", wantStatus: http.StatusBadRequest},
		{name: "duplicate title", body: gameBody("celeste", "Switch"), wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, "POST", "/api/v1/games", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			var resp map[string]interface{}
			decode(t, w, &resp)
			assert.NotEmpty(t, resp["error"])
			assert.NotEmpty(t, resp["timestamp"])
		})
	}
}

func TestListGames_Filters(t *testing.T) {
	env := setupRouter(t)

	done := gameBody("Celeste", "PC")
	done["status"] = "completed"
	done["favorite"] = true
	env.createGame(t, done)
	env.createGame(t, gameBody("Hades", "Switch"))
	env.createGame(t, gameBody("Hollow Knight", "Switch"))

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantTitles []string
	}{
		{name: "no filter", query: "", wantStatus: http.StatusOK, wantTitles: []string{"Celeste", "Hades", "Hollow Knight"}},
		{name: "title search", query: "?q=ho", wantStatus: http.StatusOK, wantTitles: []string{"Hollow Knight"}},
		{name: "platform", query: "?platform=switch", wantStatus: http.StatusOK, wantTitles: []string{"Hades", "Hollow Knight"}},
		{name: "legacy status spelling", query: "?status=Completado", wantStatus: http.StatusOK, wantTitles: []string{"Celeste"}},
		{name: "favorite", query: "?favorite=false", wantStatus: http.StatusOK, wantTitles: []string{"Hades", "Hollow Knight"}},
		{name: "unknown status", query: "?status=abandoned", wantStatus: http.StatusBadRequest},
		{name: "bad boolean", query: "?in_library=maybe", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, "GET", "/api/v1/games"+tt.query, nil)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp struct {
				Games []models.Game `json:"games"`
				Total int           `json:"total"`
			}
			decode(t, w, &resp)

			titles := make([]string, 0, len(resp.Games))
			for _, g := range resp.Games {
				titles = append(titles, g.Title)
			}
			assert.Equal(t, tt.wantTitles, titles)
			assert.Equal(t, len(tt.wantTitles), resp.Total)
		})
	}
}

func TestGetGame_Detail(t *testing.T) {
	env := setupRouter(t)
	g := env.createGame(t, gameBody("Celeste", "PC"))
	env.createReview(t, g.ID, 5)
	env.createReview(t, g.ID, 4)

	w := env.do(t, "GET", "/api/v1/games/"+g.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var detail library.GameDetail
	decode(t, w, &detail)
	assert.Equal(t, "Celeste", detail.Game.Title)
	assert.Len(t, detail.Reviews, 2)
	require.NotNil(t, detail.Rating.Value)
	assert.InDelta(t, 4.5, *detail.Rating.Value, 1e-9)
	assert.Equal(t, 2, detail.Rating.Count)

	w = env.do(t, "GET", "/api/v1/games/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetGameRating_Unrated(t *testing.T) {
	env := setupRouter(t)
	g := env.createGame(t, gameBody("Celeste", "PC"))

	w := env.do(t, "GET", "/api/v1/games/"+g.ID+"/rating", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		GameID string       `json:"game_id"`
		Rating stats.Rating `json:"rating"`
	}
	decode(t, w, &resp)
	assert.Equal(t, g.ID, resp.GameID)
	assert.Nil(t, resp.Rating.Value)
	assert.Equal(t, 0, resp.Rating.Count)
}

func TestUpdateGame(t *testing.T) {
	env := setupRouter(t)
	g := env.createGame(t, gameBody("Celeste", "PC"))

	w := env.do(t, "PUT", "/api/v1/games/"+g.ID, map[string]interface{}{
		"status":       "in_progress",
		"hours_played": 12.5,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Game
	decode(t, w, &updated)
	assert.Equal(t, models.ProgressInProgress, updated.Status)
	assert.InDelta(t, 12.5, updated.HoursPlayed, 1e-9)
	assert.Equal(t, "Celeste", updated.Title)

	w = env.do(t, "PUT", "/api/v1/games/missing", map[string]interface{}{"favorite": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteGame_CascadesReviews(t *testing.T) {
	env := setupRouter(t)
	g := env.createGame(t, gameBody("Celeste", "PC"))
	env.createReview(t, g.ID, 5)

	w := env.do(t, "DELETE", "/api/v1/games/"+g.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, "GET", "/api/v1/reviews?game_id="+g.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Total int `json:"total"`
	}
	decode(t, w, &resp)
	assert.Equal(t, 0, resp.Total)

	w = env.do(t, "DELETE", "/api/v1/games/"+g.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviews_CRUD(t *testing.T) {
	env := setupRouter(t)
	g := env.createGame(t, gameBody("Celeste", "PC"))

	r := env.createReview(t, g.ID, 4)
	assert.True(t, r.Recommended)
	assert.Equal(t, models.DifficultyNormal, r.Difficulty)

	w := env.do(t, "GET", "/api/v1/reviews/"+r.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "PUT", "/api/v1/reviews/"+r.ID, map[string]interface{}{
		"rating":     2,
		"difficulty": "Difícil",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Review
	decode(t, w, &updated)
	assert.Equal(t, 2, updated.Rating)
	assert.Equal(t, models.DifficultyHard, updated.Difficulty)
	assert.Equal(t, "Review", updated.Body)

	w = env.do(t, "DELETE", "/api/v1/reviews/"+r.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, "GET", "/api/v1/reviews/"+r.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateReview_Errors(t *testing.T) {
	env := setupRouter(t)
	g := env.createGame(t, gameBody("Celeste", "PC"))

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{
			name:       "unknown game",
			body:       map[string]interface{}{"game_id": "missing", "rating": 3, "body": "x"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "rating above range",
			body:       map[string]interface{}{"game_id": g.ID, "rating": 6, "body": "x"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "rating below range",
			body:       map[string]interface{}{"game_id": g.ID, "rating": 0, "body": "x"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing body",
			body:       map[string]interface{}{"game_id": g.ID, "rating": 3},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown difficulty",
			body:       map[string]interface{}{"game_id": g.ID, "rating": 3, "body": "x", "difficulty": "Nightmare"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, "POST", "/api/v1/reviews", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestLibraryStats(t *testing.T) {
	env := setupRouter(t)

	done := gameBody("Celeste", "PC")
	done["status"] = "completed"
	done["hours_played"] = 10
	celeste := env.createGame(t, done)

	hades := gameBody("Hades", "Switch")
	hades["hours_played"] = 5
	env.createGame(t, hades)
	env.createGame(t, gameBody("Hollow Knight", "Switch"))

	env.createReview(t, celeste.ID, 5)
	env.createReview(t, celeste.ID, 4)

	w := env.do(t, "GET", "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var lib stats.Library
	decode(t, w, &lib)
	assert.Equal(t, 3, lib.TotalGames)
	assert.Equal(t, 1, lib.CompletedGames)
	assert.Equal(t, 33, lib.CompletionPercent)
	assert.InDelta(t, 15.0, lib.TotalHours, 1e-9)
	assert.InDelta(t, 5.0, lib.AverageHoursPerGame, 1e-9)
	require.NotNil(t, lib.FavoritePlatform)
	assert.Equal(t, "Switch", lib.FavoritePlatform.Name)
	assert.Equal(t, 2, lib.FavoritePlatform.Count)
	require.NotNil(t, lib.AverageRating.Value)
	assert.InDelta(t, 4.5, *lib.AverageRating.Value, 1e-9)
}

func TestLibraryStats_EmptyLibrary(t *testing.T) {
	env := setupRouter(t)

	w := env.do(t, "GET", "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	decode(t, w, &resp)
	assert.EqualValues(t, 0, resp["total_games"])
	assert.EqualValues(t, 0, resp["completion_percent"])
	assert.Nil(t, resp["favorite_platform"])

	rating, ok := resp["average_rating"].(map[string]interface{})
	require.True(t, ok)
	assert.Nil(t, rating["value"])
}

func TestTopRated(t *testing.T) {
	env := setupRouter(t)
	a := env.createGame(t, gameBody("Celeste", "PC"))
	b := env.createGame(t, gameBody("Hades", "Switch"))
	env.createGame(t, gameBody("Unrated", "PC"))
	env.createReview(t, a.ID, 3)
	env.createReview(t, b.ID, 5)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantTitles []string
	}{
		{name: "default limit", query: "", wantStatus: http.StatusOK, wantTitles: []string{"Hades", "Celeste"}},
		{name: "limit one", query: "?limit=1", wantStatus: http.StatusOK, wantTitles: []string{"Hades"}},
		{name: "zero limit", query: "?limit=0", wantStatus: http.StatusBadRequest},
		{name: "limit too large", query: "?limit=1001", wantStatus: http.StatusBadRequest},
		{name: "non numeric limit", query: "?limit=abc", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, "GET", "/api/v1/stats/top-rated"+tt.query, nil)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp struct {
				Games []stats.GameRating `json:"games"`
			}
			decode(t, w, &resp)
			titles := make([]string, 0, len(resp.Games))
			for _, gr := range resp.Games {
				titles = append(titles, gr.Title)
			}
			assert.Equal(t, tt.wantTitles, titles)
		})
	}
}

func TestBreakdowns(t *testing.T) {
	env := setupRouter(t)
	done := gameBody("Celeste", "PC")
	done["status"] = "completed"
	env.createGame(t, done)
	env.createGame(t, gameBody("Hades", "Switch"))
	env.createGame(t, gameBody("Hollow Knight", "Switch"))

	w := env.do(t, "GET", "/api/v1/stats/platforms", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var platforms library.Breakdown
	decode(t, w, &platforms)
	assert.Equal(t, 3, platforms.Total)
	require.NotEmpty(t, platforms.Entries)
	assert.Equal(t, stats.Frequency{Name: "Switch", Count: 2}, platforms.Entries[0])

	w = env.do(t, "GET", "/api/v1/stats/genres", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var genres library.Breakdown
	decode(t, w, &genres)
	assert.Equal(t, []stats.Frequency{{Name: "Action", Count: 3}}, genres.Entries)

	w = env.do(t, "GET", "/api/v1/stats/progress", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var progress map[string]int
	decode(t, w, &progress)
	assert.Equal(t, 1, progress["completed"])
	assert.Equal(t, 2, progress["not_started"])
}

func TestListAchievements(t *testing.T) {
	env := setupRouter(t)
	env.createGame(t, gameBody("Celeste", "PC"))

	w := env.do(t, "GET", "/api/v1/achievements", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Achievements []achievements.Achievement `json:"achievements"`
		Unlocked     int                        `json:"unlocked"`
		Total        int                        `json:"total"`
	}
	decode(t, w, &resp)
	assert.Equal(t, len(config.DefaultAchievements()), resp.Total)
	assert.Equal(t, 1, resp.Unlocked)
	assert.Equal(t, "first_steps", resp.Achievements[0].Name)
	assert.True(t, resp.Achievements[0].Unlocked)
}

func TestGetAchievement(t *testing.T) {
	env := setupRouter(t)

	w := env.do(t, "GET", "/api/v1/achievements/completionist", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var a achievements.Achievement
	decode(t, w, &a)
	assert.Equal(t, "completionist", a.Name)
	assert.False(t, a.Unlocked)

	w = env.do(t, "GET", "/api/v1/achievements/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRunAudit(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "success", wantStatus: http.StatusOK},
		{name: "already running", err: audit.ErrAlreadyRunning, wantStatus: http.StatusConflict},
		{name: "store failure", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupRouter(t)
			env.audit.err = tt.err

			w := env.do(t, "POST", "/api/v1/admin/audit", nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, 1, env.audit.calls)
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	env := setupRouter(t)

	w := env.do(t, "GET", "/api/v1/nothing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
