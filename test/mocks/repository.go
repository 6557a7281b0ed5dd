package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aimd54/gametracker/internal/models"
)

// MockGameRepository is an in-memory game store that keeps insertion order
type MockGameRepository struct {
	mu    sync.RWMutex
	games []models.Game

	// ListErr, when set, is returned by List.
	ListErr error
}

// NewMockGameRepository creates an empty game store
func NewMockGameRepository() *MockGameRepository {
	return &MockGameRepository{}
}

func (m *MockGameRepository) indexOf(id string) int {
	for i := range m.games {
		if m.games[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *MockGameRepository) List(_ context.Context, filter models.GameFilter) ([]models.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}

	out := make([]models.Game, 0, len(m.games))
	for i := range m.games {
		if filter.Matches(&m.games[i]) {
			out = append(out, m.games[i])
		}
	}
	return out, nil
}

func (m *MockGameRepository) GetByID(_ context.Context, id string) (*models.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("game %s: %w", id, models.ErrGameNotFound)
	}
	g := m.games[i]
	return &g, nil
}

func (m *MockGameRepository) GetByTitle(_ context.Context, title string) (*models.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.games {
		if strings.EqualFold(m.games[i].Title, strings.TrimSpace(title)) {
			g := m.games[i]
			return &g, nil
		}
	}
	return nil, fmt.Errorf("game titled %q: %w", title, models.ErrGameNotFound)
}

func (m *MockGameRepository) Create(_ context.Context, game *models.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.games {
		if strings.EqualFold(m.games[i].Title, game.Title) {
			return models.ErrDuplicateTitle
		}
	}
	if game.ID == "" {
		game.ID = uuid.NewString()
	}
	now := time.Now()
	game.CreatedAt, game.UpdatedAt = now, now
	m.games = append(m.games, *game)
	return nil
}

func (m *MockGameRepository) Update(_ context.Context, game *models.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(game.ID)
	if i < 0 {
		return fmt.Errorf("game %s: %w", game.ID, models.ErrGameNotFound)
	}
	game.UpdatedAt = time.Now()
	m.games[i] = *game
	return nil
}

func (m *MockGameRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("game %s: %w", id, models.ErrGameNotFound)
	}
	m.games = append(m.games[:i], m.games[i+1:]...)
	return nil
}

// Put stores a game as-is, bypassing every check. Useful for legacy records.
func (m *MockGameRepository) Put(games ...models.Game) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games = append(m.games, games...)
}

// MockReviewRepository is an in-memory review store that keeps insertion order
type MockReviewRepository struct {
	mu      sync.RWMutex
	reviews []models.Review

	// DeleteByGameIDErr, when set, is returned by DeleteByGameID.
	DeleteByGameIDErr error
}

// NewMockReviewRepository creates an empty review store
func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{}
}

func (m *MockReviewRepository) indexOf(id string) int {
	for i := range m.reviews {
		if m.reviews[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *MockReviewRepository) List(_ context.Context, filter models.ReviewFilter) ([]models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Review, 0, len(m.reviews))
	for i := range m.reviews {
		if filter.GameID == "" || m.reviews[i].GameID == filter.GameID {
			out = append(out, m.reviews[i])
		}
	}
	return out, nil
}

func (m *MockReviewRepository) GetByID(_ context.Context, id string) (*models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("review %s: %w", id, models.ErrReviewNotFound)
	}
	r := m.reviews[i]
	return &r, nil
}

func (m *MockReviewRepository) Create(_ context.Context, review *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	now := time.Now()
	review.CreatedAt, review.UpdatedAt = now, now
	m.reviews = append(m.reviews, *review)
	return nil
}

func (m *MockReviewRepository) Update(_ context.Context, review *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(review.ID)
	if i < 0 {
		return fmt.Errorf("review %s: %w", review.ID, models.ErrReviewNotFound)
	}
	review.UpdatedAt = time.Now()
	m.reviews[i] = *review
	return nil
}

func (m *MockReviewRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("review %s: %w", id, models.ErrReviewNotFound)
	}
	m.reviews = append(m.reviews[:i], m.reviews[i+1:]...)
	return nil
}

func (m *MockReviewRepository) DeleteByGameID(_ context.Context, gameID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteByGameIDErr != nil {
		return 0, m.DeleteByGameIDErr
	}

	kept := m.reviews[:0]
	var n int64
	for _, r := range m.reviews {
		if r.GameID == gameID {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.reviews = kept
	return n, nil
}

// Put stores reviews as-is, bypassing every check. Useful for orphaned records.
func (m *MockReviewRepository) Put(reviews ...models.Review) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews = append(m.reviews, reviews...)
}
