package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aimd54/gametracker/internal/models"
)

func newReview(gameID string, rating int) *models.Review {
	r := &models.Review{GameID: gameID, Rating: rating, Body: "Review body", Recommended: true}
	r.Normalize()
	return r
}

func TestReviewRepository_CRUD(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	repo := NewReviewRepository(db)
	ctx := context.Background()

	review := newReview("g1", 4)
	require.NoError(t, repo.Create(ctx, review))
	assert.NotEmpty(t, review.ID)

	got, err := repo.GetByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Rating)
	assert.Equal(t, models.DifficultyNormal, got.Difficulty)
	assert.True(t, got.Recommended)

	review.Rating = 2
	review.Recommended = false
	require.NoError(t, repo.Update(ctx, review))

	got, err = repo.GetByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Rating)
	assert.False(t, got.Recommended)

	require.NoError(t, repo.Delete(ctx, review.ID))
	_, err = repo.GetByID(ctx, review.ID)
	assert.ErrorIs(t, err, models.ErrReviewNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, review.ID), models.ErrReviewNotFound)
}

func TestReviewRepository_ListByGame(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	repo := NewReviewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newReview("g1", 5)))
	require.NoError(t, repo.Create(ctx, newReview("g2", 3)))
	require.NoError(t, repo.Create(ctx, newReview("g1", 4)))

	all, err := repo.List(ctx, models.ReviewFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	g1, err := repo.List(ctx, models.ReviewFilter{GameID: "g1"})
	require.NoError(t, err)
	require.Len(t, g1, 2)
	assert.Equal(t, 5, g1[0].Rating)
	assert.Equal(t, 4, g1[1].Rating)
}

func TestReviewRepository_DeleteByGameID(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	repo := NewReviewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newReview("g1", 5)))
	require.NoError(t, repo.Create(ctx, newReview("g1", 4)))
	require.NoError(t, repo.Create(ctx, newReview("g2", 3)))

	n, err := repo.DeleteByGameID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	rest, err := repo.List(ctx, models.ReviewFilter{})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "g2", rest[0].GameID)
}
