package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aimd54/gametracker/internal/models"
)

func TestGameRatings(t *testing.T) {
	games := sampleGames()
	reviews := append(reviewsFor("1", 5, 4), reviewsFor("gone", 1)...)

	got := GameRatings(games, reviews)

	require.Len(t, got, 3)
	assert.Equal(t, "1", got[0].GameID)
	assert.Equal(t, 4.5, *got[0].Rating.Value)
	assert.Nil(t, got[1].Rating.Value)
	assert.Nil(t, got[2].Rating.Value)
}

func TestTopRated(t *testing.T) {
	games := []models.Game{
		{ID: "a", Title: "Alpha"},
		{ID: "b", Title: "Bravo"},
		{ID: "c", Title: "Charlie"},
		{ID: "d", Title: "Delta"},
		{ID: "e", Title: "Echo"},
	}
	var reviews []models.Review
	reviews = append(reviews, reviewsFor("a", 4)...)
	reviews = append(reviews, reviewsFor("b", 5, 3)...)
	reviews = append(reviews, reviewsFor("c", 5)...)
	reviews = append(reviews, reviewsFor("d", 4, 4)...)

	got := TopRated(games, reviews, 0)

	require.Len(t, got, 4)
	assert.Equal(t, "c", got[0].GameID)
	assert.Equal(t, "b", got[1].GameID)
	assert.Equal(t, "d", got[2].GameID)
	assert.Equal(t, "a", got[3].GameID)
	for i, gr := range got {
		assert.Equal(t, i+1, gr.Rank)
	}

	limited := TopRated(games, reviews, 2)
	require.Len(t, limited, 2)
	assert.Equal(t, "c", limited[0].GameID)
}
