package stats

import (
	"sort"

	"github.com/aimd54/gametracker/internal/models"
)

// GameRating pairs a game with its average rating.
type GameRating struct {
	GameID   string `json:"game_id"`
	Title    string `json:"title"`
	Platform string `json:"platform"`
	Rating   Rating `json:"rating"`
	Rank     int    `json:"rank,omitempty"`
}

// GameRatings returns the average rating of every game, in the order of games.
// Orphaned reviews do not contribute to any entry.
func GameRatings(games []models.Game, reviews []models.Review) []GameRating {
	byGame := make(map[string][]models.Review, len(games))
	for i := range reviews {
		byGame[reviews[i].GameID] = append(byGame[reviews[i].GameID], reviews[i])
	}

	out := make([]GameRating, 0, len(games))
	for i := range games {
		g := &games[i]
		out = append(out, GameRating{
			GameID:   g.ID,
			Title:    g.Title,
			Platform: g.Platform,
			Rating:   AverageRating(byGame[g.ID], g.ID),
		})
	}
	return out
}

// TopRated ranks rated games by average rating, then review count, then title.
// Games without a valid review are left out. limit <= 0 returns every rated game.
func TopRated(games []models.Game, reviews []models.Review, limit int) []GameRating {
	all := GameRatings(games, reviews)
	rated := make([]GameRating, 0, len(all))
	for _, gr := range all {
		if gr.Rating.HasValue() {
			rated = append(rated, gr)
		}
	}

	sort.SliceStable(rated, func(i, j int) bool {
		a, b := rated[i], rated[j]
		if *a.Rating.Value != *b.Rating.Value {
			return *a.Rating.Value > *b.Rating.Value
		}
		if a.Rating.Count != b.Rating.Count {
			return a.Rating.Count > b.Rating.Count
		}
		return a.Title < b.Title
	})

	if limit > 0 && len(rated) > limit {
		rated = rated[:limit]
	}
	for i := range rated {
		rated[i].Rank = i + 1
	}
	return rated
}
