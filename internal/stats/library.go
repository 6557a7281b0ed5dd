package stats

import "github.com/aimd54/gametracker/internal/models"

// Library holds the library-wide statistics shown on the statistics view.
type Library struct {
	TotalGames          int        `json:"total_games"`
	CompletedGames      int        `json:"completed_games"`
	CompletionPercent   int        `json:"completion_percent"`
	TotalHours          float64    `json:"total_hours"`
	AverageHoursPerGame float64    `json:"average_hours_per_game"`
	FavoritePlatform    *Frequency `json:"favorite_platform"`
	AverageRating       Rating     `json:"average_rating"`
}

// LibraryStats computes every library-wide statistic from one snapshot.
// Reviews that reference a game missing from games are left out of the average rating;
// callers can find them with Orphans.
func LibraryStats(games []models.Game, reviews []models.Review) Library {
	completion := Completion(games)
	hours := Hours(games)

	return Library{
		TotalGames:          completion.Total,
		CompletedGames:      completion.Completed,
		CompletionPercent:   completion.Percent,
		TotalHours:          hours.Total,
		AverageHoursPerGame: hours.AveragePerGame,
		FavoritePlatform:    FavoritePlatform(games),
		AverageRating:       LibraryRating(attached(games, reviews)),
	}
}

// Orphans returns the reviews whose game reference does not match any game, in input order.
func Orphans(games []models.Game, reviews []models.Review) []models.Review {
	known := gameIDs(games)
	out := make([]models.Review, 0)
	for i := range reviews {
		if _, ok := known[reviews[i].GameID]; !ok {
			out = append(out, reviews[i])
		}
	}
	return out
}

func attached(games []models.Game, reviews []models.Review) []models.Review {
	known := gameIDs(games)
	out := make([]models.Review, 0, len(reviews))
	for i := range reviews {
		if _, ok := known[reviews[i].GameID]; ok {
			out = append(out, reviews[i])
		}
	}
	return out
}

func gameIDs(games []models.Game) map[string]struct{} {
	ids := make(map[string]struct{}, len(games))
	for i := range games {
		ids[games[i].ID] = struct{}{}
	}
	return ids
}
