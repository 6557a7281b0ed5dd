// Package stats computes derived library statistics from snapshots of game and review records.
//
// Every function is pure: inputs are never mutated, nothing is cached between calls and
// malformed records are skipped instead of failing the whole aggregate.
package stats

import (
	"github.com/aimd54/gametracker/internal/models"
)

// Rating is an average star rating. Value is nil when no valid review contributed,
// so an unrated game is never reported as 0/5.
type Rating struct {
	Value *float64 `json:"value"`
	Count int      `json:"count"`
}

// HasValue reports whether the rating is defined.
func (r Rating) HasValue() bool {
	return r.Value != nil
}

// AverageRating returns the mean rating of the reviews that reference gameID.
// Ratings outside 1..5 are ignored. The mean is rounded half-up to one decimal.
func AverageRating(reviews []models.Review, gameID string) Rating {
	var sum, count int64
	for i := range reviews {
		if reviews[i].GameID != gameID || !models.ValidRating(reviews[i].Rating) {
			continue
		}
		sum += int64(reviews[i].Rating)
		count++
	}
	return newRating(sum, count)
}

// LibraryRating returns the mean rating over all reviews regardless of game.
func LibraryRating(reviews []models.Review) Rating {
	var sum, count int64
	for i := range reviews {
		if !models.ValidRating(reviews[i].Rating) {
			continue
		}
		sum += int64(reviews[i].Rating)
		count++
	}
	return newRating(sum, count)
}

func newRating(sum, count int64) Rating {
	if count == 0 {
		return Rating{}
	}
	value := float64(divRoundHalfUp(sum*10, count)) / 10
	return Rating{Value: &value, Count: int(count)}
}

// divRoundHalfUp divides two non-negative integers rounding half up.
func divRoundHalfUp(num, den int64) int64 {
	return (2*num + den) / (2 * den)
}
