package stats

import (
	"math"

	"github.com/aimd54/gametracker/internal/models"
)

// HoursStats aggregates hours played across games.
type HoursStats struct {
	Total          float64 `json:"total"`
	AveragePerGame float64 `json:"average_per_game"`
}

// Hours sums hours played, treating negative or non-finite values as 0 and capping each
// game at models.MaxHoursPlayed, and averages them per game rounded half-up to one decimal.
// The average is 0 for an empty library.
//
// Values are accumulated as integer hundredths so the result does not depend on input order,
// which rounds Total to hundredths of an hour.
func Hours(games []models.Game) HoursStats {
	var centi int64
	for i := range games {
		centi += centiHours(games[i].HoursPlayed)
	}

	s := HoursStats{Total: float64(centi) / 100}
	if n := int64(len(games)); n > 0 {
		s.AveragePerGame = float64(divRoundHalfUp(centi, 10*n)) / 10
	}
	return s
}

// centiHours converts h to hundredths of an hour within 0..MaxHoursPlayed.
func centiHours(h float64) int64 {
	if math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		return 0
	}
	if h > models.MaxHoursPlayed {
		h = models.MaxHoursPlayed
	}
	return int64(math.Floor(h*100 + 0.5))
}
