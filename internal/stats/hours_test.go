package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aimd54/gametracker/internal/models"
)

func TestHours(t *testing.T) {
	tests := []struct {
		name    string
		hours   []float64
		total   float64
		average float64
	}{
		{"empty", nil, 0, 0},
		{"scenario", []float64{120, 45, 80}, 245, 81.7},
		{"negative clamped", []float64{10, -50}, 10, 5},
		{"missing counts as zero", []float64{0, 0, 9}, 9, 3},
		{"non finite ignored", []float64{math.NaN(), math.Inf(1), 4}, 4, 1.3},
		{"fractional", []float64{1.25, 1.25}, 2.5, 1.3},
		{"out of range value capped", []float64{1e17, 5}, 1_000_005, 500002.5},
		{"huge values never go negative", []float64{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}, 3_000_000, 1_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			games := make([]models.Game, 0, len(tt.hours))
			for _, h := range tt.hours {
				games = append(games, models.Game{HoursPlayed: h})
			}
			got := Hours(games)
			assert.Equal(t, tt.total, got.Total)
			assert.Equal(t, tt.average, got.AveragePerGame)
		})
	}
}
