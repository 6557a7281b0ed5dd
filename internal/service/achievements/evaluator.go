package achievements

import (
	"fmt"

	"github.com/aimd54/gametracker/internal/stats"
)

// Metric names usable in achievement criteria.
const (
	MetricTotalGames            = "total_games"
	MetricCompletedGames        = "completed_games"
	MetricCompletionPercent     = "completion_percent"
	MetricTotalHours            = "total_hours"
	MetricAverageHoursPerGame   = "average_hours_per_game"
	MetricReviewCount           = "review_count"
	MetricAverageRating         = "average_rating"
	MetricFavoritePlatformCount = "favorite_platform_count"
)

// MetricValues flattens library statistics into criteria metrics.
// Metrics without a defined value are absent from the map.
func MetricValues(lib stats.Library) map[string]float64 {
	values := map[string]float64{
		MetricTotalGames:          float64(lib.TotalGames),
		MetricCompletedGames:      float64(lib.CompletedGames),
		MetricCompletionPercent:   float64(lib.CompletionPercent),
		MetricTotalHours:          lib.TotalHours,
		MetricAverageHoursPerGame: lib.AverageHoursPerGame,
		MetricReviewCount:         float64(lib.AverageRating.Count),
	}
	if lib.AverageRating.Value != nil {
		values[MetricAverageRating] = *lib.AverageRating.Value
	}
	if lib.FavoritePlatform != nil {
		values[MetricFavoritePlatformCount] = float64(lib.FavoritePlatform.Count)
	}
	return values
}

// evaluateMetricCriteria compares a metric value against criteria using the specified operator.
func evaluateMetricCriteria(operator string, threshold, actualValue float64) (bool, error) {
	switch operator {
	case "<":
		return actualValue < threshold, nil
	case "<=":
		return actualValue <= threshold, nil
	case ">":
		return actualValue > threshold, nil
	case ">=":
		return actualValue >= threshold, nil
	case "==":
		return actualValue == threshold, nil
	default:
		return false, fmt.Errorf("unsupported operator: %s", operator)
	}
}
