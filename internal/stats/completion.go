package stats

import "github.com/aimd54/gametracker/internal/models"

// CompletionStats counts completed games.
type CompletionStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Percent   int `json:"percent"`
}

// Completion counts games whose progress normalizes to completed, accepting either the
// legacy boolean or the three-state status. Percent is rounded to the nearest integer
// and is 0 for an empty library.
func Completion(games []models.Game) CompletionStats {
	s := CompletionStats{Total: len(games)}
	for i := range games {
		if games[i].IsCompleted() {
			s.Completed++
		}
	}
	if s.Total > 0 {
		s.Percent = int(divRoundHalfUp(int64(s.Completed)*100, int64(s.Total)))
	}
	return s
}

// ProgressBreakdown counts games per normalized progress state.
func ProgressBreakdown(games []models.Game) map[models.ProgressState]int {
	out := map[models.ProgressState]int{
		models.ProgressNotStarted: 0,
		models.ProgressInProgress: 0,
		models.ProgressCompleted:  0,
	}
	for i := range games {
		out[games[i].Progress()]++
	}
	return out
}
