package stats

import (
	"sort"
	"strings"

	"github.com/aimd54/gametracker/internal/models"
)

// Frequency is the number of games sharing one attribute value.
type Frequency struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// KeyFunc extracts the attribute a frequency table is built on.
type KeyFunc func(g *models.Game) string

// ByPlatform keys games by platform.
func ByPlatform(g *models.Game) string { return g.Platform }

// ByGenre keys games by genre.
func ByGenre(g *models.Game) string { return g.Genre }

// Frequencies counts games per attribute value, most frequent first.
// Equal counts keep the order in which the value first appears in games.
// Blank values are skipped.
func Frequencies(games []models.Game, key KeyFunc) []Frequency {
	index := make(map[string]int)
	out := make([]Frequency, 0)
	for i := range games {
		name := strings.TrimSpace(key(&games[i]))
		if name == "" {
			continue
		}
		pos, ok := index[name]
		if !ok {
			pos = len(out)
			index[name] = pos
			out = append(out, Frequency{Name: name})
		}
		out[pos].Count++
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// FavoritePlatform returns the most frequent platform, or nil when no game has one.
// Ties go to the platform encountered first in games.
func FavoritePlatform(games []models.Game) *Frequency {
	freq := Frequencies(games, ByPlatform)
	if len(freq) == 0 {
		return nil
	}
	top := freq[0]
	return &top
}
