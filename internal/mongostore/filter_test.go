package mongostore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aimd54/gametracker/internal/models"
)

func TestGameFilterDoc(t *testing.T) {
	yes := true
	no := false

	tests := []struct {
		name   string
		filter models.GameFilter
		want   bson.M
	}{
		{
			name:   "empty",
			filter: models.GameFilter{},
			want:   bson.M{},
		},
		{
			name:   "query is escaped and case-insensitive",
			filter: models.GameFilter{Query: " F.E.A.R "},
			want:   bson.M{"title": primitive.Regex{Pattern: `F\.E\.A\.R`, Options: "i"}},
		},
		{
			name:   "platform and genre match whole values",
			filter: models.GameFilter{Platform: "PS5", Genre: "RPG"},
			want: bson.M{
				"platform": primitive.Regex{Pattern: "^PS5$", Options: "i"},
				"genre":    primitive.Regex{Pattern: "^RPG$", Options: "i"},
			},
		},
		{
			name:   "flags",
			filter: models.GameFilter{Favorite: &yes, InLibrary: &no},
			want:   bson.M{"favorite": true, "in_library": false},
		},
		{
			name:   "status is matched after decoding",
			filter: models.GameFilter{Status: models.ProgressCompleted},
			want:   bson.M{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gameFilterDoc(tt.filter))
		})
	}
}

func TestReviewFilterDoc(t *testing.T) {
	assert.Equal(t, bson.M{}, reviewFilterDoc(models.ReviewFilter{}))
	assert.Equal(t, bson.M{"game_id": "g1"}, reviewFilterDoc(models.ReviewFilter{GameID: "g1"}))
}

func TestExactFold(t *testing.T) {
	assert.Equal(t, primitive.Regex{Pattern: `^Half-Life 2\+$`, Options: "i"}, exactFold("Half-Life 2+"))
}
