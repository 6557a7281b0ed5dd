package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles(t *testing.T) {
	files, err := MigrationFiles()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"000001_create_games.down.sql",
		"000001_create_games.up.sql",
		"000002_create_reviews.down.sql",
		"000002_create_reviews.up.sql",
	}, files)
}
