package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug").Component("library")

	log.Warn().Str("review_id", "r1").Msg("Orphaned review")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "library", entry["component"])
	assert.Equal(t, "r1", entry["review_id"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "Orphaned review", entry["message"])
}

func TestNewWithWriter_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")

	log.Info().Msg("hidden")
	assert.Zero(t, buf.Len())
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Error().Msg("discarded")
	assert.NotNil(t, log.GetLogger())
}
