package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("defaults to warn", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(Config{Out: &buf})
		require.NoError(t, err)

		l.Zerolog().Info().Msg("hidden")
		l.Zerolog().Warn().Str("id", "MEMORY-001").Msg("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), `"id":"MEMORY-001"`)
		assert.NoError(t, l.Close())
	})

	t.Run("invalid level falls back to warn", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(Config{Level: "chatty", Out: &buf})
		require.NoError(t, err)

		l.Zerolog().Info().Msg("hidden")
		assert.Empty(t, buf.String())
	})

	t.Run("debug level", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(Config{Level: "debug", Out: &buf})
		require.NoError(t, err)

		l.Zerolog().Debug().Msg("search")
		assert.Contains(t, buf.String(), `"message":"search"`)
	})

	t.Run("pretty output", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(Config{Level: "info", Pretty: true, Out: &buf})
		require.NoError(t, err)

		l.Zerolog().Info().Msg("memory created")
		assert.Contains(t, buf.String(), "memory created")
		assert.NotContains(t, buf.String(), `"message"`)
	})

	t.Run("file output", func(t *testing.T) {
		var buf bytes.Buffer
		logFile := filepath.Join(t.TempDir(), "logs", "knowledge.log")
		l, err := New(Config{Level: "info", File: logFile, Out: &buf})
		require.NoError(t, err)

		l.Zerolog().Info().Msg("to file")
		require.NoError(t, l.Close())

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "to file")
		assert.Contains(t, buf.String(), "to file")
	})
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Zerolog().Error().Msg("discarded")
	assert.NoError(t, l.Close())
}
