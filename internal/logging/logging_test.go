package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productdesk/internal/logging"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, logging.ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("whatever"))
}

func TestLookupLevel(t *testing.T) {
	level, ok := logging.LookupLevel("Warning")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelWarn, level)

	_, ok = logging.LookupLevel("verbose")
	assert.False(t, ok)
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "warn", true)

	logger.Info("dropped")
	logger.Warn("verification failed", "id", "abc")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "verification failed", record["msg"])
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "abc", record["id"])
}

func TestNewWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "debug", false)

	logger.Debug("loading products", "count", 2)

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), `msg="loading products"`)
	assert.Contains(t, buf.String(), "count=2")
}
