package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewWithWriter_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info", true)

	logger.Debug("hidden")
	logger.Info("payment posted", slog.Int64("entry_id", 7))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "payment posted", record["msg"])
	assert.Equal(t, float64(7), record["entry_id"])
}

func TestNewWithWriter_DevelopmentUsesTint(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "debug", false)

	logger.Debug("allocating", slog.String("member_id", "123"))

	assert.Contains(t, buf.String(), "allocating")
	assert.Contains(t, buf.String(), "member_id")
}
