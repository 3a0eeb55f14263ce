package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/scratchpad/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("bogus"))
}

func TestSetupWithWriter_Text(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	cfg := config.Default()
	cfg.LogLevel = config.LogLevelInfo

	logger := SetupWithWriter(cfg, &buf)
	logger.Debug("hidden")
	logger.Info("shown", "id", "button--primary")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "id=button--primary")
	assert.Same(t, logger, slog.Default())
}

func TestSetupWithWriter_JSON(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	cfg := config.Default()
	cfg.LogFormat = config.LogFormatJSON

	SetupWithWriter(cfg, &buf).Warn("corrupt notes")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "corrupt notes", line["msg"])
	assert.Equal(t, "WARN", line["level"])
}
