package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-spectra/internal/config"
)

func TestConsoleLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(config.Logging{Level: "warn", Format: "console"}, &buf)
	require.NoError(t, err)

	log.Info("loaded", zap.String("path", "a.csv"))
	log.Warn("analysis failed", zap.String("op", "baseline"))
	require.NoError(t, log.Sync())

	out := buf.String()
	assert.NotContains(t, out, "loaded")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "analysis failed")
	assert.Contains(t, out, `"op": "baseline"`)
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(config.Logging{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)

	log.Debug("capabilities", zap.Int("formats", 5))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "capabilities", entry["msg"])
	assert.Equal(t, 5.0, entry["formats"])
	assert.Contains(t, entry, "ts")
}

func TestInvalidSettings(t *testing.T) {
	_, err := New(config.Logging{Level: "chatty", Format: "console"}, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = New(config.Logging{Level: "info", Format: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)
}
