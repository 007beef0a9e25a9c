package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/cache-service/internal/config"
)

func TestSetupWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWithWriter(config.LogConfig{Level: "debug", Format: "json"}, &buf)

	logger.Debug().Str("key", "user:1").Msg("connected")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "connected", entry["message"])
	assert.Equal(t, "user:1", entry["key"])
	assert.Contains(t, entry, "time")
}

func TestSetupWithWriter_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := SetupWithWriter(config.LogConfig{Level: tt.level}, &bytes.Buffer{})
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestSetupWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWithWriter(config.LogConfig{Level: "info", Format: "console"}, &buf)

	logger.Info().Msg("server started")
	logger.Debug().Msg("hidden")

	assert.Contains(t, buf.String(), "server started")
	assert.NotContains(t, buf.String(), "hidden")
	assert.False(t, json.Valid(buf.Bytes()))
}
