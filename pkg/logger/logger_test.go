package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesFieldsAndCaller(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	var buf bytes.Buffer
	l := New(&buf).WithContext(map[string]interface{}{"request_id": "req-1"})

	l.Info("gift box submitted", map[string]interface{}{"user_id": 7})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "gift box submitted", entry["message"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, float64(7), entry["user_id"])
	assert.Contains(t, entry["caller"], "logger_test.go")
}

func TestLogger_ErrorIncludesError(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	var buf bytes.Buffer
	l := New(&buf)

	l.Error("update failed", errors.New("connection reset"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "connection reset", entry["error"])
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLogLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, parseLogLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, parseLogLevel("nonsense"))
}
