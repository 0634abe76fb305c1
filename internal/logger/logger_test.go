package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_AttachesRequestIDAndCause(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "info", "json")
	t.Cleanup(func() { Init("info", "json") })

	ctx := WithRequestID(context.Background(), "req-1")
	Error(ctx, "analysis failed", errors.New("boom"), "provider", "gemini")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "analysis failed", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "gemini", entry["provider"])
}

func TestInitWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "warn", "text")
	t.Cleanup(func() { Init("info", "json") })

	Info(context.Background(), "hidden")
	assert.Empty(t, buf.String())

	Warn(context.Background(), "shown")
	assert.Contains(t, buf.String(), "shown")
}
