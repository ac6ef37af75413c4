package metrics

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogRecorder(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	NewSlogRecorder(logger).Record(Event{
		ID:              "id-1",
		Endpoint:        "/users",
		Decision:        DecisionEncoded,
		OriginalBytes:   1000,
		CompressedBytes: 600,
		Keys:            4,
		Version:         1,
		Pattern:         "alpha",
		ShapeHash:       "abc",
	})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "DEBUG", line["level"])
	assert.Equal(t, "terse", line["msg"])
	assert.Equal(t, "/users", line["endpoint"])
	assert.Equal(t, "ENCODED", line["decision"])
	assert.Equal(t, float64(1000), line["original_bytes"])
	assert.Equal(t, float64(600), line["compressed_bytes"])
	assert.Equal(t, "alpha", line["pattern"])
	assert.Equal(t, "abc", line["shape"])
}

func TestSlogRecorderOmitsEmptyOptionalFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	NewSlogRecorder(logger).Record(Event{Decision: DecisionTooSmall})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	for _, k := range []string{"endpoint", "version", "pattern", "shape"} {
		assert.NotContains(t, line, k)
	}
}

func TestSlogRecorderLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	NewSlogRecorder(logger).Record(Event{})
	assert.Zero(t, buf.Len(), "debug events are below the handler level")

	NewSlogRecorder(logger).WithLevel(slog.LevelInfo).Record(Event{})
	assert.Contains(t, buf.String(), "msg=terse")
}
