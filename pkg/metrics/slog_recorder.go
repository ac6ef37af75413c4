package metrics

import (
	"context"
	"log/slog"
)

// SlogRecorder writes events to an slog.Logger.
type SlogRecorder struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogRecorder creates a SlogRecorder that writes to logger at Debug level.
func NewSlogRecorder(logger *slog.Logger) *SlogRecorder {
	return &SlogRecorder{logger: logger, level: slog.LevelDebug}
}

// WithLevel returns a copy of the recorder that logs at level.
func (r *SlogRecorder) WithLevel(level slog.Level) *SlogRecorder {
	return &SlogRecorder{logger: r.logger, level: level}
}

// Record writes the event to the slog logger.
func (r *SlogRecorder) Record(event Event) {
	attrs := []slog.Attr{
		slog.String("id", event.ID),
		slog.String("decision", event.Decision.String()),
		slog.Int("original_bytes", event.OriginalBytes),
		slog.Int("compressed_bytes", event.CompressedBytes),
		slog.Int("objects", event.Objects),
		slog.Int("elements", event.Elements),
		slog.Int("keys", event.Keys),
	}

	if event.Endpoint != "" {
		attrs = append(attrs, slog.String("endpoint", event.Endpoint))
	}
	if event.Version != 0 {
		attrs = append(attrs, slog.Int("version", event.Version))
	}
	if event.Pattern != "" {
		attrs = append(attrs, slog.String("pattern", event.Pattern))
	}
	if event.ShapeHash != "" {
		attrs = append(attrs, slog.String("shape", event.ShapeHash))
	}

	r.logger.LogAttrs(context.Background(), r.level, "terse", attrs...)
}

// Compile-time interface satisfaction check.
var _ Recorder = (*SlogRecorder)(nil)
