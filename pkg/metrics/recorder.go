package metrics

// Recorder receives one Event per serialized payload.
// Pass nil or NoopRecorder to disable recording.
type Recorder interface {
	// Record handles an event. Implementations must be thread-safe and
	// should return quickly; Record runs on the response path.
	Record(event Event)
}

// NoopRecorder discards all events.
// NoopRecorder is safe for concurrent use and usable as a zero value.
type NoopRecorder struct{}

// Record discards the event.
func (NoopRecorder) Record(Event) {}

// Compile-time interface satisfaction check.
var _ Recorder = NoopRecorder{}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
