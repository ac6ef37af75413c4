package metrics

// MultiRecorder sends events to multiple recorders.
type MultiRecorder struct {
	recorders []Recorder
}

// NewMultiRecorder creates a MultiRecorder that sends events to all provided
// recorders. Nil recorders are skipped.
func NewMultiRecorder(recorders ...Recorder) *MultiRecorder {
	kept := make([]Recorder, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			kept = append(kept, r)
		}
	}
	return &MultiRecorder{recorders: kept}
}

// Record sends the event to all configured recorders.
func (m *MultiRecorder) Record(event Event) {
	for _, r := range m.recorders {
		r.Record(event)
	}
}

// Compile-time interface satisfaction check.
var _ Recorder = (*MultiRecorder)(nil)
