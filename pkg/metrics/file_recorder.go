package metrics

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileRecorder appends events to a file in CBOR format.
// It is safe for concurrent use from multiple goroutines.
type FileRecorder struct {
	file    *os.File
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
}

// NewFileRecorder creates a FileRecorder that writes to the specified path.
// If the file exists, new events are appended. The file is created with
// permissions 0644 if it doesn't exist.
func NewFileRecorder(path string) (*FileRecorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileRecorder{
		file:    f,
		encoder: NewEncoder(f),
	}, nil
}

// Record writes an event to the file.
func (r *FileRecorder) Record(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	// Recording must not disrupt the response path.
	_ = r.encoder.Encode(event)
}

// Close closes the file. It is safe to call Close multiple times.
// After Close, subsequent Record calls are silently ignored.
func (r *FileRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	r.closed = true
	return r.file.Close()
}

// Compile-time interface satisfaction check.
var _ Recorder = (*FileRecorder)(nil)
