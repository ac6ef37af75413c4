// Package metrics is the measurement hook of the terse codec.
//
// The codec never stores or aggregates measurements itself. Each time a
// producer decides how to serialize a payload it hands an Event to a
// Recorder; what happens next is the application's choice.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	rec := metrics.NewSlogRecorder(slog.Default())
//
//	// For analysis: append events to a CBOR file read back by `terse stats`
//	rec, _ := metrics.NewFileRecorder("/var/log/terse/api.tlog")
//
//	// Both: use MultiRecorder
//	rec := metrics.NewMultiRecorder(
//	    metrics.NewSlogRecorder(slog.Default()),
//	    fileRec,
//	)
//
// CensusRecorder feeds the same events into OpenCensus measures so they can
// be exported alongside other service metrics.
//
// # File Format
//
// Event files are a stream of CBOR maps with integer keys, one per event.
package metrics
