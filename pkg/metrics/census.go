package metrics

import (
	"context"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	keyEndpoint = tag.MustNewKey("terse.endpoint")
	keyDecision = tag.MustNewKey("terse.decision")

	payloadCount = stats.Int64(
		"terse/payload_count",
		"Payloads passed through the eligibility check.",
		stats.UnitDimensionless,
	)
	originalBytes = stats.Int64(
		"terse/original_bytes",
		"Size of the plain JSON body.",
		stats.UnitBytes,
	)
	savedBytes = stats.Int64(
		"terse/saved_bytes",
		"Bytes saved by sending an envelope.",
		stats.UnitBytes,
	)

	// PayloadCount counts payloads by endpoint and decision.
	PayloadCount = &view.View{
		Name:        "terse/payload/count",
		Measure:     payloadCount,
		Aggregation: view.Count(),
		Description: "payloads, by endpoint and eligibility decision",
		TagKeys:     []tag.Key{keyEndpoint, keyDecision},
	}
	// OriginalBytesSum sums plain body sizes by endpoint.
	OriginalBytesSum = &view.View{
		Name:        "terse/payload/original_bytes",
		Measure:     originalBytes,
		Aggregation: view.Sum(),
		Description: "plain JSON bytes, by endpoint",
		TagKeys:     []tag.Key{keyEndpoint},
	}
	// SavedBytesSum sums the bytes saved by envelopes, by endpoint.
	SavedBytesSum = &view.View{
		Name:        "terse/payload/saved_bytes",
		Measure:     savedBytes,
		Aggregation: view.Sum(),
		Description: "bytes saved by terse envelopes, by endpoint",
		TagKeys:     []tag.Key{keyEndpoint},
	}
)

// Views lists the views CensusRecorder records into. Callers register them
// with view.Register before exporting.
var Views = []*view.View{PayloadCount, OriginalBytesSum, SavedBytesSum}

// CensusRecorder records events as OpenCensus measurements.
type CensusRecorder struct{}

// NewCensusRecorder returns a CensusRecorder.
func NewCensusRecorder() *CensusRecorder {
	return &CensusRecorder{}
}

// Register registers Views with the default OpenCensus worker.
func (*CensusRecorder) Register() error {
	return view.Register(Views...)
}

// Record records the event.
func (*CensusRecorder) Record(event Event) {
	ctx := context.Background()
	endpoint := event.Endpoint
	if endpoint == "" {
		endpoint = "unknown"
	}

	measurements := []stats.Measurement{
		payloadCount.M(1),
		originalBytes.M(int64(event.OriginalBytes)),
	}
	if event.Decision == DecisionEncoded {
		measurements = append(measurements, savedBytes.M(int64(event.SavedBytes())))
	}

	_ = stats.RecordWithTags(ctx, []tag.Mutator{
		tag.Upsert(keyEndpoint, endpoint),
		tag.Upsert(keyDecision, event.Decision.String()),
	}, measurements...)
}

// Compile-time interface satisfaction check.
var _ Recorder = (*CensusRecorder)(nil)
