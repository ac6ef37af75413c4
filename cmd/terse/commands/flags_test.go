package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timclausendev-web/tersejson-sub001/pkg/metrics"
)

func TestParseDecisionFlag(t *testing.T) {
	tests := []struct {
		input string
		want  metrics.Decision
	}{
		{"encoded", metrics.DecisionEncoded},
		{"ENCODED", metrics.DecisionEncoded},
		{"not-negotiated", metrics.DecisionNotNegotiated},
		{"too_small", metrics.DecisionTooSmall},
		{" no-keys ", metrics.DecisionNoKeys},
		{"no-gain", metrics.DecisionNoGain},
		{"declined", metrics.DecisionDeclined},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDecisionFlag(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseDecisionFlag("maybe")
	assert.ErrorContains(t, err, `invalid decision "maybe"`)
}

func TestStatsOptionsFilter(t *testing.T) {
	opts := StatsOptions{
		Endpoint:  "/users",
		Decision:  "no-gain",
		Shape:     "abc",
		MinBytes:  512,
		TimeStart: "2026-01-28T10:00:00Z",
		TimeEnd:   "2026-01-28T11:00:00Z",
	}
	f, err := opts.Filter()
	require.NoError(t, err)

	assert.Equal(t, "/users", f.Endpoint)
	require.NotNil(t, f.Decision)
	assert.Equal(t, metrics.DecisionNoGain, *f.Decision)
	assert.Equal(t, "abc", f.ShapeHash)
	assert.Equal(t, 512, f.MinOriginalBytes)
	assert.Equal(t, time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC), *f.TimeStart)
	assert.Equal(t, time.Date(2026, 1, 28, 11, 0, 0, 0, time.UTC), *f.TimeEnd)

	_, err = StatsOptions{TimeStart: "yesterday"}.Filter()
	assert.ErrorContains(t, err, "--since")
	_, err = StatsOptions{TimeEnd: "tomorrow"}.Filter()
	assert.ErrorContains(t, err, "--until")
}
