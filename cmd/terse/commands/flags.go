package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/timclausendev-web/tersejson-sub001/pkg/metrics"
)

// StatsOptions are the raw flag values of the stats command.
type StatsOptions struct {
	Endpoint  string
	Decision  string
	Shape     string
	MinBytes  int
	TimeStart string
	TimeEnd   string
}

// Filter converts the flag values into a metrics.Filter.
func (o StatsOptions) Filter() (metrics.Filter, error) {
	f := metrics.Filter{
		Endpoint:         o.Endpoint,
		ShapeHash:        o.Shape,
		MinOriginalBytes: o.MinBytes,
	}

	if o.Decision != "" {
		d, err := ParseDecisionFlag(o.Decision)
		if err != nil {
			return f, err
		}
		f.Decision = &d
	}
	if o.TimeStart != "" {
		t, err := ParseTimeFlag(o.TimeStart)
		if err != nil {
			return f, fmt.Errorf("invalid --since: %w", err)
		}
		f.TimeStart = &t
	}
	if o.TimeEnd != "" {
		t, err := ParseTimeFlag(o.TimeEnd)
		if err != nil {
			return f, fmt.Errorf("invalid --until: %w", err)
		}
		f.TimeEnd = &t
	}
	return f, nil
}

// ParseDecisionFlag parses a decision name, case-insensitively, with "-"
// accepted for "_".
func ParseDecisionFlag(s string) (metrics.Decision, error) {
	name := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	d, ok := metrics.ParseDecision(name)
	if !ok {
		return 0, fmt.Errorf("invalid decision %q (use encoded, not-negotiated, too-small, no-keys, no-gain, declined)", s)
	}
	return d, nil
}

// ParseTimeFlag parses an RFC 3339 timestamp.
func ParseTimeFlag(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
