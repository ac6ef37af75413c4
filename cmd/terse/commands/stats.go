package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/timclausendev-web/tersejson-sub001/pkg/inspect"
	"github.com/timclausendev-web/tersejson-sub001/pkg/metrics"
)

// Stats holds aggregate statistics about an event file.
type Stats struct {
	TotalEvents int
	ByDecision  map[metrics.Decision]int
	Endpoints   map[string]*EndpointStats
	Shapes      map[string]int
	TimeRange   struct {
		Start time.Time
		End   time.Time
	}
}

// EndpointStats holds statistics for a single endpoint.
type EndpointStats struct {
	Events        int
	Encoded       int
	OriginalBytes int
	SentBytes     int
}

// SavedBytes is the total saving across the endpoint's events.
func (s *EndpointStats) SavedBytes() int {
	return s.OriginalBytes - s.SentBytes
}

// CollectStats reads every event matching filter from the file at path.
func CollectStats(path string, filter metrics.Filter) (*Stats, error) {
	reader, err := metrics.NewFilteredReader(path, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to open event file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		ByDecision: make(map[metrics.Decision]int),
		Endpoints:  make(map[string]*EndpointStats),
		Shapes:     make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.ByDecision[event.Decision]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		name := event.Endpoint
		if name == "" {
			name = "(none)"
		}
		ep, ok := stats.Endpoints[name]
		if !ok {
			ep = &EndpointStats{}
			stats.Endpoints[name] = ep
		}
		ep.Events++
		ep.OriginalBytes += event.OriginalBytes
		ep.SentBytes += event.CompressedBytes
		if event.Decision == metrics.DecisionEncoded {
			ep.Encoded++
		}

		if event.ShapeHash != "" {
			stats.Shapes[event.ShapeHash]++
		}
	}
	return stats, nil
}

// RunStats analyzes the event file and prints statistics.
func RunStats(path string, filter metrics.Filter, w io.Writer) error {
	stats, err := CollectStats(path, filter)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Terse Payload Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Payloads: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Payloads by Decision:")
	for _, d := range []metrics.Decision{
		metrics.DecisionEncoded,
		metrics.DecisionNotNegotiated,
		metrics.DecisionTooSmall,
		metrics.DecisionNoKeys,
		metrics.DecisionNoGain,
		metrics.DecisionDeclined,
	} {
		if count := stats.ByDecision[d]; count > 0 {
			fmt.Fprintf(w, "  %-16s %d\n", d.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Endpoints: %d\n", len(stats.Endpoints))
	if len(stats.Endpoints) > 0 {
		names := make([]string, 0, len(stats.Endpoints))
		for name := range stats.Endpoints {
			names = append(names, name)
		}
		// Biggest savers first.
		sort.Slice(names, func(i, j int) bool {
			si, sj := stats.Endpoints[names[i]].SavedBytes(), stats.Endpoints[names[j]].SavedBytes()
			if si != sj {
				return si > sj
			}
			return names[i] < names[j]
		})

		fmt.Fprintln(w)
		for _, name := range names {
			ep := stats.Endpoints[name]
			fmt.Fprintf(w, "  %s\n", name)
			fmt.Fprintf(w, "           %d payloads, %d encoded\n", ep.Events, ep.Encoded)
			fmt.Fprintf(w, "           %s\n", inspect.FormatSavings(ep.OriginalBytes, ep.SentBytes))
		}
	}

	if len(stats.Shapes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Distinct Shapes: %d\n", len(stats.Shapes))
	}
}
