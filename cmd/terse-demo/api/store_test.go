package api

import (
	"fmt"
	"testing"
	"time"

	"github.com/timclausendev-web/tersejson-sub001/pkg/metrics"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(":memory:", nil)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRecordAndRecentEvents(t *testing.T) {
	store := newTestStore(t)

	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	store.Record(metrics.Event{
		ID:              "ev-1",
		Timestamp:       ts,
		Endpoint:        "/api/v1/users",
		Decision:        metrics.DecisionEncoded,
		OriginalBytes:   2000,
		CompressedBytes: 1200,
		Objects:         20,
		Elements:        10,
		Keys:            6,
		Version:         1,
		Pattern:         "alpha",
		ShapeHash:       "abc123",
	})
	store.Record(metrics.Event{
		ID:              "ev-2",
		Timestamp:       ts.Add(time.Second),
		Endpoint:        "/api/v1/health",
		Decision:        metrics.DecisionTooSmall,
		OriginalBytes:   40,
		CompressedBytes: 40,
	})

	events, err := store.RecentEvents(10, "")
	if err != nil {
		t.Fatalf("Failed to list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}

	// Newest first.
	if events[0].ID != "ev-2" {
		t.Errorf("Expected ev-2 first, got %q", events[0].ID)
	}

	got := events[1]
	if !got.Timestamp.Equal(ts) {
		t.Errorf("Expected timestamp %v, got %v", ts, got.Timestamp)
	}
	if got.Decision != metrics.DecisionEncoded {
		t.Errorf("Expected ENCODED, got %s", got.Decision)
	}
	if got.Keys != 6 || got.Version != 1 || got.Pattern != "alpha" || got.ShapeHash != "abc123" {
		t.Errorf("Unexpected event fields: %+v", got)
	}
	if events[0].Pattern != "" || events[0].ShapeHash != "" {
		t.Errorf("Expected empty optional fields, got %+v", events[0])
	}
}

func TestStoreRecentEventsFilterAndLimit(t *testing.T) {
	store := newTestStore(t)

	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	for i := range 5 {
		endpoint := "/a"
		if i%2 == 1 {
			endpoint = "/b"
		}
		if err := store.Insert(metrics.Event{
			ID:        fmt.Sprintf("ev-%d", i),
			Timestamp: ts.Add(time.Duration(i) * time.Second),
			Endpoint:  endpoint,
		}); err != nil {
			t.Fatalf("Failed to insert: %v", err)
		}
	}

	events, err := store.RecentEvents(10, "/a")
	if err != nil {
		t.Fatalf("Failed to list events: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("Expected 3 events for /a, got %d", len(events))
	}

	events, err = store.RecentEvents(2, "")
	if err != nil {
		t.Fatalf("Failed to list events: %v", err)
	}
	if len(events) != 2 || events[0].ID != "ev-4" || events[1].ID != "ev-3" {
		t.Errorf("Expected ev-4, ev-3, got %+v", events)
	}
}

func TestStoreDuplicateIDIsRejected(t *testing.T) {
	store := newTestStore(t)

	e := metrics.Event{ID: "dup", Timestamp: time.Now()}
	if err := store.Insert(e); err != nil {
		t.Fatalf("Failed to insert: %v", err)
	}
	if err := store.Insert(e); err == nil {
		t.Error("Expected error for duplicate ID")
	}

	// Record swallows the failure.
	store.Record(e)

	count, err := store.CountEvents()
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 event, got %d", count)
	}
}

func TestStoreSummary(t *testing.T) {
	store := newTestStore(t)

	ts := time.Now()
	events := []metrics.Event{
		{ID: "1", Timestamp: ts, Endpoint: "/users", Decision: metrics.DecisionEncoded, OriginalBytes: 1000, CompressedBytes: 600},
		{ID: "2", Timestamp: ts, Endpoint: "/users", Decision: metrics.DecisionNotNegotiated, OriginalBytes: 1000, CompressedBytes: 1000},
		{ID: "3", Timestamp: ts, Endpoint: "/orders", Decision: metrics.DecisionEncoded, OriginalBytes: 4000, CompressedBytes: 2000},
	}
	for _, e := range events {
		store.Record(e)
	}

	summary, err := store.Summary()
	if err != nil {
		t.Fatalf("Failed to summarize: %v", err)
	}
	if len(summary) != 2 {
		t.Fatalf("Expected 2 endpoints, got %d", len(summary))
	}

	if summary[0].Endpoint != "/orders" {
		t.Errorf("Expected /orders first, got %q", summary[0].Endpoint)
	}
	users := summary[1]
	if users.Requests != 2 || users.Encoded != 1 {
		t.Errorf("Expected 2 requests and 1 encoded, got %+v", users)
	}
	if users.SavedPercent != 20 {
		t.Errorf("Expected 20%% saved, got %v", users.SavedPercent)
	}
}

func TestViewOf(t *testing.T) {
	v := ViewOf(metrics.Event{
		ID:              "x",
		Decision:        metrics.DecisionNoGain,
		OriginalBytes:   100,
		CompressedBytes: 100,
	})
	if v.Decision != "NO_GAIN" {
		t.Errorf("Expected NO_GAIN, got %q", v.Decision)
	}
	if v.SavedBytes != 0 {
		t.Errorf("Expected 0 saved bytes, got %d", v.SavedBytes)
	}
}
