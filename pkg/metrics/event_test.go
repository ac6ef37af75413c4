package metrics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timclausendev-web/tersejson-sub001/pkg/terse"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

func TestNewEvent(t *testing.T) {
	plain, err := tree.Parse([]byte(`[{"firstName":"John","address":{"city":"NY"}},{"firstName":"Jane"}]`))
	require.NoError(t, err)
	env := terse.Encode(plain)

	before := time.Now()
	ev := NewEvent("/users", plain, env, 200, 120)

	_, err = uuid.Parse(ev.ID)
	assert.NoError(t, err, "ID should be a UUID")
	assert.False(t, ev.Timestamp.Before(before))
	assert.Equal(t, "/users", ev.Endpoint)
	assert.Equal(t, DecisionEncoded, ev.Decision)
	assert.Equal(t, 200, ev.OriginalBytes)
	assert.Equal(t, 120, ev.CompressedBytes)
	assert.Equal(t, 3, ev.Objects)
	assert.Equal(t, 2, ev.Elements)
	assert.Equal(t, 3, ev.Keys)
	assert.Equal(t, 1, ev.Version)
	assert.Len(t, ev.ShapeHash, 64)

	assert.Equal(t, 80, ev.SavedBytes())
	assert.InDelta(t, 0.6, ev.Ratio(), 1e-9)
}

func TestNewEvent_WithoutEnvelope(t *testing.T) {
	ev := NewEvent("", tree.Object(tree.Member{Key: "k", Value: tree.Int(1)}), nil, 7, 7)

	assert.Equal(t, 1, ev.Elements)
	assert.Equal(t, 1, ev.Objects)
	assert.Equal(t, 0, ev.Keys)
	assert.Equal(t, 0, ev.Version)
	assert.Empty(t, ev.ShapeHash)
	assert.Equal(t, 0, ev.SavedBytes())
}

func TestEventRatioEmptyBody(t *testing.T) {
	assert.Equal(t, 1.0, Event{}.Ratio())
}

func TestShapeHash(t *testing.T) {
	a := terse.BuildDictionary(mustTree(t, `{"firstName":1,"lastName":2}`))
	b := terse.BuildDictionary(mustTree(t, `[{"firstName":"x","lastName":"y"}]`))
	c := terse.BuildDictionary(mustTree(t, `{"lastName":1,"firstName":2}`))

	assert.Equal(t, ShapeHash(a), ShapeHash(b), "same keys in same order")
	assert.NotEqual(t, ShapeHash(a), ShapeHash(c), "order is part of the shape")
	assert.Empty(t, ShapeHash(nil))

	// Separators keep concatenations apart.
	d := terse.BuildDictionary(mustTree(t, `{"ab":1,"cd":2}`))
	e := terse.BuildDictionary(mustTree(t, `{"abcd":1}`))
	assert.NotEqual(t, ShapeHash(d), ShapeHash(e))
}

func TestDecisionString(t *testing.T) {
	tests := []struct {
		d    Decision
		want string
	}{
		{DecisionEncoded, "ENCODED"},
		{DecisionNotNegotiated, "NOT_NEGOTIATED"},
		{DecisionTooSmall, "TOO_SMALL"},
		{DecisionNoKeys, "NO_KEYS"},
		{DecisionNoGain, "NO_GAIN"},
		{DecisionDeclined, "DECLINED"},
		{Decision(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("Decision(%d).String() = %q, want %q", tt.d, got, tt.want)
		}
		if tt.want == "UNKNOWN" {
			continue
		}
		parsed, ok := ParseDecision(tt.want)
		if !ok || parsed != tt.d {
			t.Errorf("ParseDecision(%q) = %v, %v", tt.want, parsed, ok)
		}
	}

	if _, ok := ParseDecision("nope"); ok {
		t.Error("ParseDecision accepted an unknown name")
	}
}

func mustTree(t *testing.T, s string) tree.Value {
	t.Helper()
	v, err := tree.Parse([]byte(s))
	require.NoError(t, err)
	return v
}
