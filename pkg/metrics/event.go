package metrics

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/timclausendev-web/tersejson-sub001/pkg/terse"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

// Event describes how one payload was serialized.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// ID uniquely identifies the event (UUID).
	ID string `cbor:"1,keyasint"`

	// Timestamp when the payload was serialized (nanosecond precision).
	Timestamp time.Time `cbor:"2,keyasint"`

	// Endpoint names the producer, typically the request path.
	Endpoint string `cbor:"3,keyasint,omitempty"`

	// Decision records whether an envelope was sent and, if not, why.
	Decision Decision `cbor:"4,keyasint"`

	// OriginalBytes is the size of the plain JSON body.
	OriginalBytes int `cbor:"5,keyasint"`

	// CompressedBytes is the size of the body actually sent. It equals
	// OriginalBytes when no envelope was sent.
	CompressedBytes int `cbor:"6,keyasint"`

	// Objects is the number of objects in the payload, nested ones included.
	Objects int `cbor:"7,keyasint"`

	// Elements is the length of a top-level array, 1 for any other payload.
	Elements int `cbor:"8,keyasint"`

	// Keys is the number of dictionary entries.
	Keys int `cbor:"9,keyasint"`

	// Version is the envelope format version, 0 when none was sent.
	Version int `cbor:"10,keyasint,omitempty"`

	// Pattern is the name of the alias pattern in use.
	Pattern string `cbor:"11,keyasint,omitempty"`

	// ShapeHash identifies the ordered set of aliased keys, so payloads of the
	// same shape can be grouped.
	ShapeHash string `cbor:"12,keyasint,omitempty"`
}

// Decision is the outcome of the eligibility check for one payload.
type Decision uint8

const (
	// DecisionEncoded means an envelope was sent.
	DecisionEncoded Decision = 0
	// DecisionNotNegotiated means the consumer did not ask for terse output.
	DecisionNotNegotiated Decision = 1
	// DecisionTooSmall means the plain body was under the size threshold.
	DecisionTooSmall Decision = 2
	// DecisionNoKeys means no key was long enough to alias.
	DecisionNoKeys Decision = 3
	// DecisionNoGain means the envelope would not have been smaller.
	DecisionNoGain Decision = 4
	// DecisionDeclined means a custom transform chose the plain form.
	DecisionDeclined Decision = 5
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case DecisionEncoded:
		return "ENCODED"
	case DecisionNotNegotiated:
		return "NOT_NEGOTIATED"
	case DecisionTooSmall:
		return "TOO_SMALL"
	case DecisionNoKeys:
		return "NO_KEYS"
	case DecisionNoGain:
		return "NO_GAIN"
	case DecisionDeclined:
		return "DECLINED"
	default:
		return "UNKNOWN"
	}
}

// ParseDecision returns the decision with the given name.
func ParseDecision(name string) (Decision, bool) {
	for d := DecisionEncoded; d <= DecisionDeclined; d++ {
		if d.String() == name {
			return d, true
		}
	}
	return 0, false
}

// NewEvent builds an event for plain, serialized as originalBytes of plain
// JSON. env is the envelope that was built for it, or nil; compressedBytes is
// the size of the body actually sent.
func NewEvent(endpoint string, plain tree.Value, env *terse.Envelope, originalBytes, compressedBytes int) Event {
	stats := tree.Count(plain)

	elements := 1
	if plain.Kind() == tree.KindArray {
		elements = plain.Len()
	}

	ev := Event{
		ID:              uuid.New().String(),
		Timestamp:       time.Now(),
		Endpoint:        endpoint,
		OriginalBytes:   originalBytes,
		CompressedBytes: compressedBytes,
		Objects:         stats.Objects,
		Elements:        elements,
	}
	if env != nil {
		ev.Keys = env.Dictionary.Len()
		ev.Version = int(env.Version)
		ev.ShapeHash = ShapeHash(env.Dictionary)
	}
	return ev
}

// SavedBytes returns how many bytes the envelope saved.
func (e Event) SavedBytes() int {
	return e.OriginalBytes - e.CompressedBytes
}

// Ratio returns CompressedBytes/OriginalBytes, or 1 for an empty body.
func (e Event) Ratio() float64 {
	if e.OriginalBytes == 0 {
		return 1
	}
	return float64(e.CompressedBytes) / float64(e.OriginalBytes)
}

// ShapeHash returns the hex BLAKE3 digest of the dictionary's original keys
// in assignment order. It is empty for an empty dictionary.
func ShapeHash(d *terse.Dictionary) string {
	if d.Len() == 0 {
		return ""
	}
	h := blake3.New()
	for _, original := range d.Originals() {
		h.Write([]byte(original))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
