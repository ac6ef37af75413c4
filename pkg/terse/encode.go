package terse

import (
	"fmt"

	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
	"github.com/timclausendev-web/tersejson-sub001/pkg/version"
)

// Envelope is a self-describing terse payload. It is immutable once produced.
type Envelope struct {
	// Version is the format version.
	Version version.Version

	// Dictionary maps aliases used in Data back to original keys.
	Dictionary *Dictionary

	// Data is the payload with aliased keys.
	Data tree.Value
}

// Encode builds a dictionary for v and returns the envelope holding v with
// every aliased key rewritten. Encode is total: it accepts any Value.
func Encode(v tree.Value, opts ...Option) *Envelope {
	dict := BuildDictionary(v, opts...)
	return &Envelope{
		Version:    version.Current,
		Dictionary: dict,
		Data:       dict.ShortenKeys(v),
	}
}

// EncodeJSON parses a JSON document and returns the serialized envelope.
// It only fails on malformed input.
func EncodeJSON(data []byte, opts ...Option) ([]byte, error) {
	v, err := tree.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return Encode(v, opts...).MarshalJSON()
}

// Tree returns the wire form of the envelope.
func (e *Envelope) Tree() tree.Value {
	return tree.Object(
		tree.Member{Key: FieldMarker, Value: tree.Bool(true)},
		tree.Member{Key: FieldVersion, Value: tree.Int(int64(e.Version))},
		tree.Member{Key: FieldDictionary, Value: e.Dictionary.Tree()},
		tree.Member{Key: FieldData, Value: e.Data},
	)
}

// MarshalJSON implements json.Marshaler using the wire form.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	return tree.Marshal(e.Tree())
}
