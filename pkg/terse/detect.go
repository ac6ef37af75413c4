package terse

import (
	"encoding/json"
	"math"

	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

// Envelope field names. They are part of the wire compatibility contract.
const (
	FieldMarker     = "__terse__"
	FieldVersion    = "v"
	FieldDictionary = "k"
	FieldData       = "d"
)

// IsTersePayload reports whether candidate is structurally a terse envelope:
// a keyed structure with the marker set to boolean true, an integer version,
// a dictionary whose every entry maps a string to a string, and a data field
// (any value, null included).
//
// The check is purely structural. It does not check that the data uses the
// dictionary consistently, nor that the version is supported.
//
// candidate may be a tree.Value, a *tree.Value, an Envelope, a *Envelope, or
// the map[string]any produced by a generic JSON decoder. Any other type is
// not a terse payload.
func IsTersePayload(candidate any) bool {
	switch c := candidate.(type) {
	case *Envelope:
		return c != nil
	case Envelope:
		return true
	case tree.Value:
		return isTerseTree(c)
	case *tree.Value:
		return c != nil && isTerseTree(*c)
	case map[string]any:
		return isTerseMap(c)
	default:
		return false
	}
}

// IsTerseJSON reports whether data is a JSON document holding a terse
// envelope.
func IsTerseJSON(data []byte) bool {
	v, err := tree.Parse(data)
	if err != nil {
		return false
	}
	return isTerseTree(v)
}

func isTerseTree(v tree.Value) bool {
	if v.Kind() != tree.KindObject {
		return false
	}

	marker, ok := v.Get(FieldMarker)
	if !ok {
		return false
	}
	if b, ok := marker.Bool(); !ok || !b {
		return false
	}

	ver, ok := v.Get(FieldVersion)
	if !ok {
		return false
	}
	if _, ok := ver.Int64(); !ok {
		return false
	}

	dict, ok := v.Get(FieldDictionary)
	if !ok || dict.Kind() != tree.KindObject {
		return false
	}
	for _, m := range dict.Members() {
		if m.Value.Kind() != tree.KindString {
			return false
		}
	}

	return v.Has(FieldData)
}

func isTerseMap(m map[string]any) bool {
	if m == nil {
		return false
	}
	if marker, ok := m[FieldMarker].(bool); !ok || !marker {
		return false
	}
	if _, ok := integerOf(m[FieldVersion]); !ok {
		return false
	}

	switch dict := m[FieldDictionary].(type) {
	case map[string]string:
	case map[string]any:
		for _, original := range dict {
			if _, ok := original.(string); !ok {
				return false
			}
		}
	default:
		return false
	}

	_, ok := m[FieldData]
	return ok
}

// integerOf extracts an integral version number from the numeric shapes a
// generic JSON decoder may produce.
func integerOf(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) ||
			n < math.MinInt64 || n >= 1<<63 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		return tree.Number(string(n)).Int64()
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	default:
		return 0, false
	}
}
