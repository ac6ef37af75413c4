package terse

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
	"github.com/timclausendev-web/tersejson-sub001/pkg/version"
)

// Expand restores the original keys of a terse payload.
//
// A candidate that IsTersePayload rejects is returned unchanged with a nil
// error, so Expand is safe to apply to any decoded JSON body. A well-formed
// envelope with an unknown format version yields an
// *UnsupportedVersionError.
//
// The result mirrors the input: tree values and envelopes expand to a
// tree.Value, generic map[string]any input expands to generic values (see
// tree.ToAnyWith). Numbers in generic output are float64 unless the input
// carried json.Number, in which case they stay json.Number.
func Expand(candidate any) (any, error) {
	switch c := candidate.(type) {
	case *Envelope:
		if c == nil {
			return candidate, nil
		}
		return result(decodeChecked(c))
	case Envelope:
		return result(decodeChecked(&c))
	case tree.Value:
		if !isTerseTree(c) {
			return candidate, nil
		}
		return result(expandTree(c))
	case *tree.Value:
		if c == nil || !isTerseTree(*c) {
			return candidate, nil
		}
		return result(expandTree(*c))
	case map[string]any:
		if !isTerseMap(c) {
			return candidate, nil
		}
		v, err := tree.FromAny(c)
		if err != nil {
			// Not representable as a tree (e.g. NaN data): not our payload.
			return candidate, nil
		}
		decoded, err := expandTree(v)
		if err != nil {
			return nil, err
		}
		return tree.ToAnyWith(decoded, numberModeOf(c)), nil
	default:
		return candidate, nil
	}
}

// numberModeOf reports how the caller decoded the numbers of m, judged by
// its version field.
func numberModeOf(m map[string]any) tree.NumberMode {
	if _, ok := m[FieldVersion].(json.Number); ok {
		return tree.NumberJSON
	}
	return tree.NumberFloat64
}

// result keeps a failed expansion from leaking a zero tree.Value as a
// non-nil any.
func result(v tree.Value, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

func expandTree(v tree.Value) (tree.Value, error) {
	env, err := ParseEnvelope(v)
	if err != nil {
		return tree.Value{}, err
	}
	return Decode(env), nil
}

func decodeChecked(env *Envelope) (tree.Value, error) {
	if !env.Version.IsSupported() {
		return tree.Value{}, &UnsupportedVersionError{Version: int64(env.Version), Data: env.Data}
	}
	return Decode(env), nil
}

// Decode reconstructs the original tree held by env. It does not check the
// version; ParseEnvelope and Expand do.
func Decode(env *Envelope) tree.Value {
	return env.Dictionary.RestoreKeys(env.Data)
}

// ExpandJSON decodes a JSON document, expands it if it is a terse envelope,
// and returns the serialized result. Documents that are not envelopes are
// returned as given.
func ExpandJSON(data []byte) ([]byte, error) {
	v, err := tree.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("expand: %w", err)
	}
	if !isTerseTree(v) {
		return data, nil
	}
	decoded, err := expandTree(v)
	if err != nil {
		return nil, err
	}
	return tree.Marshal(decoded)
}

// ParseEnvelope reads the wire form of an envelope. It returns a
// *FormatError if v is not structurally an envelope and an
// *UnsupportedVersionError if the version is unknown to this build.
func ParseEnvelope(v tree.Value) (*Envelope, error) {
	if v.Kind() != tree.KindObject {
		return nil, &FormatError{Reason: fmt.Sprintf("expected object, got %s", v.Kind())}
	}

	marker, ok := v.Get(FieldMarker)
	if !ok {
		return nil, &FormatError{Field: FieldMarker, Reason: "missing"}
	}
	if b, ok := marker.Bool(); !ok || !b {
		return nil, &FormatError{Field: FieldMarker, Reason: "must be true"}
	}

	rawVersion, ok := v.Get(FieldVersion)
	if !ok {
		return nil, &FormatError{Field: FieldVersion, Reason: "missing"}
	}
	n, ok := rawVersion.Int64()
	if !ok {
		return nil, &FormatError{Field: FieldVersion, Reason: "must be an integer"}
	}

	rawDict, ok := v.Get(FieldDictionary)
	if !ok {
		return nil, &FormatError{Field: FieldDictionary, Reason: "missing"}
	}
	if rawDict.Kind() != tree.KindObject {
		return nil, &FormatError{Field: FieldDictionary, Reason: "must be an object"}
	}
	for _, m := range rawDict.Members() {
		if m.Value.Kind() != tree.KindString {
			return nil, &FormatError{
				Field:  FieldDictionary,
				Reason: fmt.Sprintf("entry %q must map to a string", m.Key),
			}
		}
	}

	data, ok := v.Get(FieldData)
	if !ok {
		return nil, &FormatError{Field: FieldData, Reason: "missing"}
	}

	ver := version.Version(n)
	if int64(ver) != n || !ver.IsSupported() {
		return nil, &UnsupportedVersionError{Version: n, Data: data}
	}

	return &Envelope{
		Version:    ver,
		Dictionary: dictionaryFromTree(rawDict),
		Data:       data,
	}, nil
}

// Validate strictly checks that candidate is a well-formed envelope of a
// supported version. Beyond the structural checks of ParseEnvelope it
// requires a bijective dictionary, originals at least DefaultMinKeyLength
// long, and that expanding the data never produces two members with the same
// key in one object.
//
// Validate is meant for tests and verification harnesses; consumers should
// use Expand or the proxy package, which fail open.
func Validate(candidate any) error {
	var v tree.Value
	switch c := candidate.(type) {
	case *Envelope:
		if c == nil {
			return &FormatError{Reason: "nil envelope"}
		}
		v = c.Tree()
	case Envelope:
		v = c.Tree()
	case tree.Value:
		v = c
	case *tree.Value:
		if c == nil {
			return &FormatError{Reason: "nil value"}
		}
		v = *c
	case map[string]any:
		converted, err := tree.FromAny(c)
		if err != nil {
			return &FormatError{Reason: err.Error()}
		}
		v = converted
	default:
		return &FormatError{Reason: fmt.Sprintf("unsupported candidate type %T", candidate)}
	}

	env, err := ParseEnvelope(v)
	if err != nil {
		return err
	}

	if _, err := NewDictionary(env.Dictionary.entries...); err != nil {
		return err
	}
	for _, e := range env.Dictionary.entries {
		if len(e.Original) < DefaultMinKeyLength {
			return &FormatError{
				Field:  FieldDictionary,
				Reason: fmt.Sprintf("original %q is too short to be aliased", e.Original),
			}
		}
	}

	if path, key, ok := findExpansionClash(env.Data, env.Dictionary, FieldData); ok {
		return &FormatError{
			Field:  FieldData,
			Reason: fmt.Sprintf("object at %s has key %q twice after expansion", path, key),
		}
	}
	return nil
}

// findExpansionClash reports the first object whose members collide once
// aliases are replaced by their originals.
func findExpansionClash(v tree.Value, d *Dictionary, path string) (string, string, bool) {
	switch v.Kind() {
	case tree.KindArray:
		for i, e := range v.Elements() {
			if p, k, ok := findExpansionClash(e, d, path+"/"+strconv.Itoa(i)); ok {
				return p, k, true
			}
		}
	case tree.KindObject:
		seen := make(map[string]struct{}, v.Len())
		for _, m := range v.Members() {
			key := m.Key
			if original, ok := d.Original(key); ok {
				key = original
			}
			if _, dup := seen[key]; dup {
				return path, key, true
			}
			seen[key] = struct{}{}
		}
		for _, m := range v.Members() {
			if p, k, ok := findExpansionClash(m.Value, d, path+"/"+m.Key); ok {
				return p, k, true
			}
		}
	}
	return "", "", false
}
