package tree

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"
)

// ErrTrailingData is returned by Parse when the input holds more than one
// JSON value.
var ErrTrailingData = errors.New("trailing data after JSON value")

// Parse decodes a single JSON document into a Value, keeping object member
// order. If a key repeats within one object, the member keeps the position of
// its first occurrence and the value of its last.
func Parse(data []byte) (Value, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a single JSON document from r.
func Decode(r io.Reader) (Value, error) {
	dec := gojson.NewDecoder(r)
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return Value{}, fmt.Errorf("parse JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, ErrTrailingData
	}
	return v, nil
}

func parseValue(dec *gojson.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case gojson.Number:
		return Number(string(t)), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	case gojson.Delim:
		switch t {
		case '[':
			return parseArray(dec)
		case '{':
			return parseObject(dec)
		}
		return Value{}, fmt.Errorf("unexpected delimiter %q", rune(t))
	default:
		return Value{}, fmt.Errorf("unexpected token %T", tok)
	}
}

func parseArray(dec *gojson.Decoder) (Value, error) {
	elems := []Value{}
	for dec.More() {
		v, err := parseValue(dec)
		if err != nil {
			return Value{}, fmt.Errorf("array[%d]: %w", len(elems), err)
		}
		elems = append(elems, v)
	}
	// closing ]
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Array(elems...), nil
}

func parseObject(dec *gojson.Decoder) (Value, error) {
	members := []Member{}
	var seen map[string]int

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key: unexpected token %T", tok)
		}

		v, err := parseValue(dec)
		if err != nil {
			return Value{}, fmt.Errorf("object[%q]: %w", key, err)
		}

		if seen == nil {
			seen = make(map[string]int)
		}
		if i, dup := seen[key]; dup {
			members[i].Value = v
			continue
		}
		seen[key] = len(members)
		members = append(members, Member{Key: key, Value: v})
	}
	// closing }
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Object(members...), nil
}

// Marshal serializes v as compact JSON, keeping member order.
func Marshal(v Value) ([]byte, error) {
	return AppendJSON(nil, v)
}

// AppendJSON appends the compact JSON encoding of v to dst.
func AppendJSON(dst []byte, v Value) ([]byte, error) {
	switch v.kind {
	case KindNull:
		return append(dst, "null"...), nil
	case KindBool:
		if v.b {
			return append(dst, "true"...), nil
		}
		return append(dst, "false"...), nil
	case KindNumber:
		return append(dst, v.s...), nil
	case KindString:
		return appendString(dst, v.s)
	case KindArray:
		var err error
		dst = append(dst, '[')
		for i, e := range v.elems {
			if i > 0 {
				dst = append(dst, ',')
			}
			if dst, err = AppendJSON(dst, e); err != nil {
				return nil, err
			}
		}
		return append(dst, ']'), nil
	case KindObject:
		var err error
		dst = append(dst, '{')
		for i, m := range v.members {
			if i > 0 {
				dst = append(dst, ',')
			}
			if dst, err = appendString(dst, m.Key); err != nil {
				return nil, err
			}
			dst = append(dst, ':')
			if dst, err = AppendJSON(dst, m.Value); err != nil {
				return nil, err
			}
		}
		return append(dst, '}'), nil
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.kind)
	}
}

func appendString(dst []byte, s string) ([]byte, error) {
	quoted, err := gojson.Marshal(s)
	if err != nil {
		return nil, err
	}
	return append(dst, quoted...), nil
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// String returns the compact JSON form of v, for debugging and display.
func (v Value) String() string {
	data, err := Marshal(v)
	if err != nil {
		return fmt.Sprintf("<invalid: %v>", err)
	}
	return string(data)
}
