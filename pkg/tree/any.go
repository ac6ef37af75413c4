package tree

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	gojson "github.com/goccy/go-json"
)

// FromAny converts a generic Go value into a Value.
//
// The shapes produced by encoding/json style decoders (nil, bool, float64,
// json.Number, string, []any, map[string]any) convert directly. Go maps are
// unordered, so map keys are sorted to keep the result deterministic. Any
// other value is marshaled to JSON and parsed, which keeps struct field order.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return val, nil
	case *Value:
		if val == nil {
			return Null(), nil
		}
		return *val, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case json.Number:
		return Number(string(val)), nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return Value{}, fmt.Errorf("unsupported number %v", val)
		}
		return Float(val), nil
	case float32:
		return FromAny(float64(val))
	case int:
		return Int(int64(val)), nil
	case int8:
		return Int(int64(val)), nil
	case int16:
		return Int(int64(val)), nil
	case int32:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint:
		return Number(strconv.FormatUint(uint64(val), 10)), nil
	case uint8:
		return Number(strconv.FormatUint(uint64(val), 10)), nil
	case uint16:
		return Number(strconv.FormatUint(uint64(val), 10)), nil
	case uint32:
		return Number(strconv.FormatUint(uint64(val), 10)), nil
	case uint64:
		return Number(strconv.FormatUint(val, 10)), nil
	case []Value:
		return Array(val...), nil
	case []any:
		elems := make([]Value, len(val))
		for i, e := range val {
			ev, err := FromAny(e)
			if err != nil {
				return Value{}, fmt.Errorf("array[%d]: %w", i, err)
			}
			elems[i] = ev
		}
		return Array(elems...), nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		members := make([]Member, len(keys))
		for i, k := range keys {
			mv, err := FromAny(val[k])
			if err != nil {
				return Value{}, fmt.Errorf("object[%q]: %w", k, err)
			}
			members[i] = Member{Key: k, Value: mv}
		}
		return Object(members...), nil
	default:
		data, err := gojson.Marshal(v)
		if err != nil {
			return Value{}, fmt.Errorf("convert %T: %w", v, err)
		}
		return Parse(data)
	}
}

// NumberMode selects how ToAnyWith renders numbers.
type NumberMode int

const (
	// NumberFloat64 renders numbers as float64, as json.Unmarshal does.
	NumberFloat64 NumberMode = iota
	// NumberJSON renders numbers as json.Number, as a decoder with
	// UseNumber does. The literal text is kept.
	NumberJSON
)

// ToAny converts v to the generic shapes used by encoding/json: nil, bool,
// json.Number, string, []any and map[string]any. Member order is lost.
func ToAny(v Value) any {
	return ToAnyWith(v, NumberJSON)
}

// ToAnyWith is ToAny with numbers rendered according to mode.
func ToAnyWith(v Value, mode NumberMode) any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		if mode == NumberJSON {
			return json.Number(v.s)
		}
		f, err := strconv.ParseFloat(v.s, 64)
		if err != nil {
			// Out of float64 range; keep the literal.
			return json.Number(v.s)
		}
		return f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.elems))
		for i, e := range v.elems {
			out[i] = ToAnyWith(e, mode)
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.members))
		for _, m := range v.members {
			out[m.Key] = ToAnyWith(m.Value, mode)
		}
		return out
	default:
		return nil
	}
}
