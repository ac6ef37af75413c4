package tree

import (
	"math"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a JSON value. The zero Value is null.
type Value struct {
	kind Kind

	// boolean payload
	b bool

	// string payload, or the literal text of a number
	s string

	// container payloads (only one valid based on kind)
	elems   []Value
	members []Member
}

// Member is a key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// ============================================================
// Constructors
// ============================================================

// Null returns the null value.
func Null() Value {
	return Value{}
}

// Bool creates a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Number creates a number from its JSON literal text. The literal is kept
// verbatim; callers are responsible for passing a valid JSON number.
func Number(literal string) Value {
	return Value{kind: KindNumber, s: literal}
}

// Int creates an integer number.
func Int(n int64) Value {
	return Number(strconv.FormatInt(n, 10))
}

// Float creates a number from a float64. NaN and infinities are not
// representable in JSON and become null.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Number(strconv.FormatFloat(f, 'g', -1, 64))
}

// String creates a string value.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Array creates an array value holding elems in order.
func Array(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindArray, elems: elems}
}

// Object creates an object value holding members in order.
// Keys must be unique.
func Object(members ...Member) Value {
	if members == nil {
		members = []Member{}
	}
	return Value{kind: KindObject, members: members}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Bool returns the boolean payload. ok is false if v is not a boolean.
func (v Value) Bool() (b bool, ok bool) {
	return v.b, v.kind == KindBool
}

// Str returns the string payload. ok is false if v is not a string.
func (v Value) Str() (s string, ok bool) {
	return v.s, v.kind == KindString
}

// Number returns the literal text of a number. ok is false if v is not a
// number.
func (v Value) Number() (literal string, ok bool) {
	return v.s, v.kind == KindNumber
}

// Int64 returns the number as an int64. ok is false if v is not a number or
// the literal is not an integer that fits.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	n, err := strconv.ParseInt(v.s, 10, 64)
	if err == nil {
		return n, true
	}
	// Integral values written with a fraction or exponent, e.g. 1.0 or 1e3.
	f, err := strconv.ParseFloat(v.s, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}

// Float64 returns the number as a float64.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Len returns the number of elements of an array or members of an object.
// It returns 0 for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.elems)
	case KindObject:
		return len(v.members)
	default:
		return 0
	}
}

// Index returns the i-th element of an array.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.elems) {
		return Value{}, false
	}
	return v.elems[i], true
}

// Elements returns the elements of an array, or nil for other kinds.
func (v Value) Elements() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.elems
}

// Members returns the members of an object in order, or nil for other kinds.
func (v Value) Members() []Member {
	if v.kind != KindObject {
		return nil
	}
	return v.members
}

// Get returns the value of the member named key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Has reports whether v is an object with a member named key.
func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Keys returns the member keys of an object in order.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, len(v.members))
	for i, m := range v.members {
		keys[i] = m.Key
	}
	return keys
}
