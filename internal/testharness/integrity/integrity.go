// Package integrity checks that terse round trips reproduce their input.
//
// The codec itself never verifies its output; tests, benchmarks and the CLI
// use this package to hold it to the round-trip law.
package integrity

import (
	"fmt"
	"strconv"

	"github.com/timclausendev-web/tersejson-sub001/pkg/proxy"
	"github.com/timclausendev-web/tersejson-sub001/pkg/terse"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

// Report is the outcome of one verification.
type Report struct {
	// Passed indicates if the decoded value matched.
	Passed bool

	// Message describes the result.
	Message string

	// PlainElements is the element count of the original: the length of a
	// top-level array, 1 otherwise.
	PlainElements int

	// DecodedElements is the element count of the decoded value.
	DecodedElements int

	// Path locates the first difference ("." for the root). Empty when
	// Passed.
	Path string

	// Expected is the JSON text of the original at Path.
	Expected string

	// Actual is the JSON text of the decoded value at Path.
	Actual string
}

func (r *Report) String() string {
	if r.Passed {
		return r.Message
	}
	return fmt.Sprintf("%s at %s: expected %s, got %s", r.Message, r.Path, r.Expected, r.Actual)
}

// Verify compares plain with decoded. Values must match exactly: same kinds,
// same scalars, same array order and the same object keys in the same order.
func Verify(plain, decoded tree.Value) *Report {
	r := &Report{
		PlainElements:   elements(plain),
		DecodedElements: elements(decoded),
	}
	if msg, path, ok := firstDiff(plain, decoded, "."); ok {
		r.Message = msg
		r.Path = path
		want, got := at(plain, path), at(decoded, path)
		r.Expected, r.Actual = want.String(), got.String()
		return r
	}
	r.Passed = true
	r.Message = fmt.Sprintf("round trip preserved %d elements", r.PlainElements)
	return r
}

// VerifyRoundTrip encodes plain, serializes and reparses the envelope,
// validates it strictly, decodes it and compares the result with plain.
func VerifyRoundTrip(plain tree.Value, opts ...terse.Option) *Report {
	env := terse.Encode(plain, opts...)

	wire, err := env.MarshalJSON()
	if err != nil {
		return failed(plain, "serialize envelope", err)
	}
	parsed, err := tree.Parse(wire)
	if err != nil {
		return failed(plain, "reparse envelope", err)
	}
	if err := terse.Validate(parsed); err != nil {
		return failed(plain, "validate envelope", err)
	}
	decoded, err := terse.Expand(parsed)
	if err != nil {
		return failed(plain, "expand envelope", err)
	}
	return Verify(plain, decoded.(tree.Value))
}

// VerifyView walks plain and view side by side through the lazy accessors
// and compares what a consumer would read.
func VerifyView(plain tree.Value, view proxy.Node) *Report {
	r := &Report{
		PlainElements:   elements(plain),
		DecodedElements: elements(view.Value()),
	}
	if msg, path, ok := viewDiff(plain, view, "."); ok {
		r.Message = msg
		r.Path = path
		r.Expected = at(plain, path).String()
		if n, err := view.At(segments(path)...); err == nil {
			r.Actual = n.String()
		}
		return r
	}
	r.Passed = true
	r.Message = fmt.Sprintf("view matched %d elements", r.PlainElements)
	return r
}

func failed(plain tree.Value, step string, err error) *Report {
	return &Report{
		Message:       fmt.Sprintf("%s: %v", step, err),
		PlainElements: elements(plain),
		Path:          ".",
	}
}

func elements(v tree.Value) int {
	if v.Kind() == tree.KindArray {
		return v.Len()
	}
	return 1
}

func firstDiff(a, b tree.Value, path string) (string, string, bool) {
	if a.Kind() != b.Kind() {
		return "kind differs", path, true
	}
	switch a.Kind() {
	case tree.KindArray:
		if a.Len() != b.Len() {
			return "array length differs", path, true
		}
		for i, e := range a.Elements() {
			other, _ := b.Index(i)
			if msg, p, ok := firstDiff(e, other, join(path, strconv.Itoa(i))); ok {
				return msg, p, true
			}
		}
	case tree.KindObject:
		ak, bk := a.Keys(), b.Keys()
		if len(ak) != len(bk) {
			return "member count differs", path, true
		}
		for i := range ak {
			if ak[i] != bk[i] {
				return fmt.Sprintf("key %d is %q, want %q", i, bk[i], ak[i]), path, true
			}
		}
		for _, m := range a.Members() {
			other, _ := b.Get(m.Key)
			if msg, p, ok := firstDiff(m.Value, other, join(path, m.Key)); ok {
				return msg, p, true
			}
		}
	default:
		if !tree.Equal(a, b) {
			return "value differs", path, true
		}
		// Equal numbers may still be spelled differently.
		if la, ok := a.Number(); ok {
			if lb, _ := b.Number(); la != lb {
				return "number literal differs", path, true
			}
		}
	}
	return "", "", false
}

func viewDiff(a tree.Value, n proxy.Node, path string) (string, string, bool) {
	if a.Kind() != n.Kind() {
		return "kind differs", path, true
	}
	switch a.Kind() {
	case tree.KindArray:
		if a.Len() != n.Len() {
			return "array length differs", path, true
		}
		for i, child := range n.Elements() {
			e, _ := a.Index(i)
			if msg, p, ok := viewDiff(e, child, join(path, strconv.Itoa(i))); ok {
				return msg, p, true
			}
		}
	case tree.KindObject:
		ak, nk := a.Keys(), n.Keys()
		if len(ak) != len(nk) {
			return "member count differs", path, true
		}
		for i := range ak {
			if ak[i] != nk[i] {
				return fmt.Sprintf("key %d is %q, want %q", i, nk[i], ak[i]), path, true
			}
		}
		for _, m := range a.Members() {
			child, ok := n.Get(m.Key)
			if !ok {
				return fmt.Sprintf("key %q not readable", m.Key), path, true
			}
			if msg, p, ok := viewDiff(m.Value, child, join(path, m.Key)); ok {
				return msg, p, true
			}
		}
	default:
		if !n.Equal(a) {
			return "value differs", path, true
		}
	}
	return "", "", false
}

// join appends a segment to a report path. Keys are written raw; reports
// are for people, not for ParsePath.
func join(path, seg string) string {
	if path == "." {
		return seg
	}
	return path + "/" + seg
}

func segments(path string) []string {
	if path == "." {
		return nil
	}
	var segs []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			segs = append(segs, path[start:i])
			start = i + 1
		}
	}
	return append(segs, path[start:])
}

// at returns the value at a report path, or null when it does not exist.
func at(v tree.Value, path string) tree.Value {
	cur := v
	for _, seg := range segments(path) {
		switch cur.Kind() {
		case tree.KindArray:
			i, err := strconv.Atoi(seg)
			if err != nil {
				return tree.Null()
			}
			next, ok := cur.Index(i)
			if !ok {
				return tree.Null()
			}
			cur = next
		case tree.KindObject:
			next, ok := cur.Get(seg)
			if !ok {
				return tree.Null()
			}
			cur = next
		default:
			return tree.Null()
		}
	}
	return cur
}
