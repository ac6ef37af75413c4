package proxy

import (
	"iter"

	"github.com/timclausendev-web/tersejson-sub001/pkg/terse"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

// Object is the read capability of a keyed node.
type Object interface {
	Get(key string) (Node, bool)
	Has(key string) bool
	Keys() []string
}

// Node is a read-only view of one value inside a terse payload. Keys are
// always reported by their original names.
//
// The zero Node is a view of null.
type Node struct {
	dict *terse.Dictionary
	raw  tree.Value
}

var _ Object = Node{}

// New returns a view of the data held by env.
func New(env *terse.Envelope) Node {
	if env == nil {
		return Node{}
	}
	return Node{dict: env.Dictionary, raw: env.Data}
}

// Plain returns a view of an ordinary tree. Its keys are reported as they
// are, which lets callers read decoded and lazy data through one type.
func Plain(v tree.Value) Node {
	return Node{raw: v}
}

// Kind returns the kind of the viewed value.
func (n Node) Kind() tree.Kind {
	return n.raw.Kind()
}

// IsNull reports whether the viewed value is null.
func (n Node) IsNull() bool {
	return n.raw.IsNull()
}

// Len returns the number of elements of an array or members of an object.
func (n Node) Len() int {
	return n.raw.Len()
}

// Index returns a view of the i-th array element.
func (n Node) Index(i int) (Node, bool) {
	e, ok := n.raw.Index(i)
	if !ok {
		return Node{}, false
	}
	return n.child(e), true
}

// Elements iterates over the elements of an array. Each element view is
// created when the loop reaches it.
func (n Node) Elements() iter.Seq2[int, Node] {
	return func(yield func(int, Node) bool) {
		for i, e := range n.raw.Elements() {
			if !yield(i, n.child(e)) {
				return
			}
		}
	}
}

// Get returns a view of the member with the given original key.
//
// A key that appears in the payload only as an alias is not visible: the
// decoded value would not contain it either.
func (n Node) Get(key string) (Node, bool) {
	for _, m := range n.raw.Members() {
		if n.original(m.Key) == key {
			return n.child(m.Value), true
		}
	}
	return Node{}, false
}

// Has reports whether the viewed object has a member with the given original
// key.
func (n Node) Has(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// Keys returns the original member keys of an object in order.
func (n Node) Keys() []string {
	members := n.raw.Members()
	if members == nil {
		return nil
	}
	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = n.original(m.Key)
	}
	return keys
}

// Fields iterates over the members of an object by original key.
func (n Node) Fields() iter.Seq2[string, Node] {
	return func(yield func(string, Node) bool) {
		for _, m := range n.raw.Members() {
			if !yield(n.original(m.Key), n.child(m.Value)) {
				return
			}
		}
	}
}

// Str returns the viewed string.
func (n Node) Str() (string, bool) {
	return n.raw.Str()
}

// Bool returns the viewed boolean.
func (n Node) Bool() (bool, bool) {
	return n.raw.Bool()
}

// Number returns the literal text of the viewed number.
func (n Node) Number() (string, bool) {
	return n.raw.Number()
}

// Int64 returns the viewed number as an integer.
func (n Node) Int64() (int64, bool) {
	return n.raw.Int64()
}

// Float64 returns the viewed number as a float.
func (n Node) Float64() (float64, bool) {
	return n.raw.Float64()
}

// Value materializes the viewed sub-tree with original keys.
func (n Node) Value() tree.Value {
	return n.dict.RestoreKeys(n.raw)
}

// Equal reports whether the materialized view equals v.
func (n Node) Equal(v tree.Value) bool {
	return tree.Equal(n.Value(), v)
}

// MarshalJSON implements json.Marshaler with original keys.
func (n Node) MarshalJSON() ([]byte, error) {
	return tree.Marshal(n.Value())
}

// String returns the JSON text of the materialized view.
func (n Node) String() string {
	return n.Value().String()
}

func (n Node) child(v tree.Value) Node {
	return Node{dict: n.dict, raw: v}
}

func (n Node) original(key string) string {
	if o, ok := n.dict.Original(key); ok {
		return o
	}
	return key
}
