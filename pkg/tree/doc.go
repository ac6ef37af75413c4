// Package tree defines the JSON value model shared by every terse component.
//
// A Value is a tagged variant over null, boolean, number, string, array and
// object. Objects keep their members in insertion order, so a document parsed
// with Parse serializes back with the same key order. Numbers keep their
// literal text; a value never changes numeric formatting on its way through
// encode and decode.
//
// # Building values
//
//	v := tree.Array(
//	    tree.Object(
//	        tree.Member{Key: "firstName", Value: tree.String("John")},
//	        tree.Member{Key: "age", Value: tree.Int(42)},
//	    ),
//	)
//
// # Parsing and serializing
//
//	v, err := tree.Parse([]byte(`{"id":1,"tags":["a","b"]}`))
//	data, err := tree.Marshal(v)
//
// Values are immutable once built. Accessors that return slices return the
// backing storage; callers must not modify them.
package tree
