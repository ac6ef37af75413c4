// Package proxy provides lazy read-through views over terse envelopes.
//
// A Node pairs a sub-tree of an envelope's aliased data with the envelope's
// dictionary. Reading a member by its original key resolves the alias on the
// fly; nested values stay aliased until they are read. Nothing is rebuilt at
// wrap time, so a consumer that touches a handful of fields out of a large
// payload pays only for those fields.
//
// Usage:
//
//	view, err := proxy.Wrap(body)
//	if err != nil {
//	    return err // unsupported format version
//	}
//	if n, ok := view.(proxy.Node); ok {
//	    city, _ := n.At("0", "address", "city")
//	    fmt.Println(city)
//	}
//
// Nodes are immutable values and safe for concurrent reads.
package proxy
