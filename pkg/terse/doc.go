// Package terse implements the terse JSON key-compression codec.
//
// A producer replaces every object key longer than one character with a short
// alias and ships the alias dictionary alongside the rewritten data:
//
//	{"__terse__": true, "v": 1, "k": {"a": "firstName"}, "d": [{"a": "John"}]}
//
// Each envelope is self-describing; no dictionary is shared across payloads.
//
// # Producer
//
//	env := terse.Encode(value)
//	body, err := env.MarshalJSON()
//
// # Consumer
//
// Expand and the proxy package fail open: anything that is not a terse
// envelope is returned unchanged, so they can be applied to every JSON body.
// The one loud failure is a well-formed envelope with a format version this
// build does not know, reported as an UnsupportedVersionError.
//
//	decoded, err := terse.Expand(candidate)
//
// # Invariants
//
//   - Keys shorter than the minimum key length (2 by default) are never
//     aliased and pass through encode and decode unchanged.
//   - No alias equals a retained key or another alias.
//   - Decode(Encode(x)) is deeply equal to x for every JSON value x.
package terse
