// Package transport negotiates terse payloads over HTTP.
//
// Negotiation is opt-in on the consumer side:
//
//	GET /users HTTP/1.1
//	Accept-Terse: true            (or a version list: "1" or "1, 2")
//
//	HTTP/1.1 200 OK
//	Content-Type: application/json
//	X-Terse-JSON: 1
//	Vary: Accept-Terse
//
//	{"__terse__":true,"v":1,"k":{"a":"firstName"},"d":[{"a":"John"}]}
//
// A request without Accept-Terse never sees an envelope, and a response the
// producer judges too small or not worth aliasing is sent plain. Consumers
// that check for the envelope with terse.IsTersePayload therefore work with
// either form.
//
// # Producer Side
//
// Codec.Middleware wraps an existing JSON handler and rewrites its output.
// Handlers that build tree values can call Codec.WriteJSON directly and skip
// the re-parse.
//
// # Consumer Side
//
// RoundTripper adds the request header. ReadTree expands a response body
// eagerly; ReadView returns a lazy proxy.Node instead.
package transport
