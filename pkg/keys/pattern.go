// Package keys provides alias generation strategies for the key dictionary.
//
// A Pattern is a pure function from a candidate index to a candidate alias.
// The dictionary builder calls it with increasing indexes and skips
// candidates that collide with retained keys or earlier aliases, so a pattern
// only has to produce distinct, non-empty strings for distinct indexes.
package keys

import (
	"fmt"
	"sort"
	"strconv"
)

// Pattern maps a candidate index (starting at 0) to a candidate alias.
type Pattern func(index int) string

const (
	lower  = "abcdefghijklmnopqrstuvwxyz"
	upper  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits = "0123456789"
)

// Alpha yields a, b, ..., z, aa, ab, ..., zz, aaa, ...
// It is the default pattern.
func Alpha(index int) string {
	return bijective(index, lower)
}

// Upper yields A, B, ..., Z, AA, AB, ...
func Upper(index int) string {
	return bijective(index, upper)
}

// Alphanumeric yields a..z, A..Z, 0..9, then two-character combinations of
// the same 62 symbols. It packs the most aliases into short keys.
func Alphanumeric(index int) string {
	return bijective(index, lower+upper+digits)
}

// Numeric yields "0", "1", "2", ...
func Numeric(index int) string {
	return strconv.Itoa(index)
}

// Prefixed returns a pattern yielding prefix+"0", prefix+"1", ...
// Useful when aliases must be recognizable in logs or must not look like
// ordinary single-letter keys.
func Prefixed(prefix string) Pattern {
	return func(index int) string {
		return prefix + strconv.Itoa(index)
	}
}

// bijective writes index in bijective base-len(alphabet), so every string
// over the alphabet is produced exactly once and shorter strings come first.
func bijective(index int, alphabet string) string {
	if index < 0 {
		index = 0
	}
	base := len(alphabet)
	n := index + 1

	var buf [16]byte
	pos := len(buf)
	for n > 0 {
		n--
		pos--
		buf[pos] = alphabet[n%base]
		n /= base
	}
	return string(buf[pos:])
}

// registry holds the named patterns selectable from configuration.
var registry = map[string]Pattern{
	"alpha":        Alpha,
	"upper":        Upper,
	"alphanumeric": Alphanumeric,
	"numeric":      Numeric,
	"prefixed":     Prefixed("k"),
}

// DefaultName is the name of the default pattern.
const DefaultName = "alpha"

// Lookup returns the named pattern. An empty name selects the default.
func Lookup(name string) (Pattern, error) {
	if name == "" {
		name = DefaultName
	}
	p, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown key pattern %q (available: %v)", name, Names())
	}
	return p, nil
}

// Names returns the names accepted by Lookup, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
