package terse

import (
	"github.com/timclausendev-web/tersejson-sub001/pkg/keys"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

// BuildDictionary scans v and assigns an alias to every distinct key at least
// the minimum key length long.
//
// Keys are collected depth-first in document order: array elements by index,
// object members in order, a member's key before the contents of its value.
// Aliases come from the configured pattern with increasing indexes; a
// candidate is skipped when it is empty, equals a retained key anywhere in
// the tree, or equals an alias already assigned.
func BuildDictionary(v tree.Value, opts ...Option) *Dictionary {
	o := newOptions(opts)

	seen := make(map[string]struct{})
	retained := make(map[string]struct{})
	var candidates []string

	collectKeys(v, func(key string) {
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		if len(key) < o.minKeyLength {
			retained[key] = struct{}{}
			return
		}
		candidates = append(candidates, key)
	})

	d := newDictionary(len(candidates))
	if len(candidates) == 0 {
		return d
	}

	// An injective pattern cannot miss more often in a row than there are
	// strings to avoid. Past that bound the pattern is repeating itself and
	// keys.Alpha takes over so encoding always terminates.
	maxMisses := len(retained) + len(candidates) + 1
	pattern := o.pattern
	next, misses := 0, 0

	for _, original := range candidates {
		for {
			if misses > maxMisses {
				pattern = keys.Alpha
				misses = 0
			}
			alias := pattern(next)
			next++

			if alias == "" || d.hasAlias(alias) {
				misses++
				continue
			}
			if _, clash := retained[alias]; clash {
				misses++
				continue
			}

			d.add(alias, original)
			misses = 0
			break
		}
	}
	return d
}

func collectKeys(v tree.Value, visit func(key string)) {
	switch v.Kind() {
	case tree.KindArray:
		for _, e := range v.Elements() {
			collectKeys(e, visit)
		}
	case tree.KindObject:
		for _, m := range v.Members() {
			visit(m.Key)
			collectKeys(m.Value, visit)
		}
	}
}
