package tree

// Equal reports whether a and b are deeply equal JSON values.
//
// Objects compare as sets of members: the same keys with equal values, in any
// order. Numbers are equal when their literals match or, failing that, when
// both parse to the same float64.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.s == b.s
	case KindNumber:
		if a.s == b.s {
			return true
		}
		fa, okA := a.Float64()
		fb, okB := b.Float64()
		return okA && okB && fa == fb
	case KindArray:
		if len(a.elems) != len(b.elems) {
			return false
		}
		for i := range a.elems {
			if !Equal(a.elems[i], b.elems[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.members) != len(b.members) {
			return false
		}
		for i, m := range a.members {
			// Fast path for identical ordering.
			if b.members[i].Key == m.Key {
				if !Equal(m.Value, b.members[i].Value) {
					return false
				}
				continue
			}
			other, ok := b.Get(m.Key)
			if !ok || !Equal(m.Value, other) {
				return false
			}
		}
		return true
	}
	return false
}

// Walk visits v and its descendants depth-first: array elements in index
// order, object members in member order. If fn returns false the children of
// the visited value are skipped.
func Walk(v Value, fn func(v Value) bool) {
	if !fn(v) {
		return
	}
	switch v.kind {
	case KindArray:
		for _, e := range v.elems {
			Walk(e, fn)
		}
	case KindObject:
		for _, m := range v.members {
			Walk(m.Value, fn)
		}
	}
}

// Stats summarizes the shape of a tree.
type Stats struct {
	// Nodes is the total number of values, containers included.
	Nodes int

	// Objects is the number of object values.
	Objects int

	// Arrays is the number of array values.
	Arrays int

	// Members is the total number of object members (key occurrences).
	Members int
}

// Count walks v once and returns its shape statistics.
func Count(v Value) Stats {
	var s Stats
	Walk(v, func(n Value) bool {
		s.Nodes++
		switch n.kind {
		case KindObject:
			s.Objects++
			s.Members += len(n.members)
		case KindArray:
			s.Arrays++
		}
		return true
	})
	return s
}
