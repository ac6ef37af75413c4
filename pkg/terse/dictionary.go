package terse

import (
	"fmt"

	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

// Entry is one alias assignment.
type Entry struct {
	Alias    string
	Original string
}

// Dictionary is the bijective alias/original key mapping of one payload.
// Entries keep their assignment order so the serialized form is stable.
// A nil *Dictionary is empty.
type Dictionary struct {
	entries    []Entry
	toOriginal map[string]string
	toAlias    map[string]string
}

func newDictionary(capacity int) *Dictionary {
	return &Dictionary{
		entries:    make([]Entry, 0, capacity),
		toOriginal: make(map[string]string, capacity),
		toAlias:    make(map[string]string, capacity),
	}
}

// NewDictionary builds a dictionary from explicit entries. It fails with a
// *FormatError if an alias or an original appears twice, or if either side
// of an entry is empty.
func NewDictionary(entries ...Entry) (*Dictionary, error) {
	d := newDictionary(len(entries))
	for _, e := range entries {
		if e.Alias == "" || e.Original == "" {
			return nil, &FormatError{Field: FieldDictionary, Reason: "empty alias or original key"}
		}
		if prev, dup := d.toOriginal[e.Alias]; dup {
			return nil, &FormatError{
				Field:  FieldDictionary,
				Reason: fmt.Sprintf("alias %q maps to both %q and %q", e.Alias, prev, e.Original),
			}
		}
		if prev, dup := d.toAlias[e.Original]; dup {
			return nil, &FormatError{
				Field:  FieldDictionary,
				Reason: fmt.Sprintf("original %q has aliases %q and %q", e.Original, prev, e.Alias),
			}
		}
		d.add(e.Alias, e.Original)
	}
	return d, nil
}

// dictionaryFromTree reads the wire form of a dictionary. It is lenient:
// when an original repeats, the first alias wins for the original→alias
// direction while every alias still resolves.
func dictionaryFromTree(v tree.Value) *Dictionary {
	members := v.Members()
	d := newDictionary(len(members))
	for _, m := range members {
		original, ok := m.Value.Str()
		if !ok {
			continue
		}
		d.entries = append(d.entries, Entry{Alias: m.Key, Original: original})
		d.toOriginal[m.Key] = original
		if _, dup := d.toAlias[original]; !dup {
			d.toAlias[original] = m.Key
		}
	}
	return d
}

func (d *Dictionary) add(alias, original string) {
	d.entries = append(d.entries, Entry{Alias: alias, Original: original})
	d.toOriginal[alias] = original
	d.toAlias[original] = alias
}

func (d *Dictionary) hasAlias(alias string) bool {
	_, ok := d.toOriginal[alias]
	return ok
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Entries returns a copy of the entries in assignment order.
func (d *Dictionary) Entries() []Entry {
	if d == nil {
		return nil
	}
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Original returns the original key an alias stands for.
func (d *Dictionary) Original(alias string) (string, bool) {
	if d == nil {
		return "", false
	}
	o, ok := d.toOriginal[alias]
	return o, ok
}

// Alias returns the alias assigned to an original key.
func (d *Dictionary) Alias(original string) (string, bool) {
	if d == nil {
		return "", false
	}
	a, ok := d.toAlias[original]
	return a, ok
}

// Originals returns the original keys in assignment order.
func (d *Dictionary) Originals() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.Original
	}
	return out
}

// ShortenKeys rewrites every object key of v that has an alias.
func (d *Dictionary) ShortenKeys(v tree.Value) tree.Value {
	if d.Len() == 0 {
		return v
	}
	return rewriteKeys(v, d.toAlias)
}

// RestoreKeys rewrites every object key of v that is an alias back to its
// original. Keys that are not aliases are left alone.
func (d *Dictionary) RestoreKeys(v tree.Value) tree.Value {
	if d.Len() == 0 {
		return v
	}
	return rewriteKeys(v, d.toOriginal)
}

// rewriteKeys returns a copy of v with object keys replaced through mapping.
// Array order, nesting and scalars are preserved.
func rewriteKeys(v tree.Value, mapping map[string]string) tree.Value {
	switch v.Kind() {
	case tree.KindArray:
		src := v.Elements()
		elems := make([]tree.Value, len(src))
		for i, e := range src {
			elems[i] = rewriteKeys(e, mapping)
		}
		return tree.Array(elems...)
	case tree.KindObject:
		src := v.Members()
		members := make([]tree.Member, len(src))
		for i, m := range src {
			key := m.Key
			if mapped, ok := mapping[key]; ok {
				key = mapped
			}
			members[i] = tree.Member{Key: key, Value: rewriteKeys(m.Value, mapping)}
		}
		return tree.Object(members...)
	default:
		return v
	}
}

// Tree returns the wire form: an object mapping alias to original.
func (d *Dictionary) Tree() tree.Value {
	if d == nil {
		return tree.Object()
	}
	members := make([]tree.Member, len(d.entries))
	for i, e := range d.entries {
		members[i] = tree.Member{Key: e.Alias, Value: tree.String(e.Original)}
	}
	return tree.Object(members...)
}

// MarshalJSON implements json.Marshaler using the wire form.
func (d *Dictionary) MarshalJSON() ([]byte, error) {
	return tree.Marshal(d.Tree())
}
