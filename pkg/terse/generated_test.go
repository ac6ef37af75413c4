package terse

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timclausendev-web/tersejson-sub001/pkg/keys"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

// genKeys mixes retained single characters, keys that equal what the
// patterns produce and ordinary field names.
var genKeys = []string{
	"", "a", "b", "x", "A", "0", "1",
	"aa", "ab", "k0", "k1", "A0", "10",
	"id", "firstName", "lastName", "address", "naïve",
	"__terse__", "v", "k", "d",
}

var genNumbers = []string{"0", "-1", "2.5", "1e3", "1.0", "12345678901234567890", "-0.0"}

func genValue(r *rand.Rand, depth int) tree.Value {
	kinds := 6
	if depth >= 3 {
		kinds = 4
	}
	switch r.IntN(kinds) {
	case 0:
		return tree.Null()
	case 1:
		return tree.Bool(r.IntN(2) == 0)
	case 2:
		return tree.Number(genNumbers[r.IntN(len(genNumbers))])
	case 3:
		return tree.String(genKeys[r.IntN(len(genKeys))])
	case 4:
		elems := make([]tree.Value, r.IntN(4))
		for i := range elems {
			elems[i] = genValue(r, depth+1)
		}
		return tree.Array(elems...)
	default:
		return genObject(r, depth)
	}
}

func genObject(r *rand.Rand, depth int) tree.Value {
	perm := r.Perm(len(genKeys))[:r.IntN(6)]
	members := make([]tree.Member, len(perm))
	for i, k := range perm {
		members[i] = tree.Member{Key: genKeys[k], Value: genValue(r, depth+1)}
	}
	return tree.Object(members...)
}

// genDocument returns either a list of records, the usual API shape, or a
// free-form value.
func genDocument(r *rand.Rand) tree.Value {
	if r.IntN(2) == 0 {
		return genValue(r, 0)
	}
	records := make([]tree.Value, 1+r.IntN(4))
	for i := range records {
		records[i] = genObject(r, 1)
	}
	return tree.Array(records...)
}

type genPattern struct {
	name    string
	pattern keys.Pattern
}

func genPatterns(t *testing.T) []genPattern {
	t.Helper()
	var out []genPattern
	for _, name := range keys.Names() {
		p, err := keys.Lookup(name)
		require.NoError(t, err)
		out = append(out, genPattern{name, p})
	}
	return append(out,
		genPattern{"repeating", func(int) string { return "x" }},
		genPattern{"repeating retained", func(int) string { return "aa" }},
		genPattern{"prefixed empty", keys.Prefixed("")},
	)
}

func retainedKeys(v tree.Value, minLen int) map[string]struct{} {
	out := make(map[string]struct{})
	collectKeys(v, func(key string) {
		if len(key) < minLen {
			out[key] = struct{}{}
		}
	})
	return out
}

func TestGenerated_RoundTrip(t *testing.T) {
	for _, p := range genPatterns(t) {
		for _, minLen := range []int{DefaultMinKeyLength, 3, 6} {
			t.Run(fmt.Sprintf("%s/min=%d", p.name, minLen), func(t *testing.T) {
				for seed := uint64(1); seed <= 150; seed++ {
					r := rand.New(rand.NewPCG(seed, uint64(minLen)))
					x := genDocument(r)
					plain, err := tree.Marshal(x)
					require.NoError(t, err)

					env := Encode(x, WithPattern(p.pattern), WithMinKeyLength(minLen))
					require.NoError(t, Validate(env.Tree()), "seed %d: %s", seed, plain)

					retained := retainedKeys(x, minLen)
					for _, e := range env.Dictionary.Entries() {
						_, clash := retained[e.Alias]
						require.False(t, clash, "seed %d: alias %q equals a retained key", seed, e.Alias)
						require.GreaterOrEqual(t, len(e.Original), minLen, "seed %d", seed)
					}

					decoded, err := tree.Marshal(Decode(env))
					require.NoError(t, err)
					require.Equal(t, string(plain), string(decoded), "seed %d", seed)

					wire, err := env.MarshalJSON()
					require.NoError(t, err)
					expanded, err := ExpandJSON(wire)
					require.NoError(t, err)
					require.Equal(t, string(plain), string(expanded), "seed %d: %s", seed, wire)
				}
			})
		}
	}
}

func FuzzEncodeExpandJSON(f *testing.F) {
	for _, seed := range []string{
		`[{"firstName":"John","lastName":"Doe"},{"firstName":"Jane","lastName":"Smith"}]`,
		`{"a":1,"aa":2,"k0":{"0":[],"b":"aa"}}`,
		`{"__terse__":true,"v":1,"k":{},"d":null}`,
		`[[{"id":1.50,"ab":null}],{"id":-0.0,"x":{"ab":true}}]`,
		`"plain"`,
		`null`,
	} {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		x, err := tree.Parse(data)
		if err != nil {
			return
		}
		plain, err := tree.Marshal(x)
		require.NoError(t, err)

		wire, err := EncodeJSON(data)
		require.NoError(t, err)
		assert.True(t, IsTerseJSON(wire))

		envTree, err := tree.Parse(wire)
		require.NoError(t, err)
		require.NoError(t, Validate(envTree))

		expanded, err := ExpandJSON(wire)
		require.NoError(t, err)
		assert.Equal(t, string(plain), string(expanded))
	})
}
