package terse

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timclausendev-web/tersejson-sub001/pkg/keys"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
	"github.com/timclausendev-web/tersejson-sub001/pkg/version"
)

var equalValues = cmp.Comparer(tree.Equal)

func mustParse(t *testing.T, s string) tree.Value {
	t.Helper()
	v, err := tree.Parse([]byte(s))
	require.NoError(t, err)
	return v
}

func TestEncode_FirstNameLastName(t *testing.T) {
	x := mustParse(t, `[{"firstName":"John","lastName":"Doe"},{"firstName":"Jane","lastName":"Smith"}]`)

	env := Encode(x)

	assert.Equal(t, version.Current, env.Version)
	assert.Equal(t, []Entry{
		{Alias: "a", Original: "firstName"},
		{Alias: "b", Original: "lastName"},
	}, env.Dictionary.Entries())

	data, err := tree.Marshal(env.Data)
	require.NoError(t, err)
	assert.Equal(t, `[{"a":"John","b":"Doe"},{"a":"Jane","b":"Smith"}]`, string(data))

	wire, err := env.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t,
		`{"__terse__":true,"v":1,"k":{"a":"firstName","b":"lastName"},"d":[{"a":"John","b":"Doe"},{"a":"Jane","b":"Smith"}]}`,
		string(wire))

	got := Decode(env)
	if diff := cmp.Diff(x, got, equalValues); diff != "" {
		t.Errorf("decode mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_RetainedShortKeyAvoidsCollision(t *testing.T) {
	x := mustParse(t, `{"id":1,"a":2}`)

	env := Encode(x)

	alias, ok := env.Dictionary.Alias("id")
	require.True(t, ok, "id should be aliased")
	assert.NotEqual(t, "a", alias)
	assert.Equal(t, "b", alias)

	_, aliased := env.Dictionary.Alias("a")
	assert.False(t, aliased, "single character key must not be aliased")
	assert.Equal(t, []string{"b", "a"}, env.Data.Keys())

	got := Decode(env)
	assert.Equal(t, []string{"id", "a"}, got.Keys())
	assert.True(t, tree.Equal(x, got))
}

func TestEncode_KeysAtEveryDepth(t *testing.T) {
	x := mustParse(t, `[{"address":{"streetAddress":"1 Main St","city":"NY"}}]`)

	env := Encode(x)

	assert.Equal(t, []string{"address", "streetAddress", "city"}, env.Dictionary.Originals())
	for _, k := range []string{"address", "streetAddress", "city"} {
		_, ok := env.Dictionary.Alias(k)
		assert.True(t, ok, "%s should be aliased", k)
	}
	assert.True(t, tree.Equal(x, Decode(env)))
}

func TestBuildDictionary_DocumentOrder(t *testing.T) {
	// A member's key comes before the keys nested in its value.
	x := mustParse(t, `{"outer":{"inner":1},"second":[{"third":true}]}`)

	d := BuildDictionary(x)
	assert.Equal(t, []string{"outer", "inner", "second", "third"}, d.Originals())
}

func TestBuildDictionary_Empty(t *testing.T) {
	tests := []string{`null`, `42`, `"text"`, `[]`, `[1,2,3]`, `{}`, `{"a":1,"b":{"c":2}}`}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			x := mustParse(t, input)
			env := Encode(x)
			assert.Equal(t, 0, env.Dictionary.Len())
			assert.True(t, tree.Equal(x, env.Data))
			assert.True(t, IsTersePayload(env.Tree()))
			assert.True(t, tree.Equal(x, Decode(env)))
		})
	}
}

func TestBuildDictionary_SkipsAllRetainedKeys(t *testing.T) {
	// Every single letter from a to e is a retained key somewhere in the tree.
	x := mustParse(t, `[{"a":1,"b":2},{"nested":{"c":3,"d":4,"e":5}}]`)

	d := BuildDictionary(x)
	alias, ok := d.Alias("nested")
	require.True(t, ok)
	assert.Equal(t, "f", alias)
}

func TestBuildDictionary_WithPattern(t *testing.T) {
	x := mustParse(t, `{"alpha":1,"beta":2}`)

	d := BuildDictionary(x, WithPattern(keys.Upper))
	assert.Equal(t, []Entry{{Alias: "A", Original: "alpha"}, {Alias: "B", Original: "beta"}}, d.Entries())

	d = BuildDictionary(x, WithPattern(keys.Prefixed("k")))
	assert.Equal(t, []Entry{{Alias: "k0", Original: "alpha"}, {Alias: "k1", Original: "beta"}}, d.Entries())
}

func TestBuildDictionary_NumericPatternSkipsRetainedDigits(t *testing.T) {
	x := mustParse(t, `{"0":"zero","1":"one","count":2}`)

	d := BuildDictionary(x, WithPattern(keys.Numeric))
	alias, ok := d.Alias("count")
	require.True(t, ok)
	assert.Equal(t, "2", alias)
}

func TestBuildDictionary_WithMinKeyLength(t *testing.T) {
	x := mustParse(t, `{"id":1,"ab":2,"name":3}`)

	d := BuildDictionary(x, WithMinKeyLength(3))
	assert.Equal(t, []string{"name"}, d.Originals())

	alias, _ := d.Alias("name")
	assert.NotEqual(t, "id", alias)
	assert.NotEqual(t, "ab", alias)

	// Values below the default are raised to it.
	d = BuildDictionary(mustParse(t, `{"a":1,"bb":2}`), WithMinKeyLength(0))
	assert.Equal(t, []string{"bb"}, d.Originals())
}

func TestBuildDictionary_RepeatingPatternFallsBack(t *testing.T) {
	stuck := func(int) string { return "x" }
	x := mustParse(t, `{"first":1,"second":2,"third":3}`)

	d := BuildDictionary(x, WithPattern(stuck))
	require.Equal(t, 3, d.Len())

	seen := make(map[string]bool)
	for _, e := range d.Entries() {
		assert.False(t, seen[e.Alias], "alias %q assigned twice", e.Alias)
		seen[e.Alias] = true
	}
	assert.True(t, tree.Equal(x, Decode(Encode(x, WithPattern(stuck)))))
}

func TestBuildDictionary_EmptyPatternOutputSkipped(t *testing.T) {
	sparse := func(i int) string {
		if i%2 == 0 {
			return ""
		}
		return keys.Alpha(i)
	}
	d := BuildDictionary(mustParse(t, `{"one":1,"two":2}`), WithPattern(sparse))
	for _, e := range d.Entries() {
		assert.NotEmpty(t, e.Alias)
	}
}

func TestEncode_LeavesScalarsAndOrderUntouched(t *testing.T) {
	x := mustParse(t, `{"zeta":[3,2,1],"alpha":{"flag":false,"none":null,"pi":3.14159}}`)

	env := Encode(x)

	za, _ := env.Dictionary.Alias("zeta")
	aa, _ := env.Dictionary.Alias("alpha")
	assert.Equal(t, []string{za, aa}, env.Data.Keys())

	got, err := tree.Marshal(Decode(env))
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":[3,2,1],"alpha":{"flag":false,"none":null,"pi":3.14159}}`, string(got))
}

func TestEncodeJSON(t *testing.T) {
	out, err := EncodeJSON([]byte(`[{"name":"x"}]`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"__terse__":true,"v":1,"k":{"a":"name"},"d":[{"a":"x"}]}`, string(out))

	_, err = EncodeJSON([]byte(`[{"name":`))
	assert.Error(t, err)
}

func TestIsTersePayload(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"minimal", `{"__terse__":true,"v":1,"k":{},"d":null}`, true},
		{"with data", `{"__terse__":true,"v":1,"k":{"a":"name"},"d":[{"a":1}]}`, true},
		{"unknown version is still terse", `{"__terse__":true,"v":7,"k":{},"d":{}}`, true},
		{"integral float version", `{"__terse__":true,"v":1.0,"k":{},"d":{}}`, true},
		{"extra fields allowed", `{"__terse__":true,"v":1,"k":{},"d":1,"x":2}`, true},
		{"missing marker", `{"v":1,"k":{},"d":null}`, false},
		{"marker false", `{"__terse__":false,"v":1,"k":{},"d":null}`, false},
		{"marker string", `{"__terse__":"true","v":1,"k":{},"d":null}`, false},
		{"missing version", `{"__terse__":true,"k":{},"d":null}`, false},
		{"fractional version", `{"__terse__":true,"v":1.5,"k":{},"d":null}`, false},
		{"string version", `{"__terse__":true,"v":"1","k":{},"d":null}`, false},
		{"version past int64", `{"__terse__":true,"v":9223372036854775808,"k":{},"d":null}`, false},
		{"version past int64 exponent", `{"__terse__":true,"v":9.3e18,"k":{},"d":null}`, false},
		{"missing dictionary", `{"__terse__":true,"v":1,"d":null}`, false},
		{"dictionary array", `{"__terse__":true,"v":1,"k":[],"d":null}`, false},
		{"dictionary non-string value", `{"__terse__":true,"v":1,"k":{"a":1},"d":null}`, false},
		{"missing data", `{"__terse__":true,"v":1,"k":{}}`, false},
		{"array", `[{"__terse__":true,"v":1,"k":{},"d":null}]`, false},
		{"null", `null`, false},
		{"plain object", `{"firstName":"John"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustParse(t, tt.input)
			assert.Equal(t, tt.want, IsTersePayload(v), "tree form")
			assert.Equal(t, tt.want, IsTersePayload(&v), "pointer form")
			assert.Equal(t, tt.want, IsTerseJSON([]byte(tt.input)), "JSON form")

			var generic any
			require.NoError(t, json.Unmarshal([]byte(tt.input), &generic))
			assert.Equal(t, tt.want, IsTersePayload(generic), "generic form")
		})
	}
}

func TestIsTersePayload_OtherTypes(t *testing.T) {
	assert.False(t, IsTersePayload(nil))
	assert.False(t, IsTersePayload("string"))
	assert.False(t, IsTersePayload(42))
	assert.False(t, IsTersePayload([]any{}))
	assert.False(t, IsTersePayload((*Envelope)(nil)))
	assert.False(t, IsTersePayload((*tree.Value)(nil)))
	assert.False(t, IsTerseJSON([]byte(`not json`)))

	assert.True(t, IsTersePayload(Encode(tree.Null())))
	assert.True(t, IsTersePayload(*Encode(tree.Null())))
	assert.True(t, IsTersePayload(map[string]any{
		FieldMarker:     true,
		FieldVersion:    1,
		FieldDictionary: map[string]string{"a": "name"},
		FieldData:       nil,
	}))
	assert.False(t, IsTersePayload(map[string]any{
		FieldMarker:     true,
		FieldVersion:    float64(1 << 63),
		FieldDictionary: map[string]any{},
		FieldData:       nil,
	}))
}

func TestExpand_PassThrough(t *testing.T) {
	plain := mustParse(t, `{"firstName":"John"}`)
	out, err := Expand(plain)
	require.NoError(t, err)
	assert.True(t, tree.Equal(plain, out.(tree.Value)))

	generic := map[string]any{"__terse__": true}
	out, err = Expand(generic)
	require.NoError(t, err)
	assert.Equal(t, generic, out)

	out, err = Expand("just a string")
	require.NoError(t, err)
	assert.Equal(t, "just a string", out)

	out, err = Expand(nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestExpand_TreeAndEnvelope(t *testing.T) {
	x := mustParse(t, `[{"firstName":"John","lastName":"Doe"}]`)
	env := Encode(x)

	for name, candidate := range map[string]any{
		"envelope pointer": env,
		"envelope value":   *env,
		"tree":             env.Tree(),
	} {
		t.Run(name, func(t *testing.T) {
			out, err := Expand(candidate)
			require.NoError(t, err)
			got, ok := out.(tree.Value)
			require.True(t, ok, "Expand returned %T", out)
			if diff := cmp.Diff(x, got, equalValues); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExpand_GenericMap(t *testing.T) {
	wire := `{"__terse__":true,"v":1,"k":{"a":"firstName","b":"lastName"},"d":[{"a":"John","b":"Doe"}]}`
	var generic any
	require.NoError(t, json.Unmarshal([]byte(wire), &generic))

	out, err := Expand(generic)
	require.NoError(t, err)

	want := []any{map[string]any{"firstName": "John", "lastName": "Doe"}}
	assert.Equal(t, want, out)
}

func TestExpand_GenericMapNumbersMatchPlainDecode(t *testing.T) {
	plain := []byte(`[{"count":1,"price":2.5},{"count":2,"price":3,"tags":[7,8.25]}]`)
	wire, err := EncodeJSON(plain)
	require.NoError(t, err)

	var generic, want any
	require.NoError(t, json.Unmarshal(wire, &generic))
	require.NoError(t, json.Unmarshal(plain, &want))

	out, err := Expand(generic)
	require.NoError(t, err)
	assert.Equal(t, want, out)
}

func TestExpand_GenericMapKeepsJSONNumber(t *testing.T) {
	plain := []byte(`[{"count":1,"price":2.50}]`)
	wire, err := EncodeJSON(plain)
	require.NoError(t, err)

	decode := func(data []byte) any {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var v any
		require.NoError(t, dec.Decode(&v))
		return v
	}

	out, err := Expand(decode(wire))
	require.NoError(t, err)
	assert.Equal(t, decode(plain), out)
}

func TestExpand_UnsupportedVersion(t *testing.T) {
	v := mustParse(t, `{"__terse__":true,"v":2,"k":{"a":"name"},"d":[{"a":"x"}]}`)

	out, err := Expand(v)
	assert.Nil(t, out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedVersion))

	var uve *UnsupportedVersionError
	require.True(t, errors.As(err, &uve))
	assert.Equal(t, int64(2), uve.Version)
	// The aliased data stays available for callers that accept it.
	assert.Equal(t, `[{"a":"x"}]`, uve.Data.String())

	_, err = Expand(&Envelope{Version: 9, Data: tree.Null()})
	assert.True(t, errors.Is(err, ErrUnsupportedVersion))
}

func TestExpand_KeepsUnknownKeys(t *testing.T) {
	// "x" was never aliased and "zz" is not in the dictionary.
	v := mustParse(t, `{"__terse__":true,"v":1,"k":{"a":"name"},"d":{"a":1,"x":2,"zz":3}}`)

	out, err := Expand(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "x", "zz"}, out.(tree.Value).Keys())
}

func TestExpandJSON(t *testing.T) {
	out, err := ExpandJSON([]byte(`{"__terse__":true,"v":1,"k":{"a":"name"},"d":[{"a":"x"}]}`))
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"x"}]`, string(out))

	plain := []byte(`{"name": "x"}`)
	out, err = ExpandJSON(plain)
	require.NoError(t, err)
	assert.Equal(t, plain, out)

	_, err = ExpandJSON([]byte(`{`))
	assert.Error(t, err)
}

func TestParseEnvelope_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"not object", `[]`, ""},
		{"missing marker", `{"v":1,"k":{},"d":1}`, FieldMarker},
		{"bad marker", `{"__terse__":1,"v":1,"k":{},"d":1}`, FieldMarker},
		{"missing version", `{"__terse__":true,"k":{},"d":1}`, FieldVersion},
		{"bad version", `{"__terse__":true,"v":"1","k":{},"d":1}`, FieldVersion},
		{"missing dictionary", `{"__terse__":true,"v":1,"d":1}`, FieldDictionary},
		{"bad dictionary", `{"__terse__":true,"v":1,"k":"a","d":1}`, FieldDictionary},
		{"bad entry", `{"__terse__":true,"v":1,"k":{"a":true},"d":1}`, FieldDictionary},
		{"missing data", `{"__terse__":true,"v":1,"k":{}}`, FieldData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEnvelope(mustParse(t, tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))

			var fe *FormatError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestValidate(t *testing.T) {
	good := Encode(mustParse(t, `[{"firstName":"John","a":1}]`))
	assert.NoError(t, Validate(good))
	assert.NoError(t, Validate(good.Tree()))

	tests := []struct {
		name  string
		input string
	}{
		{"duplicate original", `{"__terse__":true,"v":1,"k":{"a":"name","b":"name"},"d":{}}`},
		{"short original", `{"__terse__":true,"v":1,"k":{"a":"x"},"d":{}}`},
		{"clash after expansion", `{"__terse__":true,"v":1,"k":{"a":"name"},"d":[{"a":1,"name":2}]}`},
		{"missing data", `{"__terse__":true,"v":1,"k":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(mustParse(t, tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
		})
	}

	err := Validate(mustParse(t, `{"__terse__":true,"v":3,"k":{},"d":{}}`))
	assert.True(t, errors.Is(err, ErrUnsupportedVersion))

	assert.Error(t, Validate(42))
	assert.Error(t, Validate((*Envelope)(nil)))
}

func TestNewDictionary(t *testing.T) {
	d, err := NewDictionary(Entry{Alias: "a", Original: "name"}, Entry{Alias: "b", Original: "email"})
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())

	o, ok := d.Original("b")
	assert.True(t, ok)
	assert.Equal(t, "email", o)

	out, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"a":"name","b":"email"}`, string(out))

	_, err = NewDictionary(Entry{Alias: "a", Original: "x1"}, Entry{Alias: "a", Original: "x2"})
	assert.Error(t, err)
	_, err = NewDictionary(Entry{Alias: "", Original: "x1"})
	assert.Error(t, err)
}

func TestNilDictionary(t *testing.T) {
	var d *Dictionary
	assert.Equal(t, 0, d.Len())
	assert.Nil(t, d.Entries())
	_, ok := d.Original("a")
	assert.False(t, ok)
	assert.Equal(t, "{}", d.Tree().String())

	v := mustParse(t, `{"name":1}`)
	assert.True(t, tree.Equal(v, d.RestoreKeys(v)))

	env := &Envelope{Version: version.Current, Data: v}
	assert.True(t, tree.Equal(v, Decode(env)))
}
