package assertions_test

import (
	"errors"
	"testing"

	"github.com/timclausendev-web/tersejson-sub001/internal/testharness/assertions"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

func TestAssertValue(t *testing.T) {
	t.Run("Equal", func(t *testing.T) {
		if r := assertions.Equal(42, 42); !r.Passed {
			t.Error("Equal(42, 42) should pass")
		}
		if r := assertions.Equal(2, int64(2)); !r.Passed {
			t.Error("Equal across integer types should pass")
		}
		if r := assertions.Equal([]string{"a", "b"}, []string{"a", "b"}); !r.Passed {
			t.Error("Equal slices should pass")
		}
		if r := assertions.Equal(42, 43); r.Passed {
			t.Error("Equal(42, 43) should fail")
		}
		if r := assertions.Equal("hello", "world"); r.Passed {
			t.Error("Different strings should fail")
		}
	})

	t.Run("True", func(t *testing.T) {
		if r := assertions.True(true); !r.Passed {
			t.Error("True(true) should pass")
		}
		if r := assertions.True(false); r.Passed {
			t.Error("True(false) should fail")
		}
	})

	t.Run("Contains", func(t *testing.T) {
		if r := assertions.Contains("terse payload", "payload"); !r.Passed {
			t.Error("substring should pass")
		}
		if r := assertions.Contains([]string{"a", "b"}, "b"); !r.Passed {
			t.Error("slice element should pass")
		}
		if r := assertions.Contains([]string{"a"}, "c"); r.Passed {
			t.Error("missing element should fail")
		}
		if r := assertions.Contains(42, "4"); r.Passed {
			t.Error("unsupported container should fail")
		}
	})

	t.Run("LessThan", func(t *testing.T) {
		if r := assertions.LessThan(1, 2); !r.Passed {
			t.Error("1 < 2 should pass")
		}
		if r := assertions.LessThan(2, 2); r.Passed {
			t.Error("2 < 2 should fail")
		}
		if r := assertions.LessThan("x", 2); r.Passed {
			t.Error("non-numeric should fail")
		}
	})
}

func TestAssertError(t *testing.T) {
	if r := assertions.NoError(nil); !r.Passed {
		t.Error("NoError(nil) should pass")
	}
	if r := assertions.NoError(errors.New("boom")); r.Passed {
		t.Error("NoError(err) should fail")
	}
	if r := assertions.ErrorContains(errors.New("unsupported format version 2"), "version"); !r.Passed {
		t.Error("ErrorContains should pass")
	}
	if r := assertions.ErrorContains(nil, "version"); r.Passed {
		t.Error("ErrorContains(nil) should fail")
	}
}

func TestAssertJSON(t *testing.T) {
	v, err := tree.Parse([]byte(`{"b":1,"a":[1.0,2]}`))
	if err != nil {
		t.Fatal(err)
	}

	if r := assertions.JSONEqual(`{"a":[1,2],"b":1}`, v); !r.Passed {
		t.Errorf("JSONEqual should ignore member order: %s", r.Message)
	}
	if r := assertions.JSONEqual(`{"a":[1,2]}`, v); r.Passed {
		t.Error("JSONEqual should fail on missing member")
	}
	if r := assertions.JSONEqual(`{`, v); r.Passed {
		t.Error("JSONEqual should fail on invalid expectation")
	}

	if r := assertions.JSONIdentical(`{"b": 1, "a": [1.0, 2]}`, v); !r.Passed {
		t.Errorf("JSONIdentical should pass for same order and literals: %s", r.Message)
	}
	if r := assertions.JSONIdentical(`{"a":[1.0,2],"b":1}`, v); r.Passed {
		t.Error("JSONIdentical should fail on reordered members")
	}
}
