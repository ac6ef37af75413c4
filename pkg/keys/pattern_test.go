package keys

import (
	"testing"
)

func TestAlpha(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "a"},
		{1, "b"},
		{25, "z"},
		{26, "aa"},
		{27, "ab"},
		{51, "az"},
		{52, "ba"},
		{701, "zz"},
		{702, "aaa"},
	}

	for _, tt := range tests {
		if got := Alpha(tt.index); got != tt.want {
			t.Errorf("Alpha(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestUpper(t *testing.T) {
	if got := Upper(0); got != "A" {
		t.Errorf("Upper(0) = %q, want %q", got, "A")
	}
	if got := Upper(26); got != "AA" {
		t.Errorf("Upper(26) = %q, want %q", got, "AA")
	}
}

func TestAlphanumeric(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "a"},
		{26, "A"},
		{52, "0"},
		{61, "9"},
		{62, "aa"},
	}

	for _, tt := range tests {
		if got := Alphanumeric(tt.index); got != tt.want {
			t.Errorf("Alphanumeric(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestNumericAndPrefixed(t *testing.T) {
	if got := Numeric(12); got != "12" {
		t.Errorf("Numeric(12) = %q, want %q", got, "12")
	}
	p := Prefixed("f")
	if got := p(3); got != "f3" {
		t.Errorf("Prefixed(f)(3) = %q, want %q", got, "f3")
	}
}

func TestPatternsAreInjective(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			p, err := Lookup(name)
			if err != nil {
				t.Fatal(err)
			}
			seen := make(map[string]int)
			for i := 0; i < 5000; i++ {
				c := p(i)
				if c == "" {
					t.Fatalf("%s(%d) returned empty alias", name, i)
				}
				if prev, dup := seen[c]; dup {
					t.Fatalf("%s(%d) = %q duplicates index %d", name, i, c, prev)
				}
				seen[c] = i
			}
		})
	}
}

func TestLookup(t *testing.T) {
	p, err := Lookup("")
	if err != nil {
		t.Fatalf("Lookup(\"\") returned error: %v", err)
	}
	if p(0) != "a" {
		t.Errorf("default pattern starts with %q, want %q", p(0), "a")
	}

	if _, err := Lookup("nope"); err == nil {
		t.Error("Lookup(\"nope\") should return error")
	}
}

func TestNames(t *testing.T) {
	names := Names()
	want := []string{"alpha", "alphanumeric", "numeric", "prefixed", "upper"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
