// Package assertions provides the checks used by conformance expectations.
package assertions

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

// Result represents the outcome of an assertion.
type Result struct {
	// Passed indicates if the assertion passed.
	Passed bool

	// Message describes the assertion result.
	Message string

	// Expected is the expected value (for error messages).
	Expected any

	// Actual is the actual value (for error messages).
	Actual any
}

// Pass creates a passing result.
func Pass(message string) *Result {
	return &Result{Passed: true, Message: message}
}

// Fail creates a failing result.
func Fail(message string, expected, actual any) *Result {
	return &Result{
		Passed:   false,
		Message:  message,
		Expected: expected,
		Actual:   actual,
	}
}

// Equal asserts that two values are equal. Numbers of different Go types
// compare by value, so a YAML int matches a computed int64.
func Equal(expected, actual any) *Result {
	ef, eok := toFloat64(expected)
	af, aok := toFloat64(actual)
	if eok && aok {
		if ef == af {
			return Pass(fmt.Sprintf("values are equal: %v", expected))
		}
		return Fail("values are not equal", expected, actual)
	}
	if reflect.DeepEqual(expected, actual) {
		return Pass(fmt.Sprintf("values are equal: %v", expected))
	}
	return Fail("values are not equal", expected, actual)
}

// True asserts that a value is true.
func True(value bool) *Result {
	if value {
		return Pass("value is true")
	}
	return Fail("expected true", true, false)
}

// Contains asserts that a string contains a substring or a string slice
// contains an element.
func Contains(container any, element string) *Result {
	switch c := container.(type) {
	case string:
		if strings.Contains(c, element) {
			return Pass(fmt.Sprintf("string contains %q", element))
		}
		return Fail(fmt.Sprintf("string does not contain %q", element), element, c)
	case []string:
		for _, s := range c {
			if s == element {
				return Pass(fmt.Sprintf("slice contains %q", element))
			}
		}
		return Fail("slice does not contain element", element, c)
	default:
		return Fail("container must be string or []string", "container", fmt.Sprintf("%T", container))
	}
}

// LessThan asserts that a value is less than another.
func LessThan(value, threshold any) *Result {
	vf, vok := toFloat64(value)
	tf, tok := toFloat64(threshold)

	if !vok || !tok {
		return Fail("values must be numeric", "< threshold", value)
	}

	if vf < tf {
		return Pass(fmt.Sprintf("%v < %v", value, threshold))
	}
	return Fail(fmt.Sprintf("%v is not less than %v", value, threshold),
		fmt.Sprintf("< %v", threshold), value)
}

// NoError asserts that an error is nil.
func NoError(err error) *Result {
	if err == nil {
		return Pass("no error")
	}
	return Fail("expected no error", nil, err.Error())
}

// ErrorContains asserts that an error message contains a substring.
func ErrorContains(err error, substr string) *Result {
	if err == nil {
		return Fail("expected an error", "error containing "+substr, nil)
	}
	if strings.Contains(err.Error(), substr) {
		return Pass(fmt.Sprintf("error contains %q", substr))
	}
	return Fail(fmt.Sprintf("error does not contain %q", substr), substr, err.Error())
}

// JSONEqual asserts that actual equals the JSON document expected under
// tree.Equal: member order is ignored, numbers compare by value.
func JSONEqual(expected string, actual tree.Value) *Result {
	want, err := tree.Parse([]byte(expected))
	if err != nil {
		return Fail(fmt.Sprintf("expected value is not JSON: %v", err), expected, actual.String())
	}
	if tree.Equal(want, actual) {
		return Pass("documents are equal")
	}
	return Fail("documents differ", want.String(), actual.String())
}

// JSONIdentical asserts that actual serializes to exactly the compact form
// of expected, member order and number literals included.
func JSONIdentical(expected string, actual tree.Value) *Result {
	want, err := tree.Parse([]byte(expected))
	if err != nil {
		return Fail(fmt.Sprintf("expected value is not JSON: %v", err), expected, actual.String())
	}
	w, g := want.String(), actual.String()
	if w == g {
		return Pass("documents are identical")
	}
	return Fail("documents are not identical", w, g)
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
