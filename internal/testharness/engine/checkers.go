package engine

import (
	"errors"
	"fmt"

	"github.com/timclausendev-web/tersejson-sub001/internal/testharness/assertions"
	"github.com/timclausendev-web/tersejson-sub001/pkg/terse"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

func registerCheckers(e *Engine) {
	for _, key := range []string{KeyOutput, KeyDictionary, KeyData} {
		e.RegisterChecker(key, checkJSON)
	}
	e.RegisterChecker(KeyOutputIdentical, checkIdentical)
	e.RegisterChecker(KeyError, checkError)
	e.RegisterChecker(KeyErrorIs, checkErrorIs)
}

// defaultChecker compares the output stored under key with expected.
func defaultChecker(key string, expected any, state *State) *assertions.Result {
	actual, exists := state.Get(key)
	if !exists {
		return assertions.Fail(fmt.Sprintf("no output %q", key), expected, nil)
	}
	return assertions.Equal(normalize(expected), actual)
}

// checkJSON compares a tree output with a JSON document, ignoring member
// order.
func checkJSON(key string, expected any, state *State) *assertions.Result {
	want, ok := expected.(string)
	if !ok {
		return assertions.Fail("expectation must be a JSON string", "string", fmt.Sprintf("%T", expected))
	}
	actual, ok := treeOutput(state, key)
	if !ok {
		return assertions.Fail(fmt.Sprintf("no output %q", key), want, nil)
	}
	return assertions.JSONEqual(want, actual)
}

func checkIdentical(key string, expected any, state *State) *assertions.Result {
	want, ok := expected.(string)
	if !ok {
		return assertions.Fail("expectation must be a JSON string", "string", fmt.Sprintf("%T", expected))
	}
	actual, ok := treeOutput(state, KeyOutput)
	if !ok {
		return assertions.Fail("no output", want, nil)
	}
	return assertions.JSONIdentical(want, actual)
}

// checkError accepts true (any error), false or "" (no error) and a
// substring of the expected message.
func checkError(key string, expected any, state *State) *assertions.Result {
	actual, _ := state.Get(KeyError)
	err, _ := actual.(error)

	switch want := expected.(type) {
	case bool:
		if want {
			if err == nil {
				return assertions.Fail("expected an error", "error", nil)
			}
			return assertions.Pass(fmt.Sprintf("error: %v", err))
		}
		return assertions.NoError(err)
	case string:
		if want == "" {
			return assertions.NoError(err)
		}
		return assertions.ErrorContains(err, want)
	default:
		return assertions.Fail("expectation must be a bool or string", "bool or string", fmt.Sprintf("%T", expected))
	}
}

func checkErrorIs(key string, expected any, state *State) *assertions.Result {
	actual, _ := state.Get(KeyError)
	err, _ := actual.(error)

	var target error
	switch expected {
	case "malformed":
		target = terse.ErrMalformed
	case "unsupported_version":
		target = terse.ErrUnsupportedVersion
	default:
		return assertions.Fail("unknown error category", "malformed or unsupported_version", expected)
	}
	if errors.Is(err, target) {
		return assertions.Pass(fmt.Sprintf("error is %v", expected))
	}
	return assertions.Fail("error category mismatch", target.Error(), fmt.Sprint(err))
}

func treeOutput(state *State, key string) (tree.Value, bool) {
	v, ok := state.Get(key)
	if !ok {
		return tree.Value{}, false
	}
	tv, ok := v.(tree.Value)
	return tv, ok
}

// normalize turns YAML sequences of strings into []string so they compare
// with string slice outputs.
func normalize(v any) any {
	seq, ok := v.([]any)
	if !ok {
		return v
	}
	out := make([]string, 0, len(seq))
	for _, item := range seq {
		s, ok := item.(string)
		if !ok {
			return v
		}
		out = append(out, s)
	}
	return out
}
