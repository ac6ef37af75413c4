// Package reporter formats conformance results.
package reporter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/timclausendev-web/tersejson-sub001/internal/testharness/engine"
	"github.com/timclausendev-web/tersejson-sub001/pkg/inspect"
	"github.com/timclausendev-web/tersejson-sub001/pkg/proxy"
	"github.com/timclausendev-web/tersejson-sub001/pkg/terse"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

// Reporter formats and outputs conformance results.
type Reporter interface {
	// ReportSuite reports results for a suite.
	ReportSuite(result *engine.SuiteResult)

	// ReportTest reports results for a single case.
	ReportTest(result *engine.TestResult)
}

// New returns the reporter for format: "text", "json" or "junit".
func New(format string, w io.Writer, verbose bool) (Reporter, error) {
	switch format {
	case "", "text":
		return NewTextReporter(w, verbose), nil
	case "json":
		return NewJSONReporter(w, verbose), nil
	case "junit":
		return NewJUnitReporter(w), nil
	default:
		return nil, fmt.Errorf("unknown report format %q (want text, json or junit)", format)
	}
}

// maxInline bounds the JSON text shown next to a container summary.
const maxInline = 72

// describe renders an output or expectation value on one line. Containers
// get a summary followed by their clipped JSON text.
func describe(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case tree.Value:
		n := proxy.Plain(val)
		switch val.Kind() {
		case tree.KindObject, tree.KindArray:
			return inspect.Summary(n) + " " + clip(n.String())
		default:
			return n.String()
		}
	case error:
		return val.Error()
	case []string:
		return "[" + strings.Join(val, ", ") + "]"
	default:
		return fmt.Sprint(val)
	}
}

func clip(s string) string {
	r := []rune(s)
	if len(r) <= maxInline {
		return s
	}
	return string(r[:maxInline-3]) + "..."
}

// dictionaryOf reads a dictionary output back into a Dictionary.
func dictionaryOf(v any) (*terse.Dictionary, bool) {
	dv, ok := v.(tree.Value)
	if !ok || dv.Kind() != tree.KindObject {
		return nil, false
	}
	entries := make([]terse.Entry, 0, dv.Len())
	for _, m := range dv.Members() {
		original, ok := m.Value.Str()
		if !ok {
			return nil, false
		}
		entries = append(entries, terse.Entry{Alias: m.Key, Original: original})
	}
	d, err := terse.NewDictionary(entries...)
	return d, err == nil
}

// savingsOf compares the wire size of an envelope output with the size of
// the document it decodes to.
func savingsOf(v any) (string, bool) {
	out, ok := v.(tree.Value)
	if !ok || !terse.IsTersePayload(out) {
		return "", false
	}
	env, err := terse.ParseEnvelope(out)
	if err != nil {
		return "", false
	}
	plain, err := tree.Marshal(terse.Decode(env))
	if err != nil {
		return "", false
	}
	wire, err := tree.Marshal(out)
	if err != nil {
		return "", false
	}
	return inspect.FormatSavings(len(plain), len(wire)), true
}

func status(result *engine.TestResult) string {
	switch {
	case result.Skipped:
		return "skipped"
	case result.Passed:
		return "passed"
	default:
		return "failed"
	}
}

func stepStatus(sr *engine.StepResult) string {
	if sr.Passed {
		return "ok"
	}
	return "failed"
}

// passRate is the share of run cases that passed. Skipped cases do not
// count.
func passRate(result *engine.SuiteResult) (float64, bool) {
	run := result.PassCount + result.FailCount
	if run == 0 {
		return 0, false
	}
	return float64(result.PassCount) / float64(run) * 100, true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
