package reporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/timclausendev-web/tersejson-sub001/internal/testharness/engine"
	"github.com/timclausendev-web/tersejson-sub001/pkg/inspect"
)

// TextReporter writes one line per case. In verbose mode every step is
// listed with its expectations and outputs.
type TextReporter struct {
	writer  io.Writer
	verbose bool
	layout  *inspect.Formatter
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(w io.Writer, verbose bool) *TextReporter {
	return &TextReporter{
		writer:  w,
		verbose: verbose,
		layout:  inspect.NewFormatter(),
	}
}

// ReportSuite reports suite results in text format.
func (r *TextReporter) ReportSuite(result *engine.SuiteResult) {
	fmt.Fprintf(r.writer, "suite %s (%d cases, %s)\n",
		result.SuiteName, len(result.Results), result.Duration.Round(time.Millisecond))

	for _, tr := range result.Results {
		r.ReportTest(tr)
	}

	tally := fmt.Sprintf("%d cases: %d passed, %d failed, %d skipped",
		len(result.Results), result.PassCount, result.FailCount, result.SkipCount)
	if rate, ok := passRate(result); ok {
		tally += fmt.Sprintf(", %.1f%% pass rate", rate)
	}
	fmt.Fprintf(r.writer, "\n%s\n", tally)
}

// ReportTest reports a single case result in text format.
func (r *TextReporter) ReportTest(result *engine.TestResult) {
	c := result.Case
	fmt.Fprintf(r.writer, "%s %s %s (%s)\n",
		strings.ToUpper(status(result)[:4]), c.ID, c.Name, result.Duration.Round(time.Millisecond))

	if result.Skipped && result.SkipReason != "" {
		r.line(1, "skipped: "+result.SkipReason)
	}
	if !result.Passed && result.Error != nil {
		r.line(1, "error: "+result.Error.Error())
	}

	if r.verbose {
		for _, sr := range result.StepResults {
			r.writeStep(sr)
		}
	}
}

func (r *TextReporter) writeStep(sr *engine.StepResult) {
	r.line(1, fmt.Sprintf("step %d %s: %s (%s)",
		sr.StepIndex+1, sr.Step.Action, stepStatus(sr), sr.Duration.Round(time.Millisecond)))
	if sr.Error != nil {
		r.line(2, "error: "+sr.Error.Error())
	}

	for _, key := range sortedKeys(sr.ExpectResults) {
		er := sr.ExpectResults[key]
		if er.Passed {
			r.line(2, fmt.Sprintf("ok %s: %s", key, er.Message))
			continue
		}
		r.line(2, fmt.Sprintf("FAILED %s: %s", key, er.Message))
		if er.Expected != nil || er.Actual != nil {
			r.line(3, "want "+describe(er.Expected))
			r.line(3, "got  "+describe(er.Actual))
		}
	}

	for _, key := range sortedKeys(sr.Output) {
		v := sr.Output[key]
		if key == engine.KeyDictionary {
			if d, ok := dictionaryOf(v); ok {
				r.line(2, "dictionary:")
				r.block(3, inspect.FormatDictionary(d))
				continue
			}
		}
		r.line(2, key+" = "+describe(v))
		if key == engine.KeyOutput {
			if savings, ok := savingsOf(v); ok {
				r.line(2, "size: "+savings)
			}
		}
	}
}

func (r *TextReporter) line(depth int, s string) {
	fmt.Fprintln(r.writer, r.layout.Indent(depth, s))
}

func (r *TextReporter) block(depth int, s string) {
	for _, l := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		r.line(depth, l)
	}
}
