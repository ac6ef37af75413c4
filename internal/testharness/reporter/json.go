package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	gojson "github.com/goccy/go-json"

	"github.com/timclausendev-web/tersejson-sub001/internal/testharness/engine"
	"github.com/timclausendev-web/tersejson-sub001/pkg/inspect"
	"github.com/timclausendev-web/tersejson-sub001/pkg/proxy"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

// JSONReporter writes results as JSON documents, indented when pretty.
type JSONReporter struct {
	writer io.Writer
	pretty bool
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer, pretty bool) *JSONReporter {
	return &JSONReporter{
		writer: w,
		pretty: pretty,
	}
}

// JSONSuiteResult is the JSON form of a suite run.
type JSONSuiteResult struct {
	Suite    string           `json:"suite"`
	Duration string           `json:"duration"`
	Counts   JSONCounts       `json:"counts"`
	Cases    []JSONCaseResult `json:"cases"`
}

// JSONCounts tallies case outcomes. PassRate is omitted when no case ran.
type JSONCounts struct {
	Total    int      `json:"total"`
	Passed   int      `json:"passed"`
	Failed   int      `json:"failed"`
	Skipped  int      `json:"skipped"`
	PassRate *float64 `json:"pass_rate,omitempty"`
}

// JSONCaseResult is the JSON form of one case.
type JSONCaseResult struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Status     string           `json:"status"`
	Duration   string           `json:"duration"`
	Error      string           `json:"error,omitempty"`
	SkipReason string           `json:"skip_reason,omitempty"`
	Steps      []JSONStepResult `json:"steps,omitempty"`
}

// JSONStepResult is the JSON form of one step. Tree outputs are written as
// the JSON they hold, member order included, and Summaries describes each
// of them in a few words.
type JSONStepResult struct {
	Step      int               `json:"step"`
	Action    string            `json:"action"`
	Status    string            `json:"status"`
	Duration  string            `json:"duration"`
	Error     string            `json:"error,omitempty"`
	Checked   int               `json:"checked"`
	Failures  []JSONExpectation `json:"failures,omitempty"`
	Outputs   map[string]any    `json:"outputs,omitempty"`
	Summaries map[string]string `json:"summaries,omitempty"`
	Savings   string            `json:"savings,omitempty"`
}

// JSONExpectation is a failed expectation.
type JSONExpectation struct {
	Key      string `json:"key"`
	Message  string `json:"message"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// ReportSuite reports suite results in JSON format.
func (r *JSONReporter) ReportSuite(result *engine.SuiteResult) {
	jr := JSONSuiteResult{
		Suite:    result.SuiteName,
		Duration: result.Duration.Round(time.Millisecond).String(),
		Counts: JSONCounts{
			Total:   len(result.Results),
			Passed:  result.PassCount,
			Failed:  result.FailCount,
			Skipped: result.SkipCount,
		},
		Cases: make([]JSONCaseResult, 0, len(result.Results)),
	}
	if rate, ok := passRate(result); ok {
		jr.Counts.PassRate = &rate
	}
	for _, tr := range result.Results {
		jr.Cases = append(jr.Cases, caseToJSON(tr))
	}
	r.write(jr)
}

// ReportTest reports a single case result in JSON format.
func (r *JSONReporter) ReportTest(result *engine.TestResult) {
	r.write(caseToJSON(result))
}

func caseToJSON(result *engine.TestResult) JSONCaseResult {
	jc := JSONCaseResult{
		ID:         result.Case.ID,
		Name:       result.Case.Name,
		Status:     status(result),
		Duration:   result.Duration.Round(time.Millisecond).String(),
		SkipReason: result.SkipReason,
	}
	if result.Error != nil {
		jc.Error = result.Error.Error()
	}
	for _, sr := range result.StepResults {
		jc.Steps = append(jc.Steps, stepToJSON(sr))
	}
	return jc
}

func stepToJSON(sr *engine.StepResult) JSONStepResult {
	js := JSONStepResult{
		Step:     sr.StepIndex + 1,
		Action:   sr.Step.Action,
		Status:   stepStatus(sr),
		Duration: sr.Duration.Round(time.Millisecond).String(),
		Checked:  len(sr.ExpectResults),
	}
	if sr.Error != nil {
		js.Error = sr.Error.Error()
	}

	for _, key := range sortedKeys(sr.ExpectResults) {
		er := sr.ExpectResults[key]
		if er.Passed {
			continue
		}
		js.Failures = append(js.Failures, JSONExpectation{
			Key:      key,
			Message:  er.Message,
			Expected: describe(er.Expected),
			Actual:   describe(er.Actual),
		})
	}

	if len(sr.Output) > 0 {
		js.Outputs = make(map[string]any, len(sr.Output))
	}
	for key, v := range sr.Output {
		switch val := v.(type) {
		case tree.Value:
			data, err := tree.Marshal(val)
			if err != nil {
				js.Outputs[key] = describe(val)
				continue
			}
			js.Outputs[key] = json.RawMessage(data)
			if js.Summaries == nil {
				js.Summaries = make(map[string]string)
			}
			js.Summaries[key] = inspect.Summary(proxy.Plain(val))
		case error:
			// Errors carry no exported fields and would encode as {}.
			js.Outputs[key] = val.Error()
		default:
			js.Outputs[key] = v
		}
	}
	if savings, ok := savingsOf(sr.Output[engine.KeyOutput]); ok {
		js.Savings = savings
	}
	return js
}

func (r *JSONReporter) write(v any) {
	var data []byte
	var err error
	if r.pretty {
		data, err = gojson.MarshalIndent(v, "", "  ")
	} else {
		data, err = gojson.Marshal(v)
	}
	if err != nil {
		fmt.Fprintf(r.writer, `{"error": "failed to marshal: %s"}`+"\n", err)
		return
	}
	fmt.Fprintln(r.writer, string(data))
}
