package reporter

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/timclausendev-web/tersejson-sub001/internal/testharness/engine"
)

// JUnitReporter outputs JUnit XML for CI integration.
type JUnitReporter struct {
	writer io.Writer
}

// NewJUnitReporter creates a new JUnit reporter.
func NewJUnitReporter(w io.Writer) *JUnitReporter {
	return &JUnitReporter{writer: w}
}

type junitSuite struct {
	XMLName  xml.Name    `xml:"testsuite"`
	Name     string      `xml:"name,attr"`
	Tests    int         `xml:"tests,attr"`
	Failures int         `xml:"failures,attr"`
	Skipped  int         `xml:"skipped,attr"`
	Time     string      `xml:"time,attr"`
	Cases    []junitCase `xml:"testcase"`
}

type junitCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Skipped   *junitMessage `xml:"skipped"`
	Failure   *junitFailure `xml:"failure"`
	SystemOut string        `xml:"system-out,omitempty"`
}

type junitMessage struct {
	Message string `xml:"message,attr"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Detail  string `xml:",cdata"`
}

// ReportSuite reports suite results in JUnit XML format.
func (r *JUnitReporter) ReportSuite(result *engine.SuiteResult) {
	suite := junitSuite{
		Name:     result.SuiteName,
		Tests:    len(result.Results),
		Failures: result.FailCount,
		Skipped:  result.SkipCount,
		Time:     seconds(result.Duration),
	}
	for _, tr := range result.Results {
		suite.Cases = append(suite.Cases, caseToJUnit(tr))
	}

	data, err := xml.MarshalIndent(suite, "", "  ")
	if err != nil {
		fmt.Fprintf(r.writer, "<!-- failed to marshal: %v -->\n", err)
		return
	}
	fmt.Fprintf(r.writer, "%s%s\n", xml.Header, data)
}

// ReportTest reports a single case as a suite of one.
func (r *JUnitReporter) ReportTest(result *engine.TestResult) {
	suite := &engine.SuiteResult{
		SuiteName: result.Case.ID,
		Results:   []*engine.TestResult{result},
		Duration:  result.Duration,
	}
	switch status(result) {
	case "skipped":
		suite.SkipCount = 1
	case "passed":
		suite.PassCount = 1
	default:
		suite.FailCount = 1
	}
	r.ReportSuite(suite)
}

// caseToJUnit lists failed expectations in the failure body and the
// size savings of encode steps on system-out.
func caseToJUnit(tr *engine.TestResult) junitCase {
	jc := junitCase{
		Name:      tr.Case.Name,
		ClassName: tr.Case.ID,
		Time:      seconds(tr.Duration),
	}
	if tr.Skipped {
		jc.Skipped = &junitMessage{Message: tr.SkipReason}
		return jc
	}

	var detail, out strings.Builder
	for _, sr := range tr.StepResults {
		prefix := fmt.Sprintf("step %d %s", sr.StepIndex+1, sr.Step.Action)
		if savings, ok := savingsOf(sr.Output[engine.KeyOutput]); ok {
			fmt.Fprintf(&out, "%s: %s\n", prefix, savings)
		}
		if sr.Passed {
			continue
		}
		if sr.Error != nil {
			fmt.Fprintf(&detail, "%s: %v\n", prefix, sr.Error)
		}
		for _, key := range sortedKeys(sr.ExpectResults) {
			if er := sr.ExpectResults[key]; !er.Passed {
				fmt.Fprintf(&detail, "%s: %s: want %s, got %s\n",
					prefix, key, describe(er.Expected), describe(er.Actual))
			}
		}
	}
	jc.SystemOut = out.String()

	if !tr.Passed {
		msg := "case failed"
		if tr.Error != nil {
			msg = tr.Error.Error()
		}
		jc.Failure = &junitFailure{Message: msg, Detail: detail.String()}
	}
	return jc
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
