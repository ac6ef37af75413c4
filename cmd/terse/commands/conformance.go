package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/timclausendev-web/tersejson-sub001/internal/testharness/engine"
	"github.com/timclausendev-web/tersejson-sub001/internal/testharness/loader"
	"github.com/timclausendev-web/tersejson-sub001/internal/testharness/reporter"
)

// ConformanceOptions configures RunConformance.
type ConformanceOptions struct {
	// Filter selects cases by ID prefix or tag. Empty runs all cases.
	Filter string

	// Format is the report format: text, json or junit.
	Format string

	Verbose     bool
	StopOnFirst bool
}

// RunConformance loads the case files under dir, runs them and writes a
// report to w. It returns an error if any case failed.
func RunConformance(ctx context.Context, dir string, w io.Writer, opts ConformanceOptions) (*engine.SuiteResult, error) {
	rep, err := reporter.New(opts.Format, w, opts.Verbose)
	if err != nil {
		return nil, err
	}

	cases, err := loader.LoadDirectory(dir)
	if err != nil {
		return nil, err
	}
	cases = loader.Filter(cases, opts.Filter)
	if len(cases) == 0 {
		return nil, fmt.Errorf("no conformance cases in %s", dir)
	}

	cfg := engine.DefaultConfig()
	cfg.StopOnFirstFailure = opts.StopOnFirst
	result := engine.NewWithConfig(cfg).RunSuite(ctx, dir, cases)
	rep.ReportSuite(result)

	if result.FailCount > 0 {
		return result, fmt.Errorf("%d of %d conformance cases failed", result.FailCount, len(result.Results))
	}
	return result, nil
}
