// Package engine runs conformance cases against the codec.
package engine

import (
	"context"
	"time"

	"github.com/timclausendev-web/tersejson-sub001/internal/testharness/assertions"
	"github.com/timclausendev-web/tersejson-sub001/internal/testharness/loader"
)

// TestResult contains the result of running a single case.
type TestResult struct {
	// Case is the case that was run.
	Case *loader.Case

	// Passed indicates if all steps passed.
	Passed bool

	// Skipped indicates the case was not run.
	Skipped bool

	// SkipReason explains why the case was skipped.
	SkipReason string

	// Error is the first error encountered (if any).
	Error error

	// StepResults contains results for each step that ran.
	StepResults []*StepResult

	// Duration is the total execution time.
	Duration time.Duration
}

// StepResult contains the result of a single step.
type StepResult struct {
	// Step is the step that was executed.
	Step *loader.Step

	// StepIndex is the 0-based index of the step.
	StepIndex int

	// Passed indicates if all expectations were met.
	Passed bool

	// Error is any error that occurred.
	Error error

	// ExpectResults maps expectation keys to their results.
	ExpectResults map[string]*assertions.Result

	// Output holds the values the action produced.
	Output map[string]any

	// Duration is the step execution time.
	Duration time.Duration
}

// SuiteResult contains results for a set of cases.
type SuiteResult struct {
	// SuiteName identifies the suite, usually the case directory.
	SuiteName string

	// Results for each case.
	Results []*TestResult

	PassCount int
	FailCount int
	SkipCount int

	// Duration is the total time for all cases.
	Duration time.Duration
}

// ActionHandler runs a step action and returns its outputs. Outputs become
// visible to expectations and to later steps of the same case.
//
// A handler reports an expected failure of the codec through the KeyError
// output. A returned error means the step itself could not run.
type ActionHandler func(ctx context.Context, step *loader.Step, state *State) (map[string]any, error)

// ExpectChecker checks one expectation against the current state.
type ExpectChecker func(key string, expected any, state *State) *assertions.Result

// State holds the outputs accumulated by the steps of one case.
type State struct {
	outputs map[string]any
}

// NewState creates an empty state.
func NewState() *State {
	return &State{outputs: make(map[string]any)}
}

// Get retrieves an output.
func (s *State) Get(key string) (any, bool) {
	v, ok := s.outputs[key]
	return v, ok
}

// Set stores an output.
func (s *State) Set(key string, value any) {
	s.outputs[key] = value
}

// Delete removes an output.
func (s *State) Delete(key string) {
	delete(s.outputs, key)
}

// Config configures the engine.
type Config struct {
	// DefaultTimeout bounds a single case.
	DefaultTimeout time.Duration

	// StopOnFirstFailure stops a suite after the first failed case.
	StopOnFirstFailure bool

	// OnTestComplete is called after each case of a suite.
	OnTestComplete func(*TestResult)
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultTimeout: 10 * time.Second,
	}
}
