package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/timclausendev-web/tersejson-sub001/internal/testharness/assertions"
	"github.com/timclausendev-web/tersejson-sub001/internal/testharness/loader"
)

// Engine executes conformance cases.
type Engine struct {
	config   *Config
	handlers map[string]ActionHandler
	checkers map[string]ExpectChecker
	mu       sync.RWMutex
}

// New creates an engine with the default configuration and the built-in
// codec actions registered.
func New() *Engine {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates an engine with the given configuration.
func NewWithConfig(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}

	e := &Engine{
		config:   config,
		handlers: make(map[string]ActionHandler),
		checkers: make(map[string]ExpectChecker),
	}
	registerHandlers(e)
	registerCheckers(e)
	return e
}

// RegisterHandler registers an action handler, replacing any existing one.
func (e *Engine) RegisterHandler(action string, handler ActionHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[action] = handler
}

// RegisterChecker registers an expectation checker.
func (e *Engine) RegisterChecker(key string, checker ExpectChecker) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.checkers[key] = checker
}

// Run executes a single case.
func (e *Engine) Run(ctx context.Context, c *loader.Case) *TestResult {
	result := &TestResult{Case: c}
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	if c.Skip {
		result.Skipped = true
		result.SkipReason = c.SkipReason
		if result.SkipReason == "" {
			result.SkipReason = "skipped by case definition"
		}
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.DefaultTimeout)
	defer cancel()

	state := NewState()
	result.Passed = true
	for i := range c.Steps {
		if err := ctx.Err(); err != nil {
			result.Passed = false
			result.Error = fmt.Errorf("step %d: %w", i+1, err)
			break
		}

		sr := e.executeStep(ctx, &c.Steps[i], i, state)
		result.StepResults = append(result.StepResults, sr)
		if !sr.Passed {
			result.Passed = false
			result.Error = sr.Error
			break
		}
	}
	return result
}

func (e *Engine) executeStep(ctx context.Context, step *loader.Step, index int, state *State) *StepResult {
	result := &StepResult{
		Step:          step,
		StepIndex:     index,
		ExpectResults: make(map[string]*assertions.Result),
		Output:        make(map[string]any),
	}
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	e.mu.RLock()
	handler, exists := e.handlers[step.Action]
	e.mu.RUnlock()
	if !exists {
		result.Error = fmt.Errorf("unknown action: %s", step.Action)
		return result
	}

	state.Delete(KeyError)
	outputs, err := handler(ctx, step, state)
	if err != nil {
		result.Error = fmt.Errorf("%s: %w", step.Action, err)
		return result
	}
	for k, v := range outputs {
		state.Set(k, v)
		result.Output[k] = v
	}

	// A codec error nobody expected fails the step.
	if err, _ := outputs[KeyError].(error); err != nil {
		_, want := step.Expect[KeyError]
		_, wantIs := step.Expect[KeyErrorIs]
		if !want && !wantIs {
			result.Error = fmt.Errorf("%s: %w", step.Action, err)
			return result
		}
	}

	result.Passed = true
	for _, key := range sortedKeys(step.Expect) {
		er := e.checkExpectation(key, step.Expect[key], state)
		result.ExpectResults[key] = er
		if !er.Passed && result.Passed {
			result.Passed = false
			result.Error = &ExpectationError{Key: key, Result: er}
		}
	}
	return result
}

func (e *Engine) checkExpectation(key string, expected any, state *State) *assertions.Result {
	e.mu.RLock()
	checker, exists := e.checkers[key]
	e.mu.RUnlock()
	if !exists {
		checker = defaultChecker
	}
	return checker(key, expected, state)
}

// RunSuite executes cases in order.
func (e *Engine) RunSuite(ctx context.Context, name string, cases []*loader.Case) *SuiteResult {
	result := &SuiteResult{SuiteName: name}
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	for _, c := range cases {
		if ctx.Err() != nil {
			return result
		}

		tr := e.Run(ctx, c)
		result.Results = append(result.Results, tr)

		switch {
		case tr.Skipped:
			result.SkipCount++
		case tr.Passed:
			result.PassCount++
		default:
			result.FailCount++
		}

		if e.config.OnTestComplete != nil {
			e.config.OnTestComplete(tr)
		}
		if !tr.Passed && !tr.Skipped && e.config.StopOnFirstFailure {
			break
		}
	}
	return result
}

// ExpectationError reports a failed expectation.
type ExpectationError struct {
	Key    string
	Result *assertions.Result
}

func (e *ExpectationError) Error() string {
	if e.Result.Expected == nil && e.Result.Actual == nil {
		return fmt.Sprintf("expectation %s failed: %s", e.Key, e.Result.Message)
	}
	return fmt.Sprintf("expectation %s failed: %s (expected %v, got %v)",
		e.Key, e.Result.Message, e.Result.Expected, e.Result.Actual)
}

// IsExpectationFailure reports whether err came from a failed expectation
// rather than from running the action.
func IsExpectationFailure(err error) bool {
	var ee *ExpectationError
	return errors.As(err, &ee)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
