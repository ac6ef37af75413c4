// Package loader reads conformance cases from YAML files.
package loader

// Case is one conformance scenario: a sequence of codec steps run against
// inputs given inline in the file.
type Case struct {
	// ID uniquely identifies the case, e.g. "TC-ENC-001".
	ID string `yaml:"id"`

	// Name is a short human-readable title.
	Name string `yaml:"name"`

	// Description explains what the case covers.
	Description string `yaml:"description,omitempty"`

	// Tags group related cases for filtering.
	Tags []string `yaml:"tags,omitempty"`

	// Skip excludes the case from a run.
	Skip bool `yaml:"skip,omitempty"`

	// SkipReason is reported for skipped cases.
	SkipReason string `yaml:"skip_reason,omitempty"`

	// Steps run in order. A failed step ends the case.
	Steps []Step `yaml:"steps"`

	// File is the file the case was loaded from. Not part of the YAML.
	File string `yaml:"-"`
}

// Step is a single action within a case.
type Step struct {
	// Action names the handler to run, e.g. "encode" or "expand".
	Action string `yaml:"action"`

	// Params are passed to the handler.
	Params map[string]any `yaml:"params,omitempty"`

	// Expect maps output keys to their expected values.
	Expect map[string]any `yaml:"expect,omitempty"`

	// Description explains the step.
	Description string `yaml:"description,omitempty"`
}

// HasTag reports whether the case carries tag.
func (c *Case) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
