package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadError describes a failure to load or validate a case file.
type LoadError struct {
	File    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.File, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// ParseCase parses a single case from YAML.
func ParseCase(data []byte) (*Case, error) {
	var c Case
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, &LoadError{Message: "invalid YAML", Cause: err}
	}
	if err := validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadCase loads a case from a file.
func LoadCase(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}

	c, err := ParseCase(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{File: path, Message: "failed to parse", Cause: err}
	}
	c.File = path
	return c, nil
}

// LoadDirectory loads every .yaml and .yml file in dir and its
// subdirectories, sorted by case ID.
func LoadDirectory(dir string) ([]*Case, error) {
	var cases []*Case
	seen := make(map[string]string)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		c, err := LoadCase(path)
		if err != nil {
			return err
		}
		if prev, dup := seen[c.ID]; dup {
			return &LoadError{File: path, Message: fmt.Sprintf("duplicate case id %q (also in %s)", c.ID, prev)}
		}
		seen[c.ID] = path
		cases = append(cases, c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(cases, func(i, j int) bool { return cases[i].ID < cases[j].ID })
	return cases, nil
}

// Filter returns the cases whose ID has the given prefix or that carry the
// given tag. An empty selector returns all cases.
func Filter(cases []*Case, selector string) []*Case {
	if selector == "" {
		return cases
	}
	var out []*Case
	for _, c := range cases {
		if strings.HasPrefix(c.ID, selector) || c.HasTag(selector) {
			out = append(out, c)
		}
	}
	return out
}

func validate(c *Case) error {
	if c.ID == "" {
		return &LoadError{Message: "missing required field: id"}
	}
	if c.Name == "" {
		return &LoadError{Message: "missing required field: name"}
	}
	if len(c.Steps) == 0 {
		return &LoadError{Message: "case must have at least one step"}
	}
	for i, step := range c.Steps {
		if step.Action == "" {
			return &LoadError{Message: fmt.Sprintf("step %d: missing required field: action", i+1)}
		}
	}
	return nil
}
