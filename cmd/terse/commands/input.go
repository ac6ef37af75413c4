// Package commands implements the terse subcommands.
package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"

	gojson "github.com/goccy/go-json"
	"github.com/tidwall/jsonc"

	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

// ReadInput reads a JSON document from path, or from stdin when path is "-"
// or empty. Comments and trailing commas are blanked out, so hand-written
// fixtures may use them; plain JSON passes through byte for byte.
func ReadInput(path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return jsonc.ToJSONInPlace(data), nil
}

// ParseInput reads and parses a JSON document.
func ParseInput(path string) (tree.Value, error) {
	data, err := ReadInput(path)
	if err != nil {
		return tree.Value{}, err
	}
	v, err := tree.Parse(data)
	if err != nil {
		return tree.Value{}, fmt.Errorf("failed to parse %s: %w", displayName(path), err)
	}
	return v, nil
}

// OpenOutput returns a writer for path, or stdout when path is "-" or empty.
// The returned close function is never nil.
func OpenOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

// writeJSON writes data followed by a newline, indented if asked.
func writeJSON(w io.Writer, data []byte, indent bool) error {
	if indent {
		var buf bytes.Buffer
		if err := gojson.Indent(&buf, data, "", "  "); err != nil {
			return err
		}
		data = buf.Bytes()
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func displayName(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	return path
}
