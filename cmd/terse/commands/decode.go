package commands

import (
	"fmt"
	"io"

	"github.com/timclausendev-web/tersejson-sub001/pkg/terse"
)

// RunDecode expands a terse document and writes the plain JSON to w.
// Documents that are not envelopes are written unchanged.
func RunDecode(input []byte, w io.Writer, indent bool) error {
	out, err := terse.ExpandJSON(input)
	if err != nil {
		return fmt.Errorf("failed to decode: %w", err)
	}
	return writeJSON(w, trimNewline(out), indent)
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
