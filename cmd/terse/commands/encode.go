package commands

import (
	"fmt"
	"io"

	"github.com/timclausendev-web/tersejson-sub001/pkg/terse"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

// EncodeOptions configures RunEncode.
type EncodeOptions struct {
	// Terse are the encoder options (pattern, minimum key length).
	Terse []terse.Option

	// Indent pretty-prints the envelope.
	Indent bool
}

// EncodeResult summarizes one encoding.
type EncodeResult struct {
	PlainBytes   int
	EncodedBytes int
	Keys         int
}

// RunEncode wraps a JSON document in an envelope and writes it to w.
// Sizes are measured on the compact forms, whatever Indent says.
func RunEncode(v tree.Value, w io.Writer, opts EncodeOptions) (*EncodeResult, error) {
	plain, err := tree.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize input: %w", err)
	}

	env := terse.Encode(v, opts.Terse...)
	out, err := env.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize envelope: %w", err)
	}
	if err := writeJSON(w, out, opts.Indent); err != nil {
		return nil, err
	}

	return &EncodeResult{
		PlainBytes:   len(plain),
		EncodedBytes: len(out),
		Keys:         env.Dictionary.Len(),
	}, nil
}
