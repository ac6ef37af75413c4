package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/timclausendev-web/tersejson-sub001/pkg/terse"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

// ErrNotTerse is returned by RunValidate for documents without an envelope.
var ErrNotTerse = errors.New("not a terse payload")

// RunValidate checks v strictly: the envelope must be well formed, the
// version supported, and expansion must not produce duplicate keys.
func RunValidate(v tree.Value, w io.Writer) error {
	if !terse.IsTersePayload(v) {
		return ErrNotTerse
	}
	if err := terse.Validate(v); err != nil {
		return err
	}

	env, err := terse.ParseEnvelope(v)
	if err != nil {
		return err
	}
	stats := tree.Count(env.Data)
	fmt.Fprintf(w, "valid: version %s, %d keys, %d objects\n", env.Version, env.Dictionary.Len(), stats.Objects)
	return nil
}
