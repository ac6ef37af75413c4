package commands

import (
	"fmt"
	"io"

	"github.com/timclausendev-web/tersejson-sub001/pkg/inspect"
	"github.com/timclausendev-web/tersejson-sub001/pkg/metrics"
	"github.com/timclausendev-web/tersejson-sub001/pkg/proxy"
	"github.com/timclausendev-web/tersejson-sub001/pkg/terse"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

// RunDetect reports whether v is a terse payload and describes it.
func RunDetect(v tree.Value, w io.Writer) (bool, error) {
	if !terse.IsTersePayload(v) {
		fmt.Fprintf(w, "plain JSON: %s\n", inspect.Summary(proxy.Plain(v)))
		return false, nil
	}

	env, err := terse.ParseEnvelope(v)
	if err != nil {
		return true, err
	}
	fmt.Fprintf(w, "terse payload: version %s, %d keys\n", env.Version, env.Dictionary.Len())
	fmt.Fprintf(w, "  data:  %s\n", inspect.Summary(proxy.Plain(env.Data)))
	if env.Dictionary.Len() > 0 {
		fmt.Fprintf(w, "  shape: %s\n", metrics.ShapeHash(env.Dictionary))
	}
	return true, nil
}
