package engine

import (
	"context"
	"fmt"

	"github.com/timclausendev-web/tersejson-sub001/internal/testharness/integrity"
	"github.com/timclausendev-web/tersejson-sub001/internal/testharness/loader"
	"github.com/timclausendev-web/tersejson-sub001/pkg/inspect"
	"github.com/timclausendev-web/tersejson-sub001/pkg/keys"
	"github.com/timclausendev-web/tersejson-sub001/pkg/proxy"
	"github.com/timclausendev-web/tersejson-sub001/pkg/terse"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

func registerHandlers(e *Engine) {
	e.RegisterHandler(ActionEncode, handleEncode)
	e.RegisterHandler(ActionExpand, handleExpand)
	e.RegisterHandler(ActionDetect, handleDetect)
	e.RegisterHandler(ActionValidate, handleValidate)
	e.RegisterHandler(ActionRoundTrip, handleRoundTrip)
	e.RegisterHandler(ActionView, handleView)
}

func handleEncode(ctx context.Context, step *loader.Step, state *State) (map[string]any, error) {
	v, err := inputValue(step, state)
	if err != nil {
		return nil, err
	}
	opts, err := encodeOptions(step.Params)
	if err != nil {
		return nil, err
	}

	env := terse.Encode(v, opts...)
	wire, err := env.MarshalJSON()
	if err != nil {
		return nil, err
	}
	plain, err := tree.Marshal(v)
	if err != nil {
		return nil, err
	}

	aliases := make([]string, 0, env.Dictionary.Len())
	for _, entry := range env.Dictionary.Entries() {
		aliases = append(aliases, entry.Alias)
	}
	return map[string]any{
		KeyOutput:     env.Tree(),
		KeyDictionary: env.Dictionary.Tree(),
		KeyData:       env.Data,
		KeyKeys:       env.Dictionary.Len(),
		KeyAliases:    aliases,
		KeyOriginals:  env.Dictionary.Originals(),
		KeySmaller:    len(wire) < len(plain),
	}, nil
}

func handleExpand(ctx context.Context, step *loader.Step, state *State) (map[string]any, error) {
	v, err := inputValue(step, state)
	if err != nil {
		return nil, err
	}
	out, err := terse.Expand(v)
	if err != nil {
		return map[string]any{KeyError: err}, nil
	}
	return map[string]any{KeyOutput: out.(tree.Value)}, nil
}

func handleDetect(ctx context.Context, step *loader.Step, state *State) (map[string]any, error) {
	v, err := inputValue(step, state)
	if err != nil {
		return nil, err
	}
	return map[string]any{KeyTerse: terse.IsTersePayload(v)}, nil
}

func handleValidate(ctx context.Context, step *loader.Step, state *State) (map[string]any, error) {
	v, err := inputValue(step, state)
	if err != nil {
		return nil, err
	}
	if err := terse.Validate(v); err != nil {
		return map[string]any{KeyError: err}, nil
	}
	return map[string]any{}, nil
}

func handleRoundTrip(ctx context.Context, step *loader.Step, state *State) (map[string]any, error) {
	v, err := inputValue(step, state)
	if err != nil {
		return nil, err
	}
	opts, err := encodeOptions(step.Params)
	if err != nil {
		return nil, err
	}
	report := integrity.VerifyRoundTrip(v, opts...)
	return map[string]any{
		KeyPassed:  report.Passed,
		KeyMessage: report.String(),
	}, nil
}

func handleView(ctx context.Context, step *loader.Step, state *State) (map[string]any, error) {
	v, err := inputValue(step, state)
	if err != nil {
		return nil, err
	}
	root, err := proxy.View(v)
	if err != nil {
		return map[string]any{KeyError: err}, nil
	}

	outputs := make(map[string]any)
	if raw, ok := step.Params[ParamPlain]; ok {
		plain, err := parseParam(ParamPlain, raw)
		if err != nil {
			return nil, err
		}
		report := integrity.VerifyView(plain, root)
		outputs[KeyPassed] = report.Passed
		outputs[KeyMessage] = report.String()
	}

	node := root
	if raw, ok := step.Params[ParamPath]; ok {
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("param %q must be a string", ParamPath)
		}
		p, err := inspect.ParsePath(s)
		if err != nil {
			return nil, err
		}
		node, err = p.Resolve(root)
		if err != nil {
			outputs[KeyError] = err
			return outputs, nil
		}
	}
	outputs[KeyOutput] = node.Value()
	outputs[KeyKind] = node.Kind().String()
	return outputs, nil
}

// inputValue returns the step's input document, falling back to the
// previous step's output so cases can chain encode and expand.
func inputValue(step *loader.Step, state *State) (tree.Value, error) {
	if raw, ok := step.Params[ParamInput]; ok {
		return parseParam(ParamInput, raw)
	}
	if prev, ok := state.Get(KeyOutput); ok {
		if v, ok := prev.(tree.Value); ok {
			return v, nil
		}
	}
	return tree.Value{}, fmt.Errorf("missing param %q and no previous output", ParamInput)
}

// parseParam parses a JSON document given as a YAML string. YAML mappings
// are rejected because they do not keep member order.
func parseParam(name string, raw any) (tree.Value, error) {
	s, ok := raw.(string)
	if !ok {
		return tree.Value{}, fmt.Errorf("param %q must be a JSON string, got %T", name, raw)
	}
	v, err := tree.Parse([]byte(s))
	if err != nil {
		return tree.Value{}, fmt.Errorf("param %q: %w", name, err)
	}
	return v, nil
}

func encodeOptions(params map[string]any) ([]terse.Option, error) {
	var opts []terse.Option
	if raw, ok := params[ParamPattern]; ok {
		name, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("param %q must be a string", ParamPattern)
		}
		p, err := keys.Lookup(name)
		if err != nil {
			return nil, err
		}
		opts = append(opts, terse.WithPattern(p))
	}
	if raw, ok := params[ParamMinKeyLength]; ok {
		n, ok := raw.(int)
		if !ok {
			return nil, fmt.Errorf("param %q must be an integer", ParamMinKeyLength)
		}
		opts = append(opts, terse.WithMinKeyLength(n))
	}
	return opts, nil
}
