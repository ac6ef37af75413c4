// Package interactive provides the interactive payload explorer for the
// terse command.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/timclausendev-web/tersejson-sub001/pkg/inspect"
	"github.com/timclausendev-web/tersejson-sub001/pkg/proxy"
	"github.com/timclausendev-web/tersejson-sub001/pkg/terse"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

// Explorer browses a payload through its lazy view. Key names shown and
// accepted are always the original ones.
type Explorer struct {
	root      proxy.Node
	env       *terse.Envelope
	cwd       *inspect.Path
	formatter *inspect.Formatter
	out       io.Writer
}

// New creates an explorer for v. A terse payload is browsed through its
// dictionary; any other document is browsed as is.
func New(v tree.Value, out io.Writer) (*Explorer, error) {
	e := &Explorer{
		cwd:       &inspect.Path{Raw: "."},
		formatter: inspect.NewFormatter(),
		out:       out,
	}

	if terse.IsTersePayload(v) {
		env, err := terse.ParseEnvelope(v)
		if err != nil {
			return nil, err
		}
		e.env = env
		e.root = proxy.New(env)
	} else {
		e.root = proxy.Plain(v)
	}
	return e, nil
}

// Run starts the interactive command loop. It returns when the user quits,
// input ends or ctx is done.
func (e *Explorer) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          e.prompt(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	e.out = rl.Stdout()
	e.printHelp()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return nil
		}
		if quit := e.Exec(line); quit {
			return nil
		}
		rl.SetPrompt(e.prompt())
	}
}

// Exec runs one command line and reports whether the user asked to quit.
func (e *Explorer) Exec(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		e.printHelp()

	case "ls", "l":
		e.cmdList(args)

	case "cd":
		e.cmdCd(args)

	case "pwd":
		fmt.Fprintln(e.out, e.cwd.String())

	case "get", "g":
		e.cmdGet(args)

	case "tree", "t":
		e.cmdTree(args)

	case "dict", "d":
		e.cmdDict()

	case "info":
		e.cmdInfo()

	case "quit", "exit", "q":
		fmt.Fprintln(e.out, "Exiting...")
		return true

	default:
		fmt.Fprintf(e.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (e *Explorer) printHelp() {
	fmt.Fprintln(e.out, `
Terse Explorer Commands:
  Navigation:
    ls [path]    - List members or elements
    cd <path>    - Change the current location (".." goes up, "/" to the root)
    pwd          - Show the current location

  Reading:
    get <path>   - Print a value as JSON
    tree [path]  - Print an outline

  Payload:
    dict         - Show the key dictionary
    info         - Show payload version and size
    help         - Show this help
    quit         - Exit

  Path Format:
    key/index/key - e.g., users/0/address/city (relative to the current location)`)
}

func (e *Explorer) prompt() string {
	return "terse:" + e.cwd.String() + "> "
}

// resolve turns an argument into an absolute path. "/"-prefixed paths start
// at the root, ".." steps up.
func (e *Explorer) resolve(arg string) (*inspect.Path, error) {
	if arg == "" || arg == "." {
		return e.cwd, nil
	}

	base := e.cwd
	if strings.HasPrefix(arg, "/") {
		base = &inspect.Path{Raw: "."}
		arg = strings.TrimPrefix(arg, "/")
		if arg == "" {
			return base, nil
		}
	}

	p := base
	for _, part := range strings.Split(arg, "/") {
		if part == ".." {
			p = p.Parent()
			continue
		}
		rel, err := inspect.ParsePath(part)
		if err != nil {
			return nil, err
		}
		for _, seg := range rel.Segments {
			p = p.Child(seg)
		}
	}
	return p, nil
}

func (e *Explorer) lookup(args []string) (*inspect.Path, proxy.Node, bool) {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	p, err := e.resolve(arg)
	if err != nil {
		fmt.Fprintf(e.out, "Error: %v\n", err)
		return nil, proxy.Node{}, false
	}
	n, err := p.Resolve(e.root)
	if err != nil {
		fmt.Fprintf(e.out, "Error: %v\n", err)
		return nil, proxy.Node{}, false
	}
	return p, n, true
}

func (e *Explorer) cmdList(args []string) {
	_, n, ok := e.lookup(args)
	if !ok {
		return
	}

	switch n.Kind() {
	case tree.KindObject:
		width := 0
		for _, k := range n.Keys() {
			width = max(width, len(k))
		}
		for k, child := range n.Fields() {
			fmt.Fprintf(e.out, "  %-*s  %s\n", width, k, e.formatter.FormatValue(child))
		}
	case tree.KindArray:
		for i, child := range n.Elements() {
			fmt.Fprintf(e.out, "  [%d]  %s\n", i, e.formatter.FormatValue(child))
		}
	default:
		fmt.Fprintln(e.out, n.String())
	}
}

func (e *Explorer) cmdCd(args []string) {
	if len(args) == 0 {
		e.cwd = &inspect.Path{Raw: "."}
		return
	}
	p, n, ok := e.lookup(args)
	if !ok {
		return
	}
	if n.Kind() != tree.KindObject && n.Kind() != tree.KindArray {
		fmt.Fprintf(e.out, "Error: %s is a %s, not an object or array\n", p, n.Kind())
		return
	}
	e.cwd = p
}

func (e *Explorer) cmdGet(args []string) {
	_, n, ok := e.lookup(args)
	if !ok {
		return
	}
	fmt.Fprintln(e.out, n.String())
}

func (e *Explorer) cmdTree(args []string) {
	_, n, ok := e.lookup(args)
	if !ok {
		return
	}
	fmt.Fprint(e.out, e.formatter.FormatTree(n))
}

func (e *Explorer) cmdDict() {
	if e.env == nil {
		fmt.Fprintln(e.out, "Plain JSON: no dictionary")
		return
	}
	if e.env.Dictionary.Len() == 0 {
		fmt.Fprintln(e.out, "Dictionary is empty")
		return
	}
	fmt.Fprint(e.out, inspect.FormatDictionary(e.env.Dictionary))
}

func (e *Explorer) cmdInfo() {
	plain, err := tree.Marshal(e.root.Value())
	if err != nil {
		fmt.Fprintf(e.out, "Error: %v\n", err)
		return
	}
	if e.env == nil {
		fmt.Fprintf(e.out, "Plain JSON, %s\n", inspect.FormatBytes(len(plain)))
		return
	}
	encoded, err := e.env.MarshalJSON()
	if err != nil {
		fmt.Fprintf(e.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(e.out, "Terse payload, version %s, %d keys\n", e.env.Version, e.env.Dictionary.Len())
	fmt.Fprintf(e.out, "Size: %s\n", inspect.FormatSavings(len(plain), len(encoded)))
}
