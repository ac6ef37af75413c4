// Command terse encodes, decodes and analyzes TerseJSON payloads.
//
// Usage:
//
//	terse <command> [flags] [file]
//
// Commands:
//
//	encode    Wrap a JSON document in a terse envelope
//	decode    Expand a terse envelope back to plain JSON
//	detect    Report whether a document is a terse payload
//	validate  Strictly check a terse envelope
//	bench     Compare plain, terse and compressed sizes
//	stats     Summarize a metrics event file
//	inspect   Browse a payload interactively
//	conformance  Run YAML conformance cases against the codec
//
// Examples:
//
//	# Encode with upper-case aliases
//	terse encode --pattern upper users.json > users.terse.json
//
//	# Decode from stdin
//	curl -H 'Accept-Terse: 1' localhost:8080/api/users | terse decode --indent
//
//	# Measure a directory of fixtures, four at a time
//	terse bench -j 4 testdata/*.json
//
//	# Show savings of one endpoint over the last hour
//	terse stats --endpoint /api/users --since 2026-01-28T10:00:00Z api.tlog
//
//	# Run the decode cases with a JUnit report
//	terse conformance --filter decode --format junit testdata/conformance
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/timclausendev-web/tersejson-sub001/cmd/terse/commands"
	"github.com/timclausendev-web/tersejson-sub001/cmd/terse/interactive"
	"github.com/timclausendev-web/tersejson-sub001/pkg/config"
	"github.com/timclausendev-web/tersejson-sub001/pkg/inspect"
	"github.com/timclausendev-web/tersejson-sub001/pkg/keys"
	"github.com/timclausendev-web/tersejson-sub001/pkg/terse"
	"github.com/timclausendev-web/tersejson-sub001/pkg/version"
)

const usage = `terse - TerseJSON payload tool

Usage:
  terse <command> [flags] [file]

Commands:
  encode    Wrap a JSON document in a terse envelope
  decode    Expand a terse envelope back to plain JSON
  detect    Report whether a document is a terse payload
  validate  Strictly check a terse envelope
  bench     Compare plain, terse and compressed sizes
  stats     Summarize a metrics event file
  inspect   Browse a payload interactively
  conformance  Run YAML conformance cases against the codec

Files default to stdin. Use "terse <command> --help" for more information
about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "encode":
		runEncode(args)
	case "decode":
		runDecode(args)
	case "detect":
		runDetect(args)
	case "validate":
		runValidate(args)
	case "bench":
		runBench(args)
	case "stats":
		runStats(args)
	case "inspect":
		runInspect(args)
	case "conformance":
		runConformance(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// newFlagSet returns a flag set whose usage text starts with the given
// synopsis.
func newFlagSet(name, synopsis string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, synopsis)
		fmt.Fprintln(os.Stderr, "\nFlags:")
		fs.PrintDefaults()
	}
	return fs
}

// encoderFlags are shared by encode and bench.
type encoderFlags struct {
	configPath   string
	pattern      string
	minKeyLength int
}

func (f *encoderFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.configPath, "config", "c", "", "load settings from a YAML or JSONC file")
	fs.StringVarP(&f.pattern, "pattern", "p", "", fmt.Sprintf("alias pattern %v (default %q)", keys.Names(), keys.DefaultName))
	fs.IntVar(&f.minKeyLength, "min-key-length", 0, "shortest key that gets an alias (default 2)")
}

// options merges the config file, if any, with explicitly set flags.
func (f *encoderFlags) options() ([]terse.Option, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, err
		}
	}
	if f.pattern != "" {
		cfg.Pattern = f.pattern
	}
	if f.minKeyLength != 0 {
		cfg.MinKeyLength = f.minKeyLength
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg.EncodeOptions()
}

// parseExitCode maps a flag parse error to the process exit status. The flag
// set has already reported the error and usage by then.
func parseExitCode(err error) int {
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	return 2
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runEncode(args []string) {
	fs := newFlagSet("encode", `terse encode - Wrap a JSON document in a terse envelope

Usage:
  terse encode [flags] [file]
`)
	var ef encoderFlags
	ef.register(fs)
	output := fs.StringP("output", "o", "", "output file (default: stdout)")
	indent := fs.Bool("indent", false, "pretty-print the envelope")
	quiet := fs.BoolP("quiet", "q", false, "do not print the size summary to stderr")
	if err := fs.Parse(args); err != nil {
		os.Exit(parseExitCode(err))
	}

	opts, err := ef.options()
	if err != nil {
		fail(err)
	}
	v, err := commands.ParseInput(fs.Arg(0))
	if err != nil {
		fail(err)
	}

	w, closeOut, err := commands.OpenOutput(*output)
	if err != nil {
		fail(err)
	}
	res, err := commands.RunEncode(v, w, commands.EncodeOptions{Terse: opts, Indent: *indent})
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	if err != nil {
		fail(err)
	}
	if !*quiet {
		fmt.Fprintf(os.Stderr, "%d keys, %s\n", res.Keys, inspect.FormatSavings(res.PlainBytes, res.EncodedBytes))
	}
}

func runDecode(args []string) {
	fs := newFlagSet("decode", `terse decode - Expand a terse envelope back to plain JSON

Usage:
  terse decode [flags] [file]

Documents that are not terse payloads are written unchanged.
`)
	output := fs.StringP("output", "o", "", "output file (default: stdout)")
	indent := fs.Bool("indent", false, "pretty-print the result")
	if err := fs.Parse(args); err != nil {
		os.Exit(parseExitCode(err))
	}

	data, err := commands.ReadInput(fs.Arg(0))
	if err != nil {
		fail(err)
	}
	w, closeOut, err := commands.OpenOutput(*output)
	if err != nil {
		fail(err)
	}
	err = commands.RunDecode(data, w, *indent)
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	if err != nil {
		fail(err)
	}
}

func runDetect(args []string) {
	fs := newFlagSet("detect", `terse detect - Report whether a document is a terse payload

Usage:
  terse detect [file]

Exits with status 0 for a terse payload and 2 for plain JSON.
`)
	if err := fs.Parse(args); err != nil {
		os.Exit(parseExitCode(err))
	}

	v, err := commands.ParseInput(fs.Arg(0))
	if err != nil {
		fail(err)
	}
	isTerse, err := commands.RunDetect(v, os.Stdout)
	if err != nil {
		fail(err)
	}
	if !isTerse {
		os.Exit(2)
	}
}

func runValidate(args []string) {
	fs := newFlagSet("validate", `terse validate - Strictly check a terse envelope

Usage:
  terse validate [file]
`)
	if err := fs.Parse(args); err != nil {
		os.Exit(parseExitCode(err))
	}

	v, err := commands.ParseInput(fs.Arg(0))
	if err != nil {
		fail(err)
	}
	if err := commands.RunValidate(v, os.Stdout); err != nil {
		fail(err)
	}
}

func runBench(args []string) {
	fs := newFlagSet("bench", `terse bench - Compare plain, terse and compressed sizes

Usage:
  terse bench [flags] <file.json>...

Every file is also round-tripped; a mismatch fails the command.
`)
	var ef encoderFlags
	ef.register(fs)
	jobs := fs.IntP("jobs", "j", 4, "files to process concurrently")
	verbose := fs.BoolP("verbose", "v", false, "log progress to stderr")
	if err := fs.Parse(args); err != nil {
		os.Exit(parseExitCode(err))
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: at least one file required")
		fs.Usage()
		os.Exit(1)
	}
	opts, err := ef.options()
	if err != nil {
		fail(err)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_, err = commands.RunBench(ctx, fs.Args(), os.Stdout, commands.BenchOptions{
		Terse:       opts,
		Concurrency: *jobs,
		Logger:      logger,
	})
	if err != nil {
		fail(err)
	}
}

func runStats(args []string) {
	fs := newFlagSet("stats", `terse stats - Summarize a metrics event file

Usage:
  terse stats [flags] <file.tlog>
`)
	var opts commands.StatsOptions
	fs.StringVar(&opts.Endpoint, "endpoint", "", "only events of this endpoint")
	fs.StringVar(&opts.Decision, "decision", "", "only events with this decision (encoded, not-negotiated, too-small, no-keys, no-gain, declined)")
	fs.StringVar(&opts.Shape, "shape", "", "only events with this shape hash")
	fs.IntVar(&opts.MinBytes, "min-bytes", 0, "only events with at least this many plain bytes")
	fs.StringVar(&opts.TimeStart, "since", "", "only events at or after this time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "until", "", "only events before this time (RFC3339)")
	if err := fs.Parse(args); err != nil {
		os.Exit(parseExitCode(err))
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: event file path required")
		fs.Usage()
		os.Exit(1)
	}
	filter, err := opts.Filter()
	if err != nil {
		fail(err)
	}
	if err := commands.RunStats(fs.Arg(0), filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runInspect(args []string) {
	fs := newFlagSet("inspect", `terse inspect - Browse a payload interactively

Usage:
  terse inspect <file>

Keys are shown with their original names whether or not the payload is
terse.
`)
	if err := fs.Parse(args); err != nil {
		os.Exit(parseExitCode(err))
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: file path required")
		fs.Usage()
		os.Exit(1)
	}
	v, err := commands.ParseInput(fs.Arg(0))
	if err != nil {
		fail(err)
	}

	explorer, err := interactive.New(v, os.Stdout)
	if err != nil {
		var uv *terse.UnsupportedVersionError
		if errors.As(err, &uv) {
			fail(fmt.Errorf("payload uses format version %d; this build reads %s", uv.Version, version.HeaderValue()))
		}
		fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := explorer.Run(ctx); err != nil {
		fail(err)
	}
}

func runConformance(args []string) {
	fs := newFlagSet("conformance", `terse conformance - Run YAML conformance cases against the codec

Usage:
  terse conformance [flags] <dir>

Exits non-zero if any case fails.
`)
	var opts commands.ConformanceOptions
	fs.StringVar(&opts.Filter, "filter", "", "only cases with this ID prefix or tag")
	fs.StringVar(&opts.Format, "format", "text", "report format (text, json, junit)")
	fs.BoolVarP(&opts.Verbose, "verbose", "v", false, "show step and expectation details")
	fs.BoolVar(&opts.StopOnFirst, "stop-on-failure", false, "stop after the first failed case")
	if err := fs.Parse(args); err != nil {
		os.Exit(parseExitCode(err))
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: case directory required")
		fs.Usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if _, err := commands.RunConformance(ctx, fs.Arg(0), os.Stdout, opts); err != nil {
		fail(err)
	}
}
