package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"

	"github.com/timclausendev-web/tersejson-sub001/internal/testharness/integrity"
	"github.com/timclausendev-web/tersejson-sub001/pkg/inspect"
	"github.com/timclausendev-web/tersejson-sub001/pkg/terse"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

// zstdEncoder is shared by all workers; EncodeAll is safe for concurrent
// use.
var zstdEncoder *zstd.Encoder

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("bench: zstd encoder initialization failed: " + err.Error())
	}
}

// BenchOptions configures RunBench.
type BenchOptions struct {
	// Terse are the encoder options.
	Terse []terse.Option

	// Concurrency bounds the number of files processed at once. Zero or
	// less means one.
	Concurrency int

	// Logger receives per-file progress at debug level. Nil discards it.
	Logger *slog.Logger
}

// BenchResult holds the sizes measured for one file.
type BenchResult struct {
	Path string

	// Plain and Terse are the compact JSON sizes.
	Plain int
	Terse int

	PlainGzip int
	TerseGzip int
	PlainZstd int
	TerseZstd int

	Keys int

	// Verified is the round-trip check of the encoding.
	Verified *integrity.Report
}

// BenchFile measures one document.
func BenchFile(path string, v tree.Value, opts ...terse.Option) (*BenchResult, error) {
	plain, err := tree.Marshal(v)
	if err != nil {
		return nil, err
	}
	env := terse.Encode(v, opts...)
	encoded, err := env.MarshalJSON()
	if err != nil {
		return nil, err
	}

	r := &BenchResult{
		Path:     path,
		Plain:    len(plain),
		Terse:    len(encoded),
		Keys:     env.Dictionary.Len(),
		Verified: integrity.VerifyRoundTrip(v, opts...),
	}
	if r.PlainGzip, err = gzipSize(plain); err != nil {
		return nil, err
	}
	if r.TerseGzip, err = gzipSize(encoded); err != nil {
		return nil, err
	}
	r.PlainZstd = len(zstdEncoder.EncodeAll(plain, nil))
	r.TerseZstd = len(zstdEncoder.EncodeAll(encoded, nil))
	return r, nil
}

// RunBench measures every file in paths and prints a comparison table.
// It fails if any file cannot be read or does not survive a round trip.
func RunBench(ctx context.Context, paths []string, w io.Writer, opts BenchOptions) ([]*BenchResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	results := make([]*BenchResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := ParseInput(path)
			if err != nil {
				return err
			}
			r, err := BenchFile(path, v, opts.Terse...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			logger.Debug("bench: measured file",
				slog.String("path", path),
				slog.Int("plain", r.Plain),
				slog.Int("terse", r.Terse),
			)
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	printBench(w, results)

	for _, r := range results {
		if !r.Verified.Passed {
			return results, fmt.Errorf("%s: round trip failed: %s", r.Path, r.Verified)
		}
	}
	return results, nil
}

func printBench(w io.Writer, results []*BenchResult) {
	fmt.Fprintf(w, "%-24s %10s %10s %8s %10s %10s %10s %10s\n",
		"FILE", "PLAIN", "TERSE", "SAVED", "GZIP", "GZIP+T", "ZSTD", "ZSTD+T")

	var total BenchResult
	for _, r := range results {
		printBenchRow(w, shorten(r.Path, 24), r)
		total.Plain += r.Plain
		total.Terse += r.Terse
		total.PlainGzip += r.PlainGzip
		total.TerseGzip += r.TerseGzip
		total.PlainZstd += r.PlainZstd
		total.TerseZstd += r.TerseZstd
	}
	if len(results) > 1 {
		printBenchRow(w, "TOTAL", &total)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Raw:  %s\n", inspect.FormatSavings(total.Plain, total.Terse))
	fmt.Fprintf(w, "Gzip: %s\n", inspect.FormatSavings(total.PlainGzip, total.TerseGzip))
	fmt.Fprintf(w, "Zstd: %s\n", inspect.FormatSavings(total.PlainZstd, total.TerseZstd))
}

func printBenchRow(w io.Writer, name string, r *BenchResult) {
	saved := 0.0
	if r.Plain > 0 {
		saved = 100 * float64(r.Plain-r.Terse) / float64(r.Plain)
	}
	fmt.Fprintf(w, "%-24s %10d %10d %7.1f%% %10d %10d %10d %10d\n",
		name, r.Plain, r.Terse, saved, r.PlainGzip, r.TerseGzip, r.PlainZstd, r.TerseZstd)
}

func gzipSize(data []byte) (int, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.DefaultCompression)
	if err != nil {
		return 0, err
	}
	if _, err := zw.Write(data); err != nil {
		return 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}
	return buf.Len(), nil
}

// shorten keeps the tail of s, which is the informative part of a path.
func shorten(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n+3:]
}
