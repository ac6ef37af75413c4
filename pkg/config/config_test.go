package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timclausendev-web/tersejson-sub001/pkg/metrics"
	"github.com/timclausendev-web/tersejson-sub001/pkg/terse"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "alpha", cfg.Pattern)
	assert.Equal(t, 2, cfg.MinKeyLength)
	assert.Equal(t, 512, cfg.MinPayloadBytes)
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "terse.yaml", `
pattern: upper
min_payload_bytes: 1024
log_level: debug
metrics:
  slog: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "upper", cfg.Pattern)
	assert.Equal(t, 1024, cfg.MinPayloadBytes)
	assert.Equal(t, 2, cfg.MinKeyLength, "unset fields keep defaults")
	assert.True(t, cfg.Metrics.Slog)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadJSONC(t *testing.T) {
	path := writeFile(t, "terse.jsonc", `{
  // aliases that stand out in logs
  "pattern": "prefixed",
  "min_key_length": 4, /* skip short names */
  "metrics": {"census": false,},
}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.Pattern)
	assert.Equal(t, 4, cfg.MinKeyLength)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown pattern", "c.yaml", "pattern: greek\n"},
		{"short keys", "c.yaml", "min_key_length: 1\n"},
		{"negative threshold", "c.yaml", "min_payload_bytes: -1\n"},
		{"bad level", "c.yaml", "log_level: loud\n"},
		{"unknown field", "c.yaml", "patern: alpha\n"},
		{"unknown json field", "c.json", `{"patern": "alpha"}`},
		{"bad yaml", "c.yaml", "pattern: [\n"},
		{"bad json", "c.json", `{"pattern": }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := Load(path)
			require.Error(t, err)

			var le *LoadError
			require.True(t, errors.As(err, &le), "got %T", err)
			assert.Equal(t, path, le.File)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatJSONC, FormatOf("a.json"))
	assert.Equal(t, FormatJSONC, FormatOf("a.JSONC"))
	assert.Equal(t, FormatYAML, FormatOf("a.yaml"))
	assert.Equal(t, FormatYAML, FormatOf("a.yml"))
	assert.Equal(t, FormatYAML, FormatOf("config"))
}

func TestEncodeOptions(t *testing.T) {
	cfg := Default()
	cfg.Pattern = "numeric"
	cfg.MinKeyLength = 5

	opts, err := cfg.EncodeOptions()
	require.NoError(t, err)

	v, err := tree.Parse([]byte(`{"name":1,"address":2}`))
	require.NoError(t, err)
	d := terse.BuildDictionary(v, opts...)
	assert.Equal(t, []terse.Entry{{Alias: "0", Original: "address"}}, d.Entries())
}

func TestCodecOptions(t *testing.T) {
	opts, err := Default().CodecOptions(nil, nil)
	require.NoError(t, err)
	assert.Len(t, opts, 5)

	cfg := Default()
	cfg.Pattern = "nope"
	_, err = cfg.CodecOptions(nil, nil)
	assert.Error(t, err)
}

func TestRecorder(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		rec, closeFn, err := Default().Recorder(nil)
		require.NoError(t, err)
		assert.IsType(t, metrics.NoopRecorder{}, rec)
		assert.NoError(t, closeFn())
	})

	t.Run("slog", func(t *testing.T) {
		cfg := Default()
		cfg.Metrics.Slog = true
		rec, closeFn, err := cfg.Recorder(slog.New(slog.DiscardHandler))
		require.NoError(t, err)
		assert.IsType(t, &metrics.SlogRecorder{}, rec)
		assert.NoError(t, closeFn())
	})

	t.Run("file and slog", func(t *testing.T) {
		cfg := Default()
		cfg.Metrics.Slog = true
		cfg.Metrics.File = filepath.Join(t.TempDir(), "events.tlog")

		rec, closeFn, err := cfg.Recorder(slog.New(slog.DiscardHandler))
		require.NoError(t, err)
		assert.IsType(t, &metrics.MultiRecorder{}, rec)

		rec.Record(metrics.Event{Endpoint: "/x"})
		require.NoError(t, closeFn())

		r, err := metrics.NewReader(cfg.Metrics.File)
		require.NoError(t, err)
		defer r.Close()
		events, err := r.ReadAll()
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "/x", events[0].Endpoint)
	})

	t.Run("bad file", func(t *testing.T) {
		cfg := Default()
		cfg.Metrics.File = filepath.Join(t.TempDir(), "no", "such", "dir.tlog")
		_, _, err := cfg.Recorder(nil)
		assert.Error(t, err)
	})
}
