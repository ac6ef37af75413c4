package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timclausendev-web/tersejson-sub001/pkg/terse"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

func TestEncoderFlags_Options(t *testing.T) {
	v, err := tree.Parse([]byte(`{"name":"x","id":1}`))
	require.NoError(t, err)

	aliasOf := func(t *testing.T, f encoderFlags) string {
		t.Helper()
		opts, err := f.options()
		require.NoError(t, err)
		d := terse.BuildDictionary(v, opts...)
		alias, _ := d.Alias("name")
		return alias
	}

	assert.Equal(t, "a", aliasOf(t, encoderFlags{}))
	assert.Equal(t, "A", aliasOf(t, encoderFlags{pattern: "upper"}))

	path := filepath.Join(t.TempDir(), "terse.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pattern: prefixed\n"), 0o644))
	assert.Equal(t, "k0", aliasOf(t, encoderFlags{configPath: path}))

	// Flags win over the file.
	assert.Equal(t, "0", aliasOf(t, encoderFlags{configPath: path, pattern: "numeric"}))
}

func TestEncoderFlags_Invalid(t *testing.T) {
	_, err := (&encoderFlags{pattern: "greek"}).options()
	assert.Error(t, err)

	_, err = (&encoderFlags{minKeyLength: 1}).options()
	assert.Error(t, err)

	_, err = (&encoderFlags{configPath: filepath.Join(t.TempDir(), "missing.yaml")}).options()
	assert.Error(t, err)
}

func TestNewFlagSet_ParseErrors(t *testing.T) {
	fs := newFlagSet("encode", "terse encode\n")
	fs.SetOutput(io.Discard)
	var ef encoderFlags
	ef.register(fs)

	err := fs.Parse([]string{"--no-such-flag"})
	require.Error(t, err)
	assert.Equal(t, 2, parseExitCode(err))

	err = fs.Parse([]string{"--min-key-length", "two"})
	require.Error(t, err)
	assert.Equal(t, 2, parseExitCode(err))

	err = fs.Parse([]string{"--help"})
	require.ErrorIs(t, err, pflag.ErrHelp)
	assert.Equal(t, 0, parseExitCode(err))

	require.NoError(t, fs.Parse([]string{"-p", "upper", "in.json"}))
	assert.Equal(t, "upper", ef.pattern)
	assert.Equal(t, "in.json", fs.Arg(0))
}
