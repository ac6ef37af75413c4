// Package config loads codec and recorder settings from YAML or JSONC files.
//
// Example (terse.yaml):
//
//	pattern: alpha
//	min_key_length: 2
//	min_payload_bytes: 512
//	log_level: info
//	metrics:
//	  file: /var/log/terse/api.tlog
//	  slog: true
//	  census: false
//
// The same document may be written as JSON with comments (.json or .jsonc).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/timclausendev-web/tersejson-sub001/pkg/keys"
	"github.com/timclausendev-web/tersejson-sub001/pkg/metrics"
	"github.com/timclausendev-web/tersejson-sub001/pkg/terse"
	"github.com/timclausendev-web/tersejson-sub001/pkg/transport"
)

// Config holds producer settings.
type Config struct {
	// Pattern names the alias pattern (see keys.Names).
	Pattern string `yaml:"pattern" json:"pattern"`

	// MinKeyLength is the shortest key that gets an alias. At least 2.
	MinKeyLength int `yaml:"min_key_length" json:"min_key_length"`

	// MinPayloadBytes is the plain body size below which payloads are sent
	// plain.
	MinPayloadBytes int `yaml:"min_payload_bytes" json:"min_payload_bytes"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// MetricsConfig selects where metrics events go. Several sinks may be
// enabled at once.
type MetricsConfig struct {
	// File is the path of a CBOR event file. Empty disables it.
	File string `yaml:"file" json:"file"`

	// Slog logs every event through the application logger.
	Slog bool `yaml:"slog" json:"slog"`

	// Census records events as OpenCensus measurements.
	Census bool `yaml:"census" json:"census"`
}

// Format is a configuration file syntax.
type Format int

const (
	FormatYAML Format = iota
	FormatJSONC
)

// LoadError describes a configuration that could not be loaded.
type LoadError struct {
	// File is the path of the configuration file, if any.
	File string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Pattern:         keys.DefaultName,
		MinKeyLength:    terse.DefaultMinKeyLength,
		MinPayloadBytes: transport.DefaultMinPayloadBytes,
		LogLevel:        "info",
	}
}

// FormatOf picks the syntax from a file extension. Anything that is not
// .json or .jsonc is read as YAML.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSONC
	default:
		return FormatYAML
	}
}

// Load reads and validates a configuration file. Settings the file leaves
// out keep their Default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}

	cfg, err := Parse(data, FormatOf(path))
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
			return Config{}, le
		}
		return Config{}, &LoadError{File: path, Message: err.Error()}
	}
	return cfg, nil
}

// Parse decodes and validates a configuration document. Unknown fields are
// rejected so typos do not silently fall back to defaults.
func Parse(data []byte, format Format) (Config, error) {
	cfg := Default()

	switch format {
	case FormatJSONC:
		dec := gojson.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, &LoadError{Message: "failed to parse JSON", Cause: err}
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, &LoadError{Message: "failed to parse YAML", Cause: err}
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every setting.
func (c Config) Validate() error {
	if _, err := keys.Lookup(c.Pattern); err != nil {
		return &LoadError{Message: "invalid pattern", Cause: err}
	}
	if c.MinKeyLength < terse.DefaultMinKeyLength {
		return &LoadError{Message: fmt.Sprintf("min_key_length must be at least %d, got %d",
			terse.DefaultMinKeyLength, c.MinKeyLength)}
	}
	if c.MinPayloadBytes < 0 {
		return &LoadError{Message: fmt.Sprintf("min_payload_bytes must not be negative, got %d", c.MinPayloadBytes)}
	}
	if _, err := c.Level(); err != nil {
		return &LoadError{Message: "invalid log_level", Cause: err}
	}
	return nil
}

// Level returns the slog level named by LogLevel. Empty means info.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

// CodecOptions returns the transport options for this configuration.
// rec and logger may be nil.
func (c Config) CodecOptions(rec metrics.Recorder, logger *slog.Logger) ([]transport.Option, error) {
	pattern, err := keys.Lookup(c.Pattern)
	if err != nil {
		return nil, err
	}
	name := c.Pattern
	if name == "" {
		name = keys.DefaultName
	}
	return []transport.Option{
		transport.WithPattern(name, pattern),
		transport.WithMinKeyLength(c.MinKeyLength),
		transport.WithMinPayloadBytes(c.MinPayloadBytes),
		transport.WithRecorder(rec),
		transport.WithLogger(logger),
	}, nil
}

// EncodeOptions returns the encoder options for this configuration.
func (c Config) EncodeOptions() ([]terse.Option, error) {
	pattern, err := keys.Lookup(c.Pattern)
	if err != nil {
		return nil, err
	}
	return []terse.Option{terse.WithPattern(pattern), terse.WithMinKeyLength(c.MinKeyLength)}, nil
}

// Recorder builds the recorder selected by Metrics. The returned close
// function releases any file it opened and is never nil. With no sink
// enabled the recorder is a metrics.NoopRecorder.
func (c Config) Recorder(logger *slog.Logger) (metrics.Recorder, func() error, error) {
	var (
		recorders []metrics.Recorder
		closers   []func() error
	)

	if c.Metrics.Slog && logger != nil {
		recorders = append(recorders, metrics.NewSlogRecorder(logger))
	}
	if c.Metrics.Census {
		census := metrics.NewCensusRecorder()
		if err := census.Register(); err != nil {
			return nil, nil, fmt.Errorf("register census views: %w", err)
		}
		recorders = append(recorders, census)
	}
	if c.Metrics.File != "" {
		file, err := metrics.NewFileRecorder(c.Metrics.File)
		if err != nil {
			return nil, nil, fmt.Errorf("open metrics file: %w", err)
		}
		recorders = append(recorders, file)
		closers = append(closers, file.Close)
	}

	closeAll := func() error {
		var errs []error
		for _, fn := range closers {
			errs = append(errs, fn())
		}
		return errors.Join(errs...)
	}

	switch len(recorders) {
	case 0:
		return metrics.NoopRecorder{}, closeAll, nil
	case 1:
		return recorders[0], closeAll, nil
	default:
		return metrics.NewMultiRecorder(recorders...), closeAll, nil
	}
}
