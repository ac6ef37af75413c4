package transport

import (
	"log/slog"
	"net/http"

	"github.com/timclausendev-web/tersejson-sub001/pkg/keys"
	"github.com/timclausendev-web/tersejson-sub001/pkg/metrics"
	"github.com/timclausendev-web/tersejson-sub001/pkg/terse"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

// Header names.
const (
	// HeaderAcceptTerse is the request header a consumer sends to opt in.
	HeaderAcceptTerse = "Accept-Terse"

	// HeaderTerseJSON marks a response body as an envelope. Its value is the
	// format version.
	HeaderTerseJSON = "X-Terse-JSON"
)

// DefaultMinPayloadBytes is the plain body size below which payloads are
// never wrapped.
const DefaultMinPayloadBytes = 512

// TransformFunc turns a response tree into the value to serialize: either
// the tree itself or a *terse.Envelope. negotiated reports whether the
// consumer asked for terse output.
type TransformFunc func(v tree.Value, negotiated bool) any

// Codec holds the producer-side configuration. It is immutable after New and
// safe for concurrent use.
type Codec struct {
	encodeOpts      []terse.Option
	patternName     string
	minPayloadBytes int
	recorder        metrics.Recorder
	logger          *slog.Logger
	endpoint        func(*http.Request) string
	transform       TransformFunc
}

// Option configures a Codec.
type Option func(*Codec)

// WithPattern sets the alias pattern. name is reported in metrics events.
func WithPattern(name string, p keys.Pattern) Option {
	return func(c *Codec) {
		if p == nil {
			return
		}
		c.patternName = name
		c.encodeOpts = append(c.encodeOpts, terse.WithPattern(p))
	}
}

// WithMinKeyLength sets the shortest key that gets an alias.
func WithMinKeyLength(n int) Option {
	return func(c *Codec) {
		c.encodeOpts = append(c.encodeOpts, terse.WithMinKeyLength(n))
	}
}

// WithMinPayloadBytes sets the eligibility threshold. Zero wraps every
// payload that shrinks.
func WithMinPayloadBytes(n int) Option {
	return func(c *Codec) {
		if n < 0 {
			n = 0
		}
		c.minPayloadBytes = n
	}
}

// WithRecorder sets the recorder that receives one event per response.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Codec) {
		c.recorder = metrics.OrNoop(r)
	}
}

// WithLogger sets the logger for fail-open decisions.
func WithLogger(l *slog.Logger) Option {
	return func(c *Codec) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithEndpointNamer sets how requests are named in metrics events.
// The default is the URL path.
func WithEndpointNamer(fn func(*http.Request) string) Option {
	return func(c *Codec) {
		if fn != nil {
			c.endpoint = fn
		}
	}
}

// WithTransform replaces the default transform, Codec.Transform.
func WithTransform(fn TransformFunc) Option {
	return func(c *Codec) {
		c.transform = fn
	}
}

// New creates a Codec.
func New(opts ...Option) *Codec {
	c := &Codec{
		patternName:     keys.DefaultName,
		minPayloadBytes: DefaultMinPayloadBytes,
		recorder:        metrics.NoopRecorder{},
		logger:          slog.New(slog.DiscardHandler),
		endpoint:        func(r *http.Request) string { return r.URL.Path },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transform is the default TransformFunc. It returns an envelope when the
// consumer negotiated and the payload is eligible, and v otherwise.
func (c *Codec) Transform(v tree.Value, negotiated bool) any {
	if !negotiated {
		return v
	}
	plain, err := tree.Marshal(v)
	if err != nil {
		return v
	}
	env, _, _ := c.decide(v, len(plain))
	if env == nil {
		return v
	}
	return env
}

// decide applies the eligibility policy to v, whose plain serialization is
// plainSize bytes long. It returns the envelope and its serialization when
// the payload should be wrapped, and the reason otherwise.
func (c *Codec) decide(v tree.Value, plainSize int) (*terse.Envelope, []byte, metrics.Decision) {
	if plainSize < c.minPayloadBytes {
		return nil, nil, metrics.DecisionTooSmall
	}
	env := terse.Encode(v, c.encodeOpts...)
	if env.Dictionary.Len() == 0 {
		return nil, nil, metrics.DecisionNoKeys
	}
	body, err := env.MarshalJSON()
	if err != nil || len(body) >= plainSize {
		return nil, nil, metrics.DecisionNoGain
	}
	return env, body, metrics.DecisionEncoded
}
