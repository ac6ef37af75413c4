package transport

import (
	"bytes"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/timclausendev-web/tersejson-sub001/pkg/metrics"
	"github.com/timclausendev-web/tersejson-sub001/pkg/terse"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
	"github.com/timclausendev-web/tersejson-sub001/pkg/version"
)

// Negotiated reports whether r asks for terse output in a version this build
// produces.
func Negotiated(r *http.Request) bool {
	_, ok := version.Negotiate(r.Header.Get(HeaderAcceptTerse))
	return ok
}

// Middleware rewrites the JSON output of next for consumers that send
// Accept-Terse. Requests without the header are passed to next untouched.
//
// With the header, the response is buffered. Successful JSON responses are
// parsed and passed through the transform; anything else (other content
// types, non-2xx statuses, compressed or unparsable bodies, responses already
// marked terse) is forwarded exactly as next wrote it.
func (c *Codec) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", HeaderAcceptTerse)

		if !Negotiated(r) {
			next.ServeHTTP(w, r)
			return
		}

		bw := &bufferedWriter{w: w}
		next.ServeHTTP(bw, r)
		status := bw.statusCode()
		raw := bw.buf.Bytes()

		if reason := notRewritable(w.Header(), status); reason != "" {
			c.logger.LogAttrs(r.Context(), slog.LevelDebug, "terse: forwarding response",
				slog.String("endpoint", c.endpoint(r)),
				slog.String("reason", reason),
			)
			c.forward(w, status, raw)
			return
		}

		v, err := tree.Parse(raw)
		if err != nil {
			c.logger.LogAttrs(r.Context(), slog.LevelDebug, "terse: forwarding unparsable body",
				slog.String("endpoint", c.endpoint(r)),
				slog.String("error", err.Error()),
			)
			c.forward(w, status, raw)
			return
		}

		body, env, err := c.render(r, v, raw, true)
		if err != nil {
			c.forward(w, status, raw)
			return
		}
		if env != nil {
			w.Header().Set(HeaderTerseJSON, env.Version.String())
		}
		c.forward(w, status, body)
	})
}

// WriteJSON serializes v as the response to r, negotiating the terse form.
// v may be a tree.Value or anything tree.FromAny accepts. Only 2xx responses
// are eligible for an envelope.
func (c *Codec) WriteJSON(w http.ResponseWriter, r *http.Request, status int, v any) error {
	t, ok := v.(tree.Value)
	if !ok {
		var err error
		if t, err = tree.FromAny(v); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
	}

	negotiated := Negotiated(r) && status >= 200 && status < 300
	body, env, err := c.render(r, t, nil, negotiated)
	if err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}

	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Add("Vary", HeaderAcceptTerse)
	if env != nil {
		h.Set(HeaderTerseJSON, env.Version.String())
	}
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}

// render serializes v for r and records the outcome. plain, when non-nil,
// is v's plain serialization as the handler produced it; it is sent as is
// when no envelope is chosen.
func (c *Codec) render(r *http.Request, v tree.Value, plain []byte, negotiated bool) ([]byte, *terse.Envelope, error) {
	if plain == nil {
		var err error
		if plain, err = tree.Marshal(v); err != nil {
			return nil, nil, err
		}
	}

	var (
		env      *terse.Envelope
		body     []byte
		decision metrics.Decision
	)
	switch {
	case c.transform != nil:
		var err error
		env, body, err = c.applyTransform(v, plain, negotiated)
		if err != nil {
			return nil, nil, err
		}
		switch {
		case env != nil:
			decision = metrics.DecisionEncoded
		case negotiated:
			decision = metrics.DecisionDeclined
		default:
			decision = metrics.DecisionNotNegotiated
		}
	case negotiated:
		env, body, decision = c.decide(v, len(plain))
		if env == nil {
			body = plain
		}
	default:
		body = plain
		decision = metrics.DecisionNotNegotiated
	}

	ev := metrics.NewEvent(c.endpoint(r), v, env, len(plain), len(body))
	ev.Decision = decision
	ev.Pattern = c.patternName
	c.recorder.Record(ev)

	if env == nil && negotiated {
		c.logger.LogAttrs(r.Context(), slog.LevelDebug, "terse: sending plain JSON",
			slog.String("endpoint", ev.Endpoint),
			slog.String("decision", decision.String()),
			slog.Int("bytes", len(plain)),
		)
	}
	return body, env, nil
}

func (c *Codec) applyTransform(v tree.Value, plain []byte, negotiated bool) (*terse.Envelope, []byte, error) {
	switch out := c.transform(v, negotiated).(type) {
	case *terse.Envelope:
		if out == nil {
			return nil, plain, nil
		}
		body, err := out.MarshalJSON()
		return out, body, err
	case tree.Value:
		if tree.Equal(out, v) {
			return nil, plain, nil
		}
		body, err := tree.Marshal(out)
		return nil, body, err
	default:
		body, err := gojson.Marshal(out)
		return nil, body, err
	}
}

func (c *Codec) forward(w http.ResponseWriter, status int, body []byte) {
	h := w.Header()
	if h.Get("Content-Length") != "" {
		h.Set("Content-Length", strconv.Itoa(len(body)))
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// notRewritable returns why a buffered response must be forwarded as is, or
// "" when it may be rewritten.
func notRewritable(h http.Header, status int) string {
	if status < 200 || status >= 300 || status == http.StatusNoContent {
		return "status"
	}
	if h.Get(HeaderTerseJSON) != "" {
		return "already terse"
	}
	if enc := h.Get("Content-Encoding"); enc != "" && enc != "identity" {
		return "encoded"
	}
	mediaType, _, err := mime.ParseMediaType(h.Get("Content-Type"))
	if err != nil {
		return "content type"
	}
	if mediaType != "application/json" && !strings.HasSuffix(mediaType, "+json") {
		return "content type"
	}
	return ""
}

// bufferedWriter holds a handler's response until the middleware decides
// what to send.
type bufferedWriter struct {
	w      http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (b *bufferedWriter) Header() http.Header {
	return b.w.Header()
}

func (b *bufferedWriter) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.buf.Write(p)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (b *bufferedWriter) Unwrap() http.ResponseWriter {
	return b.w
}

func (b *bufferedWriter) statusCode() int {
	if b.status == 0 {
		return http.StatusOK
	}
	return b.status
}
