package transport

import (
	"fmt"
	"net/http"

	"github.com/timclausendev-web/tersejson-sub001/pkg/proxy"
	"github.com/timclausendev-web/tersejson-sub001/pkg/terse"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
	"github.com/timclausendev-web/tersejson-sub001/pkg/version"
)

// RoundTripper adds Accept-Terse to outgoing requests that do not already
// carry it.
type RoundTripper struct {
	// Base performs the request. Nil means http.DefaultTransport.
	Base http.RoundTripper

	// Accept is the header value to send. Empty means every version this
	// build can decode.
	Accept string
}

// RoundTrip implements http.RoundTripper.
func (t *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(HeaderAcceptTerse) == "" {
		accept := t.Accept
		if accept == "" {
			accept = version.HeaderValue()
		}
		req = req.Clone(req.Context())
		req.Header.Set(HeaderAcceptTerse, accept)
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// NewClient returns a copy of c whose requests opt in to terse responses.
// A nil c is treated as a zero http.Client.
func NewClient(c *http.Client) *http.Client {
	var out http.Client
	if c != nil {
		out = *c
	}
	out.Transport = &RoundTripper{Base: out.Transport}
	return &out
}

// ReadTree reads and closes the response body and returns it with original
// keys, expanding an envelope if the producer sent one.
func ReadTree(resp *http.Response) (tree.Value, error) {
	v, err := readBody(resp)
	if err != nil {
		return tree.Value{}, err
	}
	out, err := terse.Expand(v)
	if err != nil {
		return tree.Value{}, err
	}
	return out.(tree.Value), nil
}

// ReadView reads and closes the response body and returns a lazy view of it.
// A plain body yields a plain node.
func ReadView(resp *http.Response) (proxy.Node, error) {
	v, err := readBody(resp)
	if err != nil {
		return proxy.Node{}, err
	}
	return proxy.View(v)
}

func readBody(resp *http.Response) (tree.Value, error) {
	defer resp.Body.Close()
	v, err := tree.Decode(resp.Body)
	if err != nil {
		return tree.Value{}, fmt.Errorf("read response: %w", err)
	}
	return v, nil
}
