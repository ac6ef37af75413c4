// Package version provides terse format versions and the helpers used to
// negotiate them over the Accept-Terse request header.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a terse envelope format version. The set of versions is closed:
// a build understands exactly the versions returned by Supported.
type Version int

// V1 is the first envelope format: marker, version, alias dictionary, data.
const V1 Version = 1

// Current is the format version produced by this library.
const Current = V1

// supported lists the versions this build can decode, newest first.
var supported = []Version{V1}

// Supported returns the versions this build can decode, newest first.
func Supported() []Version {
	out := make([]Version, len(supported))
	copy(out, supported)
	return out
}

// IsSupported reports whether v is a version this build can decode.
func (v Version) IsSupported() bool {
	for _, s := range supported {
		if s == v {
			return true
		}
	}
	return false
}

// String returns the decimal form used on the wire and in headers.
func (v Version) String() string {
	return strconv.Itoa(int(v))
}

// Parse parses a decimal version number.
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("invalid version %q: empty", s)
	}
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid version %q: expected a positive integer", s)
	}
	return Version(n), nil
}

// HeaderValue returns the Accept-Terse value a client sends to advertise
// every supported version, e.g. "1".
func HeaderValue() string {
	parts := make([]string, len(supported))
	for i, v := range supported {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

// Negotiate picks the newest version that both sides support from an
// Accept-Terse header value. The value is either "true" (any version the
// server likes, which means Current) or a comma-separated list of versions.
// Unparsable entries are ignored. ok is false when no version matches.
func Negotiate(header string) (v Version, ok bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0, false
	}
	if strings.EqualFold(header, "true") {
		return Current, true
	}

	var best Version
	for _, part := range strings.Split(header, ",") {
		offered, err := Parse(part)
		if err != nil || !offered.IsSupported() {
			continue
		}
		if offered > best {
			best = offered
		}
	}
	return best, best != 0
}
