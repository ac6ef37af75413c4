package terse

import (
	"github.com/timclausendev-web/tersejson-sub001/pkg/keys"
)

// DefaultMinKeyLength is the shortest key that gets an alias. Single
// character keys cannot shrink and are always retained.
const DefaultMinKeyLength = 2

// Option configures dictionary construction.
type Option func(*options)

type options struct {
	pattern      keys.Pattern
	minKeyLength int
}

func newOptions(opts []Option) options {
	o := options{
		pattern:      keys.Alpha,
		minKeyLength: DefaultMinKeyLength,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithPattern selects the alias generation strategy. A nil pattern keeps the
// default keys.Alpha.
func WithPattern(p keys.Pattern) Option {
	return func(o *options) {
		if p != nil {
			o.pattern = p
		}
	}
}

// WithMinKeyLength sets the shortest key that gets an alias. Values below
// DefaultMinKeyLength are raised to it, so single character keys are always
// retained.
func WithMinKeyLength(n int) Option {
	return func(o *options) {
		if n < DefaultMinKeyLength {
			n = DefaultMinKeyLength
		}
		o.minKeyLength = n
	}
}
