package terse

import (
	"errors"
	"fmt"

	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
	"github.com/timclausendev-web/tersejson-sub001/pkg/version"
)

// Error categories. Use errors.Is to test for them.
var (
	// ErrMalformed indicates a value that is not a well-formed envelope.
	ErrMalformed = errors.New("malformed terse envelope")

	// ErrUnsupportedVersion indicates a well-formed envelope whose format
	// version this build does not implement.
	ErrUnsupportedVersion = errors.New("unsupported terse version")
)

// FormatError describes why a value is not a well-formed envelope.
// Only strict validation (Validate, ParseEnvelope) returns it; Expand and the
// proxy package pass such values through instead.
type FormatError struct {
	// Field is the envelope field at fault, or empty for the value itself.
	Field string

	// Reason describes the problem.
	Reason string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("terse: %s", e.Reason)
	}
	return fmt.Sprintf("terse: field %q: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrMalformed.
func (e *FormatError) Is(target error) bool {
	return target == ErrMalformed
}

// UnsupportedVersionError is returned for an envelope whose version is
// structurally valid but not implemented by this build.
//
// Data holds the still-aliased payload. A caller that prefers aliased keys
// over an error may use it as final data.
type UnsupportedVersionError struct {
	Version int64
	Data    tree.Value
}

// Error implements the error interface.
func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("terse: unsupported format version %d (supported: %s)", e.Version, version.HeaderValue())
}

// Is reports whether target is ErrUnsupportedVersion.
func (e *UnsupportedVersionError) Is(target error) bool {
	return target == ErrUnsupportedVersion
}
