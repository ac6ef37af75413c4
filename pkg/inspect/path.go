// Package inspect provides path expressions and display formatting for
// terse payloads.
//
// The inspect package offers:
//   - Parsing path expressions (e.g., "users/0/address/city")
//   - Resolving paths against lazy views
//   - Formatting values, dictionaries and size summaries for display
package inspect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/timclausendev-web/tersejson-sub001/pkg/proxy"
)

// Path errors.
var (
	ErrEmptyPath   = errors.New("empty path")
	ErrInvalidPath = errors.New("invalid path format")
)

// Path is a parsed path expression: member keys and decimal array indexes
// separated by "/".
//
// A "/" or "~" inside a key is written "~1" or "~0", as in JSON Pointer.
// A leading "/" is accepted and ignored. "." alone is the root.
type Path struct {
	// Segments are the unescaped keys and indexes.
	Segments []string

	// Raw stores the original input string.
	Raw string
}

// ParsePath parses a path string.
//
// Supported formats:
//   - "."                 - the root
//   - "users/0/name"      - key, index, key
//   - "/users/0/name"     - the same, JSON Pointer style
//   - "meta/content~1type" - key "content/type"
func ParsePath(input string) (*Path, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyPath
	}

	p := &Path{Raw: input}
	if input == "." || input == "/" {
		return p, nil
	}

	body := strings.TrimPrefix(input, "/")
	if strings.HasSuffix(body, "/") || strings.Contains(body, "//") {
		return nil, ErrInvalidPath
	}

	for _, part := range strings.Split(body, "/") {
		seg, err := unescape(part)
		if err != nil {
			return nil, fmt.Errorf("segment %q: %w", part, err)
		}
		p.Segments = append(p.Segments, seg)
	}
	return p, nil
}

// IsRoot reports whether the path selects the root.
func (p *Path) IsRoot() bool {
	return len(p.Segments) == 0
}

// Child returns a new path with seg appended.
func (p *Path) Child(seg string) *Path {
	segs := make([]string, len(p.Segments), len(p.Segments)+1)
	copy(segs, p.Segments)
	segs = append(segs, seg)
	out := &Path{Segments: segs}
	out.Raw = out.String()
	return out
}

// Parent returns the path one level up. The parent of the root is the root.
func (p *Path) Parent() *Path {
	if p.IsRoot() {
		return &Path{Raw: "."}
	}
	out := &Path{Segments: append([]string(nil), p.Segments[:len(p.Segments)-1]...)}
	out.Raw = out.String()
	return out
}

// Resolve walks the path from n.
func (p *Path) Resolve(n proxy.Node) (proxy.Node, error) {
	return n.At(p.Segments...)
}

// String returns the path in canonical form.
func (p *Path) String() string {
	if p.IsRoot() {
		return "."
	}
	var sb strings.Builder
	for i, seg := range p.Segments {
		if i > 0 {
			sb.WriteString("/")
		}
		sb.WriteString(escape(seg))
	}
	return sb.String()
}

func escape(seg string) string {
	if !strings.ContainsAny(seg, "~/") {
		return seg
	}
	seg = strings.ReplaceAll(seg, "~", "~0")
	return strings.ReplaceAll(seg, "/", "~1")
}

func unescape(seg string) (string, error) {
	if !strings.Contains(seg, "~") {
		return seg, nil
	}
	var sb strings.Builder
	for i := 0; i < len(seg); i++ {
		if seg[i] != '~' {
			sb.WriteByte(seg[i])
			continue
		}
		if i+1 >= len(seg) {
			return "", ErrInvalidPath
		}
		switch seg[i+1] {
		case '0':
			sb.WriteByte('~')
		case '1':
			sb.WriteByte('/')
		default:
			return "", ErrInvalidPath
		}
		i++
	}
	return sb.String(), nil
}
