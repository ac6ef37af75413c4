package proxy

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/timclausendev-web/tersejson-sub001/pkg/terse"
	"github.com/timclausendev-web/tersejson-sub001/pkg/tree"
)

// Path errors.
var (
	ErrNoSuchKey    = errors.New("no such key")
	ErrIndexRange   = errors.New("index out of range")
	ErrNotContainer = errors.New("value has no children")
	ErrInvalidIndex = errors.New("invalid array index")
	ErrEmptySegment = errors.New("empty path segment")
)

// PathError describes where navigation through a view stopped.
type PathError struct {
	// Path is the part of the path walked so far, the failing segment included.
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// Wrap returns a Node over candidate when it is a terse payload and
// candidate itself otherwise. The only error is an
// *terse.UnsupportedVersionError for an envelope of an unknown version.
//
// Accepted candidates are those of terse.IsTersePayload.
func Wrap(candidate any) (any, error) {
	if !terse.IsTersePayload(candidate) {
		return candidate, nil
	}

	switch c := candidate.(type) {
	case *terse.Envelope:
		return newChecked(c)
	case terse.Envelope:
		return newChecked(&c)
	case tree.Value:
		return wrapTree(c)
	case *tree.Value:
		return wrapTree(*c)
	case map[string]any:
		v, err := tree.FromAny(c)
		if err != nil {
			return candidate, nil
		}
		return wrapTree(v)
	}
	return candidate, nil
}

// View returns a lazy Node for a terse tree and a Plain node for any other
// tree.
func View(v tree.Value) (Node, error) {
	if !terse.IsTersePayload(v) {
		return Plain(v), nil
	}
	env, err := terse.ParseEnvelope(v)
	if err != nil {
		return Node{}, err
	}
	return New(env), nil
}

func wrapTree(v tree.Value) (any, error) {
	n, err := View(v)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func newChecked(env *terse.Envelope) (any, error) {
	if !env.Version.IsSupported() {
		return nil, &terse.UnsupportedVersionError{Version: int64(env.Version), Data: env.Data}
	}
	return New(env), nil
}

// At walks a path of member keys and decimal array indexes.
// At() returns n itself.
func (n Node) At(path ...string) (Node, error) {
	cur := n
	for i, seg := range path {
		next, err := cur.step(seg)
		if err != nil {
			return Node{}, &PathError{Path: strings.Join(path[:i+1], "/"), Err: err}
		}
		cur = next
	}
	return cur, nil
}

func (n Node) step(seg string) (Node, error) {
	switch n.Kind() {
	case tree.KindObject:
		if child, ok := n.Get(seg); ok {
			return child, nil
		}
		return Node{}, ErrNoSuchKey
	case tree.KindArray:
		if seg == "" {
			return Node{}, ErrEmptySegment
		}
		idx, err := strconv.Atoi(seg)
		if err != nil {
			return Node{}, ErrInvalidIndex
		}
		child, ok := n.Index(idx)
		if !ok {
			return Node{}, ErrIndexRange
		}
		return child, nil
	default:
		return Node{}, ErrNotContainer
	}
}
