// SPDX-License-Identifier: MIT

// Package dfs defines types and options for depth-first walks over a
// core.Network: pre- and post-order hooks, transition filtering, depth
// limiting and cancellation.
package dfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/lexnet/core"
)

// Visitation colours of a node.
const (
	White = iota // not discovered
	Gray         // on the current path
	Black        // finished
)

var (
	// ErrNetworkNil is returned when a nil network is passed.
	ErrNetworkNil = errors.New("dfs: network is nil")

	// ErrStartNotFound indicates that the start reference does not resolve.
	ErrStartNotFound = errors.New("dfs: start node not found")

	// ErrCycleDetected is returned by TopologicalSort on a cyclic network.
	ErrCycleDetected = errors.New("dfs: cycle detected")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("dfs: invalid option supplied")
)

// Visit describes a discovered or finished node.
type Visit struct {
	Ref   core.NodeRef
	Node  *core.Node
	Depth int
}

// Option configures a walk.
type Option func(*Options)

// Options holds the walk parameters.
type Options struct {
	// Ctx allows cancellation; checked once per discovered node.
	Ctx context.Context

	// Start is the first node; the root by default.
	Start core.NodeRef

	// OnVisit runs when a node is discovered (pre-order). An error aborts.
	OnVisit func(v Visit) error

	// OnExit runs after all descendants are finished (post-order). An error
	// aborts.
	OnExit func(v Visit) error

	// MaxDepth, if > 0, does not descend below this depth.
	MaxDepth int

	// FilterContext can skip a transition by returning false.
	FilterContext func(e *core.Edge, c core.Context) bool

	err error
}

// DefaultOptions starts at the root and follows every transition.
func DefaultOptions() Options {
	return Options{
		Ctx:           context.Background(),
		Start:         core.Registered(0),
		OnVisit:       func(Visit) error { return nil },
		OnExit:        func(Visit) error { return nil },
		FilterContext: func(*core.Edge, core.Context) bool { return true },
	}
}

// WithContext sets the cancellation context. A nil ctx is ignored.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithStart begins the walk at ref.
func WithStart(ref core.NodeRef) Option {
	return func(o *Options) { o.Start = ref }
}

// WithOnVisit installs a pre-order hook.
func WithOnVisit(fn func(v Visit) error) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// WithOnExit installs a post-order hook.
func WithOnExit(fn func(v Visit) error) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnExit = fn
		}
	}
}

// WithMaxDepth limits the walk depth; 0 means no limit and a negative
// value is ErrOptionViolation.
func WithMaxDepth(d int) Option {
	return func(o *Options) {
		if d < 0 {
			o.err = fmt.Errorf("%w: MaxDepth cannot be negative (%d)", ErrOptionViolation, d)
			return
		}
		o.MaxDepth = d
	}
}

// WithFilterContext skips transitions for which fn returns false.
func WithFilterContext(fn func(e *core.Edge, c core.Context) bool) Option {
	return func(o *Options) {
		if fn != nil {
			o.FilterContext = fn
		}
	}
}

// SkipBackoff is a FilterContext that follows literal edges only.
func SkipBackoff(e *core.Edge, _ core.Context) bool { return !e.Backoff() }

// OnlyBackoff is a FilterContext that follows backoff edges only.
func OnlyBackoff(e *core.Edge, _ core.Context) bool { return e.Backoff() }

// Result holds the outcome of a walk.
type Result struct {
	// Order lists nodes in finish (post-order) sequence.
	Order []core.NodeRef
	// Depth is the discovery depth, parallel to Order.
	Depth []int
	// BackEdges counts transitions into a node on the current path.
	BackEdges int
	// Skipped counts transitions rejected by FilterContext.
	Skipped int
}
