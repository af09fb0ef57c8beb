// SPDX-License-Identifier: MIT

// Package bfs provides tunable options and error definitions
// for breadth-first walks over a core.Network.
package bfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/lexnet/core"
)

// Sentinel errors for BFS execution.
var (
	// ErrNetworkNil is returned if a nil network pointer is passed.
	ErrNetworkNil = errors.New("bfs: network is nil")

	// ErrStartNotFound is returned when the start reference does not resolve.
	ErrStartNotFound = errors.New("bfs: start node not found")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("bfs: invalid option supplied")
)

// Visit describes one dequeued node.
type Visit struct {
	// Ref is how the node was reached: Registered(id) or a pending slot.
	Ref core.NodeRef
	// Node is the resolved node.
	Node *core.Node
	// Depth is the number of transitions from the start.
	Depth int
}

// Option configures a Walk via functional arguments.
// If an Option is invalid (e.g. negative depth), it is recorded
// internally and surfaced as ErrOptionViolation when Walk is invoked.
type Option func(*Options)

// Options holds parameters and callbacks to customize a walk.
type Options struct {
	// Ctx allows cancellation of long walks.
	Ctx context.Context

	// Start is the first node; the root by default.
	Start core.NodeRef

	// OnEnqueue is called when a node is first referenced.
	OnEnqueue func(ref core.NodeRef, depth int)

	// OnVisit is called when a node is dequeued. If it returns an error,
	// the walk aborts and propagates that error.
	OnVisit func(v Visit) error

	// MaxDepth, if > 0, stops exploring beyond this depth.
	MaxDepth int

	// FilterContext can skip a transition by returning false.
	FilterContext func(e *core.Edge, c core.Context) bool

	err error
}

// DefaultOptions returns Options that start at the root, impose no depth
// limit, follow every context and run no-op hooks.
func DefaultOptions() Options {
	return Options{
		Ctx:           context.Background(),
		Start:         core.Registered(0),
		OnEnqueue:     func(core.NodeRef, int) {},
		OnVisit:       func(Visit) error { return nil },
		FilterContext: func(*core.Edge, core.Context) bool { return true },
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithStart begins the walk at ref instead of the root.
func WithStart(ref core.NodeRef) Option {
	return func(o *Options) { o.Start = ref }
}

// WithOnEnqueue registers a callback to run on first reference.
func WithOnEnqueue(fn func(ref core.NodeRef, depth int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnEnqueue = fn
		}
	}
}

// WithOnVisit registers a callback to run on visit; returning an error
// from this callback stops the walk.
func WithOnVisit(fn func(v Visit) error) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// WithMaxDepth stops the walk at the given depth.
//
//	d > 0: limit to depth d
//	d == 0: no depth limit
//	d < 0: invalid option → ErrOptionViolation
func WithMaxDepth(d int) Option {
	return func(o *Options) {
		if d < 0 {
			o.err = fmt.Errorf("%w: MaxDepth cannot be negative (%d)", ErrOptionViolation, d)
			return
		}
		o.MaxDepth = d
	}
}

// WithFilterContext skips transitions when fn returns false.
func WithFilterContext(fn func(e *core.Edge, c core.Context) bool) Option {
	return func(o *Options) {
		if fn != nil {
			o.FilterContext = fn
		}
	}
}

// Result holds the outcome of a walk.
type Result struct {
	// Order lists the references in visit sequence.
	Order []core.NodeRef
	// Depth is parallel to Order.
	Depth []int
	// Registered and Pending count the visited nodes of each kind.
	Registered, Pending int
	// Unreached lists registered ids that the walk never visited.
	Unreached []int
}
