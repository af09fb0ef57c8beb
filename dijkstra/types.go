// SPDX-License-Identifier: MIT

// Package dijkstra runs Dijkstra's algorithm as a Viterbi search over a
// log-domain core.Network.
//
// A transition costs the negated total log weight of its edge and context,
// so the cheapest path is the most probable one. Costs must be
// non-negative, which holds whenever every total is a log probability.
//
//	Run(n, opts...)           cheapest internal path to every node
//	BestEmissions(n, opts...) best first emission of every output
//
// Complexity: O((V + E) log V) time, O(V + E) heap memory.
package dijkstra

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/lexnet/core"
	"github.com/katalvlaran/lexnet/label"
)

// Sentinel errors returned by Run and BestEmissions.
var (
	// ErrNetworkNil indicates that a nil network was passed.
	ErrNetworkNil = errors.New("dijkstra: network is nil")

	// ErrDomain indicates a network that is not in the log domain.
	ErrDomain = errors.New("dijkstra: network must be log domain")

	// ErrPending indicates a network with unregistered nodes.
	ErrPending = errors.New("dijkstra: network has pending nodes")

	// ErrSourceNotFound indicates that the source node does not exist.
	ErrSourceNotFound = errors.New("dijkstra: source node not found")

	// ErrPositiveWeight indicates a transition whose total log weight is
	// above zero, i.e. a negative cost.
	ErrPositiveWeight = errors.New("dijkstra: positive log weight encountered")

	// ErrBadMaxCost indicates a negative or NaN cost cap.
	ErrBadMaxCost = errors.New("dijkstra: MaxCost must be non-negative")
)

// Options configures a search.
type Options struct {
	// Source is the registered start node; the root by default.
	Source int
	// MaxCost stops exploring beyond this cost (a beam). Default +Inf.
	MaxCost float64
	// Backoff follows backoff edges when true (the default).
	Backoff bool

	err error
}

// Option is a functional option for Run and BestEmissions.
type Option func(*Options)

// DefaultOptions searches from the root, follows backoff edges and imposes
// no beam.
func DefaultOptions() Options {
	return Options{MaxCost: math.Inf(1), Backoff: true}
}

// WithSource starts the search at the registered node id.
func WithSource(id int) Option {
	return func(o *Options) { o.Source = id }
}

// WithMaxCost sets a beam; a negative or NaN value is ErrBadMaxCost.
func WithMaxCost(c float64) Option {
	return func(o *Options) {
		if c < 0 || math.IsNaN(c) {
			o.err = fmt.Errorf("%w: %v", ErrBadMaxCost, c)
			return
		}
		o.MaxCost = c
	}
}

// WithoutBackoff ignores backoff edges.
func WithoutBackoff() Option {
	return func(o *Options) { o.Backoff = false }
}

// Step is the predecessor transition of a node on its best path.
type Step struct {
	From int // -1 for the source and for unreached nodes
	Edge *core.Edge
	Slot int
}

// Result holds per-node costs and predecessors, indexed by node id.
type Result struct {
	Cost []float64 // +Inf when unreached
	Prev []Step
}

// Emission is the cheapest way to emit an output from the source.
type Emission struct {
	Output label.Code
	// Score is the log weight of the best emitting path.
	Score float64
	// Inputs are the literal input codes along that path.
	Inputs []label.Code
}
