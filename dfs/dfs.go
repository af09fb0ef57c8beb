// SPDX-License-Identifier: MIT

package dfs

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lexnet/core"
)

// errStop ends a walk early without reporting an error.
var errStop = errors.New("dfs: stop")

// frame is one node on the explicit stack with its transition cursor.
type frame struct {
	Visit
	edge, ctx int
}

// walker encapsulates state during a walk.
type walker struct {
	net    *core.Network
	opts   Options
	res    *Result
	state  map[*core.Node]int
	stack  []frame
	onBack func(w *walker, dest *core.Node) error
}

// Walk performs an iterative depth-first walk of n from the start node.
// Each node is discovered once; a node whose descendants include one of
// its ancestors is still finished exactly once.
//
// Returns ErrNetworkNil, ErrStartNotFound, ErrOptionViolation, the context
// error, or a hook error wrapped with the node it failed on.
// Complexity: O(V + E) time, O(V) memory.
func Walk(n *core.Network, opts ...Option) (*Result, error) {
	w, err := newWalker(n, opts)
	if err != nil {
		return nil, err
	}
	if err := w.run(); err != nil {
		return w.res, err
	}
	return w.res, nil
}

func newWalker(n *core.Network, opts []Option) (*walker, error) {
	if n == nil {
		return nil, ErrNetworkNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	return &walker{
		net:   n,
		opts:  o,
		res:   &Result{},
		state: make(map[*core.Node]int, n.NodeCount()),
	}, nil
}

func (w *walker) run() error {
	start, err := w.net.Resolve(w.opts.Start)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrStartNotFound, w.opts.Start)
	}
	if err := w.discover(w.opts.Start, start, 0); err != nil {
		return err
	}

	for len(w.stack) > 0 {
		top := &w.stack[len(w.stack)-1]
		e, c, ok := w.next(top)
		if !ok {
			if err := w.finish(); err != nil {
				return err
			}
			continue
		}
		dest, err := w.net.Resolve(c.Dest)
		if err != nil {
			return fmt.Errorf("dfs: e%d: %w", e.ID, err)
		}
		switch w.state[dest] {
		case White:
			if w.opts.MaxDepth > 0 && top.Depth >= w.opts.MaxDepth {
				continue
			}
			if err := w.discover(c.Dest, dest, top.Depth+1); err != nil {
				return err
			}
		case Gray:
			w.res.BackEdges++
			if w.onBack != nil {
				if err := w.onBack(w, dest); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// next advances the cursor of f to its next accepted transition.
func (w *walker) next(f *frame) (*core.Edge, core.Context, bool) {
	edges := f.Node.Edges()
	for f.edge < len(edges) {
		e := edges[f.edge]
		if f.ctx >= len(e.Contexts) {
			f.edge++
			f.ctx = 0
			continue
		}
		c := e.Contexts[f.ctx]
		f.ctx++
		if !w.opts.FilterContext(e, c) {
			w.res.Skipped++
			continue
		}
		return e, c, true
	}
	return nil, core.Context{}, false
}

func (w *walker) discover(ref core.NodeRef, nd *core.Node, depth int) error {
	select {
	case <-w.opts.Ctx.Done():
		return w.opts.Ctx.Err()
	default:
	}
	w.state[nd] = Gray
	v := Visit{Ref: ref, Node: nd, Depth: depth}
	if err := w.opts.OnVisit(v); err != nil {
		return fmt.Errorf("dfs: OnVisit hook at %s: %w", ref, err)
	}
	w.stack = append(w.stack, frame{Visit: v})
	return nil
}

func (w *walker) finish() error {
	f := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	w.state[f.Node] = Black
	if err := w.opts.OnExit(f.Visit); err != nil {
		return fmt.Errorf("dfs: OnExit hook at %s: %w", f.Ref, err)
	}
	w.res.Order = append(w.res.Order, f.Ref)
	w.res.Depth = append(w.res.Depth, f.Depth)
	return nil
}
