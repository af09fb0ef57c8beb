// SPDX-License-Identifier: MIT

package bfs

import (
	"context"
	"fmt"

	"github.com/katalvlaran/lexnet/core"
)

type queueItem struct {
	ref   core.NodeRef
	node  *core.Node
	depth int
}

// walker encapsulates mutable walk state. The visited table is owned by the
// walker, so concurrent walks over one unmodified network do not interfere.
type walker struct {
	net     *core.Network
	opts    Options
	ctx     context.Context
	queue   []queueItem
	visited []bool
	res     *Result
}

// Walk visits every node reachable from the start in breadth-first order.
// A node is enqueued when it is first referenced, scanning edges in input
// order and contexts in slot order; pending nodes are owned by a single slot
// and are therefore enqueued exactly once.
//
// Returns ErrNetworkNil, ErrStartNotFound, ErrOptionViolation, the context
// error on cancellation, or any OnVisit error.
// Complexity: O(V + E) time, O(V) memory.
func Walk(n *core.Network, opts ...Option) (*Result, error) {
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
	start, err := n.Resolve(o.Start)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStartNotFound, err)
	}

	w := &walker{
		net:     n,
		opts:    o,
		ctx:     o.Ctx,
		queue:   make([]queueItem, 0, n.NodeCount()),
		visited: make([]bool, n.NodeCount()),
		res: &Result{
			Order: make([]core.NodeRef, 0, n.NodeCount()),
			Depth: make([]int, 0, n.NodeCount()),
		},
	}
	w.enqueue(o.Start, start, 0)
	if err = w.loop(); err != nil {
		return w.res, err
	}
	for id, seen := range w.visited {
		if !seen {
			w.res.Unreached = append(w.res.Unreached, id)
		}
	}

	return w.res, nil
}

func (w *walker) enqueue(ref core.NodeRef, nd *core.Node, d int) {
	if !ref.IsPending() {
		w.visited[ref.ID()] = true
	}
	w.opts.OnEnqueue(ref, d)
	w.queue = append(w.queue, queueItem{ref: ref, node: nd, depth: d})
}

func (w *walker) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		item := w.queue[0]
		w.queue = w.queue[1:]
		if err := w.visit(item); err != nil {
			return err
		}
		if err := w.expand(item); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) visit(item queueItem) error {
	w.res.Order = append(w.res.Order, item.ref)
	w.res.Depth = append(w.res.Depth, item.depth)
	if item.ref.IsPending() {
		w.res.Pending++
	} else {
		w.res.Registered++
	}
	if err := w.opts.OnVisit(Visit{Ref: item.ref, Node: item.node, Depth: item.depth}); err != nil {
		return fmt.Errorf("bfs: OnVisit error at %s: %w", item.ref, err)
	}
	return nil
}

// expand enqueues the unseen destinations of item's contexts.
func (w *walker) expand(item queueItem) error {
	next := item.depth + 1
	if w.opts.MaxDepth > 0 && next > w.opts.MaxDepth {
		return nil
	}
	for _, e := range item.node.Edges() {
		for _, c := range e.Contexts {
			if !w.opts.FilterContext(e, c) {
				continue
			}
			if !c.Dest.IsPending() && w.visited[c.Dest.ID()] {
				continue
			}
			nd, err := w.net.Resolve(c.Dest)
			if err != nil {
				return fmt.Errorf("bfs: edge e%d: %w", e.ID, err)
			}
			w.enqueue(c.Dest, nd, next)
		}
	}
	return nil
}
