// SPDX-License-Identifier: MIT
//
// File: methods_edges.go
// Role: edge allocation (sorted insertion), restoration with explicit ids,
//       and context extension.
// Determinism:
//   - Edge ids are a monotonic counter scoped to one Network.
//   - A node's edges are always kept in ascending input order.

package core

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/lexnet/label"
)

// search returns the position of input in nd's edges, or the insertion
// point when absent.
func (nd *Node) search(input label.Code) (int, bool) {
	return slices.BinarySearchFunc(nd.edges, input, func(e *Edge, c label.Code) int {
		return int(e.Input) - int(c)
	})
}

// AddEdge allocates the next edge identity and inserts the edge into from at
// its sorted position. Contexts whose Dest is Unbound receive fresh pending
// nodes; read them back from the returned edge.
//
// Returns ErrNoContexts, ErrBadLabel, ErrNodeNotFound or ErrDuplicateInput.
// Complexity: O(deg(from) + len(ctxs)).
func (n *Network) AddEdge(from *Node, input label.Code, weight float32, ctxs ...Context) (*Edge, error) {
	if err := n.checkEdge(from, input, ctxs); err != nil {
		return nil, err
	}
	i, found := from.search(input)
	if found {
		return nil, fmt.Errorf("%w: %q on n%d", ErrDuplicateInput, n.in.MustToken(input), from.id)
	}
	e := &Edge{ID: len(n.edges), Input: input, Weight: weight, Contexts: slices.Clone(ctxs)}
	n.edges = append(n.edges, e)
	n.nEdges++
	from.edges = slices.Insert(from.edges, i, e)
	n.bindUnbound(e, 0)

	return e, nil
}

// RestoreEdge appends an edge with a caller-chosen identity. Edges must be
// restored in ascending input order per node; this is how loaders detect an
// unsorted record.
//
// Returns ErrDuplicateEdge, ErrUnsorted plus the AddEdge validation errors.
func (n *Network) RestoreEdge(from *Node, id int, input label.Code, weight float32, ctxs ...Context) (*Edge, error) {
	if id < 0 {
		return nil, fmt.Errorf("%w: e%d", ErrEdgeNotFound, id)
	}
	if err := n.checkEdge(from, input, ctxs); err != nil {
		return nil, err
	}
	if k := len(from.edges); k > 0 && from.edges[k-1].Input >= input {
		return nil, fmt.Errorf("%w: input %d after %d on n%d", ErrUnsorted, input, from.edges[k-1].Input, from.id)
	}
	if id < len(n.edges) && n.edges[id] != nil {
		return nil, fmt.Errorf("%w: e%d", ErrDuplicateEdge, id)
	}
	for len(n.edges) <= id {
		n.edges = append(n.edges, nil)
	}
	e := &Edge{ID: id, Input: input, Weight: weight, Contexts: slices.Clone(ctxs)}
	n.edges[id] = e
	n.nEdges++
	from.edges = append(from.edges, e)
	n.bindUnbound(e, 0)

	return e, nil
}

// AddContext appends c to the context set of e. An Unbound destination
// receives a fresh pending node.
func (n *Network) AddContext(e *Edge, c Context) error {
	if e == nil || e.ID >= len(n.edges) || n.edges[e.ID] != e {
		return ErrEdgeNotFound
	}
	if err := n.checkContext(c); err != nil {
		return err
	}
	e.Contexts = append(e.Contexts, c)
	n.bindUnbound(e, len(e.Contexts)-1)

	return nil
}

func (n *Network) bindUnbound(e *Edge, from int) {
	for slot := from; slot < len(e.Contexts); slot++ {
		if e.Contexts[slot].Dest == Unbound {
			n.bindPending(e, slot)
		}
	}
}

func (n *Network) checkEdge(from *Node, input label.Code, ctxs []Context) error {
	if from == nil || (from.id >= 0 && (from.id >= len(n.nodes) || n.nodes[from.id] != from)) {
		return ErrNodeNotFound
	}
	if input != Backoff && !n.in.Valid(input) {
		return fmt.Errorf("%w: input %d in %q", ErrBadLabel, input, n.in.Name())
	}
	if len(ctxs) == 0 {
		return ErrNoContexts
	}
	for _, c := range ctxs {
		if err := n.checkContext(c); err != nil {
			return err
		}
	}
	return nil
}

func (n *Network) checkContext(c Context) error {
	if c.Output != Internal && !n.out.Valid(c.Output) {
		return fmt.Errorf("%w: output %d in %q", ErrBadLabel, c.Output, n.out.Name())
	}
	if c.Dest == Unbound {
		return nil
	}
	if c.Dest.IsPending() {
		// a placeholder belongs to exactly one slot
		return fmt.Errorf("%w: %s cannot be shared", ErrNodeNotFound, c.Dest)
	}
	if id := c.Dest.ID(); id < 0 || id >= len(n.nodes) {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, c.Dest)
	}
	return nil
}
