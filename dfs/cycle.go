// SPDX-License-Identifier: MIT

package dfs

import (
	"errors"
	"fmt"
	"slices"

	"github.com/katalvlaran/lexnet/core"
)

// FindCycle returns the first cycle met by a depth-first walk, as the
// references along the path from the re-entered node to the node that
// closes it, or nil when the walked part of n is acyclic. Combine with
// WithFilterContext to restrict the check, e.g. to backoff edges.
// Complexity: O(V + E).
func FindCycle(n *core.Network, opts ...Option) ([]core.NodeRef, error) {
	w, err := newWalker(n, opts)
	if err != nil {
		return nil, err
	}
	var cycle []core.NodeRef
	w.onBack = func(w *walker, dest *core.Node) error {
		for i := len(w.stack) - 1; i >= 0; i-- {
			if w.stack[i].Node == dest {
				for _, f := range w.stack[i:] {
					cycle = append(cycle, f.Ref)
				}
				return errStop
			}
		}
		return nil
	}
	if err := w.run(); err != nil && !errors.Is(err, errStop) {
		return nil, err
	}
	return cycle, nil
}

// TopologicalSort orders the reachable nodes so that every followed
// transition goes from an earlier to a later node.
//
// Returns ErrCycleDetected, naming the cycle, when no such order exists.
// Complexity: O(V + E).
func TopologicalSort(n *core.Network, opts ...Option) ([]core.NodeRef, error) {
	cycle, err := FindCycle(n, opts...)
	if err != nil {
		return nil, err
	}
	if cycle != nil {
		return nil, fmt.Errorf("%w: %v", ErrCycleDetected, cycle)
	}
	res, err := Walk(n, opts...)
	if err != nil {
		return nil, err
	}
	order := slices.Clone(res.Order)
	slices.Reverse(order)
	return order, nil
}
