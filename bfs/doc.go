// Package bfs provides an iterative breadth-first walk over a core.Network,
// returning the visit order and depths of every reachable node.
//
// What
//
//   - Explore nodes in non-decreasing distance (transition count) from the
//     root or from a chosen start reference.
//   - Registered nodes are tracked in a visited table owned by the call;
//     pending nodes are owned by exactly one context slot and need none.
//   - Hooks: OnEnqueue (first reference), OnVisit (dequeue, may abort).
//   - FilterContext skips individual transitions; MaxDepth bounds the walk.
//
// Determinism
//
//	Edges are scanned in ascending input order and contexts in slot order,
//	so the visit sequence is a pure function of the network. The persistence
//	format relies on this: records are written in Walk order and the loader
//	replays the same FIFO discipline.
//
// Cycles
//
//	Recurrent networks loop back to the root. Walk never recurses and never
//	re-enqueues a registered node, so it terminates on any network.
//
// Complexity (V = nodes, E = edges)
//
//   - Time:   O(V + E)
//   - Memory: O(V)
//
// Usage
//
//	res, err := bfs.Walk(n, bfs.WithOnVisit(func(v bfs.Visit) error {
//		// inspect v.Node.Edges()
//		return nil
//	}))
package bfs
