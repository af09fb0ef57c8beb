// Package dfs implements depth-first walks over a core.Network with an
// explicit stack, so arbitrarily deep lexicon chains never exhaust the
// goroutine stack.
//
//	Walk(n, opts...)            post-order, pre/post hooks, back-edge count
//	FindCycle(n, opts...)       first cycle as a reference path, or nil
//	TopologicalSort(n, opts...) reverse post-order or ErrCycleDetected
//
// Nodes are coloured White, Gray (on the current path) and Black
// (finished). A transition into a Gray node is a back edge and closes a
// cycle. Recurrent networks are cyclic through their root by construction;
// their backoff structure alone must not be, which
// FindCycle(n, WithFilterContext(OnlyBackoff)) checks.
//
// Complexity: O(V + E) time, O(V) memory for the colour map and stack.
package dfs
