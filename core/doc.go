// Package core provides the weighted labeled network: the graph that backs a
// pronunciation lexicon (phones → word), a word-sequence model
// (words → word) and their composition.
//
// A Network N = (V, E) is stored in two arenas addressed by dense integer
// identities:
//
//   - Nodes are registered (identity ≥ 0, the root is always 0) or pending:
//     a placeholder owned by exactly one edge slot and registered once its
//     content is known (see NodeRef).
//   - Edges carry an input code, a float32 weight and one or more Contexts.
//     A Context is (destination, output code or Internal, local weight); the
//     total weight of a context is Domain().Times(edge, context).
//   - A node's edges are sorted by input code. The Backoff input (-1) sorts
//     first and marks a fallback transition.
//
// Recurrent networks (WithRecurrent) send the final symbol of every inserted
// sequence back to the root, so networks are in general cyclic. Every walk in
// this module therefore carries its own visited table and never recurses
// natively.
//
// Core methods:
//
//	// Construction
//	New(in, out, opts...) *Network
//	NewNode() *Node                                   // O(1)
//	AddEdge(from, input, w, ctxs...) (*Edge, error)   // O(deg)
//	AddContext(e, ctx) error                          // O(1)
//	Register(ref) (*Node, error)                      // O(1)
//	InsertSequence(inputs, outputs, start) error      // O(len · log deg)
//
//	// Queries
//	Accept(tokens) (Match, bool)
//	Lookup(ref, token) (Step, bool)
//	Equivalent(other, opts...) error                  // O(V + E)
//
// A Network is single-threaded: no method may run concurrently with a
// mutation of the same Network.
package core
