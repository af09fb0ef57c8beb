// SPDX-License-Identifier: MIT
//
// File: api.go
// Role: read-only accessors over Network state. No traversal, no mutation
//       beyond the explicit setters used by weight passes and loaders.

package core

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/lexnet/label"
	"github.com/katalvlaran/lexnet/semiring"
)

// Root returns node 0.
func (n *Network) Root() *Node { return n.nodes[0] }

// NodeCount returns the number of registered nodes.
func (n *Network) NodeCount() int { return len(n.nodes) }

// PendingCount returns the number of placeholders not yet registered.
func (n *Network) PendingCount() int { return len(n.pending) }

// EdgeCount returns the number of live edges.
func (n *Network) EdgeCount() int { return n.nEdges }

// EdgeCapacity returns one past the largest edge id ever allocated. Tables
// indexed by edge id must have this length.
func (n *Network) EdgeCapacity() int { return len(n.edges) }

// Inputs returns the input alphabet.
func (n *Network) Inputs() *label.Table { return n.in }

// Outputs returns the output alphabet.
func (n *Network) Outputs() *label.Table { return n.out }

// Domain returns the weight domain.
func (n *Network) Domain() semiring.Domain { return n.domain }

// SetDomain records a new weight domain. It does not touch weights; it is
// meant for passes that have just rewritten every weight.
func (n *Network) SetDomain(d semiring.Domain) { n.domain = d }

// Counts reports whether weights are raw occurrence counts.
func (n *Network) Counts() bool { return n.counts }

// SetCounts records whether weights are raw occurrence counts.
func (n *Network) SetCounts(v bool) { n.counts = v }

// Recurrent reports whether inserted sequences loop back to the root.
func (n *Network) Recurrent() bool { return n.recurrent }

// SetRecurrent records the insertion policy; used by loaders.
func (n *Network) SetRecurrent(v bool) { n.recurrent = v }

// Meta returns the metadata value for key.
func (n *Network) Meta(key string) (string, bool) {
	v, ok := n.meta[key]
	return v, ok
}

// SetMeta records a metadata pair.
func (n *Network) SetMeta(key, value string) { n.meta[key] = value }

// MetaKeys returns the metadata keys in sorted order.
func (n *Network) MetaKeys() []string {
	keys := make([]string, 0, len(n.meta))
	for k := range n.meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Node returns the registered node with identity id.
func (n *Network) Node(id int) (*Node, error) {
	if id < 0 || id >= len(n.nodes) {
		return nil, fmt.Errorf("%w: n%d", ErrNodeNotFound, id)
	}
	return n.nodes[id], nil
}

// Resolve returns the node behind ref, registered or pending.
func (n *Network) Resolve(ref NodeRef) (*Node, error) {
	if ref.IsPending() {
		nd, ok := n.pending[slotKey{ref.edge, ref.slot}]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, ref)
		}
		return nd, nil
	}
	return n.Node(ref.ID())
}

// Edge returns the edge with identity id.
func (n *Network) Edge(id int) (*Edge, error) {
	if id < 0 || id >= len(n.edges) || n.edges[id] == nil {
		return nil, fmt.Errorf("%w: e%d", ErrEdgeNotFound, id)
	}
	return n.edges[id], nil
}

// Total returns the weight of reaching c through e, combining the edge and
// context weights under the network's domain.
func (n *Network) Total(e *Edge, c Context) float64 {
	return n.domain.Times(float64(e.Weight), float64(c.Weight))
}

// Find returns the edge of nd with the given input, using binary search.
// Complexity: O(log deg).
func (nd *Node) Find(input label.Code) (*Edge, bool) {
	i, ok := nd.search(input)
	if !ok {
		return nil, false
	}
	return nd.edges[i], true
}

// BackoffEdge returns the fallback edge of nd, if any.
func (nd *Node) BackoffEdge() (*Edge, bool) {
	if len(nd.edges) > 0 && nd.edges[0].Input == Backoff {
		return nd.edges[0], true
	}
	return nil, false
}

// Sorted reports whether nd's edges are in strictly ascending input order.
func (nd *Node) Sorted() bool {
	for i := 1; i < len(nd.edges); i++ {
		if nd.edges[i-1].Input >= nd.edges[i].Input {
			return false
		}
	}
	return true
}
