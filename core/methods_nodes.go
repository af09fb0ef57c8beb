// SPDX-License-Identifier: MIT
//
// File: methods_nodes.go
// Role: node allocation and pending-node registration.

package core

import "fmt"

// NewNode registers an empty node with the next sequential identity.
// Complexity: O(1) amortized.
func (n *Network) NewNode() *Node {
	nd := &Node{id: len(n.nodes)}
	n.nodes = append(n.nodes, nd)
	return nd
}

// Register gives the pending node behind ref its identity and rewrites the
// owning context slot to point at it. A reference can be registered once.
// Complexity: O(1).
func (n *Network) Register(ref NodeRef) (*Node, error) {
	if !ref.IsPending() {
		return nil, fmt.Errorf("%w: %s", ErrNotPending, ref)
	}
	key := slotKey{ref.edge, ref.slot}
	nd, ok := n.pending[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, ref)
	}
	e, err := n.Edge(int(ref.edge))
	if err != nil {
		return nil, err
	}
	delete(n.pending, key)
	nd.id = len(n.nodes)
	n.nodes = append(n.nodes, nd)
	e.Contexts[ref.slot].Dest = Registered(nd.id)

	return nd, nil
}

// bindPending creates the placeholder for slot of e.
func (n *Network) bindPending(e *Edge, slot int) *Node {
	nd := &Node{id: -1}
	n.pending[slotKey{int32(e.ID), int32(slot)}] = nd
	e.Contexts[slot].Dest = Pending(e.ID, slot)
	return nd
}

// Clone returns a deep copy of n. Identities, pending placeholders and
// metadata are preserved; label tables are shared.
// Complexity: O(V + E).
func (n *Network) Clone() *Network {
	c := &Network{
		nodes:     make([]*Node, len(n.nodes)),
		edges:     make([]*Edge, len(n.edges)),
		nEdges:    n.nEdges,
		pending:   make(map[slotKey]*Node, len(n.pending)),
		in:        n.in,
		out:       n.out,
		domain:    n.domain,
		counts:    n.counts,
		recurrent: n.recurrent,
		meta:      make(map[string]string, len(n.meta)),
	}
	for k, v := range n.meta {
		c.meta[k] = v
	}
	for i, e := range n.edges {
		if e == nil {
			continue
		}
		ce := &Edge{ID: e.ID, Input: e.Input, Weight: e.Weight, Contexts: make([]Context, len(e.Contexts))}
		copy(ce.Contexts, e.Contexts)
		c.edges[i] = ce
	}
	copyNode := func(nd *Node) *Node {
		cn := &Node{id: nd.id, edges: make([]*Edge, len(nd.edges))}
		for i, e := range nd.edges {
			cn.edges[i] = c.edges[e.ID]
		}
		return cn
	}
	for i, nd := range n.nodes {
		c.nodes[i] = copyNode(nd)
	}
	for k, nd := range n.pending {
		c.pending[k] = copyNode(nd)
	}

	return c
}
