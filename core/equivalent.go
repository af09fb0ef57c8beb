// SPDX-License-Identifier: MIT

package core

import (
	"fmt"
	"math"
)

// InequalityError witnesses the first difference found by Equivalent.
type InequalityError struct {
	Node  string // receiver-side node, "n<id>" or a pending reference
	Edge  int    // edge position within the node, -1 for node-level fields
	Slot  int    // context position within the edge, -1 for edge-level fields
	Field string
	Want  any // receiver value
	Got   any // other value
}

func (e *InequalityError) Error() string {
	where := e.Node
	if e.Edge >= 0 {
		where = fmt.Sprintf("%s edge[%d]", where, e.Edge)
	}
	if e.Slot >= 0 {
		where = fmt.Sprintf("%s ctx[%d]", where, e.Slot)
	}
	return fmt.Sprintf("core: networks differ at %s: %s %v != %v", where, e.Field, e.Want, e.Got)
}

// Is makes errors.Is(err, ErrNotEquivalent) hold for every witness.
func (e *InequalityError) Is(target error) bool { return target == ErrNotEquivalent }

// EquivOption tunes Equivalent.
type EquivOption func(*equivConfig)

type equivConfig struct {
	tol float64
}

// WithTolerance accepts weights that differ by at most eps.
// Panics on negative eps.
func WithTolerance(eps float64) EquivOption {
	if eps < 0 || math.IsNaN(eps) {
		panic("core: WithTolerance(negative)")
	}
	return func(c *equivConfig) { c.tol = eps }
}

type nodePair struct {
	a, b *Node
	name string
}

// Equivalent compares n and other structurally and numerically, walking both
// from their roots in lockstep. Node pairing must be consistent: a node of n
// is matched with exactly one node of other, which makes the comparison an
// isomorphism check that terminates on recurrent graphs.
//
// It returns nil when the networks are equivalent, an error matching
// ErrUnsorted when either side holds unsorted edges, and an
// *InequalityError (matching ErrNotEquivalent) for the first difference.
// Complexity: O(V + E) time, O(V) space for the pairing tables.
func (n *Network) Equivalent(other *Network, opts ...EquivOption) error {
	cfg := equivConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if n.domain != other.domain {
		return &InequalityError{Node: "network", Edge: -1, Slot: -1, Field: "domain", Want: n.domain, Got: other.domain}
	}

	aPair := make([]*Node, len(n.nodes))
	bPair := make([]*Node, len(other.nodes))
	queue := []nodePair{{a: n.Root(), b: other.Root(), name: "n0"}}
	aPair[0], bPair[0] = other.Root(), n.Root()

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		if !p.a.Sorted() {
			return fmt.Errorf("%w: receiver %s", ErrUnsorted, p.name)
		}
		if !p.b.Sorted() {
			return fmt.Errorf("%w: argument node paired with %s", ErrUnsorted, p.name)
		}
		if len(p.a.edges) != len(p.b.edges) {
			return &InequalityError{Node: p.name, Edge: -1, Slot: -1, Field: "edge count", Want: len(p.a.edges), Got: len(p.b.edges)}
		}
		for i, ea := range p.a.edges {
			eb := p.b.edges[i]
			if ea.Input != eb.Input {
				return &InequalityError{Node: p.name, Edge: i, Slot: -1, Field: "input", Want: ea.Input, Got: eb.Input}
			}
			if !cfg.same(ea.Weight, eb.Weight) {
				return &InequalityError{Node: p.name, Edge: i, Slot: -1, Field: "weight", Want: ea.Weight, Got: eb.Weight}
			}
			if len(ea.Contexts) != len(eb.Contexts) {
				return &InequalityError{Node: p.name, Edge: i, Slot: -1, Field: "context count", Want: len(ea.Contexts), Got: len(eb.Contexts)}
			}
			for j, ca := range ea.Contexts {
				cb := eb.Contexts[j]
				if ca.Output != cb.Output {
					return &InequalityError{Node: p.name, Edge: i, Slot: j, Field: "output", Want: ca.Output, Got: cb.Output}
				}
				if !cfg.same(ca.Weight, cb.Weight) {
					return &InequalityError{Node: p.name, Edge: i, Slot: j, Field: "context weight", Want: ca.Weight, Got: cb.Weight}
				}
				da, err := n.Resolve(ca.Dest)
				if err != nil {
					return err
				}
				db, err := other.Resolve(cb.Dest)
				if err != nil {
					return err
				}
				next, fresh, ok := pairNodes(aPair, bPair, da, db)
				if !ok {
					return &InequalityError{Node: p.name, Edge: i, Slot: j, Field: "destination", Want: ca.Dest, Got: cb.Dest}
				}
				if fresh {
					queue = append(queue, nodePair{a: next.a, b: next.b, name: ca.Dest.String()})
				}
			}
		}
	}

	return nil
}

// pairNodes records a ↔ b. It reports whether the pair is new and whether
// it is consistent with earlier pairings.
func pairNodes(aPair, bPair []*Node, a, b *Node) (nodePair, bool, bool) {
	if a.id >= 0 && aPair[a.id] != nil {
		return nodePair{}, false, aPair[a.id] == b
	}
	if b.id >= 0 && bPair[b.id] != nil {
		return nodePair{}, false, false
	}
	if a.id >= 0 {
		aPair[a.id] = b
	}
	if b.id >= 0 {
		bPair[b.id] = a
	}
	return nodePair{a: a, b: b}, true, true
}

func (c equivConfig) same(a, b float32) bool {
	if a == b || (a != a && b != b) {
		return true
	}
	return c.tol > 0 && math.Abs(float64(a)-float64(b)) <= c.tol
}
