// SPDX-License-Identifier: MIT

package core

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lexnet/label"
	"github.com/katalvlaran/lexnet/semiring"
)

// Sentinel errors for core network operations.
var (
	// ErrNodeNotFound indicates a node id or reference that does not resolve.
	ErrNodeNotFound = errors.New("core: node not found")

	// ErrEdgeNotFound indicates an edge id that was never allocated.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrDuplicateInput indicates a second edge with the same input on one node.
	ErrDuplicateInput = errors.New("core: duplicate input on node")

	// ErrDuplicateEdge indicates a restored edge id that is already taken.
	ErrDuplicateEdge = errors.New("core: duplicate edge id")

	// ErrUnsorted indicates edges that are not in ascending input order.
	ErrUnsorted = errors.New("core: edges not sorted by input")

	// ErrNoContexts indicates an edge without any output context.
	ErrNoContexts = errors.New("core: edge has no contexts")

	// ErrNotPending indicates Register was called on a registered reference.
	ErrNotPending = errors.New("core: node is not pending")

	// ErrBadLabel indicates a code outside the network's label tables.
	ErrBadLabel = errors.New("core: label code out of range")

	// ErrSequenceShape indicates mismatched or empty insertion sequences.
	ErrSequenceShape = errors.New("core: malformed sequence")

	// ErrNotEquivalent is matched by every *InequalityError.
	ErrNotEquivalent = errors.New("core: networks not equivalent")
)

// Sentinels re-exported for readability at call sites.
const (
	// Backoff is the input code of a fallback edge.
	Backoff = label.None
	// Internal is the output code of an epsilon-output context.
	Internal = label.None
)

// NodeRef is a tagged reference to a node: either Registered(id) or
// Pending{edge, slot}. A pending node has no identity yet and is reachable
// only through context slot `slot` of edge `edge`.
type NodeRef struct {
	id   int32
	edge int32
	slot int32
}

// Unbound is passed as a context destination to AddEdge to request a fresh
// pending node at that slot.
var Unbound = NodeRef{id: -2, edge: -1, slot: -1}

// Registered references the node with identity id.
func Registered(id int) NodeRef { return NodeRef{id: int32(id), edge: -1, slot: -1} }

// Pending references the placeholder bound to context slot of edge.
func Pending(edge, slot int) NodeRef { return NodeRef{id: -1, edge: int32(edge), slot: int32(slot)} }

// IsPending reports whether r is a placeholder.
func (r NodeRef) IsPending() bool { return r.id == -1 }

// ID returns the node identity, or -1 for pending and unbound references.
func (r NodeRef) ID() int {
	if r.id < 0 {
		return -1
	}
	return int(r.id)
}

// Slot returns the owning edge id and slot of a pending reference.
func (r NodeRef) Slot() (edge, slot int) { return int(r.edge), int(r.slot) }

// String renders r for diagnostics.
func (r NodeRef) String() string {
	switch {
	case r.id >= 0:
		return fmt.Sprintf("n%d", r.id)
	case r.id == -1:
		return fmt.Sprintf("pending(e%d#%d)", r.edge, r.slot)
	}
	return "unbound"
}

// Context is one output of an edge: where the transition lands, what it
// emits (or Internal) and its local weight.
type Context struct {
	Dest   NodeRef
	Output label.Code
	Weight float32
}

// Terminal reports whether c emits an output symbol.
func (c Context) Terminal() bool { return c.Output != Internal }

// Edge is a transition out of a node. Weight and the context weights may be
// rewritten in place by weight passes; structure changes go through Network.
type Edge struct {
	ID       int
	Input    label.Code
	Weight   float32
	Contexts []Context
}

// Backoff reports whether e is a fallback edge.
func (e *Edge) Backoff() bool { return e.Input == Backoff }

// Node is a vertex of the network. Its edges are kept in ascending input
// order, so a backoff edge, when present, comes first.
type Node struct {
	id    int // -1 while pending
	edges []*Edge
}

// ID returns the identity of a registered node, -1 while pending.
func (nd *Node) ID() int { return nd.id }

// Registered reports whether nd has an identity.
func (nd *Node) Registered() bool { return nd.id >= 0 }

// Edges returns the outgoing edges in input order. The slice must not be
// modified by the caller.
func (nd *Node) Edges() []*Edge { return nd.edges }

// Option configures a Network at construction.
type Option func(n *Network)

// WithDomain sets the weight domain (default Linear).
func WithDomain(d semiring.Domain) Option {
	return func(n *Network) { n.domain = d }
}

// WithCounts marks weights as raw occurrence counts: InsertSequence
// increments them on repeated paths.
func WithCounts() Option {
	return func(n *Network) { n.counts = true }
}

// WithRecurrent makes the final symbol of every inserted sequence loop back
// to the root instead of ending in a leaf.
func WithRecurrent() Option {
	return func(n *Network) { n.recurrent = true }
}

// WithMeta records a free-form metadata pair.
func WithMeta(key, value string) Option {
	return func(n *Network) { n.meta[key] = value }
}

type slotKey struct{ edge, slot int32 }

// Network is the weighted labeled graph. Nodes and edges live in arenas
// addressed by dense identities; the root is always node 0.
//
// A Network is not safe for concurrent mutation.
type Network struct {
	nodes   []*Node
	edges   []*Edge // holes allowed after RestoreEdge
	nEdges  int
	pending map[slotKey]*Node

	in, out *label.Table

	domain    semiring.Domain
	counts    bool
	recurrent bool
	meta      map[string]string
}

// New creates a network holding only the root node.
// Complexity: O(len(opts)).
func New(in, out *label.Table, opts ...Option) *Network {
	n := &Network{
		pending: make(map[slotKey]*Node),
		in:      in,
		out:     out,
		meta:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.NewNode()

	return n
}
