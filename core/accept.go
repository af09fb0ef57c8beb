// SPDX-License-Identifier: MIT

package core

import (
	"github.com/katalvlaran/lexnet/label"
)

// Match describes how a token sequence was accepted.
type Match struct {
	// Score is the weight of the best accepting path.
	Score float64
	// Total combines all accepting paths with the domain's plus.
	Total float64
	// Paths counts the accepting paths.
	Paths int
	// Outputs lists the output tokens emitted along the best path.
	Outputs []string
}

type acceptState struct {
	node  *Node
	pos   int
	score float64
	eps   int  // consecutive backoff moves
	final bool // the last literal step emitted an output
	trail int
}

type trailStep struct {
	out  label.Code
	prev int
}

// Accept matches tokens (input alphabet) against the network from the root.
// Backoff edges are explored in addition to literal edges. The sequence is
// accepted when some path consumes every token and its last literal step
// took an output-bearing context; the empty sequence is accepted with the
// identity score. Unknown tokens are rejected.
//
// The walk is an explicit-stack DFS over (node, position) states; backoff
// chains longer than the node count are cut, so cyclic backoff structure
// cannot loop forever.
func (n *Network) Accept(tokens []string) (Match, bool) {
	d := n.domain
	codes := make([]label.Code, len(tokens))
	for i, tok := range tokens {
		c, ok := n.in.Code(tok)
		if !ok {
			return Match{}, false
		}
		codes[i] = c
	}
	if len(codes) == 0 {
		return Match{Score: d.One(), Total: d.One()}, true
	}

	var (
		trail     []trailStep
		best      = Match{Total: d.Zero()}
		bestTrail = -1
		epsLimit  = len(n.nodes) + len(n.pending)
	)
	stack := []acceptState{{node: n.Root(), score: d.One(), trail: -1}}
	for len(stack) > 0 {
		st := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if st.pos == len(codes) {
			if st.final {
				if best.Paths == 0 || d.Better(st.score, best.Score) {
					best.Score = st.score
					bestTrail = st.trail
				}
				best.Total = d.Plus(best.Total, st.score)
				best.Paths++
			}
			continue
		}

		if be, ok := st.node.BackoffEdge(); ok && st.eps < epsLimit {
			for _, c := range be.Contexts {
				dest, err := n.Resolve(c.Dest)
				if err != nil {
					continue
				}
				stack = append(stack, acceptState{
					node: dest, pos: st.pos, score: d.Times(st.score, n.Total(be, c)),
					eps: st.eps + 1, trail: st.trail,
				})
			}
		}
		if e, ok := st.node.Find(codes[st.pos]); ok {
			for _, c := range e.Contexts {
				dest, err := n.Resolve(c.Dest)
				if err != nil {
					continue
				}
				tr := st.trail
				if c.Terminal() {
					trail = append(trail, trailStep{out: c.Output, prev: st.trail})
					tr = len(trail) - 1
				}
				stack = append(stack, acceptState{
					node: dest, pos: st.pos + 1, score: d.Times(st.score, n.Total(e, c)),
					final: c.Terminal(), trail: tr,
				})
			}
		}
	}
	if best.Paths == 0 {
		return Match{}, false
	}
	for i := bestTrail; i >= 0; i = trail[i].prev {
		best.Outputs = append(best.Outputs, n.out.MustToken(trail[i].out))
	}
	for i, j := 0, len(best.Outputs)-1; i < j; i, j = i+1, j-1 {
		best.Outputs[i], best.Outputs[j] = best.Outputs[j], best.Outputs[i]
	}

	return best, true
}

// Step is one scored transition returned by Lookup.
type Step struct {
	Score  float64
	Dest   NodeRef
	Output label.Code
}

// Lookup returns the best transition consuming token from node, following
// backoff edges (and accumulating their weights) while no literal edge
// matches. This is the score query a decoder needs to advance a hypothesis.
func (n *Network) Lookup(node NodeRef, token string) (Step, bool) {
	code, ok := n.in.Code(token)
	if !ok {
		return Step{}, false
	}
	cur, err := n.Resolve(node)
	if err != nil {
		return Step{}, false
	}
	d := n.domain
	acc := d.One()
	for hops := 0; hops <= len(n.nodes); hops++ {
		if e, ok := cur.Find(code); ok {
			var (
				best  Step
				found bool
			)
			for _, c := range e.Contexts {
				s := d.Times(acc, n.Total(e, c))
				if !found || d.Better(s, best.Score) {
					best = Step{Score: s, Dest: c.Dest, Output: c.Output}
					found = true
				}
			}
			return best, found
		}
		be, ok := cur.BackoffEdge()
		if !ok {
			return Step{}, false
		}
		c := be.Contexts[0]
		acc = d.Times(acc, n.Total(be, c))
		if cur, err = n.Resolve(c.Dest); err != nil {
			return Step{}, false
		}
	}
	return Step{}, false
}
