// SPDX-License-Identifier: MIT

package core

import (
	"fmt"

	"github.com/katalvlaran/lexnet/label"
)

// InsertSequence walks inputs from node start, sharing every existing
// prefix, and records outputs[i] on the context taken at step i (Internal
// for no output yet).
//
// At each step:
//   - matching edge and context: counts networks increment both weights;
//   - matching edge, new output: the edge gains a context;
//   - no edge: a new edge is inserted at its sorted position.
//
// New destinations are fresh nodes, except that the last symbol of a
// recurrent network loops back to the root.
//
// Returns ErrSequenceShape, ErrBadLabel or ErrNodeNotFound; labels are
// validated before anything is mutated.
// Complexity: O(len(inputs) · (log deg + ctx)).
func (n *Network) InsertSequence(inputs, outputs []label.Code, start int) error {
	if len(inputs) == 0 || len(inputs) != len(outputs) {
		return fmt.Errorf("%w: %d inputs, %d outputs", ErrSequenceShape, len(inputs), len(outputs))
	}
	for i := range inputs {
		if !n.in.Valid(inputs[i]) {
			return fmt.Errorf("%w: input %d at step %d", ErrBadLabel, inputs[i], i)
		}
		if outputs[i] != Internal && !n.out.Valid(outputs[i]) {
			return fmt.Errorf("%w: output %d at step %d", ErrBadLabel, outputs[i], i)
		}
	}
	cur, err := n.Node(start)
	if err != nil {
		return err
	}
	unit := float32(n.domain.One())

	for i, in := range inputs {
		last := i == len(inputs)-1
		out := outputs[i]

		e, ok := cur.Find(in)
		if !ok {
			dest := n.stepDest(last)
			if _, err = n.AddEdge(cur, in, unit, Context{Dest: Registered(dest.id), Output: out, Weight: unit}); err != nil {
				return err
			}
			cur = dest
			continue
		}

		if n.counts {
			e.Weight++
		}
		if slot := contextSlot(e, out); slot >= 0 {
			if n.counts {
				e.Contexts[slot].Weight++
			}
			if cur, err = n.Resolve(e.Contexts[slot].Dest); err != nil {
				return err
			}
			continue
		}
		dest := n.stepDest(last)
		if err = n.AddContext(e, Context{Dest: Registered(dest.id), Output: out, Weight: unit}); err != nil {
			return err
		}
		cur = dest
	}

	return nil
}

// InsertTokens interns the tokens and inserts them from the root. An empty
// output token means Internal.
func (n *Network) InsertTokens(inputs, outputs []string) error {
	if len(inputs) != len(outputs) {
		return fmt.Errorf("%w: %d inputs, %d outputs", ErrSequenceShape, len(inputs), len(outputs))
	}
	ic := make([]label.Code, len(inputs))
	oc := make([]label.Code, len(outputs))
	var err error
	for i := range inputs {
		if ic[i], err = n.in.Intern(inputs[i]); err != nil {
			return err
		}
		oc[i] = Internal
		if outputs[i] != "" {
			if oc[i], err = n.out.Intern(outputs[i]); err != nil {
				return err
			}
		}
	}
	return n.InsertSequence(ic, oc, 0)
}

func (n *Network) stepDest(last bool) *Node {
	if last && n.recurrent {
		return n.nodes[0]
	}
	return n.NewNode()
}

func contextSlot(e *Edge, out label.Code) int {
	for i, c := range e.Contexts {
		if c.Output == out {
			return i
		}
	}
	return -1
}
