// SPDX-License-Identifier: MIT
//
// File: prob.go
// Role: in-place weight passes over a whole network: log conversion, uniform
//       normalisation of counts and dictionary finalisation.
// Determinism:
//   - Every pass visits nodes in bfs.Walk order, then any registered node
//     the walk left unreached in id order, and touches each edge exactly once.

// Package prob rewrites network weights between probability domains.
package prob

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/lexnet/bfs"
	"github.com/katalvlaran/lexnet/core"
	"github.com/katalvlaran/lexnet/label"
	"github.com/katalvlaran/lexnet/semiring"
)

// ErrDomain indicates a pass applied to a network in the wrong domain or
// weight mode.
var ErrDomain = errors.New("prob: wrong weight domain")

// nodes returns every node reachable from the root in walk order, followed
// by the registered nodes the walk did not reach. A domain switch covers the
// whole network, so detached nodes are rewritten too.
func nodes(n *core.Network) ([]*core.Node, error) {
	out := make([]*core.Node, 0, n.NodeCount())
	res, err := bfs.Walk(n, bfs.WithOnVisit(func(v bfs.Visit) error {
		out = append(out, v.Node)
		return nil
	}))
	if err != nil {
		return nil, err
	}
	for _, id := range res.Unreached {
		nd, err := n.Node(id)
		if err != nil {
			return nil, fmt.Errorf("prob: unreached node %d: %w", id, err)
		}
		out = append(out, nd)
	}
	return out, nil
}

func ln(w float32) float32 { return float32(math.Log(float64(w))) }

// ToLogDomain replaces every edge weight and every non-zero context weight
// with its natural logarithm and switches the network to the log domain.
// A network already in the log domain is left untouched, so a second call
// is a no-op.
//
// Zero context weights stay 0: in a linear network they mark contexts whose
// total is carried entirely by the edge weight.
// Complexity: O(V + E).
func ToLogDomain(n *core.Network) error {
	if n.Domain() == semiring.Log {
		return nil
	}
	all, err := nodes(n)
	if err != nil {
		return err
	}
	for _, nd := range all {
		for _, e := range nd.Edges() {
			e.Weight = ln(e.Weight)
			for i := range e.Contexts {
				if e.Contexts[i].Weight != 0 {
					e.Contexts[i].Weight = ln(e.Contexts[i].Weight)
				}
			}
		}
	}
	n.SetDomain(semiring.Log)

	return nil
}

// ApplyUniformDistribution normalises a count-weighted network: at every
// node the edge weights are divided by their domain sum, and within every
// edge the context weights are divided by theirs. Afterwards the outgoing
// mass of each node and of each edge is One; the counts flag is cleared.
// Nodes or edges whose total is Zero are left as they are.
// Complexity: O(V + E).
func ApplyUniformDistribution(n *core.Network) error {
	d := n.Domain()
	all, err := nodes(n)
	if err != nil {
		return err
	}
	for _, nd := range all {
		total := d.Zero()
		for _, e := range nd.Edges() {
			total = d.Plus(total, float64(e.Weight))
		}
		for _, e := range nd.Edges() {
			if !d.IsZero(total) {
				e.Weight = float32(d.Divide(float64(e.Weight), total))
			}
			ctxTotal := d.Zero()
			for _, c := range e.Contexts {
				ctxTotal = d.Plus(ctxTotal, float64(c.Weight))
			}
			if d.IsZero(ctxTotal) {
				continue
			}
			for i := range e.Contexts {
				e.Contexts[i].Weight = float32(d.Divide(float64(e.Contexts[i].Weight), ctxTotal))
			}
		}
	}
	n.SetCounts(false)

	return nil
}

// Report summarises FinalizeDictionary.
type Report struct {
	// Words counts the output words with a positive total.
	Words int
	// Unseen lists output words whose total stayed zero, in code order.
	Unseen []string
}

// FinalizeDictionary turns a linear count-weighted lexicon into a log-domain
// pronunciation model. For every output word the counts of all terminal
// contexts emitting it are summed; each terminal context weight becomes
// ln(count/total), while edge weights and internal context weights become
// the log identity. The log-add over all pronunciations of a word is then 0.
//
// Words whose total stayed zero are logged as warnings and listed in the
// report; they are not an error.
// Returns ErrDomain unless the network is linear and count-weighted.
// Complexity: O(V + E + |outputs|).
func FinalizeDictionary(n *core.Network) (*Report, error) {
	if n.Domain() != semiring.Linear || !n.Counts() {
		return nil, fmt.Errorf("%w: finalisation needs linear counts, have %s (counts=%t)", ErrDomain, n.Domain(), n.Counts())
	}
	all, err := nodes(n)
	if err != nil {
		return nil, err
	}

	totals := make([]float64, n.Outputs().Len())
	for _, nd := range all {
		for _, e := range nd.Edges() {
			for _, c := range e.Contexts {
				if c.Terminal() {
					totals[c.Output] += float64(c.Weight)
				}
			}
		}
	}
	for _, nd := range all {
		for _, e := range nd.Edges() {
			e.Weight = 0
			for i, c := range e.Contexts {
				if !c.Terminal() || totals[c.Output] == 0 {
					e.Contexts[i].Weight = 0
					continue
				}
				e.Contexts[i].Weight = float32(math.Log(float64(c.Weight) / totals[c.Output]))
			}
		}
	}

	rep := &Report{}
	for code, total := range totals {
		if total > 0 {
			rep.Words++
			continue
		}
		word := n.Outputs().MustToken(label.Code(code))
		slog.Warn("prob: word has zero total count", "word", word)
		rep.Unseen = append(rep.Unseen, word)
	}
	n.SetDomain(semiring.Log)
	n.SetCounts(false)

	return rep, nil
}
