// SPDX-License-Identifier: MIT

package dijkstra

import (
	"container/heap"
	"fmt"
	"math"
	"slices"

	"github.com/katalvlaran/lexnet/core"
	"github.com/katalvlaran/lexnet/label"
	"github.com/katalvlaran/lexnet/semiring"
)

// costEpsilon absorbs float32 rounding of totals that should be exactly 0.
const costEpsilon = 1e-6

// Run computes the cheapest cost from the source to every registered node
// along internal contexts. Output-bearing contexts end a word and are not
// followed, so costs describe partial paths inside one emission.
//
// Complexity: O((V + E) log V) with lazy decrease-key.
func Run(n *core.Network, opts ...Option) (*Result, error) {
	r, err := newRunner(n, opts)
	if err != nil {
		return nil, err
	}
	if err := r.process(); err != nil {
		return nil, err
	}
	return r.res, nil
}

// BestEmissions returns, per output code, the best-scoring path from the
// source that emits it on its first output-bearing transition. The result
// is sorted by output code.
//
// Complexity: O((V + E) log V).
func BestEmissions(n *core.Network, opts ...Option) ([]Emission, error) {
	r, err := newRunner(n, opts)
	if err != nil {
		return nil, err
	}
	if err := r.process(); err != nil {
		return nil, err
	}

	type best struct {
		cost float64
		from int
		step Step
	}
	found := make(map[label.Code]best)
	for u, cu := range r.res.Cost {
		if math.IsInf(cu, 1) || cu > r.opts.MaxCost {
			continue
		}
		nd, _ := n.Node(u)
		for _, e := range nd.Edges() {
			if e.Backoff() {
				continue
			}
			for slot, c := range e.Contexts {
				if !c.Terminal() {
					continue
				}
				cost := cu - n.Total(e, c)
				if cost > r.opts.MaxCost {
					continue
				}
				if b, ok := found[c.Output]; !ok || cost < b.cost {
					found[c.Output] = best{cost: cost, from: u, step: Step{From: u, Edge: e, Slot: slot}}
				}
			}
		}
	}

	out := make([]Emission, 0, len(found))
	for code, b := range found {
		inputs := append(r.path(b.from), b.step.Edge.Input)
		out = append(out, Emission{Output: code, Score: -b.cost, Inputs: inputs})
	}
	slices.SortFunc(out, func(a, b Emission) int { return int(a.Output) - int(b.Output) })
	return out, nil
}

// runner holds the mutable state for a single search.
type runner struct {
	n       *core.Network
	opts    Options
	res     *Result
	visited []bool
	pq      nodePQ
}

func newRunner(n *core.Network, opts []Option) (*runner, error) {
	if n == nil {
		return nil, ErrNetworkNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if n.Domain() != semiring.Log {
		return nil, fmt.Errorf("%w: have %s", ErrDomain, n.Domain())
	}
	if n.PendingCount() > 0 {
		return nil, fmt.Errorf("%w: %d", ErrPending, n.PendingCount())
	}
	if _, err := n.Node(o.Source); err != nil {
		return nil, fmt.Errorf("%w: n%d", ErrSourceNotFound, o.Source)
	}

	V := n.NodeCount()
	r := &runner{
		n:       n,
		opts:    o,
		res:     &Result{Cost: make([]float64, V), Prev: make([]Step, V)},
		visited: make([]bool, V),
	}
	for v := range r.res.Cost {
		r.res.Cost[v] = math.Inf(1)
		r.res.Prev[v] = Step{From: -1}
	}
	r.res.Cost[o.Source] = 0
	heap.Push(&r.pq, &nodeItem{id: o.Source})
	return r, nil
}

func (r *runner) process() error {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*nodeItem)
		if r.visited[item.id] {
			continue
		}
		if item.cost > r.opts.MaxCost {
			break
		}
		r.visited[item.id] = true
		if err := r.relax(item.id); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) relax(u int) error {
	nd, _ := r.n.Node(u)
	for _, e := range nd.Edges() {
		if e.Backoff() && !r.opts.Backoff {
			continue
		}
		for slot, c := range e.Contexts {
			w := r.n.Total(e, c)
			if w > costEpsilon {
				return fmt.Errorf("%w: e%d slot %d at n%d weighs %g", ErrPositiveWeight, e.ID, slot, u, w)
			}
			if c.Terminal() || math.IsInf(w, -1) {
				continue
			}
			v := c.Dest.ID()
			cost := r.res.Cost[u] + max(-w, 0)
			if cost > r.opts.MaxCost || cost >= r.res.Cost[v] {
				continue
			}
			r.res.Cost[v] = cost
			r.res.Prev[v] = Step{From: u, Edge: e, Slot: slot}
			heap.Push(&r.pq, &nodeItem{id: v, cost: cost})
		}
	}
	return nil
}

// path returns the literal inputs from the source to v.
func (r *runner) path(v int) []label.Code {
	var rev []label.Code
	for s := r.res.Prev[v]; s.From >= 0; s = r.res.Prev[s.From] {
		if !s.Edge.Backoff() {
			rev = append(rev, s.Edge.Input)
		}
	}
	slices.Reverse(rev)
	return rev
}

// nodeItem is a heap entry; stale entries are skipped on pop.
type nodeItem struct {
	id   int
	cost float64
}

// nodePQ is a min-heap of *nodeItem by cost.
type nodePQ []*nodeItem

func (pq nodePQ) Len() int           { return len(pq) }
func (pq nodePQ) Less(i, j int) bool { return pq[i].cost < pq[j].cost }
func (pq nodePQ) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }
func (pq *nodePQ) Push(x any)        { *pq = append(*pq, x.(*nodeItem)) }
func (pq *nodePQ) Pop() any {
	old := *pq
	item := old[len(old)-1]
	*pq = old[:len(old)-1]
	return item
}
