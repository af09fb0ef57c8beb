// SPDX-License-Identifier: MIT

package merge

import (
	"fmt"
	"math"
	"slices"

	"github.com/katalvlaran/lexnet/core"
	"github.com/katalvlaran/lexnet/label"
	"github.com/katalvlaran/lexnet/semiring"
)

// Verify replays the composed network m against its inputs. For every word
// leaving w's root on a literal edge, the log-add over all composed paths
// from m's root that end by emitting that word must equal the word score
// plus the log-add of the word's lexicon pronunciation scores, within
// Tolerance · max(1, |expected|). Backoff edges are not followed; words
// without a pronunciation are not expected.
//
// Returns ErrMismatch naming the first offending word in code order.
func Verify(w, l, m *core.Network, opts ...Option) error {
	o, err := buildOptions(opts)
	if err != nil {
		return err
	}
	idx, err := indexLexicon(l)
	if err != nil {
		return err
	}
	a, err := align(l.Outputs(), w.Inputs())
	if err != nil {
		return err
	}

	want := expected(w, idx, a)
	got, err := composedRoot(m)
	if err != nil {
		return err
	}

	words := make([]label.Code, 0, len(want)+len(got))
	for out := range want {
		words = append(words, out)
	}
	for out := range got {
		if _, ok := want[out]; !ok {
			words = append(words, out)
		}
	}
	slices.Sort(words)
	for _, out := range words {
		wv, wok := want[out]
		gv, gok := got[out]
		tok := m.Outputs().MustToken(out)
		switch {
		case !wok:
			return fmt.Errorf("%w: unexpected word %q scored %g", ErrMismatch, tok, gv)
		case !gok:
			return fmt.Errorf("%w: word %q missing, want %g", ErrMismatch, tok, wv)
		case math.Abs(gv-wv) > o.Tolerance*math.Max(1, math.Abs(wv)):
			return fmt.Errorf("%w: word %q scored %g, want %g", ErrMismatch, tok, gv, wv)
		}
	}
	return nil
}

// expected scores each output of w's root literal edges.
func expected(w *core.Network, idx *lexIndex, a alignment) map[label.Code]float64 {
	want := make(map[label.Code]float64)
	lsum := make(map[label.Code]float64)
	for _, e := range w.Root().Edges() {
		if e.Backoff() {
			continue
		}
		lw := a[e.Input]
		if lw == label.None {
			continue
		}
		ls, ok := lsum[lw]
		if !ok {
			ls = negInf
			for _, end := range idx.ends[lw] {
				ls = semiring.LogAdd(ls, idx.pathScore(end))
			}
			lsum[lw] = ls
		}
		for _, c := range e.Contexts {
			s := float64(e.Weight) + float64(c.Weight) + ls
			if math.IsInf(s, -1) {
				continue
			}
			if prev, seen := want[c.Output]; seen {
				s = semiring.LogAdd(prev, s)
			}
			want[c.Output] = s
		}
	}
	return want
}

// composedRoot log-adds, per output, the weight of every path from m's root
// that follows internal contexts and ends in an output-bearing context.
func composedRoot(m *core.Network) (map[label.Code]float64, error) {
	type item struct {
		node *core.Node
		acc  float64
	}
	got := make(map[label.Code]float64)
	visited := map[*core.Node]bool{m.Root(): true}
	stack := []item{{node: m.Root()}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range it.node.Edges() {
			if e.Backoff() {
				continue
			}
			for _, c := range e.Contexts {
				s := it.acc + m.Total(e, c)
				if c.Terminal() {
					if prev, seen := got[c.Output]; seen {
						s = semiring.LogAdd(prev, s)
					}
					got[c.Output] = s
					continue
				}
				dest, err := m.Resolve(c.Dest)
				if err != nil {
					return nil, err
				}
				if visited[dest] {
					continue
				}
				visited[dest] = true
				stack = append(stack, item{node: dest, acc: s})
			}
		}
	}
	return got, nil
}
