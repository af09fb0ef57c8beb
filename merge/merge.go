// SPDX-License-Identifier: MIT
//
// File: merge.go
// Role: composition of a word network W with a pronunciation lexicon L.
// Determinism:
//   - W nodes are expanded in FIFO order of first reference; within a node,
//     edges and contexts are scanned in stored order, so the composed
//     network's identities are a pure function of the inputs.

package merge

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/lexnet/core"
	"github.com/katalvlaran/lexnet/label"
	"github.com/katalvlaran/lexnet/semiring"
)

// candidate is one scored continuation of the current W node by a word.
type candidate struct {
	score float64
	wdest int
	out   label.Code
}

// frame is one pending emission step: lexicon node lnode is being copied
// into the composed node behind ref, with weights relative to base.
type frame struct {
	lnode int
	ref   core.NodeRef
	base  float64
}

type composer struct {
	w, l, m *core.Network
	push    semiring.Push
	idx     *lexIndex
	align   alignment

	equiv []*core.Node // W id → composed node
	queue []int        // W ids awaiting expansion

	// per-W-node scratch
	cands   map[label.Code][]candidate
	words   []label.Code
	pot     []float64
	has     []bool
	touched []int

	pruned int
}

// Merge composes the word network w with the lexicon l. The result accepts
// phone sequences (l's inputs) and emits words (w's outputs); the weight of
// every path is the lexicon path score plus the word score, and subtree
// potentials are pushed towards the root with the push law so that partial
// paths already carry the best (PushMax) or total (PushSum) mass reachable
// below them.
//
// Requirements: push is PushSum or PushMax (ErrPushRequired); both networks
// are log domain (ErrDomain) and fully registered (ErrPending); l has no
// backoff edges and its internal contexts form a tree (ErrLexiconShape);
// literal W contexts emit a word (ErrWordShape); l's outputs and w's inputs
// share at least one token (ErrAlphabetMismatch).
//
// Unless WithoutVerification is given, the result is checked with Verify
// before it is returned.
// Complexity: O(|V_W| · (|E_L| + Σ_w ends(w) · depth_L)) time.
func Merge(w, l *core.Network, push semiring.Push, opts ...Option) (*core.Network, error) {
	if !push.Valid() {
		return nil, fmt.Errorf("%w: got %s", ErrPushRequired, push)
	}
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	if err = checkInputs(w, l); err != nil {
		return nil, err
	}
	idx, err := indexLexicon(l)
	if err != nil {
		return nil, err
	}
	a, err := align(l.Outputs(), w.Inputs())
	if err != nil {
		return nil, err
	}
	met, err := newMetrics(o.MeterProvider)
	if err != nil {
		return nil, fmt.Errorf("merge: metrics: %w", err)
	}

	m := core.New(l.Inputs(), w.Outputs(), core.WithDomain(semiring.Log))
	m.SetRecurrent(w.Recurrent())
	for _, src := range []*core.Network{l, w} {
		for _, k := range src.MetaKeys() {
			v, _ := src.Meta(k)
			m.SetMeta(k, v)
		}
	}
	m.SetMeta("push", push.String())

	c := &composer{
		w: w, l: l, m: m,
		push:  push,
		idx:   idx,
		align: a,
		equiv: make([]*core.Node, w.NodeCount()),
		cands: make(map[label.Code][]candidate),
		pot:   make([]float64, l.NodeCount()),
		has:   make([]bool, l.NodeCount()),
	}
	c.equiv[0] = m.Root()
	c.queue = append(c.queue, 0)
	for len(c.queue) > 0 {
		wid := c.queue[0]
		c.queue = c.queue[1:]
		if err = c.expand(wid); err != nil {
			return nil, err
		}
	}

	verified := "skipped"
	if o.Verify {
		verified = "ok"
		if err = Verify(w, l, m, WithTolerance(o.Tolerance)); err != nil {
			met.record(push, m.NodeCount(), m.EdgeCount(), c.pruned, "failed")
			return nil, err
		}
	}
	met.record(push, m.NodeCount(), m.EdgeCount(), c.pruned, verified)
	slog.Debug("merge: composed network",
		"push", push.String(),
		"nodes", m.NodeCount(),
		"edges", m.EdgeCount(),
		"pruned_words", c.pruned,
		"verify", verified,
	)

	return m, nil
}

func checkInputs(w, l *core.Network) error {
	if w.Domain() != semiring.Log || l.Domain() != semiring.Log {
		return fmt.Errorf("%w: words %s, lexicon %s", ErrDomain, w.Domain(), l.Domain())
	}
	if w.PendingCount() > 0 {
		return fmt.Errorf("%w: words has %d", ErrPending, w.PendingCount())
	}
	if l.PendingCount() > 0 {
		return fmt.Errorf("%w: lexicon has %d", ErrPending, l.PendingCount())
	}
	return nil
}

// nodeFor returns the composed node of W node wid, registering and
// enqueueing it on first reference.
func (c *composer) nodeFor(wid int) *core.Node {
	if c.equiv[wid] == nil {
		c.equiv[wid] = c.m.NewNode()
		c.queue = append(c.queue, wid)
	}
	return c.equiv[wid]
}

// expand builds the composed copy of W node wid.
func (c *composer) expand(wid int) error {
	wn, err := c.w.Node(wid)
	if err != nil {
		return err
	}
	mn := c.equiv[wid]

	if err = c.collect(wn, mn); err != nil {
		return err
	}
	c.potentials()
	if len(c.words) == 0 || !c.live(0) {
		return nil
	}
	return c.emit(mn)
}

// collect copies the backoff edge of wn and gathers the word candidates of
// its literal edges, keyed by lexicon output code.
func (c *composer) collect(wn, mn *core.Node) error {
	clear(c.cands)
	c.words = c.words[:0]
	for _, e := range wn.Edges() {
		if e.Backoff() {
			ctxs := make([]core.Context, len(e.Contexts))
			for i, bc := range e.Contexts {
				dest := c.nodeFor(bc.Dest.ID())
				ctxs[i] = core.Context{Dest: core.Registered(dest.ID()), Output: core.Internal, Weight: bc.Weight}
			}
			if _, err := c.m.AddEdge(mn, core.Backoff, e.Weight, ctxs...); err != nil {
				return err
			}
			continue
		}
		lw := c.align[e.Input]
		for _, wc := range e.Contexts {
			if !wc.Terminal() {
				return fmt.Errorf("%w: e%d at n%d", ErrWordShape, e.ID, wn.ID())
			}
			score := float64(e.Weight) + float64(wc.Weight)
			if lw == label.None || len(c.idx.ends[lw]) == 0 || math.IsInf(score, -1) {
				c.pruned++
				continue
			}
			if len(c.cands[lw]) == 0 {
				c.words = append(c.words, lw)
			}
			c.cands[lw] = append(c.cands[lw], candidate{score: score, wdest: wc.Dest.ID(), out: wc.Output})
		}
	}
	return nil
}

// potentials sets pot[v], for every lexicon node v above a candidate word
// end, to the push-combined score of all completions below v.
func (c *composer) potentials() {
	for _, v := range c.touched {
		c.has[v] = false
	}
	c.touched = c.touched[:0]

	for _, lw := range c.words {
		wordScore := negInf
		for _, cand := range c.cands[lw] {
			wordScore = c.push.Combine(wordScore, cand.score)
		}
		for _, end := range c.idx.ends[lw] {
			acc := end.local + wordScore
			for v := end.node; ; {
				c.addPot(v, acc)
				p := c.idx.parent[v]
				if p.node < 0 {
					break
				}
				acc += p.local
				v = p.node
			}
		}
	}
}

func (c *composer) addPot(v int, s float64) {
	if !c.has[v] {
		c.has[v] = true
		c.pot[v] = s
		c.touched = append(c.touched, v)
		return
	}
	c.pot[v] = c.push.Combine(c.pot[v], s)
}

func (c *composer) live(v int) bool { return c.has[v] && !math.IsInf(c.pot[v], -1) }

// emit copies the live part of the lexicon tree below the composed node mn.
// Each context total is e⊗c⊗target⊘base, where target is the child's
// potential for internal contexts and the candidate score at word ends, and
// base is the potential of the lexicon node being copied (One at the root).
// Along any path the bases cancel, so the composed path weight is the
// lexicon path score plus the word score.
func (c *composer) emit(mn *core.Node) error {
	type child struct{ slot, lnode int }
	var (
		ctxs     []core.Context
		totals   []float64
		children []child
	)
	stack := []frame{{lnode: 0, ref: core.Registered(mn.ID()), base: 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		md, err := c.bind(f.ref)
		if err != nil {
			return err
		}
		ln, err := c.l.Node(f.lnode)
		if err != nil {
			return err
		}
		for _, e := range ln.Edges() {
			ctxs, totals, children = ctxs[:0], totals[:0], children[:0]
			for _, lc := range e.Contexts {
				rel := float64(e.Weight) + float64(lc.Weight) - f.base
				if !lc.Terminal() {
					v := lc.Dest.ID()
					if !c.live(v) {
						continue
					}
					children = append(children, child{slot: len(ctxs), lnode: v})
					ctxs = append(ctxs, core.Context{Dest: core.Unbound, Output: core.Internal})
					totals = append(totals, rel+c.pot[v])
					continue
				}
				for _, cand := range c.cands[lc.Output] {
					total := rel + cand.score
					if math.IsInf(total, -1) {
						continue
					}
					dest := c.nodeFor(cand.wdest)
					ctxs = append(ctxs, core.Context{Dest: core.Registered(dest.ID()), Output: cand.out})
					totals = append(totals, total)
				}
			}
			if len(ctxs) == 0 {
				continue
			}

			edgeW := totals[0]
			for _, t := range totals[1:] {
				edgeW = c.push.Combine(edgeW, t)
			}
			ew := float32(edgeW)
			if len(ctxs) > 1 {
				for i := range ctxs {
					ctxs[i].Weight = float32(totals[i] - float64(ew))
				}
			}
			me, err := c.m.AddEdge(md, e.Input, ew, ctxs...)
			if err != nil {
				return err
			}
			for _, ch := range children {
				stack = append(stack, frame{lnode: ch.lnode, ref: me.Contexts[ch.slot].Dest, base: c.pot[ch.lnode]})
			}
		}
	}
	return nil
}

// bind resolves a frame's composed node, registering pending ones.
func (c *composer) bind(ref core.NodeRef) (*core.Node, error) {
	if ref.IsPending() {
		return c.m.Register(ref)
	}
	return c.m.Node(ref.ID())
}
