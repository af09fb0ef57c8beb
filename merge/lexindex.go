// SPDX-License-Identifier: MIT

package merge

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lexnet/core"
	"github.com/katalvlaran/lexnet/label"
)

// parentLink is the unique internal transition into a lexicon node.
type parentLink struct {
	node  int     // -1 for the root
	local float64 // edge weight plus context weight of the transition
}

// wordEnd is one terminal context of the lexicon.
type wordEnd struct {
	node  int     // lexicon node the terminal edge leaves from
	local float64 // edge weight plus context weight
}

// lexIndex is the pronunciation tree of the lexicon: parent links on the
// internal contexts and, per output word, the terminal contexts emitting it.
type lexIndex struct {
	l      *core.Network
	parent []parentLink
	ends   map[label.Code][]wordEnd
}

// indexLexicon walks l from the root over internal contexts only. Every
// node other than the root must be reached exactly once, and no backoff edge
// may appear.
func indexLexicon(l *core.Network) (*lexIndex, error) {
	idx := &lexIndex{
		l:      l,
		parent: make([]parentLink, l.NodeCount()),
		ends:   make(map[label.Code][]wordEnd),
	}
	reached := make([]bool, l.NodeCount())
	reached[0] = true
	idx.parent[0] = parentLink{node: -1}
	queue := []int{0}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		nd, err := l.Node(u)
		if err != nil {
			return nil, err
		}
		for _, e := range nd.Edges() {
			if e.Backoff() {
				return nil, fmt.Errorf("%w: backoff edge e%d at n%d", ErrLexiconShape, e.ID, u)
			}
			for _, c := range e.Contexts {
				local := float64(e.Weight) + float64(c.Weight)
				if c.Terminal() {
					idx.ends[c.Output] = append(idx.ends[c.Output], wordEnd{node: u, local: local})
					continue
				}
				v := c.Dest.ID()
				if v < 0 || v >= len(reached) {
					return nil, fmt.Errorf("%w: e%d leads to %s", ErrLexiconShape, e.ID, c.Dest)
				}
				if reached[v] {
					return nil, fmt.Errorf("%w: n%d reached twice", ErrLexiconShape, v)
				}
				reached[v] = true
				idx.parent[v] = parentLink{node: u, local: local}
				queue = append(queue, v)
			}
		}
	}
	return idx, nil
}

// pathScore returns the weight from the root down to the terminal end.
func (idx *lexIndex) pathScore(end wordEnd) float64 {
	acc := end.local
	for v := end.node; idx.parent[v].node >= 0; v = idx.parent[v].node {
		acc += idx.parent[v].local
	}
	return acc
}

// alignment maps word-network input codes to lexicon output codes by token.
type alignment []label.Code // label.None where the word has no lexicon entry

func align(lexOut, wordIn *label.Table) (alignment, error) {
	a := make(alignment, wordIn.Len())
	shared := 0
	for i, tok := range wordIn.Tokens() {
		a[i] = label.None
		if c, ok := lexOut.Code(tok); ok {
			a[i] = c
			shared++
		}
	}
	if shared == 0 {
		return nil, fmt.Errorf("%w: lexicon outputs %q and word inputs %q share no token",
			ErrAlphabetMismatch, lexOut.Name(), wordIn.Name())
	}
	return a, nil
}

var negInf = math.Inf(-1)
