// SPDX-License-Identifier: MIT

package merge_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lexnet/core"
	"github.com/katalvlaran/lexnet/label"
	"github.com/katalvlaran/lexnet/semiring"
)

// pron is a lexicon entry with its log score.
type pron struct {
	word, phones string
	score        float32
}

// buildLexicon inserts prons into a log-domain lexicon and stores each score
// on the terminal context.
func buildLexicon(t *testing.T, prons ...pron) *core.Network {
	t.Helper()
	l := core.New(label.NewTable("phones"), label.NewTable("lexwords"), core.WithDomain(semiring.Log), core.WithRecurrent())
	for _, p := range prons {
		phones := strings.Fields(p.phones)
		outs := make([]string, len(phones))
		outs[len(outs)-1] = p.word
		require.NoError(t, l.InsertTokens(phones, outs))
		setTerminal(t, l, phones, p.word, p.score)
	}
	return l
}

func setTerminal(t *testing.T, n *core.Network, phones []string, word string, w float32) {
	t.Helper()
	wc, ok := n.Outputs().Code(word)
	require.True(t, ok)
	cur := n.Root()
	for i, ph := range phones {
		pc, ok := n.Inputs().Code(ph)
		require.True(t, ok)
		e, ok := cur.Find(pc)
		require.True(t, ok)
		for j, c := range e.Contexts {
			if i == len(phones)-1 && c.Output == wc {
				e.Contexts[j].Weight = w
				return
			}
			if i < len(phones)-1 && c.Output == core.Internal {
				next, err := n.Resolve(c.Dest)
				require.NoError(t, err)
				cur = next
				break
			}
		}
	}
	t.Fatalf("no terminal for %q", word)
}

// wordScore is one literal word transition of a word network.
type wordScore struct {
	word  string
	score float32
}

// buildWords creates a log-domain word network whose root scores each word.
// A recurrent network loops every word back to the root; otherwise all
// words lead to a single final node.
func buildWords(t *testing.T, recurrent bool, words ...wordScore) *core.Network {
	t.Helper()
	tb := label.NewTable("words")
	opts := []core.Option{core.WithDomain(semiring.Log)}
	if recurrent {
		opts = append(opts, core.WithRecurrent())
	}
	w := core.New(tb, tb, opts...)
	dest := 0
	if !recurrent {
		dest = w.NewNode().ID()
	}
	for _, ws := range words {
		c, err := tb.Intern(ws.word)
		require.NoError(t, err)
		_, err = w.AddEdge(w.Root(), c, ws.score, core.Context{Dest: core.Registered(dest), Output: c})
		require.NoError(t, err)
	}
	return w
}

var (
	catDogLexicon = []pron{{"cat", "k a t", -2.0}, {"dog", "d o g", -3.0}}
	catDogWords   = []wordScore{{"cat", -0.5}, {"dog", -1.2}}
)
