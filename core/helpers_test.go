// SPDX-License-Identifier: MIT

package core_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lexnet/core"
	"github.com/katalvlaran/lexnet/label"
	"github.com/katalvlaran/lexnet/semiring"
)

// pron is one lexicon entry: a word and its space-separated phones.
type pron struct {
	word, phones string
}

// buildLexicon inserts prons into a fresh count-weighted network.
func buildLexicon(t *testing.T, prons []pron, opts ...core.Option) *core.Network {
	t.Helper()
	n := core.New(label.NewTable("phones"), label.NewTable("words"), append([]core.Option{core.WithCounts()}, opts...)...)
	for _, p := range prons {
		insertPron(t, n, p)
	}
	return n
}

func insertPron(t *testing.T, n *core.Network, p pron) {
	t.Helper()
	phones := strings.Fields(p.phones)
	outs := make([]string, len(phones))
	outs[len(outs)-1] = p.word
	require.NoError(t, n.InsertTokens(phones, outs))
}

// terminal walks phones from the root along internal contexts and returns
// the context that emits word on the last phone.
func terminal(t *testing.T, n *core.Network, phones, word string) (*core.Edge, core.Context) {
	t.Helper()
	cur := n.Root()
	ps := strings.Fields(phones)
	wc, ok := n.Outputs().Code(word)
	require.True(t, ok, word)
	for i, ph := range ps {
		pc, ok := n.Inputs().Code(ph)
		require.True(t, ok, ph)
		e, ok := cur.Find(pc)
		require.True(t, ok, "no edge for %q", ph)
		want := core.Internal
		if i == len(ps)-1 {
			want = wc
		}
		for _, c := range e.Contexts {
			if c.Output != want {
				continue
			}
			if i == len(ps)-1 {
				return e, c
			}
			next, err := n.Resolve(c.Dest)
			require.NoError(t, err)
			cur = next
		}
	}
	t.Fatalf("no terminal for %q", word)
	return nil, core.Context{}
}

// backoffNet builds the word network of the backoff scenario: the root has a
// literal edge "cat" and a backoff edge to a fallback node accepting "unk".
func backoffNet(t *testing.T) *core.Network {
	t.Helper()
	words := label.NewTable("words")
	n := core.New(words, words, core.WithDomain(semiring.Log))
	cat, _ := words.Intern("cat")
	unk, _ := words.Intern("unk")
	fallback := n.NewNode()
	_, err := n.AddEdge(n.Root(), core.Backoff, -0.5, core.Context{Dest: core.Registered(fallback.ID()), Output: core.Internal})
	require.NoError(t, err)
	_, err = n.AddEdge(n.Root(), cat, -0.7, core.Context{Dest: core.Registered(0), Output: cat})
	require.NoError(t, err)
	_, err = n.AddEdge(fallback, unk, -5.0, core.Context{Dest: core.Registered(0), Output: unk})
	require.NoError(t, err)
	return n
}
