// SPDX-License-Identifier: MIT

package dijkstra_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lexnet/core"
	"github.com/katalvlaran/lexnet/dijkstra"
	"github.com/katalvlaran/lexnet/label"
	"github.com/katalvlaran/lexnet/lexicon"
	"github.com/katalvlaran/lexnet/semiring"
)

const dict = `TOMATO  T AH M EY T OW
TOMATO(2)  T AH M AA T OW
TOMATO(3)  T AH M AA T OW
CAT  K AE T
`

func buildLexicon(t *testing.T) *core.Network {
	t.Helper()
	n, _, err := lexicon.Build(strings.NewReader(dict), label.NewTable("phones"))
	require.NoError(t, err)
	return n
}

func tokens(t *label.Table, codes []label.Code) string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = t.MustToken(c)
	}
	return strings.Join(out, " ")
}

func TestBestEmissions_Lexicon(t *testing.T) {
	n := buildLexicon(t)
	got, err := dijkstra.BestEmissions(n)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "TOMATO", n.Outputs().MustToken(got[0].Output))
	assert.InDelta(t, math.Log(2.0/3), got[0].Score, 1e-5)
	assert.Equal(t, "T AH M AA T OW", tokens(n.Inputs(), got[0].Inputs))

	assert.Equal(t, "CAT", n.Outputs().MustToken(got[1].Output))
	assert.InDelta(t, 0, got[1].Score, 1e-6)
	assert.Equal(t, "K AE T", tokens(n.Inputs(), got[1].Inputs))

	// a beam below ln(3/2) keeps only CAT
	got, err = dijkstra.BestEmissions(n, dijkstra.WithMaxCost(0.1))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "CAT", n.Outputs().MustToken(got[0].Output))
}

func TestRun_Costs(t *testing.T) {
	n := buildLexicon(t)
	res, err := dijkstra.Run(n)
	require.NoError(t, err)
	require.Len(t, res.Cost, n.NodeCount())
	assert.Equal(t, 0.0, res.Cost[0])
	assert.Equal(t, -1, res.Prev[0].From)
	for id, c := range res.Cost {
		assert.False(t, math.IsInf(c, 1), "n%d reachable", id)
	}
}

// backoffNet: the root reads "cat" directly or backs off to a node that
// reads "unk".
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

func TestBestEmissions_Backoff(t *testing.T) {
	n := backoffNet(t)
	got, err := dijkstra.BestEmissions(n)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, -0.7, got[0].Score, 1e-6)
	assert.InDelta(t, -5.5, got[1].Score, 1e-6)
	assert.Equal(t, "unk", tokens(n.Inputs(), got[1].Inputs), "backoff moves read nothing")

	got, err = dijkstra.BestEmissions(n, dijkstra.WithoutBackoff())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cat", n.Outputs().MustToken(got[0].Output))
}

func TestRun_Errors(t *testing.T) {
	_, err := dijkstra.Run(nil)
	assert.ErrorIs(t, err, dijkstra.ErrNetworkNil)

	tb := label.NewTable("t")
	x, _ := tb.Intern("x")
	lin := core.New(tb, tb)
	_, err = dijkstra.Run(lin)
	assert.ErrorIs(t, err, dijkstra.ErrDomain)

	n := core.New(tb, tb, core.WithDomain(semiring.Log))
	_, err = dijkstra.Run(n, dijkstra.WithSource(3))
	assert.ErrorIs(t, err, dijkstra.ErrSourceNotFound)
	_, err = dijkstra.Run(n, dijkstra.WithMaxCost(-1))
	assert.ErrorIs(t, err, dijkstra.ErrBadMaxCost)

	_, err = n.AddEdge(n.Root(), x, 0.5, core.Context{Dest: core.Registered(0), Output: core.Internal})
	require.NoError(t, err)
	_, err = dijkstra.Run(n)
	assert.ErrorIs(t, err, dijkstra.ErrPositiveWeight)

	p := core.New(tb, tb, core.WithDomain(semiring.Log))
	_, err = p.AddEdge(p.Root(), x, 0, core.Context{Dest: core.Unbound, Output: core.Internal})
	require.NoError(t, err)
	_, err = dijkstra.Run(p)
	assert.ErrorIs(t, err, dijkstra.ErrPending)
}
