// SPDX-License-Identifier: MIT

package core_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lexnet/core"
	"github.com/katalvlaran/lexnet/label"
)

var toyProns = []pron{
	{"cat", "k a t"},
	{"cab", "k a b"},
	{"ka", "k a"},
	{"dog", "d o g"},
	{"dog", "d a g"},
}

func TestInsert_SharesPrefixes(t *testing.T) {
	n := buildLexicon(t, toyProns)

	// k, a, t, b on the k branch; d, o, g, a, g on the d branch
	assert.Equal(t, 9, n.EdgeCount())
	require.Len(t, n.Root().Edges(), 2)

	// "ka" ends on the same a-edge that continues to t/b
	e, c := terminal(t, n, "k a", "ka")
	assert.Len(t, e.Contexts, 2)
	assert.Equal(t, float32(1), c.Weight)
	assert.Equal(t, float32(3), e.Weight, "three words pass through k-a")
}

// TestInsert_CountsDouble checks that inserting every pair twice doubles
// every terminal weight.
func TestInsert_CountsDouble(t *testing.T) {
	once := buildLexicon(t, toyProns)
	twice := buildLexicon(t, append(append([]pron{}, toyProns...), toyProns...))

	for _, p := range toyProns {
		e1, c1 := terminal(t, once, p.phones, p.word)
		e2, c2 := terminal(t, twice, p.phones, p.word)
		assert.Equal(t, 2*c1.Weight, c2.Weight, p.word)
		assert.Equal(t, 2*e1.Weight, e2.Weight, p.word)
	}
	assert.Equal(t, once.NodeCount(), twice.NodeCount())
	assert.Equal(t, once.EdgeCount(), twice.EdgeCount())
}

func TestInsert_RecurrentLoopsToRoot(t *testing.T) {
	n := buildLexicon(t, toyProns, core.WithRecurrent())
	_, c := terminal(t, n, "k a t", "cat")
	assert.Equal(t, core.Registered(0), c.Dest)

	leafy := buildLexicon(t, toyProns)
	_, c = terminal(t, leafy, "k a t", "cat")
	assert.NotEqual(t, 0, c.Dest.ID())
	assert.Greater(t, leafy.NodeCount(), n.NodeCount())
}

func TestInsert_Errors(t *testing.T) {
	n := core.New(label.NewTable("in"), label.NewTable("out"))
	assert.ErrorIs(t, n.InsertSequence(nil, nil, 0), core.ErrSequenceShape)
	assert.ErrorIs(t, n.InsertSequence([]label.Code{0}, nil, 0), core.ErrSequenceShape)
	assert.ErrorIs(t, n.InsertSequence([]label.Code{0}, []label.Code{core.Internal}, 0), core.ErrBadLabel)
	assert.ErrorIs(t, n.InsertTokens([]string{"a"}, nil), core.ErrSequenceShape)

	require.NoError(t, n.InsertTokens([]string{"a"}, []string{"x"}))
	assert.ErrorIs(t, n.InsertSequence([]label.Code{0}, []label.Code{0}, 5), core.ErrNodeNotFound)
	assert.Equal(t, 2, n.NodeCount(), "failed inserts allocate nothing")

	closed, err := label.Closed(label.TIMIT39)
	require.NoError(t, err)
	cn := core.New(closed, label.NewTable("words"))
	assert.ErrorIs(t, cn.InsertTokens([]string{"zz"}, []string{"w"}), label.ErrClosedTable)
}

// TestRecurrent_LargeTerminates builds a recurrent word network from more
// than 10,000 distinct sequences and checks that whole-graph comparison
// terminates.
func TestRecurrent_LargeTerminates(t *testing.T) {
	words := label.NewTable("words")
	n := core.New(words, words, core.WithCounts(), core.WithRecurrent())
	vocab := make([]string, 22)
	for i := range vocab {
		vocab[i] = fmt.Sprintf("w%02d", i)
	}
	inserted := 0
	for _, a := range vocab {
		for _, b := range vocab {
			for _, c := range vocab {
				seq := []string{a, b, c}
				require.NoError(t, n.InsertTokens(seq, seq))
				inserted++
			}
		}
	}
	require.GreaterOrEqual(t, inserted, 10000)
	require.NoError(t, n.Equivalent(n.Clone()))

	m, ok := n.Accept([]string{"w01", "w02", "w03", "w04", "w05", "w06"})
	assert.True(t, ok)
	assert.Equal(t, []string{"w01", "w02", "w03", "w04", "w05", "w06"}, m.Outputs)
}
