// SPDX-License-Identifier: MIT

package bfs_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lexnet/bfs"
	"github.com/katalvlaran/lexnet/core"
	"github.com/katalvlaran/lexnet/label"
)

func lexicon(t *testing.T, recurrent bool, prons ...string) *core.Network {
	t.Helper()
	var opts []core.Option
	if recurrent {
		opts = append(opts, core.WithRecurrent())
	}
	n := core.New(label.NewTable("phones"), label.NewTable("words"), append(opts, core.WithCounts())...)
	for _, p := range prons {
		f := strings.Fields(p)
		outs := make([]string, len(f)-1)
		outs[len(outs)-1] = f[0]
		require.NoError(t, n.InsertTokens(f[1:], outs))
	}
	return n
}

func TestWalk_Errors(t *testing.T) {
	_, err := bfs.Walk(nil)
	assert.ErrorIs(t, err, bfs.ErrNetworkNil)

	n := lexicon(t, false, "cat k a t")
	_, err = bfs.Walk(n, bfs.WithMaxDepth(-1))
	assert.ErrorIs(t, err, bfs.ErrOptionViolation)

	_, err = bfs.Walk(n, bfs.WithStart(core.Registered(99)))
	assert.ErrorIs(t, err, bfs.ErrStartNotFound)
}

func TestWalk_OrderAndDepth(t *testing.T) {
	n := lexicon(t, false, "cat k a t", "cab k a b", "do d o")
	res, err := bfs.Walk(n)
	require.NoError(t, err)

	assert.Equal(t, n.NodeCount(), res.Registered)
	assert.Zero(t, res.Pending)
	assert.Empty(t, res.Unreached)
	assert.Equal(t, core.Registered(0), res.Order[0])
	for i := 1; i < len(res.Depth); i++ {
		assert.LessOrEqual(t, res.Depth[i-1], res.Depth[i], "depths never decrease")
	}
	// k and a are shared by cat/cab, d and o belong to do
	assert.Equal(t, []int{0, 1, 1, 2, 2, 3, 3}, res.Depth)
}

func TestWalk_RecurrentTerminates(t *testing.T) {
	n := lexicon(t, true, "cat k a t", "cab k a b", "ka k a")
	res, err := bfs.Walk(n)
	require.NoError(t, err)
	assert.Equal(t, n.NodeCount(), len(res.Order))
}

func TestWalk_PendingAndUnreached(t *testing.T) {
	tb := label.NewTable("t")
	x, _ := tb.Intern("x")
	n := core.New(tb, tb)
	island := n.NewNode()
	e, err := n.AddEdge(n.Root(), x, 0, core.Context{Dest: core.Unbound, Output: x})
	require.NoError(t, err)
	p, err := n.Resolve(e.Contexts[0].Dest)
	require.NoError(t, err)
	_, err = n.AddEdge(p, x, 0, core.Context{Dest: core.Registered(0), Output: x})
	require.NoError(t, err)

	var enq []core.NodeRef
	res, err := bfs.Walk(n, bfs.WithOnEnqueue(func(ref core.NodeRef, _ int) { enq = append(enq, ref) }))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pending)
	assert.Equal(t, 1, res.Registered)
	assert.Equal(t, []int{island.ID()}, res.Unreached)
	assert.Equal(t, res.Order, enq)
	assert.True(t, res.Order[1].IsPending())
}

func TestWalk_HooksAndLimits(t *testing.T) {
	n := lexicon(t, false, "cat k a t", "dog d o g")

	res, err := bfs.Walk(n, bfs.WithMaxDepth(1))
	require.NoError(t, err)
	assert.Len(t, res.Order, 3)

	res, err = bfs.Walk(n, bfs.WithFilterContext(func(e *core.Edge, _ core.Context) bool {
		tok, _ := n.Inputs().Token(e.Input)
		return tok != "d"
	}))
	require.NoError(t, err)
	assert.Len(t, res.Order, 4)

	boom := errors.New("boom")
	_, err = bfs.Walk(n, bfs.WithOnVisit(func(v bfs.Visit) error {
		if v.Depth == 2 {
			return boom
		}
		return nil
	}))
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = bfs.Walk(n, bfs.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}
