// SPDX-License-Identifier: MIT

package ngram_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lexnet/core"
	"github.com/katalvlaran/lexnet/label"
	"github.com/katalvlaran/lexnet/merge"
	"github.com/katalvlaran/lexnet/ngram"
	"github.com/katalvlaran/lexnet/semiring"
)

const catDogARPA = `
This preamble is ignored.

\data\
ngram 1=4
ngram 2=2

\1-grams:
-99	<s>	-0.3
-1.0	</s>
-0.5	cat	-0.2
-0.7	dog

\2-grams:
-0.1	<s> cat
-0.4	cat dog

\end\
`

func ln10(x float64) float64 { return x * math.Ln10 }

func readCatDog(t *testing.T, opts ...ngram.Option) *core.Network {
	t.Helper()
	n, err := ngram.ReadARPA(strings.NewReader(catDogARPA), opts...)
	require.NoError(t, err)
	return n
}

func TestReadARPA_Layout(t *testing.T) {
	n := readCatDog(t)

	// <s> is the root; "", </s>, cat and dog follow
	assert.Equal(t, 5, n.NodeCount())
	assert.Equal(t, semiring.Log, n.Domain())
	assert.Same(t, n.Inputs(), n.Outputs())
	order, _ := n.Meta("order")
	assert.Equal(t, "2", order)
	start, _ := n.Meta("start")
	assert.Equal(t, "<s>", start)

	// 4 unigrams, 2 bigrams and a backoff per unigram history
	assert.Equal(t, 4+2+4, n.EdgeCount())

	be, ok := n.Root().BackoffEdge()
	require.True(t, ok)
	assert.InDelta(t, ln10(-0.3), float64(be.Weight), 1e-5)
	assert.Equal(t, core.Internal, be.Contexts[0].Output)
	assert.True(t, n.Root().Sorted())
}

func TestReadARPA_Scores(t *testing.T) {
	n := readCatDog(t)

	st, ok := n.Lookup(core.Registered(0), "cat")
	require.True(t, ok)
	assert.InDelta(t, ln10(-0.1), st.Score, 1e-5)

	// no <s> dog bigram: back off to the unigram
	st, ok = n.Lookup(core.Registered(0), "dog")
	require.True(t, ok)
	assert.InDelta(t, ln10(-0.3-0.7), st.Score, 1e-5)

	m, ok := n.Accept([]string{"cat", "dog"})
	require.True(t, ok)
	assert.Equal(t, []string{"cat", "dog"}, m.Outputs)
	assert.InDelta(t, ln10(-0.1-0.4), m.Score, 1e-5)

	_, ok = n.Accept([]string{"cow"})
	assert.False(t, ok)
}

func TestReadARPA_EmptyStartToken(t *testing.T) {
	n := readCatDog(t, ngram.WithStartToken(""))
	_, ok := n.Root().BackoffEdge()
	assert.False(t, ok, "the empty history has no backoff")

	st, ok := n.Lookup(core.Registered(0), "dog")
	require.True(t, ok)
	assert.InDelta(t, ln10(-0.7), st.Score, 1e-5)
}

func TestReadARPA_Trigram(t *testing.T) {
	const src = `\data\
ngram 1=3
ngram 2=2
ngram 3=1

\1-grams:
-0.5 a -0.1
-0.5 b -0.2
-0.5 c

\2-grams:
-0.3 a b -0.4
-0.3 b c

\3-grams:
-0.2 a b c
\end\
`
	n, err := ngram.ReadARPA(strings.NewReader(src))
	require.NoError(t, err)
	// "", a, b, c, "a b", "b c"
	assert.Equal(t, 6, n.NodeCount())

	m, ok := n.Accept([]string{"a", "b", "c"})
	require.True(t, ok)
	assert.InDelta(t, ln10(-0.5-0.3-0.2), m.Score, 1e-5)

	// neither "a b" nor "b" continue with b: back off twice to the unigram
	m, ok = n.Accept([]string{"a", "b", "b"})
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "b"}, m.Outputs)
}

func TestReadARPA_SharedTable(t *testing.T) {
	words := label.NewTable("vocab")
	_, err := words.Intern("zebra")
	require.NoError(t, err)
	n := readCatDog(t, ngram.WithWords(words))
	assert.Same(t, words, n.Inputs())
	_, ok := words.Code("cat")
	assert.True(t, ok)
}

func TestReadARPA_Errors(t *testing.T) {
	cases := map[string]string{
		"no data":       "\\1-grams:\n-1 a\n\\end\\\n",
		"missing end":   "\\data\\\nngram 1=1\n\\1-grams:\n-1 a\n",
		"count":         "\\data\\\nngram 1=2\n\\1-grams:\n-1 a\n\\end\\\n",
		"order gap":     "\\data\\\nngram 2=1\n\\end\\\n",
		"fields":        "\\data\\\nngram 1=1\n\\1-grams:\n-1 a b c\n\\end\\\n",
		"probability":   "\\data\\\nngram 1=1\n\\1-grams:\nx a\n\\end\\\n",
		"section":       "\\data\\\nngram 1=1\n\\3-grams:\n\\end\\\n",
		"after end":     "\\data\\\nngram 1=1\n\\1-grams:\n-1 a\n\\end\\\n-1 b\n",
		"orphan":        "\\data\\\nngram 1=1\nngram 2=1\n\\1-grams:\n-1 a\n\\2-grams:\n-1 b a\n\\end\\\n",
		"duplicate":     "\\data\\\nngram 1=2\n\\1-grams:\n-1 a\n-2 a\n\\end\\\n",
		"bad data line": "\\data\\\nsize 1=1\n\\end\\\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ngram.ReadARPA(strings.NewReader(src))
			assert.ErrorIs(t, err, ngram.ErrSyntax)
		})
	}
}

// TestReadARPA_MergesWithLexicon composes the model with a two-word
// lexicon; the start and end markers have no pronunciation and are pruned.
func TestReadARPA_MergesWithLexicon(t *testing.T) {
	w := readCatDog(t)
	l := core.New(label.NewTable("phones"), label.NewTable("lexwords"), core.WithDomain(semiring.Log), core.WithRecurrent())
	require.NoError(t, l.InsertTokens([]string{"k", "a", "t"}, []string{"", "", "cat"}))
	require.NoError(t, l.InsertTokens([]string{"d", "o", "g"}, []string{"", "", "dog"}))

	m, err := merge.Merge(w, l, semiring.PushMax)
	require.NoError(t, err)

	got, ok := m.Accept(strings.Fields("k a t d o g"))
	require.True(t, ok)
	assert.Equal(t, []string{"cat", "dog"}, got.Outputs)
	assert.InDelta(t, ln10(-0.1-0.4), got.Score, 1e-4)

	got, ok = m.Accept(strings.Fields("d o g"))
	require.True(t, ok)
	assert.InDelta(t, ln10(-0.3-0.7), got.Score, 1e-4)
}
