// SPDX-License-Identifier: MIT

package label_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lexnet/label"
)

// TestTable_InternDense checks that codes are dense, stable and reversible.
func TestTable_InternDense(t *testing.T) {
	tb := label.NewTable("words")
	for i, tok := range []string{"cat", "dog", "cat", "bird"} {
		c, err := tb.Intern(tok)
		require.NoError(t, err, "token %d", i)
		got, err := tb.Token(c)
		require.NoError(t, err)
		assert.Equal(t, tok, got)
	}
	assert.Equal(t, 3, tb.Len())

	c, ok := tb.Code("dog")
	require.True(t, ok)
	assert.Equal(t, label.Code(1), c)

	_, ok = tb.Code("fish")
	assert.False(t, ok)

	_, err := tb.Intern("")
	assert.ErrorIs(t, err, label.ErrEmptyToken)

	_, err = tb.Token(7)
	assert.ErrorIs(t, err, label.ErrUnknownCode)
	assert.Equal(t, "#7", tb.MustToken(7))
	assert.Equal(t, "<none>", tb.MustToken(label.None))
}

func TestTable_ClosedRefusesNewTokens(t *testing.T) {
	tb, err := label.Closed(label.TIMIT61)
	require.NoError(t, err)
	assert.True(t, tb.Closed())
	assert.Equal(t, 61, tb.Len())

	_, err = tb.Intern("zz")
	assert.ErrorIs(t, err, label.ErrClosedTable)

	c, err := tb.Intern("aa")
	require.NoError(t, err)
	assert.Equal(t, label.Code(5), c)
}

func TestTable_TIMIT39Folding(t *testing.T) {
	tb, err := label.Closed(label.TIMIT39)
	require.NoError(t, err)
	assert.Equal(t, 39, tb.Len())

	for alias, canon := range map[string]string{
		"ix": "ih", "ao": "aa", "ax-h": "ah", "zh": "sh", "h#": "sil", "nx": "n",
	} {
		c, ok := tb.Code(alias)
		require.True(t, ok, alias)
		tok, err := tb.Token(c)
		require.NoError(t, err)
		assert.Equal(t, canon, tok, alias)
	}
	_, ok := tb.Code("q")
	assert.False(t, ok, "q has no folded class")
}

func TestFromClosedSet_Ambiguous(t *testing.T) {
	_, err := label.FromClosedSet(label.ClosedSet{
		Name:   "bad",
		Groups: [][]string{{"a", "x"}, {"b", "x"}},
	})
	require.ErrorIs(t, err, label.ErrAmbiguousLabel)

	_, err = label.FromClosedSet(label.ClosedSet{Name: "hole", Groups: [][]string{{"a"}, {}}})
	require.ErrorIs(t, err, label.ErrAmbiguousLabel)

	err = label.Register(label.ClosedSet{Name: "bad", Groups: [][]string{{"a"}, {"a"}}})
	require.ErrorIs(t, err, label.ErrAmbiguousLabel)
	assert.False(t, label.IsClosedSet("bad"))

	_, err = label.Closed("nope")
	assert.ErrorIs(t, err, label.ErrUnknownSet)
}

func TestRegister_CustomSet(t *testing.T) {
	require.NoError(t, label.Register(label.ClosedSet{
		Name:   "toy",
		Groups: [][]string{{"k"}, {"a"}, {"t"}},
	}))
	assert.Contains(t, label.ClosedSets(), "toy")
	tb, err := label.Closed("toy")
	require.NoError(t, err)
	assert.Equal(t, []string{"k", "a", "t"}, tb.Tokens())
}

func TestVocabulary_RoundTrip(t *testing.T) {
	tb, err := label.ReadVocabulary(strings.NewReader("cat\n\n  dog \nbird\n"), "words")
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog", "bird"}, tb.Tokens())
	assert.False(t, tb.Closed())

	var buf bytes.Buffer
	require.NoError(t, tb.WriteVocabulary(&buf))
	again, err := label.ReadVocabulary(&buf, "words")
	require.NoError(t, err)
	assert.Equal(t, tb.Tokens(), again.Tokens())

	_, err = label.ReadVocabulary(strings.NewReader("a\nb\na\n"), "dup")
	assert.ErrorIs(t, err, label.ErrDuplicateToken)
}

// TestTable_InternRejectsWhitespace keeps every token representable in a
// line-oriented vocabulary, so codes survive a write and re-read.
func TestTable_InternRejectsWhitespace(t *testing.T) {
	tb := label.NewTable("words")
	for _, tok := range []string{" cat", "dog ", "new\nline", "tab\tbed", "two words"} {
		_, err := tb.Intern(tok)
		assert.ErrorIs(t, err, label.ErrBadToken, "%q", tok)
	}
	assert.Equal(t, 0, tb.Len(), "refused tokens issue no code")

	_, err := tb.Intern("ok")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, tb.WriteVocabulary(&buf))
	again, err := label.ReadVocabulary(&buf, "words")
	require.NoError(t, err)
	assert.Equal(t, tb.Tokens(), again.Tokens())
}
