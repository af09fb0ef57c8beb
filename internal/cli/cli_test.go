// SPDX-License-Identifier: MIT

package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lexnet/internal/cli"
)

const dict = `;;; toy dictionary
CAT  K AE1 T
DOG  D AO1 G
DOG(2)  D AA1 G
`

const arpa = `\data\
ngram 1=4
ngram 2=2

\1-grams:
-99 <s> -0.3
-1.0 </s>
-0.5 CAT -0.2
-0.7 DOG

\2-grams:
-0.1 <s> CAT
-0.4 CAT DOG

\end\
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	c := cli.New("test")
	c.SetOutput(&buf)
	c.SetArgs(append([]string{"--silent"}, args...))
	err := c.Run()
	return buf.String(), err
}

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// buildDecoder runs lexicon, lm and merge and returns the merged path.
func buildDecoder(t *testing.T, dir string) string {
	t.Helper()
	lex := filepath.Join(dir, "lexicon.lexnet")
	words := filepath.Join(dir, "words.lexnet")
	dec := filepath.Join(dir, "decoder.lexnet")

	_, err := run(t, "lexicon", write(t, dir, "toy.dict", dict), lex, "--phones", "cmu39", "--strip-stress")
	require.NoError(t, err)
	_, err = run(t, "lm", words, "--arpa", write(t, dir, "toy.arpa", arpa))
	require.NoError(t, err)
	_, err = run(t, "merge", words, lex, dec, "--push", "max")
	require.NoError(t, err)
	return dec
}

func TestPipeline(t *testing.T) {
	dir := t.TempDir()
	dec := buildDecoder(t, dir)

	out, err := run(t, "accept", dec, "K", "AE", "T", "D", "AO", "G")
	require.NoError(t, err)
	assert.Contains(t, out, "outputs: CAT DOG\n")

	out, err = run(t, "info", dec)
	require.NoError(t, err)
	assert.Contains(t, out, "domain: log\n")
	assert.Contains(t, out, "inputs: cmu39 (39)\n")
	assert.Contains(t, out, "meta.push: max\n")
	assert.Contains(t, out, "cyclic: true\n")
	assert.NotContains(t, out, "backoff-cycle")

	out, err = run(t, "equal", dec, dec)
	require.NoError(t, err)
	assert.Equal(t, "equivalent\n", out)

	_, err = run(t, "accept", dec, "Z", "Z")
	assert.ErrorIs(t, err, cli.ErrRejected)
}

func TestLM_Sentences(t *testing.T) {
	dir := t.TempDir()
	loop := filepath.Join(dir, "loop.lexnet")
	_, err := run(t, "lm", loop, "--sentences", write(t, dir, "corpus.txt", "the cat\nthe dog\n"))
	require.NoError(t, err)

	out, err := run(t, "accept", loop, "the", "dog", "the", "cat")
	require.NoError(t, err)
	assert.Contains(t, out, "outputs: the dog the cat\n")
	assert.Contains(t, out, "paths: 1\n")

	_, err = run(t, "lm", loop)
	assert.ErrorContains(t, err, "exactly one")
}

func TestMerge_RequiresPush(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "merge", "w", "l", filepath.Join(dir, "m"))
	assert.ErrorContains(t, err, "push mode")

	cfg := write(t, dir, "lexnet.yaml", "merge:\n  push: sideways\n")
	_, err = run(t, "--config", cfg, "info", "x")
	assert.ErrorContains(t, err, "merge.push")
}

func TestEqual_Differs(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.lexnet")
	b := filepath.Join(dir, "b.lexnet")
	_, err := run(t, "lm", a, "--sentences", write(t, dir, "a.txt", "x y\n"))
	require.NoError(t, err)
	_, err = run(t, "lm", b, "--sentences", write(t, dir, "b.txt", "x y\nx z\n"))
	require.NoError(t, err)

	_, err = run(t, "equal", a, b)
	assert.Error(t, err)
	_, err = run(t, "equal", a, b, "--tolerance=-1")
	assert.ErrorContains(t, err, "invalid tolerance")
}

func TestWords(t *testing.T) {
	dir := t.TempDir()
	lex := filepath.Join(dir, "lexicon.lexnet")
	_, err := run(t, "lexicon", write(t, dir, "toy.dict", dict), lex, "--phones", "cmu39", "--strip-stress")
	require.NoError(t, err)

	out, err := run(t, "words", lex)
	require.NoError(t, err)
	assert.Contains(t, out, "CAT\t0.000000\tK AE T\n")
	assert.Contains(t, out, "DOG\t-0.693147\t")

	out, err = run(t, "words", lex, "--beam", "0.5")
	require.NoError(t, err)
	assert.Equal(t, "CAT\t0.000000\tK AE T\n", out)
}
