// SPDX-License-Identifier: MIT

package ngram

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/katalvlaran/lexnet/core"
	"github.com/katalvlaran/lexnet/prob"
)

// ReadSentences splits r into one whitespace-tokenised sentence per
// non-empty line.
func ReadSentences(r io.Reader) ([][]string, error) {
	var out [][]string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if f := strings.Fields(sc.Text()); len(f) > 0 {
			out = append(out, f)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ngram: read: %w", err)
	}
	return out, nil
}

// FromSentences counts every sentence into a recurrent word loop, where a
// prefix shared by several sentences shares its path, then normalises the
// counts per node and converts them to natural logs.
//
// Returns ErrSyntax when no sentence has a word.
func FromSentences(sentences [][]string, opts ...Option) (*core.Network, error) {
	o := buildOptions(opts)
	n := core.New(o.words, o.words, core.WithCounts(), core.WithRecurrent())
	inserted := 0
	for i, s := range sentences {
		if len(s) == 0 {
			continue
		}
		if err := n.InsertTokens(s, s); err != nil {
			return nil, fmt.Errorf("ngram: sentence %d: %w", i+1, err)
		}
		inserted++
	}
	if inserted == 0 {
		return nil, fmt.Errorf("%w: no sentences", ErrSyntax)
	}
	n.SetMeta("sentences", fmt.Sprint(inserted))
	if err := prob.ApplyUniformDistribution(n); err != nil {
		return nil, err
	}
	if err := prob.ToLogDomain(n); err != nil {
		return nil, err
	}
	return n, nil
}
