// SPDX-License-Identifier: MIT

// Package lexicon reads pronunciation dictionaries into lexicon networks.
//
// The accepted format is the CMU dictionary layout:
//
//	;;; comment
//	WORD       PH1 PH2 ...
//	WORD(2)    PH1 PH3 ...
//
// A parenthesised variant suffix is removed from the word, so every variant
// counts towards the same output. Stress digits ("AH0") can be stripped to
// match a stress-free inventory.
package lexicon

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/katalvlaran/lexnet/core"
	"github.com/katalvlaran/lexnet/label"
	"github.com/katalvlaran/lexnet/prob"
)

// ErrSyntax indicates a dictionary line without phones.
var ErrSyntax = errors.New("lexicon: malformed entry")

const commentPrefix = ";;;"

// Option configures Read.
type Option func(*options)

type options struct {
	stripStress bool
	words       *label.Table
}

// WithStripStress removes trailing stress digits from every phone.
func WithStripStress(v bool) Option {
	return func(o *options) { o.stripStress = v }
}

// WithWords interns words into t instead of a fresh table named "words".
func WithWords(t *label.Table) Option {
	return func(o *options) {
		if t != nil {
			o.words = t
		}
	}
}

// Read parses a dictionary and inserts every entry into a count-weighted,
// recurrent lexicon over phones. Repeated entries accumulate counts.
//
// Returns ErrSyntax for entries without phones and the label error
// (e.g. label.ErrClosedTable) for phones the table refuses, both with the
// line number.
func Read(r io.Reader, phones *label.Table, opts ...Option) (*core.Network, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.words == nil {
		o.words = label.NewTable("words")
	}
	n := core.New(phones, o.words,
		core.WithCounts(),
		core.WithRecurrent(),
		core.WithMeta("labelset", phones.Name()),
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, commentPrefix) {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: line %d: %q", ErrSyntax, line, text)
		}
		word := baseWord(fields[0])
		ph := fields[1:]
		if o.stripStress {
			for i := range ph {
				ph[i] = stripStress(ph[i])
			}
		}
		outs := make([]string, len(ph))
		outs[len(outs)-1] = word
		if err := n.InsertTokens(ph, outs); err != nil {
			return nil, fmt.Errorf("lexicon: line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("lexicon: read: %w", err)
	}

	return n, nil
}

// Build reads a dictionary and finalises it into a log-domain lexicon in
// which the pronunciations of every word sum to one.
func Build(r io.Reader, phones *label.Table, opts ...Option) (*core.Network, *prob.Report, error) {
	n, err := Read(r, phones, opts...)
	if err != nil {
		return nil, nil, err
	}
	rep, err := prob.FinalizeDictionary(n)
	if err != nil {
		return nil, nil, err
	}
	return n, rep, nil
}

// baseWord drops a "(n)" variant suffix.
func baseWord(w string) string {
	if i := strings.IndexByte(w, '('); i > 0 && strings.HasSuffix(w, ")") {
		return w[:i]
	}
	return w
}

func stripStress(p string) string {
	return strings.TrimRight(p, "0123456789")
}
