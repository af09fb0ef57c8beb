// SPDX-License-Identifier: MIT

package ngram

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/katalvlaran/lexnet/core"
	"github.com/katalvlaran/lexnet/label"
	"github.com/katalvlaran/lexnet/semiring"
)

// ErrSyntax indicates malformed model or corpus text.
var ErrSyntax = errors.New("ngram: malformed input")

// DefaultStartToken names the sentence-start history used as the root.
const DefaultStartToken = "<s>"

// Option configures the readers.
type Option func(*options)

type options struct {
	words *label.Table
	start string
}

// WithWords interns words into t (used for both input and output) instead
// of a fresh table named "words".
func WithWords(t *label.Table) Option {
	return func(o *options) {
		if t != nil {
			o.words = t
		}
	}
}

// WithStartToken sets the history that becomes the root of an ARPA
// network. An empty token, or one without a unigram, roots the network at
// the empty history.
func WithStartToken(tok string) Option {
	return func(o *options) { o.start = tok }
}

func buildOptions(opts []Option) options {
	o := options{start: DefaultStartToken}
	for _, opt := range opts {
		opt(&o)
	}
	if o.words == nil {
		o.words = label.NewTable("words")
	}
	return o
}

// ngram is one parsed model entry; weights are natural logs.
type ngram struct {
	words   []string
	logProb float64
	backoff float64
}

type model struct {
	order   int
	counts  []int     // declared, indexed by order
	entries [][]ngram // indexed by order
}

// ReadARPA parses an ARPA back-off model into a log-domain word network.
// Base-10 log values are converted to natural logs. The root is the
// start-token history when the model has one, the empty history otherwise.
//
// Returns ErrSyntax for malformed sections, lines or counts, and for an
// n-gram whose history is not itself listed.
func ReadARPA(r io.Reader, opts ...Option) (*core.Network, error) {
	o := buildOptions(opts)
	m, err := parseARPA(r)
	if err != nil {
		return nil, err
	}
	return m.network(o)
}

func parseARPA(r io.Reader) (*model, error) {
	m := &model{counts: []int{0}, entries: [][]ngram{nil}}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var (
		section = -1 // -1 preamble, 0 \data\, k k-grams, -2 \end\
		line    int
	)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		switch {
		case text == `\data\`:
			section = 0
			continue
		case text == `\end\`:
			section = -2
			continue
		case strings.HasPrefix(text, `\`) && strings.HasSuffix(text, `-grams:`):
			k, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(text, `\`), `-grams:`))
			if err != nil || k < 1 || k > m.order {
				return nil, fmt.Errorf("%w: line %d: section %q", ErrSyntax, line, text)
			}
			section = k
			continue
		}

		switch {
		case section == 0:
			if err := m.parseCount(text); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrSyntax, line, err)
			}
		case section > 0:
			g, err := parseEntry(text, section)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrSyntax, line, err)
			}
			m.entries[section] = append(m.entries[section], g)
		case section == -2:
			return nil, fmt.Errorf("%w: line %d: text after \\end\\", ErrSyntax, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ngram: read: %w", err)
	}
	if m.order == 0 {
		return nil, fmt.Errorf("%w: no \\data\\ section", ErrSyntax)
	}
	if section != -2 {
		return nil, fmt.Errorf("%w: missing \\end\\", ErrSyntax)
	}
	for k := 1; k <= m.order; k++ {
		if len(m.entries[k]) != m.counts[k] {
			return nil, fmt.Errorf("%w: %d-grams: declared %d, found %d", ErrSyntax, k, m.counts[k], len(m.entries[k]))
		}
	}
	return m, nil
}

// parseCount reads "ngram K=COUNT"; orders must be declared in sequence.
func (m *model) parseCount(text string) error {
	spec, ok := strings.CutPrefix(text, "ngram ")
	if !ok {
		return fmt.Errorf("unexpected %q in \\data\\", text)
	}
	ks, cs, ok := strings.Cut(strings.TrimSpace(spec), "=")
	if !ok {
		return fmt.Errorf("bad count %q", text)
	}
	k, err := strconv.Atoi(strings.TrimSpace(ks))
	if err != nil || k != m.order+1 {
		return fmt.Errorf("bad order in %q", text)
	}
	c, err := strconv.Atoi(strings.TrimSpace(cs))
	if err != nil || c < 0 {
		return fmt.Errorf("bad count in %q", text)
	}
	m.order = k
	m.counts = append(m.counts, c)
	m.entries = append(m.entries, nil)
	return nil
}

func parseEntry(text string, k int) (ngram, error) {
	f := strings.Fields(text)
	if len(f) != k+1 && len(f) != k+2 {
		return ngram{}, fmt.Errorf("%d-gram %q has %d fields", k, text, len(f))
	}
	p, err := strconv.ParseFloat(f[0], 64)
	if err != nil {
		return ngram{}, fmt.Errorf("probability %q: %v", f[0], err)
	}
	g := ngram{words: f[1 : k+1], logProb: p * math.Ln10}
	if len(f) == k+2 {
		b, err := strconv.ParseFloat(f[k+1], 64)
		if err != nil {
			return ngram{}, fmt.Errorf("backoff %q: %v", f[k+1], err)
		}
		g.backoff = b * math.Ln10
	}
	return g, nil
}

// histKey joins words into a map key; words never contain whitespace.
func histKey(words []string) string { return strings.Join(words, " ") }

// builder lays out one node per history of order below the model order.
type builder struct {
	m      *model
	n      *core.Network
	words  *label.Table
	states map[string]*core.Node
}

func (m *model) network(o options) (*core.Network, error) {
	b := &builder{
		m:     m,
		words: o.words,
		n: core.New(o.words, o.words,
			core.WithDomain(semiring.Log),
			core.WithRecurrent(),
			core.WithMeta("order", strconv.Itoa(m.order)),
		),
		states: make(map[string]*core.Node),
	}

	// node 0 is the start history when it can carry a history at all
	rootKey := ""
	if o.start != "" && m.order > 1 && m.hasUnigram(o.start) {
		rootKey = o.start
		b.n.SetMeta("start", o.start)
	}
	b.states[rootKey] = b.n.Root()
	if _, ok := b.states[""]; !ok {
		b.states[""] = b.n.NewNode()
	}
	for k := 1; k < m.order; k++ {
		for _, g := range m.entries[k] {
			key := histKey(g.words)
			if _, ok := b.states[key]; !ok {
				b.states[key] = b.n.NewNode()
			}
		}
	}

	for k := 1; k <= m.order; k++ {
		for _, g := range m.entries[k] {
			if err := b.addNGram(g); err != nil {
				return nil, err
			}
		}
	}
	for k := 1; k < m.order; k++ {
		for _, g := range m.entries[k] {
			if err := b.addBackoff(g); err != nil {
				return nil, err
			}
		}
	}
	return b.n, nil
}

func (m *model) hasUnigram(w string) bool {
	for _, g := range m.entries[1] {
		if g.words[0] == w {
			return true
		}
	}
	return false
}

// suffixState returns the node of the longest suffix of words, starting at
// offset from, that is a history. The empty history always matches.
func (b *builder) suffixState(words []string, from int) *core.Node {
	for i := from; i < len(words); i++ {
		if nd, ok := b.states[histKey(words[i:])]; ok {
			return nd
		}
	}
	return b.states[""]
}

func (b *builder) addNGram(g ngram) error {
	k := len(g.words)
	from, ok := b.states[histKey(g.words[:k-1])]
	if !ok {
		return fmt.Errorf("%w: history of %q is not listed", ErrSyntax, histKey(g.words))
	}
	code, err := b.words.Intern(g.words[k-1])
	if err != nil {
		return fmt.Errorf("ngram: word %q: %w", g.words[k-1], err)
	}
	// an order-N n-gram is never a history itself, so skip its first word
	skip := 0
	if k == b.m.order {
		skip = 1
	}
	dest := b.suffixState(g.words, skip)
	_, err = b.n.AddEdge(from, code, float32(g.logProb),
		core.Context{Dest: core.Registered(dest.ID()), Output: code})
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrSyntax, histKey(g.words), err)
	}
	return nil
}

func (b *builder) addBackoff(g ngram) error {
	from := b.states[histKey(g.words)]
	dest := b.suffixState(g.words, 1)
	if dest == from {
		return nil
	}
	_, err := b.n.AddEdge(from, core.Backoff, float32(g.backoff),
		core.Context{Dest: core.Registered(dest.ID()), Output: core.Internal})
	if err != nil {
		return fmt.Errorf("%w: backoff of %q: %w", ErrSyntax, histKey(g.words), err)
	}
	return nil
}
