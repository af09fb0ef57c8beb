// SPDX-License-Identifier: MIT

// Package label maps string tokens (phones, words, special symbols) to dense
// integer codes and back.
//
// A Table is either closed (built once from a ClosedSet, refuses unknown
// tokens) or dynamic (grows on Intern). Codes start at 0, are contiguous and
// are never reused or reordered once issued: edges reference them by value.
//
// Errors:
//
//	ErrEmptyToken      - the empty string is not a token.
//	ErrBadToken        - a token contains whitespace.
//	ErrClosedTable     - Intern of an unknown token on a closed table.
//	ErrTableFull       - the table has exhausted the int16 code range.
//	ErrUnknownCode     - Token called with a code outside the table.
//	ErrAmbiguousLabel  - a closed set maps one alias to two codes.
//	ErrDuplicateToken  - a vocabulary file lists a token twice.
//	ErrUnknownSet      - no closed set is registered under the name.
package label

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"
)

// Sentinel errors for label tables.
var (
	// ErrEmptyToken indicates an attempt to intern or look up "".
	ErrEmptyToken = errors.New("label: empty token")

	// ErrBadToken indicates a token containing whitespace; vocabularies are
	// whitespace-delimited and could not carry it.
	ErrBadToken = errors.New("label: token contains whitespace")

	// ErrClosedTable indicates Intern was called with an unknown token on a closed table.
	ErrClosedTable = errors.New("label: token not in closed table")

	// ErrTableFull indicates that no more codes fit into the Code range.
	ErrTableFull = errors.New("label: table full")

	// ErrUnknownCode indicates a code that was never issued by the table.
	ErrUnknownCode = errors.New("label: unknown code")

	// ErrAmbiguousLabel indicates a closed set whose aliases do not resolve
	// to exactly one code ("missing table entry").
	ErrAmbiguousLabel = errors.New("label: missing table entry")

	// ErrDuplicateToken indicates a vocabulary listing the same token twice.
	ErrDuplicateToken = errors.New("label: duplicate token")

	// ErrUnknownSet indicates a closed set name that was never registered.
	ErrUnknownSet = errors.New("label: unknown closed set")
)

// Code is the compact integer form of a token. It is 16 bits wide because
// the persistence format stores codes as int16.
type Code int16

// None is the sentinel code. As an edge input it marks a backoff edge, as a
// context output it marks an internal (epsilon-output) hop.
const None Code = -1

// MaxCodes is the largest number of codes a single table can issue.
const MaxCodes = math.MaxInt16 + 1

// Table is a bidirectional token/code mapping.
type Table struct {
	name   string
	closed bool
	codes  map[string]Code // token (and aliases) -> code
	tokens []string        // code -> canonical token
}

// NewTable returns an empty dynamic table.
func NewTable(name string) *Table {
	return &Table{
		name:  name,
		codes: make(map[string]Code),
	}
}

// Name returns the table name as recorded in persisted network headers.
func (t *Table) Name() string { return t.name }

// Closed reports whether the table refuses new tokens.
func (t *Table) Closed() bool { return t.closed }

// Len returns the number of issued codes.
func (t *Table) Len() int { return len(t.tokens) }

// Intern returns the code of token, issuing the next free code on first
// sight. Closed tables never issue codes; tokens containing whitespace are
// refused.
// Complexity: O(1) amortized, O(len(token)) on first sight.
func (t *Table) Intern(token string) (Code, error) {
	if token == "" {
		return None, ErrEmptyToken
	}
	if c, ok := t.codes[token]; ok {
		return c, nil
	}
	if strings.IndexFunc(token, unicode.IsSpace) >= 0 {
		return None, fmt.Errorf("%w: %q", ErrBadToken, token)
	}
	if t.closed {
		return None, fmt.Errorf("%w: %q in %q", ErrClosedTable, token, t.name)
	}
	if len(t.tokens) >= MaxCodes {
		return None, fmt.Errorf("%w: %q holds %d codes", ErrTableFull, t.name, len(t.tokens))
	}
	c := Code(len(t.tokens))
	t.codes[token] = c
	t.tokens = append(t.tokens, token)

	return c, nil
}

// Code looks token up without interning it. The boolean is false for
// unknown tokens.
func (t *Table) Code(token string) (Code, bool) {
	c, ok := t.codes[token]
	return c, ok
}

// Token returns the canonical token of c.
func (t *Table) Token(c Code) (string, error) {
	if c < 0 || int(c) >= len(t.tokens) {
		return "", fmt.Errorf("%w: %d in %q", ErrUnknownCode, c, t.name)
	}
	return t.tokens[c], nil
}

// MustToken is Token for codes the caller knows are valid; unknown codes
// render as "#<code>" so that diagnostics never fail.
func (t *Table) MustToken(c Code) string {
	if c == None {
		return "<none>"
	}
	if s, err := t.Token(c); err == nil {
		return s
	}
	return fmt.Sprintf("#%d", c)
}

// Tokens returns a copy of the canonical tokens in code order.
func (t *Table) Tokens() []string {
	out := make([]string, len(t.tokens))
	copy(out, t.tokens)
	return out
}

// Valid reports whether c was issued by t.
func (t *Table) Valid(c Code) bool {
	return c >= 0 && int(c) < len(t.tokens)
}
