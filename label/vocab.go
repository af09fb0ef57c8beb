// SPDX-License-Identifier: MIT

package label

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadVocabulary builds a dynamic table from a token-per-line listing.
// Code assignment follows line order; blank lines are skipped and leading or
// trailing whitespace is trimmed.
func ReadVocabulary(r io.Reader, name string) (*Table, error) {
	t := NewTable(name)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		tok := strings.TrimSpace(sc.Text())
		if tok == "" {
			continue
		}
		if _, dup := t.codes[tok]; dup {
			return nil, fmt.Errorf("%w: %q at line %d", ErrDuplicateToken, tok, line)
		}
		if _, err := t.Intern(tok); err != nil {
			return nil, fmt.Errorf("label: line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("label: read vocabulary %q: %w", name, err)
	}

	return t, nil
}

// WriteVocabulary writes the canonical tokens one per line in code order, so
// that ReadVocabulary reproduces the same codes.
func (t *Table) WriteVocabulary(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, tok := range t.tokens {
		if _, err := bw.WriteString(tok); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
