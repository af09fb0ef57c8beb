// SPDX-License-Identifier: MIT
//
// File: format.go
// Role: error taxonomy, header keys and table resolution shared by Save and
//       Load.

package persist

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/lexnet/core"
	"github.com/katalvlaran/lexnet/label"
	"github.com/katalvlaran/lexnet/semiring"
)

// Sentinel errors for persistence.
var (
	// ErrCorrupt indicates a truncated or malformed body.
	ErrCorrupt = errors.New("persist: corrupt network data")

	// ErrHeader indicates a malformed or unsupported header block.
	ErrHeader = errors.New("persist: bad header")

	// ErrUnresolvedNode indicates a declared node identity that no record
	// filled in.
	ErrUnresolvedNode = errors.New("persist: unresolved node identity")

	// ErrUnreachable indicates a registered node that a breadth-first walk
	// from the root cannot reach; such a node cannot be encoded.
	ErrUnreachable = errors.New("persist: node unreachable from root")

	// ErrMissingTable indicates a label table named in the header that
	// could not be resolved.
	ErrMissingTable = errors.New("persist: missing label table")

	// ErrOverflow indicates a count that does not fit its field width.
	ErrOverflow = errors.New("persist: value exceeds field width")
)

// Format is the value of the format header key.
const Format = "lexnet/1"

const (
	endOfHeader = "%%"
	metaPrefix  = "meta."
	pendingID   = -1
)

// Role tells a TableResolver which side of the network a table serves.
type Role string

const (
	RoleInput  Role = "input"
	RoleOutput Role = "output"
)

// TableResolver maps a table name from the header to a table.
type TableResolver func(role Role, name string) (*label.Table, error)

// ClosedSetResolver resolves names of registered closed sets only.
func ClosedSetResolver(_ Role, name string) (*label.Table, error) {
	if !label.IsClosedSet(name) {
		return nil, fmt.Errorf("%w: %q is not a closed set", ErrMissingTable, name)
	}
	return label.Closed(name)
}

// header is the decoded key/value block.
type header struct {
	domain    semiring.Domain
	counts    bool
	recurrent bool
	input     string
	output    string
	shared    bool
	meta      [][2]string
}

func headerOf(n *core.Network) (header, error) {
	h := header{
		domain:    n.Domain(),
		counts:    n.Counts(),
		recurrent: n.Recurrent(),
		input:     n.Inputs().Name(),
		output:    n.Outputs().Name(),
		shared:    n.Inputs() == n.Outputs(),
	}
	for _, name := range []string{h.input, h.output} {
		if !validValue(name) || name == "" {
			return h, fmt.Errorf("%w: table name %q", ErrHeader, name)
		}
	}
	for _, k := range n.MetaKeys() {
		v, _ := n.Meta(k)
		if k == "" || strings.ContainsAny(k, "=\n") || !validValue(v) {
			return h, fmt.Errorf("%w: metadata %q=%q", ErrHeader, k, v)
		}
		h.meta = append(h.meta, [2]string{k, v})
	}
	return h, nil
}

func validValue(v string) bool { return !strings.ContainsAny(v, "\n") && v != endOfHeader }

func (h header) lines() []string {
	out := []string{
		"format=" + Format,
		"domain=" + h.domain.String(),
		"counts=" + strconv.FormatBool(h.counts),
		"recurrent=" + strconv.FormatBool(h.recurrent),
		"input=" + h.input,
		"output=" + h.output,
		"shared=" + strconv.FormatBool(h.shared),
	}
	for _, kv := range h.meta {
		out = append(out, metaPrefix+kv[0]+"="+kv[1])
	}
	return out
}

// parseLine applies one key=value line to h. It reports whether the format
// key was seen.
func (h *header) parseLine(line string) (bool, error) {
	key, value, ok := strings.Cut(line, "=")
	if !ok || key == "" {
		return false, fmt.Errorf("%w: line %q", ErrHeader, line)
	}
	var err error
	switch key {
	case "format":
		if value != Format {
			return false, fmt.Errorf("%w: format %q, want %q", ErrHeader, value, Format)
		}
		return true, nil
	case "domain":
		h.domain, err = semiring.ParseDomain(value)
	case "counts":
		h.counts, err = strconv.ParseBool(value)
	case "recurrent":
		h.recurrent, err = strconv.ParseBool(value)
	case "shared":
		h.shared, err = strconv.ParseBool(value)
	case "input":
		h.input = value
	case "output":
		h.output = value
	default:
		mk, found := strings.CutPrefix(key, metaPrefix)
		if !found || mk == "" {
			return false, fmt.Errorf("%w: unknown key %q", ErrHeader, key)
		}
		h.meta = append(h.meta, [2]string{mk, value})
	}
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrHeader, key, err)
	}
	return false, nil
}

func (h header) options() []core.Option {
	opts := []core.Option{core.WithDomain(h.domain)}
	if h.counts {
		opts = append(opts, core.WithCounts())
	}
	if h.recurrent {
		opts = append(opts, core.WithRecurrent())
	}
	for _, kv := range h.meta {
		opts = append(opts, core.WithMeta(kv[0], kv[1]))
	}
	return opts
}

// tables resolves the header's table names.
func (h header) tables(resolve TableResolver) (in, out *label.Table, err error) {
	if h.input == "" || h.output == "" {
		return nil, nil, fmt.Errorf("%w: table names missing", ErrHeader)
	}
	if in, err = resolve(RoleInput, h.input); err != nil {
		return nil, nil, fmt.Errorf("%w: input %q: %w", ErrMissingTable, h.input, err)
	}
	if h.shared {
		return in, in, nil
	}
	if out, err = resolve(RoleOutput, h.output); err != nil {
		return nil, nil, fmt.Errorf("%w: output %q: %w", ErrMissingTable, h.output, err)
	}
	return in, out, nil
}
