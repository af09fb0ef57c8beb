// SPDX-License-Identifier: MIT

package persist

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/katalvlaran/lexnet/core"
	"github.com/katalvlaran/lexnet/label"
)

// LoadOption configures Load.
type LoadOption func(*loadConfig)

type loadConfig struct {
	resolve TableResolver
}

// WithTables supplies the label tables directly; header names are not
// consulted.
func WithTables(in, out *label.Table) LoadOption {
	return func(c *loadConfig) {
		c.resolve = func(role Role, _ string) (*label.Table, error) {
			if role == RoleInput {
				return in, nil
			}
			return out, nil
		}
	}
}

// WithResolver installs a custom table resolver. The default resolves
// closed sets only.
func WithResolver(r TableResolver) LoadOption {
	return func(c *loadConfig) {
		if r != nil {
			c.resolve = r
		}
	}
}

// minNodeRecord is the smallest encoding a non-root node can cost: the
// context that first references it (weight, output, destination) plus its
// own edge count.
const minNodeRecord = 4 + 2 + 4 + 2

type decoder struct {
	r       *bytes.Reader
	scratch [4]byte
	err     error
}

func (d *decoder) read(k int) []byte {
	if d.err != nil {
		return d.scratch[:k]
	}
	if _, err := io.ReadFull(d.r, d.scratch[:k]); err != nil {
		d.err = fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return d.scratch[:k]
}

func (d *decoder) i16() int16   { return int16(binary.LittleEndian.Uint16(d.read(2))) }
func (d *decoder) i32() int32   { return int32(binary.LittleEndian.Uint32(d.read(4))) }
func (d *decoder) f32() float32 { return math.Float32frombits(binary.LittleEndian.Uint32(d.read(4))) }

// Load reads a network written by Save. Records are consumed with the same
// FIFO discipline Save used, so each record is bound to the node at the head
// of the queue; a pending destination (-1) becomes a placeholder that is
// registered, with an identity beyond the declared node count, when its
// record is reached.
//
// After the body, every declared identity must have been filled
// (ErrUnresolvedNode). Truncated or malformed bodies, trailing bytes and a
// node count larger than the body could encode are ErrCorrupt; header
// problems are ErrHeader; unresolvable tables are ErrMissingTable. Records
// rejected by the network (unsorted inputs, duplicate edge ids, bad labels)
// match both ErrCorrupt and the core error.
// Complexity: O(V + E).
func Load(r io.Reader, opts ...LoadOption) (*core.Network, error) {
	cfg := loadConfig{resolve: ClosedSetResolver}
	for _, opt := range opts {
		opt(&cfg)
	}
	br := bufio.NewReader(r)
	h, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	in, out, err := h.tables(cfg.resolve)
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	d := &decoder{r: bytes.NewReader(body)}
	nodeCount, rootID := d.i32(), d.i32()
	if d.err != nil {
		return nil, d.err
	}
	if nodeCount < 1 {
		return nil, fmt.Errorf("%w: node count %d", ErrCorrupt, nodeCount)
	}
	if int64(nodeCount-1) > int64(d.r.Len()/minNodeRecord) {
		return nil, fmt.Errorf("%w: node count %d exceeds %d body bytes", ErrCorrupt, nodeCount, d.r.Len())
	}
	if rootID != 0 {
		return nil, fmt.Errorf("%w: root id %d", ErrCorrupt, rootID)
	}

	n := core.New(in, out, h.options()...)
	for i := int32(1); i < nodeCount; i++ {
		n.NewNode()
	}
	seen := make([]bool, nodeCount)
	seen[0] = true
	queue := []core.NodeRef{core.Registered(0)}

	for len(queue) > 0 {
		ref := queue[0]
		queue = queue[1:]
		nd, err := bind(n, ref)
		if err != nil {
			return nil, err
		}
		if queue, err = readNode(d, n, nd, seen, queue); err != nil {
			return nil, err
		}
	}

	for id, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("%w: n%d of %d never filled", ErrUnresolvedNode, id, nodeCount)
		}
	}
	if d.r.Len() > 0 {
		return nil, fmt.Errorf("%w: trailing data after last record", ErrCorrupt)
	}

	return n, nil
}

func bind(n *core.Network, ref core.NodeRef) (*core.Node, error) {
	if ref.IsPending() {
		return n.Register(ref)
	}
	return n.Node(ref.ID())
}

// readNode consumes one node record, restores its edges on nd and returns
// the queue extended by the destinations seen for the first time, in slot
// order.
func readNode(d *decoder, n *core.Network, nd *core.Node, seen []bool, queue []core.NodeRef) ([]core.NodeRef, error) {
	edgeCount := d.i16()
	if d.err != nil {
		return nil, d.err
	}
	if edgeCount < 0 {
		return nil, fmt.Errorf("%w: edge count %d", ErrCorrupt, edgeCount)
	}
	var fresh []bool
	for i := 0; i < int(edgeCount); i++ {
		id, weight, input, destCount := d.i32(), d.f32(), d.i16(), d.i16()
		if d.err != nil {
			return nil, d.err
		}
		if destCount <= 0 {
			return nil, fmt.Errorf("%w: e%d has %d contexts", ErrCorrupt, id, destCount)
		}
		ctxs := make([]core.Context, destCount)
		fresh = fresh[:0]
		for j := range ctxs {
			ctxs[j].Weight = d.f32()
			ctxs[j].Output = label.Code(d.i16())
			dest := d.i32()
			if d.err != nil {
				return nil, d.err
			}
			switch {
			case dest == pendingID:
				ctxs[j].Dest = core.Unbound
				fresh = append(fresh, true)
			case dest >= 0 && int(dest) < len(seen):
				ctxs[j].Dest = core.Registered(int(dest))
				fresh = append(fresh, !seen[dest])
				seen[dest] = true
			default:
				return nil, fmt.Errorf("%w: e%d context %d points at n%d", ErrCorrupt, id, j, dest)
			}
		}
		e, err := n.RestoreEdge(nd, int(id), label.Code(input), weight, ctxs...)
		if err != nil {
			return nil, fmt.Errorf("%w: restore e%d: %w", ErrCorrupt, id, err)
		}
		for j, c := range e.Contexts {
			if fresh[j] {
				queue = append(queue, c.Dest)
			}
		}
	}
	return queue, nil
}

func readHeader(br *bufio.Reader) (header, error) {
	var (
		h         header
		hasFormat bool
	)
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return h, fmt.Errorf("%w: unterminated header: %w", ErrHeader, err)
		}
		line = strings.TrimSuffix(line, "\n")
		if line == endOfHeader {
			break
		}
		isFormat, err := h.parseLine(line)
		if err != nil {
			return h, err
		}
		hasFormat = hasFormat || isFormat
	}
	if !hasFormat {
		return h, fmt.Errorf("%w: no format line", ErrHeader)
	}
	return h, nil
}
