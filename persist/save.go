// SPDX-License-Identifier: MIT

package persist

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/katalvlaran/lexnet/bfs"
	"github.com/katalvlaran/lexnet/core"
)

// encoder writes little-endian fields; the first write error is kept by the
// underlying bufio.Writer and reported on Flush.
type encoder struct {
	w       *bufio.Writer
	scratch [4]byte
}

func (e *encoder) i16(v int16) {
	binary.LittleEndian.PutUint16(e.scratch[:2], uint16(v))
	_, _ = e.w.Write(e.scratch[:2])
}

func (e *encoder) i32(v int32) {
	binary.LittleEndian.PutUint32(e.scratch[:4], uint32(v))
	_, _ = e.w.Write(e.scratch[:4])
}

func (e *encoder) f32(v float32) {
	binary.LittleEndian.PutUint32(e.scratch[:4], math.Float32bits(v))
	_, _ = e.w.Write(e.scratch[:4])
}

// Save writes n to w: the text header, then node records in bfs.Walk order.
// Pending nodes are written inline with destination id -1 and keep their
// position in the walk, which is where Load registers them.
//
// Returns ErrHeader for unencodable metadata, ErrUnreachable when a
// registered node cannot be reached from the root, ErrOverflow for
// oversized counts, or the underlying write error.
// Complexity: O(V + E).
func Save(w io.Writer, n *core.Network) error {
	h, err := headerOf(n)
	if err != nil {
		return err
	}
	if n.NodeCount() > math.MaxInt32 {
		return fmt.Errorf("%w: %d nodes", ErrOverflow, n.NodeCount())
	}

	enc := &encoder{w: bufio.NewWriter(w)}
	for _, line := range h.lines() {
		_, _ = enc.w.WriteString(line)
		_ = enc.w.WriteByte('\n')
	}
	_, _ = enc.w.WriteString(endOfHeader + "\n")
	enc.i32(int32(n.NodeCount()))
	enc.i32(int32(n.Root().ID()))

	res, err := bfs.Walk(n, bfs.WithOnVisit(func(v bfs.Visit) error {
		return writeNode(enc, v.Node)
	}))
	if err != nil {
		return err
	}
	if len(res.Unreached) > 0 {
		return fmt.Errorf("%w: %d node(s), first n%d", ErrUnreachable, len(res.Unreached), res.Unreached[0])
	}

	return enc.w.Flush()
}

func writeNode(enc *encoder, nd *core.Node) error {
	edges := nd.Edges()
	if len(edges) > math.MaxInt16 {
		return fmt.Errorf("%w: %d edges", ErrOverflow, len(edges))
	}
	enc.i16(int16(len(edges)))
	for _, e := range edges {
		if len(e.Contexts) > math.MaxInt16 {
			return fmt.Errorf("%w: e%d has %d contexts", ErrOverflow, e.ID, len(e.Contexts))
		}
		if e.ID > math.MaxInt32 {
			return fmt.Errorf("%w: edge id %d", ErrOverflow, e.ID)
		}
		enc.i32(int32(e.ID))
		enc.f32(e.Weight)
		enc.i16(int16(e.Input))
		enc.i16(int16(len(e.Contexts)))
		for _, c := range e.Contexts {
			enc.f32(c.Weight)
			enc.i16(int16(c.Output))
			dest := int32(pendingID)
			if !c.Dest.IsPending() {
				dest = int32(c.Dest.ID())
			}
			enc.i32(dest)
		}
	}
	return nil
}
