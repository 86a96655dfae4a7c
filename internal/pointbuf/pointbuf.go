// Package pointbuf assembles the flat per-point array handed to a rendering
// surface.
//
// Index 0 of every buffer is a zero sentinel so that buffer-space ids (used by
// surfaces) and host-space ids (record positions) differ by exactly one.
package pointbuf

import (
	"fmt"

	"scatterview/internal/encode"
	"scatterview/internal/geom"
)

// Point is (x, y, visible, color channel).
type Point [4]float64

func (p Point) X() float64       { return p[0] }
func (p Point) Y() float64       { return p[1] }
func (p Point) Visible() bool    { return p[2] != 0 }
func (p Point) Channel() float64 { return p[3] }

// Buffer is immutable once built; rebuild it instead of patching.
type Buffer []Point

// Records is the number of records the buffer was built from.
func (b Buffer) Records() int {
	if len(b) == 0 {
		return 0
	}
	return len(b) - 1
}

// Build encodes records in collection order. Any encoder failure discards the
// partial buffer.
func Build(records []geom.Record, d *encode.Descriptor) (Buffer, error) {
	if d == nil {
		return nil, fmt.Errorf("build: no active attribute")
	}
	buf := make(Buffer, 1, len(records)+1)
	for i := range records {
		r := &records[i]
		if r.Projection == nil {
			return nil, fmt.Errorf("build: record %d: %w", r.ID, geom.ErrNoProjection)
		}
		c, err := encode.Encode(d, r)
		if err != nil {
			return nil, fmt.Errorf("build: %w", err)
		}
		vis := 0.0
		if r.Visible {
			vis = 1
		}
		buf = append(buf, Point{r.Projection.X, r.Projection.Y, vis, c})
	}
	return buf, nil
}

// BufferID converts a host-space id to buffer space.
func BufferID(host int) int { return host + 1 }

// HostID converts a buffer-space id to host space.
func HostID(buf int) int { return buf - 1 }

// BufferIDs converts host-space ids to buffer space.
func BufferIDs(host []int) []int {
	out := make([]int, len(host))
	for i, h := range host {
		out[i] = BufferID(h)
	}
	return out
}

// HostIDs converts buffer-space ids to host space, dropping the sentinel.
func HostIDs(buf []int) []int {
	out := make([]int, 0, len(buf))
	for _, b := range buf {
		if b < 1 {
			continue
		}
		out = append(out, HostID(b))
	}
	return out
}
