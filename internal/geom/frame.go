package geom

import (
	"errors"
	"fmt"
)

// Framing heuristics: a generous initial zoom-out, a 20x zoom-in ceiling and a
// 3x zoom-out ceiling relative to the initial distance.
const (
	DistanceFactor     = 1.4
	MinDistanceDivisor = 20
	MaxDistanceFactor  = 3
)

// ErrNoProjection is returned when a collection has no records or a record has
// no projected position yet.
var ErrNoProjection = errors.New("geom: record has no projection")

// Frame scans the records once and returns their bounds. A single record, or
// records that all share one position, yield MaxSize 0.
func Frame(records []Record) (Bounds, error) {
	if len(records) == 0 {
		return Bounds{}, fmt.Errorf("frame: empty collection: %w", ErrNoProjection)
	}
	var b Bounds
	for i := range records {
		p := records[i].Projection
		if p == nil {
			return Bounds{}, fmt.Errorf("frame: record %d: %w", records[i].ID, ErrNoProjection)
		}
		if i == 0 {
			b = Bounds{MinX: p.X, MaxX: p.X, MinY: p.Y, MaxY: p.Y}
			continue
		}
		if p.X < b.MinX {
			b.MinX = p.X
		}
		if p.X > b.MaxX {
			b.MaxX = p.X
		}
		if p.Y < b.MinY {
			b.MinY = p.Y
		}
		if p.Y > b.MaxY {
			b.MaxY = p.Y
		}
	}
	b.CenterX = (b.MaxX + b.MinX) / 2
	b.CenterY = (b.MaxY + b.MinY) / 2
	halfX := (b.MaxX - b.MinX) / 2
	halfY := (b.MaxY - b.MinY) / 2
	b.MaxSize = max(halfX, halfY)
	return b, nil
}

// Camera derives the camera framing from the bounds. Degenerate bounds give a
// zero-distance camera; surfaces are expected to tolerate it.
func (b Bounds) Camera() Camera {
	d := b.MaxSize * DistanceFactor
	return Camera{
		Target:      [2]float64{b.CenterX, b.CenterY},
		Distance:    d,
		MinDistance: d / MinDistanceDivisor,
		MaxDistance: d * MaxDistanceFactor,
	}
}

// Projected reports whether every record has a position.
func Projected(records []Record) bool {
	if len(records) == 0 {
		return false
	}
	for i := range records {
		if records[i].Projection == nil {
			return false
		}
	}
	return true
}
