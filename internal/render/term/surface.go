// Package term is a rendering surface that draws the point buffer as braille
// dots in a terminal cell grid.
package term

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"scatterview/internal/encode"
	"scatterview/internal/pointbuf"
	"scatterview/internal/render"
)

// ErrCanvasTooSmall is returned when the canvas cannot hold a plot.
var ErrCanvasTooSmall = errors.New("term: canvas too small")

// Canvas is the cell area a Plot renders into.
type Canvas struct {
	w, h int
}

func NewCanvas(w, h int) *Canvas { return &Canvas{w: w, h: h} }

func (c *Canvas) SetSize(w, h int) { c.w, c.h = w, h }

func (c *Canvas) Size() (int, int) { return c.w, c.h }

// Surface creates Plots on terminal canvases.
type Surface struct {
	// Highlight colors selected points.
	Highlight string
}

func NewSurface() *Surface {
	return &Surface{Highlight: "#FFA500"}
}

// Initialize returns a Plot for req.Canvas, which must be a *Canvas of at
// least 2x2 cells.
func (s *Surface) Initialize(ctx context.Context, req render.InitRequest) (render.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	canvas, ok := req.Canvas.(*Canvas)
	if !ok || canvas == nil {
		return nil, fmt.Errorf("term: unsupported canvas %T", req.Canvas)
	}
	if w, h := canvas.Size(); w < 2 || h < 2 {
		return nil, fmt.Errorf("%w: %dx%d", ErrCanvasTooSmall, w, h)
	}
	return &Plot{
		canvas:     canvas,
		highlight:  s.Highlight,
		points:     req.Points,
		palette:    req.Palette,
		target:     req.CameraTarget,
		distance:   req.CameraDistance,
		selected:   map[int]bool{},
		onSelect:   req.OnSelect,
		onDeselect: req.OnDeselect,
	}, nil
}

// Plot is the control handle of an initialized terminal surface.
type Plot struct {
	canvas    *Canvas
	highlight string

	points  pointbuf.Buffer
	palette encode.Palette

	target      [2]float64
	distance    float64
	minDistance float64
	maxDistance float64

	selected map[int]bool
	lasso    bool
	dragging bool
	dragFrom [2]int
	dragTo   [2]int

	onSelect   func([]int)
	onDeselect func()
}

func (p *Plot) Configure(c render.Config) {
	if c.CameraTarget != nil {
		p.target = *c.CameraTarget
	}
	if c.CameraDistance != nil {
		p.distance = *c.CameraDistance
	}
	if c.MinCameraDistance != nil {
		p.minDistance = *c.MinCameraDistance
	}
	if c.MaxCameraDistance != nil {
		p.maxDistance = *c.MaxCameraDistance
	}
	if c.Palette != nil {
		p.palette = *c.Palette
	}
}

func (p *Plot) Draw(b pointbuf.Buffer) {
	p.points = b
	for id := range p.selected {
		if id >= len(b) {
			delete(p.selected, id)
		}
	}
}

// Select replaces the highlighted set. It does not call back into the host.
func (p *Plot) Select(ids []int) {
	clear(p.selected)
	for _, id := range ids {
		if id > 0 && id < len(p.points) {
			p.selected[id] = true
		}
	}
}

func (p *Plot) SetLassoOverride(enabled bool) {
	p.lasso = enabled
	if !enabled {
		p.dragging = false
	}
}

// ResizeHandler drops any lasso in progress; its cell coordinates no longer
// match the projection.
func (p *Plot) ResizeHandler() {
	p.dragging = false
}

// Selected returns a copy of the highlighted buffer ids.
func (p *Plot) Selected() map[int]bool { return maps.Clone(p.selected) }

func (p *Plot) Lasso() bool { return p.lasso }

func (p *Plot) Distance() float64 { return p.distance }

func (p *Plot) Target() [2]float64 { return p.target }
