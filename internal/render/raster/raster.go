// Package raster is a rendering surface backed by a gg software context. It
// is used for headless snapshots.
package raster

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/gg"

	"scatterview/internal/encode"
	"scatterview/internal/logging"
	"scatterview/internal/pointbuf"
	"scatterview/internal/render"
)

// ErrNoCanvas is returned when the request does not carry a *Canvas.
var ErrNoCanvas = errors.New("raster: no canvas")

// Canvas holds the logical size of the image in CSS-like pixels; the pixel
// ratio scales it to device pixels.
type Canvas struct {
	w, h  int
	image *Image
}

func NewCanvas(w, h int) *Canvas { return &Canvas{w: w, h: h} }

// SetSize resizes the logical canvas and the attached image, if any.
func (c *Canvas) SetSize(w, h int) {
	c.w, c.h = w, h
	if c.image != nil {
		c.image.resize()
	}
}

func (c *Canvas) Size() (int, int) { return c.w, c.h }

// Surface creates Images.
type Surface struct {
	Background  string
	PointRadius float64
	Highlight   string
}

func NewSurface() *Surface {
	return &Surface{Background: "#0c0c0b", PointRadius: 2, Highlight: "#FFA500"}
}

// Initialize allocates a gg context of canvas size times the pixel ratio.
func (s *Surface) Initialize(ctx context.Context, req render.InitRequest) (render.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	canvas, ok := req.Canvas.(*Canvas)
	if !ok || canvas == nil {
		return nil, fmt.Errorf("%w: got %T", ErrNoCanvas, req.Canvas)
	}
	ratio := req.PixelRatio
	if ratio <= 0 {
		ratio = 1
	}
	img := &Image{
		surface:  s,
		canvas:   canvas,
		ratio:    ratio,
		points:   req.Points,
		palette:  req.Palette,
		target:   req.CameraTarget,
		distance: req.CameraDistance,
		selected: map[int]bool{},
	}
	w, h := img.deviceSize()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("raster: invalid canvas size %dx%d", w, h)
	}
	img.dc = gg.NewContext(w, h)
	canvas.image = img
	logging.Logger().Debug("raster: context created", "width", w, "height", h)
	return img, nil
}

// Image is the control handle of a raster surface.
type Image struct {
	surface *Surface
	canvas  *Canvas
	ratio   float64
	dc      *gg.Context

	points  pointbuf.Buffer
	palette encode.Palette

	target   [2]float64
	distance float64

	selected map[int]bool
	lasso    bool
	draws    int
}

func (im *Image) deviceSize() (int, int) {
	w, h := im.canvas.Size()
	return int(float64(w) * im.ratio), int(float64(h) * im.ratio)
}

func (im *Image) Configure(c render.Config) {
	if c.CameraTarget != nil {
		im.target = *c.CameraTarget
	}
	if c.CameraDistance != nil {
		im.distance = *c.CameraDistance
	}
	if c.Palette != nil {
		im.palette = *c.Palette
	}
}

// Draw renders the buffer: visible points as filled circles.
func (im *Image) Draw(b pointbuf.Buffer) {
	im.points = b
	im.draws++
	im.render()
}

func (im *Image) Select(ids []int) {
	clear(im.selected)
	for _, id := range ids {
		im.selected[id] = true
	}
	im.render()
}

// SetLassoOverride is recorded only; a snapshot has no pointer input.
func (im *Image) SetLassoOverride(enabled bool) { im.lasso = enabled }

// ResizeHandler re-renders at the current canvas size.
func (im *Image) ResizeHandler() { im.render() }

func (im *Image) resize() {
	w, h := im.deviceSize()
	if err := im.dc.Resize(w, h); err != nil {
		logging.Logger().Warn("raster: resize failed", "err", err)
		return
	}
	im.render()
}

// Draws counts Draw calls.
func (im *Image) Draws() int { return im.draws }

// Context exposes the underlying gg context.
func (im *Image) Context() *gg.Context { return im.dc }

// SavePNG writes the current image.
func (im *Image) SavePNG(path string) error {
	if err := im.dc.SavePNG(path); err != nil {
		return fmt.Errorf("save png: %w", err)
	}
	return nil
}

// Project maps world coordinates to device pixels.
func (im *Image) Project(x, y float64) (float64, float64) {
	w, h := im.dc.Width(), im.dc.Height()
	unit := im.distance
	if unit <= 0 {
		unit = 1
	}
	s := float64(min(w, h)) / 2 / unit
	return float64(w)/2 + (x-im.target[0])*s, float64(h)/2 - (y-im.target[1])*s
}

func (im *Image) render() {
	im.dc.ClearWithColor(gg.Hex(im.surface.Background))
	r := im.surface.PointRadius * im.ratio
	for i := 1; i < len(im.points); i++ {
		pt := im.points[i]
		if !pt.Visible() {
			continue
		}
		x, y := im.Project(pt.X(), pt.Y())
		if im.selected[i] {
			im.dc.SetHexColor(im.surface.Highlight)
		} else {
			im.dc.SetColor(im.palette.ColorAt(pt.Channel()))
		}
		im.dc.DrawCircle(x, y, r)
		if err := im.dc.Fill(); err != nil {
			logging.Logger().Warn("raster: fill failed", "point", i, "err", err)
		}
	}
}
