package render

import (
	"context"
	"errors"
	"fmt"

	"scatterview/internal/encode"
	"scatterview/internal/geom"
	"scatterview/internal/logging"
	"scatterview/internal/pointbuf"
)

// ErrSurfaceInit wraps every surface initialization failure.
var ErrSurfaceInit = errors.New("render: surface initialization failed")

// State is the surface lifecycle state.
type State int

const (
	Uninitialized State = iota
	Initializing
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Tool is the active interaction tool of the host.
type Tool string

const (
	ToolDefault Tool = "default"
	ToolLasso   Tool = "lasso"
)

// InitFunc runs a surface initialization. The host runs it off the control
// thread and hands the result back through Controller.InitDone.
type InitFunc func(ctx context.Context) InitResult

// InitResult is the outcome of an InitFunc.
type InitResult struct {
	Handle Handle
	Err    error
}

// Controller owns the rendering surface once it is ready; no other component
// issues draw or configure calls. It is not safe for concurrent use: every
// method, including the select callbacks it hands to the surface, runs on
// the host's control thread.
type Controller struct {
	surface   Surface
	canvas    Canvas
	container Container

	pixelRatio    float64
	maxPixelRatio float64

	onSelect   func(hostIDs []int)
	onDeselect func()
	onError    func(error)

	state  State
	handle Handle

	framed        bool
	camera        geom.Camera
	cameraPending bool

	points  pointbuf.Buffer
	palette encode.Palette
	dirty   bool

	tool    Tool
	loading bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithPixelRatio sets the device pixel ratio; it is capped by the maximum.
func WithPixelRatio(r float64) Option {
	return func(c *Controller) { c.pixelRatio = r }
}

// WithMaxPixelRatio caps the pixel ratio handed to the surface (default 1.5).
func WithMaxPixelRatio(r float64) Option {
	return func(c *Controller) { c.maxPixelRatio = r }
}

// WithOnSelect sets the host callback receiving host-space ids.
func WithOnSelect(fn func(hostIDs []int)) Option {
	return func(c *Controller) { c.onSelect = fn }
}

// WithOnDeselect sets the host deselection callback.
func WithOnDeselect(fn func()) Option {
	return func(c *Controller) { c.onDeselect = fn }
}

// WithOnError sets the callback receiving surface initialization failures.
func WithOnError(fn func(error)) Option {
	return func(c *Controller) { c.onError = fn }
}

// New returns an uninitialized controller for the given surface. The canvas
// and its container are owned by the host and injected here.
func New(surface Surface, canvas Canvas, container Container, opts ...Option) *Controller {
	c := &Controller{
		surface:       surface,
		canvas:        canvas,
		container:     container,
		pixelRatio:    1,
		maxPixelRatio: 1.5,
		tool:          ToolDefault,
		loading:       true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() State { return c.state }

// Framed reports whether the camera framing has been computed.
func (c *Controller) Framed() bool { return c.framed }

// Loading is true until the first successful draw.
func (c *Controller) Loading() bool { return c.loading }

// Camera returns the framing computed by Frame.
func (c *Controller) Camera() (geom.Camera, bool) { return c.camera, c.framed }

// PixelRatio is the device pixel ratio capped at the configured maximum.
func (c *Controller) PixelRatio() float64 {
	return min(c.maxPixelRatio, c.pixelRatio)
}

// Frame computes the camera framing the first time it is called with a
// projected collection. Later calls are no-ops even if records changed.
func (c *Controller) Frame(records []geom.Record) error {
	if c.framed {
		return nil
	}
	b, err := geom.Frame(records)
	if err != nil {
		return err
	}
	c.camera = b.Camera()
	c.framed = true
	c.cameraPending = true
	logging.Logger().Debug("render: framed", "center_x", b.CenterX, "center_y", b.CenterY, "max_size", b.MaxSize)
	if c.state == Ready {
		c.pushCamera()
	}
	return nil
}

// SetPoints hands a freshly built buffer and its palette to the surface.
// Before the surface is ready only the latest pair is kept.
func (c *Controller) SetPoints(buf pointbuf.Buffer, palette encode.Palette) {
	c.points = buf
	c.palette = palette
	c.dirty = true
	if c.state == Ready {
		c.redraw()
	}
}

// SurfaceAvailable signals that the canvas exists. It returns the initializer
// to run, or nil when there is nothing to draw yet or initialization is
// already underway or done.
func (c *Controller) SurfaceAvailable() InitFunc {
	if c.state != Uninitialized || c.points == nil {
		return nil
	}
	c.state = Initializing
	req := InitRequest{
		Points:     c.points,
		Palette:    c.palette,
		PixelRatio: c.PixelRatio(),
		Canvas:     c.canvas,
		OnSelect:   c.surfaceSelect,
		OnDeselect: c.surfaceDeselect,
	}
	if c.framed {
		req.CameraTarget = c.camera.Target
		req.CameraDistance = c.camera.Distance
	}
	surface := c.surface
	logging.Logger().Debug("render: initializing surface", "points", req.Points.Records(), "pixel_ratio", req.PixelRatio)
	return func(ctx context.Context) InitResult {
		h, err := surface.Initialize(ctx, req)
		return InitResult{Handle: h, Err: err}
	}
}

// InitDone completes an initialization started by SurfaceAvailable.
func (c *Controller) InitDone(res InitResult) {
	if c.state != Initializing {
		return
	}
	if res.Err == nil && res.Handle == nil {
		res.Err = errors.New("surface returned no handle")
	}
	if res.Err != nil {
		c.state = Uninitialized
		err := fmt.Errorf("%w: %w", ErrSurfaceInit, res.Err)
		logging.Logger().Error("render: could not set up surface", "err", res.Err)
		if c.onError != nil {
			c.onError(err)
		}
		return
	}
	c.handle = res.Handle
	c.state = Ready
	logging.Logger().Info("render: surface ready")
	if c.cameraPending {
		c.pushCamera()
	}
	c.applyTool()
	if c.dirty {
		c.redraw()
	}
}

// SetTool forwards the tool mode as the lasso override.
func (c *Controller) SetTool(t Tool) {
	c.tool = t
	c.applyTool()
}

func (c *Controller) Tool() Tool { return c.tool }

// Select highlights host-space ids on the surface. It is ignored until the
// surface is ready.
func (c *Controller) Select(hostIDs []int) {
	if c.state != Ready {
		return
	}
	c.handle.Select(pointbuf.BufferIDs(hostIDs))
}

// Resize propagates a container layout change: first the surface's own
// projection, then the canvas pixel size. It is ignored until ready.
func (c *Controller) Resize() {
	if c.state != Ready {
		return
	}
	c.handle.ResizeHandler()
	if c.canvas != nil && c.container != nil {
		c.canvas.SetSize(c.container.Size())
	}
}

func (c *Controller) pushCamera() {
	c.handle.Configure(CameraConfig(c.camera))
	c.cameraPending = false
}

func (c *Controller) applyTool() {
	if c.state != Ready || c.points == nil {
		return
	}
	c.handle.SetLassoOverride(c.tool == ToolLasso)
}

func (c *Controller) redraw() {
	c.handle.Configure(PaletteConfig(c.palette))
	c.handle.Draw(c.points)
	c.dirty = false
	c.loading = false
}

func (c *Controller) surfaceSelect(bufferIDs []int) {
	if c.onSelect != nil {
		c.onSelect(pointbuf.HostIDs(bufferIDs))
	}
}

func (c *Controller) surfaceDeselect() {
	if c.onDeselect != nil {
		c.onDeselect()
	}
}
