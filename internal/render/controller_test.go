package render

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scatterview/internal/encode"
	"scatterview/internal/geom"
	"scatterview/internal/pointbuf"
)

type fakeHandle struct {
	calls    []string
	draws    []pointbuf.Buffer
	configs  []Config
	selected [][]int
	lasso    []bool
}

func (h *fakeHandle) Configure(c Config) {
	h.configs = append(h.configs, c)
	switch {
	case c.Palette != nil:
		h.calls = append(h.calls, "palette")
	case c.CameraDistance != nil:
		h.calls = append(h.calls, "camera")
	default:
		h.calls = append(h.calls, "configure")
	}
}

func (h *fakeHandle) Draw(b pointbuf.Buffer) {
	h.calls = append(h.calls, "draw")
	h.draws = append(h.draws, b)
}

func (h *fakeHandle) Select(ids []int) {
	h.calls = append(h.calls, "select")
	h.selected = append(h.selected, ids)
}

func (h *fakeHandle) SetLassoOverride(on bool) {
	h.calls = append(h.calls, fmt.Sprintf("lasso=%v", on))
	h.lasso = append(h.lasso, on)
}

func (h *fakeHandle) ResizeHandler() { h.calls = append(h.calls, "resize") }

type fakeSurface struct {
	handle *fakeHandle
	err    error
	reqs   []InitRequest
}

func (s *fakeSurface) Initialize(_ context.Context, req InitRequest) (Handle, error) {
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.handle, nil
}

type fakeCanvas struct {
	log  *[]string
	w, h int
}

func (c *fakeCanvas) SetSize(w, h int) {
	c.w, c.h = w, h
	*c.log = append(*c.log, "canvas")
}

type fixedContainer struct{ w, h int }

func (c fixedContainer) Size() (int, int) { return c.w, c.h }

func triangle() []geom.Record {
	return []geom.Record{
		{Projection: &geom.Point{X: 0, Y: 0}, Visible: true},
		{Projection: &geom.Point{X: 2, Y: 0}, Visible: true},
		{Projection: &geom.Point{X: 1, Y: 2}, Visible: true},
	}
}

var pal = encode.Palette{Kind: encode.Discrete, Colors: []string{"#f00", "#00f"}}

type fixture struct {
	ctrl    *Controller
	surface *fakeSurface
	handle  *fakeHandle
	canvas  *fakeCanvas
	errs    []error
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{handle: &fakeHandle{}}
	f.surface = &fakeSurface{handle: f.handle}
	f.canvas = &fakeCanvas{log: &f.handle.calls}
	opts = append(opts, WithOnError(func(err error) { f.errs = append(f.errs, err) }))
	f.ctrl = New(f.surface, f.canvas, fixedContainer{80, 24}, opts...)
	return f
}

func (f *fixture) start(t *testing.T) {
	t.Helper()
	initFn := f.ctrl.SurfaceAvailable()
	require.NotNil(t, initFn)
	f.ctrl.InitDone(initFn(context.Background()))
}

func TestSurfaceAvailableNeedsPoints(t *testing.T) {
	f := newFixture(t)
	assert.Nil(t, f.ctrl.SurfaceAvailable())
	assert.Equal(t, Uninitialized, f.ctrl.State())
}

func TestInitLifecycle(t *testing.T) {
	f := newFixture(t, WithPixelRatio(2))
	require.NoError(t, f.ctrl.Frame(triangle()))
	f.ctrl.SetPoints(pointbuf.Buffer{{}, {0, 0, 1, 0}}, pal)

	initFn := f.ctrl.SurfaceAvailable()
	require.NotNil(t, initFn)
	assert.Equal(t, Initializing, f.ctrl.State())
	assert.Nil(t, f.ctrl.SurfaceAvailable(), "second signal while initializing is a no-op")
	assert.True(t, f.ctrl.Loading())

	f.ctrl.InitDone(initFn(context.Background()))
	assert.Equal(t, Ready, f.ctrl.State())
	assert.False(t, f.ctrl.Loading())
	assert.Nil(t, f.ctrl.SurfaceAvailable(), "no re-initialization once ready")

	require.Len(t, f.surface.reqs, 1)
	req := f.surface.reqs[0]
	assert.Equal(t, 1.5, req.PixelRatio)
	assert.Equal(t, [2]float64{1, 1}, req.CameraTarget)
	assert.InDelta(t, 1.4, req.CameraDistance, 1e-9)
	assert.Same(t, f.canvas, req.Canvas)

	assert.Equal(t, []string{"camera", "lasso=false", "palette", "draw"}, f.handle.calls)
}

func TestLatestBufferWinsBeforeReady(t *testing.T) {
	f := newFixture(t)
	first := pointbuf.Buffer{{}, {1, 1, 1, 0}}
	second := pointbuf.Buffer{{}, {2, 2, 1, 1}}
	f.ctrl.SetPoints(first, pal)
	initFn := f.ctrl.SurfaceAvailable()
	f.ctrl.SetPoints(second, pal)
	f.ctrl.InitDone(initFn(context.Background()))

	require.Len(t, f.handle.draws, 1)
	assert.Equal(t, second, f.handle.draws[0])
}

func TestEveryBufferRedrawsWhenReady(t *testing.T) {
	f := newFixture(t)
	buf := pointbuf.Buffer{{}, {1, 1, 1, 0}}
	f.ctrl.SetPoints(buf, pal)
	f.start(t)
	f.ctrl.SetPoints(buf, pal)
	f.ctrl.SetPoints(buf, pal)
	assert.Len(t, f.handle.draws, 3)

	// palette is configured before every draw
	var order []string
	for _, c := range f.handle.calls {
		if c == "palette" || c == "draw" {
			order = append(order, c)
		}
	}
	assert.Equal(t, []string{"palette", "draw", "palette", "draw", "palette", "draw"}, order)
}

func TestInitFailure(t *testing.T) {
	f := newFixture(t)
	f.surface.err = errors.New("no gpu context")
	f.ctrl.SetPoints(pointbuf.Buffer{{}}, pal)
	f.start(t)

	assert.Equal(t, Uninitialized, f.ctrl.State())
	assert.True(t, f.ctrl.Loading())
	require.Len(t, f.errs, 1)
	assert.ErrorIs(t, f.errs[0], ErrSurfaceInit)
	assert.Contains(t, f.errs[0].Error(), "no gpu context")

	// a later surface-available signal retries
	f.surface.err = nil
	f.start(t)
	assert.Equal(t, Ready, f.ctrl.State())
	assert.False(t, f.ctrl.Loading())
}

func TestInitDoneIgnoredWhenNotInitializing(t *testing.T) {
	f := newFixture(t)
	f.ctrl.InitDone(InitResult{Handle: f.handle})
	assert.Equal(t, Uninitialized, f.ctrl.State())

	f.ctrl.SetPoints(pointbuf.Buffer{{}}, pal)
	f.ctrl.SurfaceAvailable()
	f.ctrl.InitDone(InitResult{})
	assert.Equal(t, Uninitialized, f.ctrl.State(), "nil handle counts as failure")
	require.Len(t, f.errs, 1)
}

func TestFrameOnce(t *testing.T) {
	f := newFixture(t)
	assert.Error(t, f.ctrl.Frame(nil))
	assert.False(t, f.ctrl.Framed())

	require.NoError(t, f.ctrl.Frame(triangle()))
	cam, ok := f.ctrl.Camera()
	require.True(t, ok)

	moved := triangle()
	moved[0].Projection = &geom.Point{X: -100, Y: -100}
	require.NoError(t, f.ctrl.Frame(moved))
	again, _ := f.ctrl.Camera()
	assert.Equal(t, cam, again)
}

func TestFrameWhenReadyPushesCamera(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SetPoints(pointbuf.Buffer{{}}, pal)
	f.start(t)
	f.handle.calls = nil

	require.NoError(t, f.ctrl.Frame(triangle()))
	assert.Equal(t, []string{"camera"}, f.handle.calls)
	last := f.handle.configs[len(f.handle.configs)-1]
	assert.InDelta(t, 1.4/20, *last.MinCameraDistance, 1e-9)
	assert.InDelta(t, 4.2, *last.MaxCameraDistance, 1e-9)
}

func TestResize(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Resize()
	assert.Empty(t, f.handle.calls, "resize before ready has no effect")

	f.ctrl.SetPoints(pointbuf.Buffer{{}}, pal)
	f.start(t)
	f.handle.calls = nil
	f.ctrl.Resize()
	assert.Equal(t, []string{"resize", "canvas"}, f.handle.calls)
	assert.Equal(t, 80, f.canvas.w)
	assert.Equal(t, 24, f.canvas.h)
}

func TestSelectTranslatesIDs(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Select([]int{1})
	f.ctrl.SetPoints(pointbuf.Buffer{{}, {}, {}}, pal)
	f.start(t)
	f.ctrl.Select([]int{0, 1})
	assert.Equal(t, [][]int{{1, 2}}, f.handle.selected)
}

func TestSurfaceCallbacks(t *testing.T) {
	var got []int
	deselected := 0
	f := newFixture(t,
		WithOnSelect(func(ids []int) { got = ids }),
		WithOnDeselect(func() { deselected++ }),
	)
	f.ctrl.SetPoints(pointbuf.Buffer{{}, {}, {}}, pal)
	f.start(t)

	req := f.surface.reqs[0]
	req.OnSelect([]int{2, 1})
	assert.Equal(t, []int{1, 0}, got)
	req.OnDeselect()
	assert.Equal(t, 1, deselected)
}

func TestLassoOverride(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SetTool(ToolLasso)
	assert.Empty(t, f.handle.lasso)

	f.ctrl.SetPoints(pointbuf.Buffer{{}}, pal)
	f.start(t)
	f.ctrl.SetTool(ToolDefault)
	f.ctrl.SetTool(ToolLasso)
	assert.Equal(t, []bool{true, false, true}, f.handle.lasso)
	assert.Equal(t, ToolLasso, f.ctrl.Tool())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "state(9)", State(9).String())
}
