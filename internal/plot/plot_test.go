package plot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scatterview/internal/encode"
	"scatterview/internal/geom"
	"scatterview/internal/pointbuf"
	"scatterview/internal/render"
)

type recorder struct {
	draws    []pointbuf.Buffer
	palettes []encode.Palette
	cameras  int
}

func (r *recorder) Initialize(context.Context, render.InitRequest) (render.Handle, error) {
	return r, nil
}

func (r *recorder) Configure(c render.Config) {
	if c.Palette != nil {
		r.palettes = append(r.palettes, *c.Palette)
	}
	if c.CameraDistance != nil {
		r.cameras++
	}
}

func (r *recorder) Draw(b pointbuf.Buffer) { r.draws = append(r.draws, b) }
func (r *recorder) Select([]int) {}
func (r *recorder) SetLassoOverride(bool) {}
func (r *recorder) ResizeHandler() {}

func descriptors() []encode.Descriptor {
	return []encode.Descriptor{
		{
			Name:    "Labels",
			Kind:    encode.Discrete,
			Options: []encode.Option{{Label: "A", Color: "#ff0000"}, {Label: "B", Color: "#0000ff"}},
		},
		{
			Name:  "score",
			Kind:  encode.Continuous,
			Range: encode.Range{Min: 0, Max: 10, Colors: []string{"#000000", "#ffffff"}},
		},
		{
			Name:    "Tags",
			Kind:    encode.Discrete,
			Options: []encode.Option{{Label: "t1", Color: "#00ff00"}},
		},
	}
}

func records() []geom.Record {
	mk := func(x, y float64, label string, score float64) geom.Record {
		return geom.Record{
			Projection: &geom.Point{X: x, Y: y},
			Visible:    true,
			Attrs:      map[string]any{"Labels": label, "score": score, "Tags": []string{"t1"}},
		}
	}
	return []geom.Record{mk(0, 0, "A", 0), mk(2, 0, "B", 5), mk(1, 2, "A", 10)}
}

func ready(t *testing.T) (*Plotter, *recorder) {
	t.Helper()
	rec := &recorder{}
	p := New(render.New(rec, nil, nil))
	require.NoError(t, p.SetData(records(), descriptors()))
	initFn := p.Controller().SurfaceAvailable()
	require.NotNil(t, initFn)
	p.Controller().InitDone(initFn(context.Background()))
	return p, rec
}

func TestSetDataDraws(t *testing.T) {
	p, rec := ready(t)
	assert.False(t, p.Loading())
	require.Len(t, rec.draws, 1)
	assert.Equal(t, pointbuf.Buffer{{0, 0, 0, 0}, {0, 0, 1, 0}, {2, 0, 1, 1}, {1, 2, 1, 0}}, rec.draws[0])
	assert.Equal(t, 1, rec.cameras)
}

func TestSetDataFramesOnce(t *testing.T) {
	p, rec := ready(t)
	cam, _ := p.Controller().Camera()

	moved := records()
	moved[0].Projection = &geom.Point{X: 50, Y: 50}
	require.NoError(t, p.SetData(moved, descriptors()))

	again, _ := p.Controller().Camera()
	assert.Equal(t, cam, again)
	assert.Equal(t, 1, rec.cameras)
	assert.Len(t, rec.draws, 2)
}

func TestSetDataWaitsForProjection(t *testing.T) {
	rec := &recorder{}
	p := New(render.New(rec, nil, nil))
	recs := records()
	recs[1].Projection = nil
	require.NoError(t, p.SetData(recs, descriptors()))
	assert.False(t, p.Controller().Framed())
	assert.Nil(t, p.Controller().SurfaceAvailable(), "nothing to draw yet")
}

func TestSetAttribute(t *testing.T) {
	p, rec := ready(t)
	require.NoError(t, p.SetAttribute("score"))
	assert.Equal(t, "score", p.Attribute())
	require.Len(t, rec.draws, 2)
	last := rec.draws[1]
	assert.InDelta(t, 0.5, last[2].Channel(), 1e-12)
	assert.InDelta(t, 1.0, last[3].Channel(), 1e-12)
	assert.Equal(t, encode.Continuous, rec.palettes[len(rec.palettes)-1].Kind)

	// excluded from the switch, still encodable
	require.NoError(t, p.SetAttribute("Tags"))
	assert.Len(t, rec.draws, 3)

	assert.Error(t, p.SetAttribute("nope"))
	assert.Equal(t, "Tags", p.Attribute())
}

func TestMismatchKeepsPreviousBuffer(t *testing.T) {
	p, rec := ready(t)
	bad := records()
	bad[2].Attrs["Labels"] = "C"
	err := p.SetData(bad, descriptors())
	assert.ErrorIs(t, err, encode.ErrAttributeMismatch)
	assert.Len(t, rec.draws, 1)
}

func TestSetAttributeMismatchRestores(t *testing.T) {
	p, _ := ready(t)
	ds := descriptors()
	ds[1].Kind = encode.Discrete
	require.NoError(t, p.SetData(records(), ds))
	assert.ErrorIs(t, p.SetAttribute("score"), encode.ErrAttributeMismatch)
	assert.Equal(t, "Labels", p.Attribute())
}

func TestSelectable(t *testing.T) {
	p, _ := ready(t)
	assert.Equal(t, []string{"Labels", "score"}, p.Selectable())
	assert.True(t, p.Excluded("Tags"))

	q := New(render.New(&recorder{}, nil, nil), WithExcluded(), WithAttribute("score"))
	require.NoError(t, q.SetData(records(), descriptors()))
	assert.Equal(t, []string{"Labels", "score", "Tags"}, q.Selectable())
	assert.Equal(t, "score", q.Attribute())
}

func TestFallbackAttribute(t *testing.T) {
	p := New(render.New(&recorder{}, nil, nil), WithAttribute("missing"))
	require.NoError(t, p.SetData(records(), descriptors()))
	assert.Equal(t, "Labels", p.Attribute())
}
