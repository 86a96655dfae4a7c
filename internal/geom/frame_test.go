package geom

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(x, y float64) Record {
	return Record{Projection: &Point{X: x, Y: y}, Visible: true}
}

func TestFrameTriangle(t *testing.T) {
	b, err := Frame([]Record{at(0, 0), at(2, 0), at(1, 2)})
	require.NoError(t, err)
	assert.Equal(t, Bounds{MinX: 0, MaxX: 2, MinY: 0, MaxY: 2, CenterX: 1, CenterY: 1, MaxSize: 1}, b)
}

func TestFrameIgnoresOrder(t *testing.T) {
	a, err := Frame([]Record{at(-3, 5), at(4, -1), at(0, 0)})
	require.NoError(t, err)
	b, err := Frame([]Record{at(0, 0), at(4, -1), at(-3, 5)})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 3.5, a.MaxSize)
}

func TestFrameDegenerate(t *testing.T) {
	b, err := Frame([]Record{at(7, 7), at(7, 7), at(7, 7)})
	require.NoError(t, err)
	assert.Zero(t, b.MaxSize)
	assert.Equal(t, 7.0, b.CenterX)

	c := b.Camera()
	assert.Zero(t, c.Distance)
	assert.Zero(t, c.MinDistance)
	assert.Zero(t, c.MaxDistance)
	assert.Equal(t, [2]float64{7, 7}, c.Target)
}

func TestFrameSingleRecord(t *testing.T) {
	b, err := Frame([]Record{at(-1, 3)})
	require.NoError(t, err)
	assert.Zero(t, b.MaxSize)
}

func TestFrameErrors(t *testing.T) {
	_, err := Frame(nil)
	assert.ErrorIs(t, err, ErrNoProjection)

	_, err = Frame([]Record{at(0, 0), {ID: 4}})
	assert.ErrorIs(t, err, ErrNoProjection)
}

func TestFrameCenterWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for range 200 {
		n := 1 + rng.Intn(50)
		recs := make([]Record, n)
		for i := range recs {
			recs[i] = at(rng.NormFloat64()*100, rng.NormFloat64()*100)
		}
		b, err := Frame(recs)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, b.CenterX, b.MinX)
		assert.LessOrEqual(t, b.CenterX, b.MaxX)
		assert.GreaterOrEqual(t, b.CenterY, b.MinY)
		assert.LessOrEqual(t, b.CenterY, b.MaxY)
		assert.GreaterOrEqual(t, b.MaxSize, 0.0)
	}
}

func TestCamera(t *testing.T) {
	c := Bounds{CenterX: 1, CenterY: -2, MaxSize: 10}.Camera()
	assert.Equal(t, [2]float64{1, -2}, c.Target)
	assert.InDelta(t, 14.0, c.Distance, 1e-9)
	assert.InDelta(t, 0.7, c.MinDistance, 1e-9)
	assert.InDelta(t, 42.0, c.MaxDistance, 1e-9)
}

func TestProjected(t *testing.T) {
	assert.False(t, Projected(nil))
	assert.True(t, Projected([]Record{at(0, 0)}))
	assert.False(t, Projected([]Record{at(0, 0), {}}))
}
