package pointbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scatterview/internal/encode"
	"scatterview/internal/geom"
)

func labeled(x, y float64, label string, visible bool) geom.Record {
	return geom.Record{
		Projection: &geom.Point{X: x, Y: y},
		Visible:    visible,
		Attrs:      map[string]any{"Labels": label},
	}
}

var ab = &encode.Descriptor{
	Name:    "Labels",
	Kind:    encode.Discrete,
	Options: []encode.Option{{Label: "A", Color: "#f00"}, {Label: "B", Color: "#00f"}},
}

func TestBuildTriangle(t *testing.T) {
	recs := []geom.Record{
		labeled(0, 0, "A", true),
		labeled(2, 0, "B", true),
		labeled(1, 2, "A", true),
	}
	buf, err := Build(recs, ab)
	require.NoError(t, err)
	assert.Equal(t, Buffer{
		{0, 0, 0, 0},
		{0, 0, 1, 0},
		{2, 0, 1, 1},
		{1, 2, 1, 0},
	}, buf)
	assert.Equal(t, 3, buf.Records())
}

func TestBuildInvariants(t *testing.T) {
	for n := range 20 {
		recs := make([]geom.Record, n)
		for i := range recs {
			label := "A"
			if i%3 == 0 {
				label = "B"
			}
			recs[i] = labeled(float64(i), float64(-i), label, i%2 == 0)
		}
		buf, err := Build(recs, ab)
		require.NoError(t, err)
		require.Len(t, buf, n+1)
		assert.Equal(t, Point{}, buf[0])
		for i := 1; i < len(buf); i++ {
			assert.Equal(t, recs[i-1].Projection.X, buf[i].X())
			assert.Equal(t, recs[i-1].Projection.Y, buf[i].Y())
			assert.Equal(t, recs[i-1].Visible, buf[i].Visible())
		}
	}
}

func TestBuildFailsAtomically(t *testing.T) {
	recs := []geom.Record{
		labeled(0, 0, "A", true),
		labeled(1, 1, "Z", true),
		labeled(2, 2, "B", true),
	}
	buf, err := Build(recs, ab)
	assert.ErrorIs(t, err, encode.ErrAttributeMismatch)
	assert.Nil(t, buf)

	_, err = Build([]geom.Record{{ID: 1}}, ab)
	assert.ErrorIs(t, err, geom.ErrNoProjection)

	_, err = Build(recs, nil)
	assert.Error(t, err)
}

func TestBuildEmpty(t *testing.T) {
	buf, err := Build(nil, ab)
	require.NoError(t, err)
	assert.Equal(t, Buffer{{}}, buf)
	assert.Zero(t, buf.Records())
}

func TestIDRoundTrip(t *testing.T) {
	for _, id := range []int{0, 1, 2, 41, 1 << 20} {
		assert.Equal(t, id, HostID(BufferID(id)))
	}
	host := []int{0, 5, 9}
	assert.Equal(t, []int{1, 6, 10}, BufferIDs(host))
	assert.Equal(t, host, HostIDs(BufferIDs(host)))
	assert.Equal(t, []int{2}, HostIDs([]int{0, 3}), "sentinel never reaches the host")
}
