package geom

// Point is a position in the 2D projection plane.
type Point struct {
	X float64
	Y float64
}

// Record is one projected data item. Projection is nil until the upstream
// projection step has produced a position for it.
type Record struct {
	ID         int
	Projection *Point
	Visible    bool
	Attrs      map[string]any
}

// Bounds is the axis-aligned extent of a record collection.
type Bounds struct {
	MinX    float64
	MaxX    float64
	MinY    float64
	MaxY    float64
	CenterX float64
	CenterY float64
	MaxSize float64 // half-extent of the larger axis
}

// Camera is the framing pushed to a rendering surface once per dataset.
type Camera struct {
	Target      [2]float64
	Distance    float64
	MinDistance float64
	MaxDistance float64
}
