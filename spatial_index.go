package cluster2d

// Entry is a point stored in a SpatialIndex together with an opaque
// payload, normally the point's position in the caller's input slice.
type Entry struct {
	Point   Point
	Payload int
}

// Rect is a closed axis-aligned rectangle.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// SquareAround returns the rectangle of half-width r centered on p.
func SquareAround(p Point, r float64) Rect {
	return Rect{MinX: p.X - r, MinY: p.Y - r, MaxX: p.X + r, MaxY: p.Y + r}
}

// Contains reports whether p lies inside r, borders included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Intersects reports whether r and o share at least one point.
func (r Rect) Intersects(o Rect) bool {
	return r.MinX <= o.MaxX && o.MinX <= r.MaxX && r.MinY <= o.MaxY && o.MinY <= r.MaxY
}

// extend grows r to cover p.
func (r *Rect) extend(p Point) {
	r.MinX = min(r.MinX, p.X)
	r.MinY = min(r.MinY, p.Y)
	r.MaxX = max(r.MaxX, p.X)
	r.MaxY = max(r.MaxY, p.Y)
}

// SpatialIndex is a 2-D point index supporting insertion and
// rectangle range queries.
type SpatialIndex interface {
	// Insert adds p with the given payload. Duplicate coordinates are allowed.
	Insert(p Point, payload int)

	// QueryRange appends every entry inside r to dst and returns the
	// extended slice. Result order is unspecified.
	QueryRange(r Rect, dst []Entry) []Entry

	// Len returns the number of inserted entries.
	Len() int
}
