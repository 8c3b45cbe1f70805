package cluster2d

import (
	"fmt"
	"math"
)

// Point is a 2-D coordinate. Points carry no identity beyond their value;
// two points with equal coordinates are interchangeable.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// DistSq returns the squared Euclidean distance between a and b.
func DistSq(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}

// comparePoints orders points by X, then Y. Used to canonicalize
// multisets of points.
func comparePoints(a, b Point) int {
	switch {
	case a.X < b.X:
		return -1
	case a.X > b.X:
		return 1
	case a.Y < b.Y:
		return -1
	case a.Y > b.Y:
		return 1
	}
	return 0
}
