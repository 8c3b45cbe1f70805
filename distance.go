package cluster2d

import "math"

// DistanceMetric measures the distance between two points. ReducedDistance
// is a cheaper monotone transform of Distance (e.g. squared Euclidean skips
// the sqrt) and ToReduced maps a true distance into the same space, so
// neighborhood tests can compare ReducedDistance(a, b) <= ToReduced(eps).
//
// DBSCAN narrows candidates with an axis-aligned square of half-width eps,
// so a metric must never report a distance <= eps for a point outside that
// square. Every Lp metric satisfies this.
type DistanceMetric interface {
	Distance(a, b Point) float64
	ReducedDistance(a, b Point) float64
	ToReduced(d float64) float64
}

// DistanceFunc adapts a plain function into a DistanceMetric.
// ReducedDistance delegates to the same function.
type DistanceFunc func(a, b Point) float64

func (f DistanceFunc) Distance(a, b Point) float64        { return f(a, b) }
func (f DistanceFunc) ReducedDistance(a, b Point) float64 { return f(a, b) }
func (f DistanceFunc) ToReduced(d float64) float64        { return d }

// EuclideanMetric computes the Euclidean (L2) distance.
// ReducedDistance returns squared Euclidean distance (skips sqrt).
type EuclideanMetric struct{}

func (EuclideanMetric) Distance(a, b Point) float64        { return math.Sqrt(DistSq(a, b)) }
func (EuclideanMetric) ReducedDistance(a, b Point) float64 { return DistSq(a, b) }
func (EuclideanMetric) ToReduced(d float64) float64        { return d * d }

// ManhattanMetric computes the Manhattan (L1 / city-block) distance.
type ManhattanMetric struct{}

func (ManhattanMetric) Distance(a, b Point) float64 {
	return math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y)
}

func (m ManhattanMetric) ReducedDistance(a, b Point) float64 { return m.Distance(a, b) }
func (ManhattanMetric) ToReduced(d float64) float64          { return d }

// ChebyshevMetric computes the Chebyshev (L-infinity) distance. Its
// epsilon-ball is exactly the query square.
type ChebyshevMetric struct{}

func (ChebyshevMetric) Distance(a, b Point) float64 {
	return math.Max(math.Abs(a.X-b.X), math.Abs(a.Y-b.Y))
}

func (m ChebyshevMetric) ReducedDistance(a, b Point) float64 { return m.Distance(a, b) }
func (ChebyshevMetric) ToReduced(d float64) float64          { return d }
