package cluster2d

import (
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Cluster is a group of points. Membership has multiset semantics: order
// is irrelevant and coordinate duplicates are kept.
type Cluster struct {
	Points []Point
}

// Len returns the number of member points.
func (c *Cluster) Len() int { return len(c.Points) }

// Add appends p to the cluster.
func (c *Cluster) Add(p Point) { c.Points = append(c.Points, p) }

// Equal reports whether c and o hold exactly the same multiset of
// coordinates, regardless of order.
func (c *Cluster) Equal(o *Cluster) bool {
	if len(c.Points) != len(o.Points) {
		return false
	}
	a := slices.SortedFunc(slices.Values(c.Points), comparePoints)
	b := slices.SortedFunc(slices.Values(o.Points), comparePoints)
	return slices.Equal(a, b)
}

// columns splits the member coordinates into separate X and Y slices.
func (c *Cluster) columns() (xs, ys []float64) {
	xs = make([]float64, len(c.Points))
	ys = make([]float64, len(c.Points))
	for i, p := range c.Points {
		xs[i], ys[i] = p.X, p.Y
	}
	return xs, ys
}

// Summary describes the spread of a cluster's members.
type Summary struct {
	Count  int     `json:"count"`
	MeanX  float64 `json:"mean_x"`
	MeanY  float64 `json:"mean_y"`
	StdX   float64 `json:"std_x"`
	StdY   float64 `json:"std_y"`
	Bounds Rect    `json:"bounds"`
}

// Summary computes per-axis mean, sample standard deviation and bounding
// box. An empty cluster yields the zero Summary; a single point has zero
// standard deviation.
func (c *Cluster) Summary() Summary {
	n := len(c.Points)
	if n == 0 {
		return Summary{}
	}
	xs, ys := c.columns()
	s := Summary{
		Count: n,
		Bounds: Rect{
			MinX: floats.Min(xs), MinY: floats.Min(ys),
			MaxX: floats.Max(xs), MaxY: floats.Max(ys),
		},
	}
	if n == 1 {
		s.MeanX, s.MeanY = xs[0], ys[0]
		return s
	}
	s.MeanX, s.StdX = stat.MeanStdDev(xs, nil)
	s.MeanY, s.StdY = stat.MeanStdDev(ys, nil)
	return s
}

// KMeansCluster is a cluster with a centroid. The centroid is not itself
// a member.
type KMeansCluster struct {
	Cluster
	Centroid Point
}

// NewKMeansCluster returns an empty cluster seeded with centroid.
func NewKMeansCluster(centroid Point) KMeansCluster {
	return KMeansCluster{Centroid: centroid}
}

// Recompute moves the centroid to the coordinate-wise mean of the members.
// An empty cluster keeps its current centroid.
func (c *KMeansCluster) Recompute() {
	if len(c.Points) == 0 {
		return
	}
	xs, ys := c.columns()
	c.Centroid = meanPoint(xs, ys)
}

// meanPoint returns the coordinate-wise mean of the columns. Recompute and
// the Lloyd update both use it, so their centroids agree exactly.
func meanPoint(xs, ys []float64) Point {
	return Point{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}
}

// DistSqToCentroid returns the squared distance from p to the centroid.
func (c *KMeansCluster) DistSqToCentroid(p Point) float64 {
	return DistSq(c.Centroid, p)
}

// Equal reports whether both clusters have the same centroid and the same
// member multiset.
func (c *KMeansCluster) Equal(o *KMeansCluster) bool {
	return c.Centroid == o.Centroid && c.Cluster.Equal(&o.Cluster)
}

// DBSCANCluster is a density-connected cluster, or, when Noise is set, the
// collection of every point DBSCAN could not place in a cluster.
type DBSCANCluster struct {
	Cluster
	Noise bool
}

// Equal reports whether both clusters have the same noise flag and the
// same member multiset.
func (c *DBSCANCluster) Equal(o *DBSCANCluster) bool {
	return c.Noise == o.Noise && c.Cluster.Equal(&o.Cluster)
}

// NoiseCluster returns the noise cluster of a DBSCAN result, or nil if
// clusters has none.
func NoiseCluster(clusters []DBSCANCluster) *DBSCANCluster {
	for i := range clusters {
		if clusters[i].Noise {
			return &clusters[i]
		}
	}
	return nil
}
