package cluster2d

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCluster_EqualIsMultiset(t *testing.T) {
	a := Cluster{Points: []Point{Pt(1, 1), Pt(2, 2), Pt(1, 1)}}
	b := Cluster{Points: []Point{Pt(2, 2), Pt(1, 1), Pt(1, 1)}}
	c := Cluster{Points: []Point{Pt(2, 2), Pt(2, 2), Pt(1, 1)}}

	assert.True(t, a.Equal(&b), "order must not matter")
	assert.False(t, a.Equal(&c), "duplicate counts must matter")
	assert.False(t, a.Equal(&Cluster{Points: a.Points[:2]}))
	assert.True(t, (&Cluster{}).Equal(&Cluster{}))
}

func TestCluster_EqualDoesNotReorder(t *testing.T) {
	a := Cluster{Points: []Point{Pt(3, 0), Pt(1, 0)}}
	b := Cluster{Points: []Point{Pt(1, 0), Pt(3, 0)}}
	require.True(t, a.Equal(&b))
	assert.Equal(t, Pt(3, 0), a.Points[0])
}

func TestCluster_Add(t *testing.T) {
	var c Cluster
	c.Add(Pt(1, 2))
	c.Add(Pt(1, 2))
	assert.Equal(t, 2, c.Len())
}

func TestCluster_Summary(t *testing.T) {
	c := Cluster{Points: []Point{Pt(0, 0), Pt(2, 0), Pt(4, 6)}}
	s := c.Summary()

	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 2.0, s.MeanX, 1e-12)
	assert.InDelta(t, 2.0, s.MeanY, 1e-12)
	assert.InDelta(t, 2.0, s.StdX, 1e-12)
	assert.InDelta(t, math.Sqrt(12), s.StdY, 1e-12)
	assert.Equal(t, Rect{MinX: 0, MinY: 0, MaxX: 4, MaxY: 6}, s.Bounds)
}

func TestCluster_SummaryEdgeCases(t *testing.T) {
	assert.Equal(t, Summary{}, (&Cluster{}).Summary())

	one := Cluster{Points: []Point{Pt(3, -1)}}
	s := one.Summary()
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 3.0, s.MeanX)
	assert.Equal(t, -1.0, s.MeanY)
	assert.Zero(t, s.StdX)
	assert.Zero(t, s.StdY)
}

func TestKMeansCluster_Recompute(t *testing.T) {
	c := NewKMeansCluster(Pt(100, 100))
	assert.Zero(t, c.Len(), "a new cluster has no members")

	c.Recompute()
	assert.Equal(t, Pt(100, 100), c.Centroid, "an empty cluster keeps its centroid")

	c.Add(Pt(0, 0))
	c.Add(Pt(4, 2))
	c.Add(Pt(2, 7))
	c.Recompute()
	assert.InDelta(t, 2.0, c.Centroid.X, 1e-12)
	assert.InDelta(t, 3.0, c.Centroid.Y, 1e-12)
	assert.InDelta(t, 4.0+9.0, c.DistSqToCentroid(Pt(0, 0)), 1e-12)
}

func TestKMeansCluster_Equal(t *testing.T) {
	a := KMeansCluster{Cluster: Cluster{Points: []Point{Pt(1, 0), Pt(0, 1)}}, Centroid: Pt(0.5, 0.5)}
	b := KMeansCluster{Cluster: Cluster{Points: []Point{Pt(0, 1), Pt(1, 0)}}, Centroid: Pt(0.5, 0.5)}
	c := b
	c.Centroid = Pt(0, 0)

	assert.True(t, a.Equal(&b))
	assert.False(t, a.Equal(&c), "centroids differ")
}

func TestDBSCANCluster_EqualAndNoise(t *testing.T) {
	pts := []Point{Pt(1, 1)}
	a := DBSCANCluster{Cluster: Cluster{Points: pts}}
	n := DBSCANCluster{Cluster: Cluster{Points: pts}, Noise: true}
	assert.False(t, a.Equal(&n), "noise flag must match")

	clusters := []DBSCANCluster{a, n}
	got := NoiseCluster(clusters)
	require.NotNil(t, got)
	assert.True(t, got.Noise)
	assert.Nil(t, NoiseCluster(clusters[:1]))
}
