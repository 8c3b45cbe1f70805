package cluster2d

import (
	"context"
	"fmt"
)

// pointLabel is the per-point state of one DBSCAN run.
type pointLabel uint8

const (
	unlabeled pointLabel = iota
	noise
	clustered
)

// DBSCAN clusters points by density. A point whose epsilon-neighborhood
// (itself included) holds at least cfg.MinPts points is a core point; core
// points within epsilon of each other share a cluster, and non-core points
// within epsilon of a core point join it as border points.
//
// The result lists the clusters in the input order of their first core
// point, followed by exactly one noise cluster (possibly empty) holding
// every unclaimed point. Clusters left with a single member are dissolved
// into the noise cluster.
//
// ctx is checked between top-level points; on cancellation DBSCAN returns
// ctx.Err() and no clusters.
func DBSCAN(ctx context.Context, points []Point, cfg DBSCANConfig) ([]DBSCANCluster, error) {
	cfg.applyDefaults()
	if err := cfg.validate(points); err != nil {
		return nil, err
	}

	r := newDBSCANRun(points, cfg)
	n := len(points)
	for i := range points {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if r.labels[i] == unlabeled {
			r.visit(i)
		}
		if cfg.Progress != nil {
			cfg.Progress(float64(i) / float64(n))
		}
	}

	result := r.collect()
	if cfg.Progress != nil {
		cfg.Progress(1)
	}
	cfg.Logger.Debug("dbscan complete",
		"points", n,
		"epsilon", cfg.Epsilon,
		"min_pts", cfg.MinPts,
		"clusters", len(result)-1,
		"noise", result[len(result)-1].Len(),
	)
	return result, nil
}

// RunDBSCAN is DBSCAN with Euclidean distance, default index settings and
// no cancellation.
func RunDBSCAN(points []Point, epsilon float64, minPts int, onProgress ProgressFunc) ([]DBSCANCluster, error) {
	cfg := DefaultDBSCANConfig()
	cfg.Epsilon = epsilon
	cfg.MinPts = minPts
	cfg.Progress = onProgress
	return DBSCAN(context.Background(), points, cfg)
}

// dbscanRun owns every piece of intermediate state for one DBSCAN call.
type dbscanRun struct {
	points     []Point
	index      *KDTree
	metric     DistanceMetric
	eps        float64
	reducedEps float64
	minPts     int

	labels   []pointLabel
	queuedIn []int // 1-based id of the cluster whose queue holds the point
	clusters [][]int

	candidates []Entry
	neighbors  []int
}

func newDBSCANRun(points []Point, cfg DBSCANConfig) *dbscanRun {
	return &dbscanRun{
		points:     points,
		index:      BuildKDTree(points, cfg.LeafSize),
		metric:     cfg.Metric,
		eps:        cfg.Epsilon,
		reducedEps: cfg.Metric.ToReduced(cfg.Epsilon),
		minPts:     cfg.MinPts,
		labels:     make([]pointLabel, len(points)),
		queuedIn:   make([]int, len(points)),
	}
}

// regionQuery returns the indices of every point within epsilon of
// points[i], i included. The returned slice is reused by the next call.
func (r *dbscanRun) regionQuery(i int) []int {
	p := r.points[i]
	r.candidates = r.index.QueryRange(SquareAround(p, r.eps), r.candidates[:0])
	r.neighbors = r.neighbors[:0]
	for _, c := range r.candidates {
		if r.metric.ReducedDistance(p, c.Point) <= r.reducedEps {
			r.neighbors = append(r.neighbors, c.Payload)
		}
	}
	return r.neighbors
}

// visit classifies an unlabeled point and, if it is a core point, grows a
// new cluster from it with a FIFO work queue.
func (r *dbscanRun) visit(i int) {
	seeds := r.regionQuery(i)
	if len(seeds) < r.minPts {
		r.labels[i] = noise
		return
	}

	id := len(r.clusters) + 1
	members := []int{i}
	r.labels[i] = clustered

	queue := make([]int, 0, len(seeds))
	for _, j := range seeds {
		if r.labels[j] != clustered {
			r.queuedIn[j] = id
			queue = append(queue, j)
		}
	}

	for head := 0; head < len(queue); head++ {
		j := queue[head]
		switch r.labels[j] {
		case clustered:
			continue
		case unlabeled, noise:
			r.labels[j] = clustered
			members = append(members, j)
		default:
			panic(fmt.Sprintf("cluster2d: invalid label %d for point %d", r.labels[j], j))
		}

		neighbors := r.regionQuery(j)
		if len(neighbors) < r.minPts {
			continue
		}
		for _, q := range neighbors {
			if r.labels[q] != clustered && r.queuedIn[q] != id {
				r.queuedIn[q] = id
				queue = append(queue, q)
			}
		}
	}

	r.clusters = append(r.clusters, members)
}

// collect materializes the clusters and the trailing noise cluster.
func (r *dbscanRun) collect() []DBSCANCluster {
	result := make([]DBSCANCluster, 0, len(r.clusters)+1)
	var noisePts []Point
	for i, l := range r.labels {
		switch l {
		case noise:
			noisePts = append(noisePts, r.points[i])
		case clustered:
		default:
			panic(fmt.Sprintf("cluster2d: point %d left with label %d", i, l))
		}
	}

	for _, members := range r.clusters {
		pts := make([]Point, len(members))
		for k, idx := range members {
			pts[k] = r.points[idx]
		}
		if len(pts) <= 1 {
			// A lone point cannot establish density on its own.
			noisePts = append(noisePts, pts...)
			continue
		}
		result = append(result, DBSCANCluster{Cluster: Cluster{Points: pts}})
	}

	return append(result, DBSCANCluster{Cluster: Cluster{Points: noisePts}, Noise: true})
}
