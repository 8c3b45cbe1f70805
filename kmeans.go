package cluster2d

import (
	"context"
	"math"
)

// KMeans partitions points into cfg.K clusters with Lloyd's algorithm,
// iterating until no point changes cluster (or cfg.MaxIterations is hit).
//
// The starting centroids are cfg.InitialCentroids when given; otherwise
// they are chosen by refining cfg.Trials k-means solutions computed on
// random subsamples (see [KMeansConfig]).
//
// Points are assigned to the nearest centroid by squared Euclidean
// distance. Ties go to the earliest cluster on the first assignment and
// to the current cluster afterwards. A cluster that ends up empty keeps
// its last centroid.
func KMeans(ctx context.Context, points []Point, cfg KMeansConfig) ([]KMeansCluster, error) {
	cfg.applyDefaults()
	if err := cfg.validate(points); err != nil {
		return nil, err
	}

	var centroids []Point
	if len(cfg.InitialCentroids) > 0 {
		centroids = cfg.InitialCentroids
	} else {
		var err error
		centroids, err = refineCentroids(ctx, points, cfg)
		if err != nil {
			return nil, err
		}
	}

	s := newLloydState(points, centroids, true)
	s.maxIter = cfg.MaxIterations
	s.onIter = cfg.OnIteration
	s.initialize()
	if err := s.converge(ctx); err != nil {
		return nil, err
	}

	cfg.Logger.Debug("kmeans complete",
		"points", len(points),
		"k", cfg.K,
		"iterations", s.iterations,
		"moves", s.moves,
		"phase", s.phase.String(),
	)
	return s.clusters(), nil
}

// KMeansFromCentroids runs Lloyd's algorithm from the given k centroids.
func KMeansFromCentroids(points []Point, k int, centroids []Point) ([]KMeansCluster, error) {
	if len(centroids) == 0 {
		return nil, invalidParam("expected %d initial centroids, got none", k)
	}
	cfg := DefaultKMeansConfig()
	cfg.K = k
	cfg.InitialCentroids = centroids
	return KMeans(context.Background(), points, cfg)
}

// KMeansTrials runs k-means with centroids refined from the given number
// of subsample solutions.
func KMeansTrials(points []Point, k, trials int) ([]KMeansCluster, error) {
	if trials == 0 {
		// Zero would otherwise be replaced by the default.
		return nil, invalidParam("trials must be >= 1, got 0")
	}
	cfg := DefaultKMeansConfig()
	cfg.K = k
	cfg.Trials = trials
	return KMeans(context.Background(), points, cfg)
}

// KMeansDefault runs k-means with DefaultTrials refinement solutions.
func KMeansDefault(points []Point, k int) ([]KMeansCluster, error) {
	return KMeansTrials(points, k, DefaultTrials)
}

// Lloyd resumes Lloyd's algorithm on existing clusters, treating their
// current members and centroids as the starting state, and returns the
// number of point moves it made. Clusters are rewritten only when at
// least one point moves. On an already converged result it returns 0.
//
// With allowEmpty false, a cluster left empty at a fixed point is
// reseeded to the member point furthest from its centroid.
func Lloyd(clusters []KMeansCluster, allowEmpty bool) int {
	var points []Point
	var assign []int
	centroids := make([]Point, len(clusters))
	for c := range clusters {
		centroids[c] = clusters[c].Centroid
		for _, p := range clusters[c].Points {
			points = append(points, p)
			assign = append(assign, c)
		}
	}

	s := newLloydState(points, centroids, allowEmpty)
	copy(s.assign, assign)
	for _, c := range assign {
		s.counts[c]++
	}
	s.phase = phaseAssigning
	// Background context never cancels.
	_ = s.converge(context.Background())

	if s.moves > 0 {
		copy(clusters, s.clusters())
	}
	return s.moves
}

// Distortion returns the sum over all clusters of the squared distance
// from each member to its cluster's centroid.
func Distortion(clusters []KMeansCluster) float64 {
	var total float64
	for c := range clusters {
		for _, p := range clusters[c].Points {
			total += clusters[c].DistSqToCentroid(p)
		}
	}
	return total
}

// lloydPhase tracks where a Lloyd run is.
type lloydPhase uint8

const (
	phaseInit lloydPhase = iota
	phaseAssigning
	phaseUpdating
	phaseConverged
)

func (p lloydPhase) String() string {
	switch p {
	case phaseInit:
		return "init"
	case phaseAssigning:
		return "assigning"
	case phaseUpdating:
		return "updating"
	case phaseConverged:
		return "converged"
	}
	return "unknown"
}

// lloydState is the working state of one Lloyd run. Membership is kept as
// a cluster index per point.
type lloydState struct {
	points    []Point
	centroids []Point
	assign    []int
	counts    []int

	// per-cluster coordinate buffers reused by update
	xs, ys [][]float64

	allowEmpty bool
	maxIter    int
	onIter     IterationFunc

	phase      lloydPhase
	iterations int
	moves      int
}

func newLloydState(points, centroids []Point, allowEmpty bool) *lloydState {
	return &lloydState{
		points:     points,
		centroids:  append([]Point(nil), centroids...),
		assign:     make([]int, len(points)),
		counts:     make([]int, len(centroids)),
		allowEmpty: allowEmpty,
	}
}

// initialize performs the first assignment, with every point joining the
// earliest nearest centroid, and updates the centroids once.
func (s *lloydState) initialize() {
	s.phase = phaseInit
	for i, p := range s.points {
		best := 0
		bestDist := math.Inf(1)
		for c, centroid := range s.centroids {
			if d := DistSq(centroid, p); d < bestDist {
				best, bestDist = c, d
			}
		}
		s.assign[i] = best
		s.counts[best]++
	}
	s.update()
	s.notify()
	s.phase = phaseAssigning
}

// converge alternates reassignment and update until a fixed point.
func (s *lloydState) converge(ctx context.Context) error {
	reseeded := false
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.maxIter > 0 && s.iterations >= s.maxIter {
			break
		}

		s.phase = phaseAssigning
		moved := s.reassign()
		if moved == 0 {
			// A reseed that moved nothing cannot make progress; stop.
			if !s.allowEmpty && !reseeded && s.reseedEmpty() > 0 {
				reseeded = true
				continue
			}
			break
		}
		reseeded = false
		s.moves += moved
		s.iterations++

		s.phase = phaseUpdating
		s.update()
		s.notify()
	}
	s.phase = phaseConverged
	return nil
}

// reassign moves each point to a strictly closer centroid, if any, and
// returns the number of moves.
func (s *lloydState) reassign() int {
	moved := 0
	for i, p := range s.points {
		cur := s.assign[i]
		best := cur
		bestDist := DistSq(s.centroids[cur], p)
		for c, centroid := range s.centroids {
			if c == cur {
				continue
			}
			if d := DistSq(centroid, p); d < bestDist {
				best, bestDist = c, d
			}
		}
		if best != cur {
			s.assign[i] = best
			s.counts[cur]--
			s.counts[best]++
			moved++
		}
	}
	return moved
}

// update moves every non-empty cluster's centroid to its members' mean.
// Members are gathered in input order, the order clusters() emits them.
func (s *lloydState) update() {
	if s.xs == nil {
		s.xs = make([][]float64, len(s.centroids))
		s.ys = make([][]float64, len(s.centroids))
	}
	for c := range s.xs {
		s.xs[c] = s.xs[c][:0]
		s.ys[c] = s.ys[c][:0]
	}
	for i, p := range s.points {
		c := s.assign[i]
		s.xs[c] = append(s.xs[c], p.X)
		s.ys[c] = append(s.ys[c], p.Y)
	}
	for c, n := range s.counts {
		if n == 0 {
			continue
		}
		s.centroids[c] = meanPoint(s.xs[c], s.ys[c])
	}
}

// reseedEmpty moves each empty cluster's centroid onto the point furthest
// from it and returns how many clusters were reseeded.
func (s *lloydState) reseedEmpty() int {
	reseeded := 0
	for c, n := range s.counts {
		if n > 0 {
			continue
		}
		var furthest Point
		furthestDist := 0.0
		for _, p := range s.points {
			if d := DistSq(s.centroids[c], p); d > furthestDist {
				furthest, furthestDist = p, d
			}
		}
		if furthestDist > 0 {
			s.centroids[c] = furthest
			reseeded++
		}
	}
	return reseeded
}

func (s *lloydState) distortion() float64 {
	var total float64
	for i, p := range s.points {
		total += DistSq(s.centroids[s.assign[i]], p)
	}
	return total
}

func (s *lloydState) notify() {
	if s.onIter != nil {
		s.onIter(s.iterations, s.distortion())
	}
}

// clusters materializes the state; members keep their input order.
func (s *lloydState) clusters() []KMeansCluster {
	out := make([]KMeansCluster, len(s.centroids))
	for c := range out {
		out[c].Centroid = s.centroids[c]
		out[c].Points = make([]Point, 0, s.counts[c])
	}
	for i, p := range s.points {
		c := s.assign[i]
		out[c].Points = append(out[c].Points, p)
	}
	return out
}
