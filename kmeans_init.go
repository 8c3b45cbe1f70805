package cluster2d

import (
	"context"
	"math"
)

// refineCentroids chooses k starting centroids by refinement over random
// subsamples (Bradley & Fayyad, "Refining Initial Points for K-Means
// Clustering", 1998):
//
//  1. Draw cfg.Trials subsamples and, for each, k seed centroids from points
//     outside that subsample.
//  2. Solve k-means on each subsample, reseeding clusters that go empty.
//  3. Re-run each solution over the pool of all subsamples and keep the one
//     with the least distortion.
//
// All randomness is drawn up front from one generator seeded with cfg.Seed,
// so the result does not depend on how trials are scheduled.
func refineCentroids(ctx context.Context, points []Point, cfg KMeansConfig) ([]Point, error) {
	n, k, trials := len(points), cfg.K, cfg.Trials
	rng := newRand(cfg.Seed)

	subSize := cfg.SubsampleSize
	if subSize == 0 {
		subSize = deriveSubsampleSize(n, k, trials)
	}
	if subSize < k {
		// Too few points to subsample; seed with k distinct points instead.
		idx := sampleIndices(rng, n, k)
		cfg.Logger.Debug("kmeans refinement skipped", "points", n, "k", k)
		return gather(points, idx), nil
	}

	subsamples := make([][]Point, trials)
	seeds := make([][]Point, trials)
	pool := make([]Point, 0, subSize*trials)
	for t := range trials {
		idx := sampleIndices(rng, n, subSize+k)
		subsamples[t] = gather(points, idx[:subSize])
		seeds[t] = gather(points, idx[subSize:])
		pool = append(pool, subsamples[t]...)
	}

	candidates := make([][]Point, trials)
	err := runParallel(ctx, trials, cfg.Workers, func(ctx context.Context, t int) error {
		s := newLloydState(subsamples[t], seeds[t], false)
		s.initialize()
		if err := s.converge(ctx); err != nil {
			return err
		}
		candidates[t] = s.centroids
		return nil
	})
	if err != nil {
		return nil, err
	}

	refined := make([][]Point, trials)
	scores := make([]float64, trials)
	err = runParallel(ctx, trials, cfg.Workers, func(ctx context.Context, t int) error {
		s := newLloydState(pool, candidates[t], true)
		s.initialize()
		if err := s.converge(ctx); err != nil {
			return err
		}
		refined[t] = s.centroids
		scores[t] = crossDistortion(s.centroids, pool)
		return nil
	})
	if err != nil {
		return nil, err
	}

	best := 0
	bestScore := math.Inf(1)
	for t, score := range scores {
		if score < bestScore {
			best, bestScore = t, score
		}
	}

	cfg.Logger.Debug("kmeans refinement complete",
		"trials", trials,
		"subsample_size", subSize,
		"pool_size", len(pool),
		"best_trial", best,
		"best_distortion", bestScore,
	)
	return refined[best], nil
}

// deriveSubsampleSize returns 25% of n/trials, at least 10, and never so
// large that subsample plus seeds exceed n.
func deriveSubsampleSize(n, k, trials int) int {
	size := int(0.25 * float64(n) / float64(trials))
	size = max(size, 10)
	return min(size, n-k)
}

// crossDistortion sums the squared distance from every point to every
// centroid, not only to the centroid each point is assigned to. This is the
// score the refinement step ranks solutions by.
func crossDistortion(centroids, points []Point) float64 {
	var total float64
	for _, c := range centroids {
		for _, p := range points {
			total += DistSq(c, p)
		}
	}
	return total
}

func gather(points []Point, idx []int) []Point {
	out := make([]Point, len(idx))
	for i, j := range idx {
		out[i] = points[j]
	}
	return out
}
