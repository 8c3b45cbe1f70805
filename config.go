package cluster2d

import (
	"log/slog"
	"math"
)

// ProgressFunc receives the fraction of work completed, in [0, 1]. It is
// called synchronously on the clustering goroutine and must not block.
type ProgressFunc func(fraction float64)

// IterationFunc observes one Lloyd iteration: the iteration number
// (0 is the initial assignment) and the within-cluster distortion after
// the centroids were updated.
type IterationFunc func(iteration int, distortion float64)

// DefaultTrials is the number of refinement solutions used by KMeansDefault.
const DefaultTrials = 20

// DBSCANConfig controls DBSCAN clustering.
// Start with [DefaultDBSCANConfig] and override the fields you need.
type DBSCANConfig struct {
	// Epsilon is the neighborhood radius. Must be >= 0.
	Epsilon float64

	// MinPts is the number of points (the point itself included) an
	// epsilon-neighborhood needs for its center to be a core point.
	// Must be >= 0; 0 makes every point a core point.
	MinPts int

	// Metric measures neighborhood distances. Default: EuclideanMetric.
	Metric DistanceMetric

	// LeafSize is the KD-tree bucket size. Default: DefaultLeafSize.
	LeafSize int

	// Progress, if set, is called after every top-level point and once
	// more with 1 when the run completes.
	Progress ProgressFunc

	// Logger receives debug records about the run. nil discards them.
	Logger *slog.Logger
}

// DefaultDBSCANConfig returns a DBSCANConfig with reasonable defaults.
func DefaultDBSCANConfig() DBSCANConfig {
	return DBSCANConfig{
		Epsilon:  1,
		MinPts:   4,
		Metric:   EuclideanMetric{},
		LeafSize: DefaultLeafSize,
	}
}

func (cfg *DBSCANConfig) applyDefaults() {
	if cfg.Metric == nil {
		cfg.Metric = EuclideanMetric{}
	}
	if cfg.LeafSize < 1 {
		cfg.LeafSize = DefaultLeafSize
	}
	cfg.Logger = loggerOrDiscard(cfg.Logger)
}

func (cfg *DBSCANConfig) validate(points []Point) error {
	if cfg.Epsilon < 0 || math.IsNaN(cfg.Epsilon) {
		return invalidParam("epsilon must be >= 0, got %g", cfg.Epsilon)
	}
	if cfg.MinPts < 0 {
		return invalidParam("minPts must be >= 0, got %d", cfg.MinPts)
	}
	if len(points) == 0 {
		return invalidParam("no points to cluster")
	}
	return validatePoints(points)
}

// validatePoints rejects NaN and infinite coordinates.
func validatePoints(points []Point) error {
	for i, p := range points {
		if !p.finite() {
			return invalidParam("point %d is not finite: %v", i, p)
		}
	}
	return nil
}

// KMeansConfig controls k-means clustering.
// Start with [DefaultKMeansConfig] and override the fields you need.
type KMeansConfig struct {
	// K is the number of clusters. Must be in [1, len(points)].
	K int

	// InitialCentroids, when non-empty, seeds Lloyd's algorithm directly and
	// must hold exactly K points. Otherwise the centroids are chosen by
	// subsample refinement.
	InitialCentroids []Point

	// Trials is the number of refinement solutions (J). Must be >= 1 when
	// refinement runs. Default: DefaultTrials.
	Trials int

	// SubsampleSize is the number of points in each refinement subsample.
	// 0 derives it from the data: 25% of len(points)/Trials, at least 10,
	// capped so SubsampleSize+K <= len(points). An explicit value must
	// satisfy that bound.
	SubsampleSize int

	// Seed makes refinement sampling reproducible.
	Seed uint64

	// Workers bounds how many refinement trials run at once. Values <= 1
	// run them sequentially. Results do not depend on Workers.
	Workers int

	// MaxIterations caps the Lloyd loop of the final run. 0 runs until no
	// point changes cluster.
	MaxIterations int

	// OnIteration, if set, observes every iteration of the final run.
	OnIteration IterationFunc

	// Logger receives debug records about the run. nil discards them.
	Logger *slog.Logger
}

// DefaultKMeansConfig returns a KMeansConfig with reasonable defaults.
func DefaultKMeansConfig() KMeansConfig {
	return KMeansConfig{
		K:       2,
		Trials:  DefaultTrials,
		Seed:    1,
		Workers: 1,
	}
}

func (cfg *KMeansConfig) applyDefaults() {
	if cfg.Trials == 0 && len(cfg.InitialCentroids) == 0 {
		cfg.Trials = DefaultTrials
	}
	cfg.Logger = loggerOrDiscard(cfg.Logger)
}

func (cfg *KMeansConfig) validate(points []Point) error {
	if len(points) == 0 {
		return invalidParam("no points to cluster")
	}
	if cfg.K < 1 || cfg.K > len(points) {
		return invalidParam("k must be between 1 and %d, got %d", len(points), cfg.K)
	}
	if cfg.MaxIterations < 0 {
		return invalidParam("maxIterations must be >= 0, got %d", cfg.MaxIterations)
	}
	if err := validatePoints(points); err != nil {
		return err
	}
	if len(cfg.InitialCentroids) > 0 {
		if len(cfg.InitialCentroids) != cfg.K {
			return invalidParam("expected %d initial centroids, got %d", cfg.K, len(cfg.InitialCentroids))
		}
		for i, c := range cfg.InitialCentroids {
			if !c.finite() {
				return invalidParam("initial centroid %d is not finite: %v", i, c)
			}
		}
		return nil
	}
	if cfg.Trials < 1 {
		return invalidParam("trials must be >= 1, got %d", cfg.Trials)
	}
	if cfg.SubsampleSize < 0 {
		return invalidParam("subsampleSize must be >= 0, got %d", cfg.SubsampleSize)
	}
	if cfg.SubsampleSize > 0 && cfg.SubsampleSize < cfg.K {
		return invalidParam("subsampleSize must be >= k (%d), got %d", cfg.K, cfg.SubsampleSize)
	}
	if cfg.SubsampleSize > 0 && cfg.SubsampleSize+cfg.K > len(points) {
		return invalidParam("subsampleSize %d + k %d exceeds %d points", cfg.SubsampleSize, cfg.K, len(points))
	}
	return nil
}
