package cluster2d

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveSubsampleSize(t *testing.T) {
	tests := []struct {
		n, k, trials int
		want         int
	}{
		{1000, 5, 20, 12},
		{100, 3, 20, 10},
		{12, 5, 20, 7},
		{4, 4, 20, 0},
		{10000, 2, 1, 2500},
	}
	for _, tt := range tests {
		got := deriveSubsampleSize(tt.n, tt.k, tt.trials)
		assert.Equal(t, tt.want, got, "n=%d k=%d trials=%d", tt.n, tt.k, tt.trials)
	}
}

func TestCrossDistortion(t *testing.T) {
	centroids := []Point{{0, 0}, {1, 0}}
	points := []Point{{0, 0}, {2, 0}}
	// (0 + 4) from the first centroid, (1 + 1) from the second.
	assert.Equal(t, 6.0, crossDistortion(centroids, points))
}

func refineConfig(k int) KMeansConfig {
	cfg := DefaultKMeansConfig()
	cfg.K = k
	cfg.Seed = 99
	cfg.applyDefaults()
	return cfg
}

func TestRefineCentroids_IndependentOfWorkers(t *testing.T) {
	points := randomPoints(2000, 5, 1000)
	cfg := refineConfig(5)

	cfg.Workers = 1
	want, err := refineCentroids(context.Background(), points, cfg)
	require.NoError(t, err)
	require.Len(t, want, 5)

	for _, workers := range []int{2, 4, 16} {
		cfg.Workers = workers
		got, err := refineCentroids(context.Background(), points, cfg)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("workers=%d centroids differ (-want +got):\n%s", workers, diff)
		}
	}
}

func TestRefineCentroids_SameSeedSameResult(t *testing.T) {
	points := randomPoints(500, 6, 100)
	cfg := refineConfig(4)

	a, err := refineCentroids(context.Background(), points, cfg)
	require.NoError(t, err)
	b, err := refineCentroids(context.Background(), points, cfg)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRefineCentroids_InsideDataBounds(t *testing.T) {
	points := randomPoints(400, 17, 100)
	bounds := (&Cluster{Points: points}).Summary().Bounds
	cfg := refineConfig(6)
	cfg.Trials = 7
	cfg.SubsampleSize = 30

	centroids, err := refineCentroids(context.Background(), points, cfg)
	require.NoError(t, err)
	require.Len(t, centroids, 6)
	for _, c := range centroids {
		assert.True(t, bounds.Contains(c), "centroid %v outside %+v", c, bounds)
	}
}

func TestRefineCentroids_FallbackSeedsDistinctPoints(t *testing.T) {
	points := []Point{{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}}
	cfg := refineConfig(5)
	centroids, err := refineCentroids(context.Background(), points, cfg)
	require.NoError(t, err)
	assert.ElementsMatch(t, points, centroids)
}

func TestRefineCentroids_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := refineConfig(3)
	cfg.Workers = 4
	_, err := refineCentroids(ctx, randomPoints(300, 2, 10), cfg)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKMeans_RefinementDeterministic(t *testing.T) {
	points := randomPoints(1000, 23, 100)
	cfg := DefaultKMeansConfig()
	cfg.K = 4
	cfg.Seed = 7

	cfg.Workers = 1
	want, err := KMeans(context.Background(), points, cfg)
	require.NoError(t, err)

	cfg.Workers = 8
	got, err := KMeans(context.Background(), points, cfg)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("results differ across worker counts (-want +got):\n%s", diff)
	}
}

func TestKMeans_SubsampleValidation(t *testing.T) {
	points := threeGroups() // 21 points
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"derived", 0, false},
		{"largest allowed", 18, false},
		{"equal to k", 3, false},
		{"below k", 2, true},
		{"too large", 19, true},
		{"negative", -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultKMeansConfig()
			cfg.K = 3
			cfg.SubsampleSize = tt.size
			clusters, err := KMeans(context.Background(), points, cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParameter)
				return
			}
			require.NoError(t, err)
			assert.Len(t, clusters, 3)
		})
	}
}

func TestKMeans_RefinementLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := DefaultKMeansConfig()
	cfg.K = 3
	cfg.Logger = logger
	_, err := KMeans(context.Background(), randomPoints(300, 3, 10), cfg)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "kmeans refinement complete")
	assert.Contains(t, buf.String(), "subsample_size=10")

	buf.Reset()
	cfg.K = 4
	_, err = KMeans(context.Background(), []Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, cfg)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "kmeans refinement skipped")
}
