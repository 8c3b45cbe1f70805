// Package cluster2d clusters sets of 2-D points with DBSCAN and k-means.
//
// DBSCAN finds density-connected groups of points and collects everything
// else in a single noise cluster. Neighborhood queries go through a
// bucketed KD-tree ([KDTree]), and cluster expansion uses an explicit work
// queue, so very large clusters never deepen the call stack.
//
//	cfg := cluster2d.DefaultDBSCANConfig()
//	cfg.Epsilon = 10
//	cfg.MinPts = 4
//	clusters, err := cluster2d.DBSCAN(ctx, points, cfg)
//	// clusters[len(clusters)-1].Noise is always true
//
// K-means runs Lloyd's algorithm to a fixed point. Without explicit
// starting centroids it picks them by refinement: many small k-means
// solutions on random subsamples are cross-evaluated and the least
// distorted one seeds the final run.
//
//	clusters, err := cluster2d.KMeansFromCentroids(points, 3, centroids)
//	clusters, err := cluster2d.KMeansDefault(points, 3)
//
// For reproducible refinement set [KMeansConfig].Seed; results are identical
// for every value of [KMeansConfig].Workers.
//
// Invalid input is reported before any work starts with an error wrapping
// [ErrInvalidParameter].
package cluster2d
