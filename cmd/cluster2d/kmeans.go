package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TrevorS/cluster2d"
	"github.com/TrevorS/cluster2d/internal/pointio"
)

type kmeansOptions struct {
	k             int
	trials        int
	subsample     int
	seed          uint64
	workers       int
	maxIterations int
	centroids     string
}

func newKMeansCmd(g *globalOptions) *cobra.Command {
	opts := &kmeansOptions{}
	cmd := &cobra.Command{
		Use:     "kmeans",
		Short:   "Run k-means clustering",
		Example: "cluster2d kmeans -k 3 -i points.csv",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKMeans(cmd, g, opts)
		},
	}
	f := cmd.Flags()
	f.IntVarP(&opts.k, "kClusters", "k", 0, "The desired number of clusters to find")
	f.IntVar(&opts.trials, "trials", 0, "Number of subsample solutions used to refine the initial centroids")
	f.IntVar(&opts.subsample, "subsample", 0, "Points per refinement subsample (0 derives it from the data)")
	f.Uint64Var(&opts.seed, "seed", 0, "Seed for refinement sampling")
	f.IntVar(&opts.workers, "workers", 0, "Refinement trials run concurrently")
	f.IntVar(&opts.maxIterations, "max-iterations", 0, "Cap on Lloyd iterations (0 = until convergence)")
	f.StringVar(&opts.centroids, "centroids", "", "File of k initial centroids; skips refinement")
	return cmd
}

func runKMeans(cmd *cobra.Command, g *globalOptions, opts *kmeansOptions) error {
	cfg, logger, err := g.load(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("kClusters") {
		cfg.KMeans.K = opts.k
	}
	if flags.Changed("trials") {
		cfg.KMeans.Trials = opts.trials
	}
	if flags.Changed("subsample") {
		cfg.KMeans.SubsampleSize = opts.subsample
	}
	if flags.Changed("seed") {
		cfg.KMeans.Seed = opts.seed
	}
	if flags.Changed("workers") {
		cfg.KMeans.Workers = opts.workers
	}
	if flags.Changed("max-iterations") {
		cfg.KMeans.MaxIterations = opts.maxIterations
	}

	points, err := g.readPoints(cmd)
	if err != nil {
		return err
	}

	settings := cfg.KMeansSettings()
	settings.Logger = logger
	if opts.centroids != "" {
		centroids, err := pointio.ReadFile(opts.centroids)
		if err != nil {
			return fmt.Errorf("read centroids: %w", err)
		}
		settings.InitialCentroids = centroids
	}

	clusters, err := cluster2d.KMeans(cmd.Context(), points, settings)
	if err != nil {
		return err
	}
	logger.Info("kmeans finished",
		"points", len(points),
		"k", len(clusters),
		"distortion", cluster2d.Distortion(clusters),
	)
	return pointio.WriteJSON(cmd.OutOrStdout(), pointio.KMeansRecords(clusters))
}
