package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TrevorS/cluster2d"
	"github.com/TrevorS/cluster2d/internal/pointio"
)

type dbscanOptions struct {
	eps      float64
	minPts   int
	metric   string
	leafSize int
}

func newDBSCANCmd(g *globalOptions) *cobra.Command {
	opts := &dbscanOptions{}
	cmd := &cobra.Command{
		Use:     "dbscan",
		Short:   "Run DBSCAN clustering",
		Example: "cluster2d dbscan -e 3.14 -m 2 -i points.csv",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBSCAN(cmd, g, opts)
		},
	}
	f := cmd.Flags()
	f.Float64VarP(&opts.eps, "eps", "e", 0, "Proximity of points to be considered part of the same cluster")
	f.IntVarP(&opts.minPts, "minPts", "m", 0, "Minimum number of points to expand a cluster")
	f.StringVar(&opts.metric, "metric", "", "Distance metric: euclidean, manhattan, chebyshev")
	f.IntVar(&opts.leafSize, "leaf-size", 0, "KD-tree bucket size")
	return cmd
}

func runDBSCAN(cmd *cobra.Command, g *globalOptions, opts *dbscanOptions) error {
	cfg, logger, err := g.load(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("eps") {
		cfg.DBSCAN.Epsilon = opts.eps
	}
	if flags.Changed("minPts") {
		cfg.DBSCAN.MinPts = opts.minPts
	}
	if flags.Changed("metric") {
		cfg.DBSCAN.Metric = opts.metric
	}
	if flags.Changed("leaf-size") {
		cfg.DBSCAN.LeafSize = opts.leafSize
	}

	points, err := g.readPoints(cmd)
	if err != nil {
		return err
	}
	if cfg.DBSCAN.MinPts < 1 || cfg.DBSCAN.MinPts > len(points) {
		return fmt.Errorf("minPts must be between 1 and the number of points (%d), got %d", len(points), cfg.DBSCAN.MinPts)
	}

	settings, err := cfg.DBSCANSettings()
	if err != nil {
		return err
	}
	settings.Logger = logger
	step := max(1, len(points)/10)
	processed := 0
	settings.Progress = func(fraction float64) {
		processed++
		if processed%step == 0 || fraction == 1 {
			logger.Debug("dbscan progress", "fraction", fraction)
		}
	}

	clusters, err := cluster2d.DBSCAN(cmd.Context(), points, settings)
	if err != nil {
		return err
	}
	logger.Info("dbscan finished",
		"points", len(points),
		"clusters", len(clusters)-1,
		"noise", clusters[len(clusters)-1].Len(),
	)
	return pointio.WriteJSON(cmd.OutOrStdout(), pointio.DBSCANRecords(clusters))
}
