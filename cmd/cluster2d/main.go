// Package main provides the cluster2d CLI entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TrevorS/cluster2d"
	"github.com/TrevorS/cluster2d/internal/config"
	"github.com/TrevorS/cluster2d/internal/pointio"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// globalOptions holds the flags shared by every subcommand.
type globalOptions struct {
	configPath string
	input      string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:   "cluster2d",
		Short: "Cluster 2-D points with DBSCAN or k-means",
		Long: `cluster2d reads 2-D points (CSV x,y rows or a JSON array) and prints
the resulting clusters as JSON.

Commands:
  • dbscan  density-based clustering with a noise cluster
  • kmeans  Lloyd's k-means with refined initial centroids`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "YAML run configuration file")
	pf.StringVarP(&opts.input, "input", "i", "", "Point file (.csv or .json); stdin (CSV) when empty")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&opts.logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cluster2d v%s (%s)\n", version, commit)
		},
	})
	rootCmd.AddCommand(newDBSCANCmd(opts), newKMeansCmd(opts))
	return rootCmd
}

// load resolves the file configuration, applies the logging flags and
// builds the logger.
func (o *globalOptions) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// readPoints reads the input file, or CSV from stdin, and enforces the
// minimum of two points a clustering run needs.
func (o *globalOptions) readPoints(cmd *cobra.Command) ([]cluster2d.Point, error) {
	var (
		pts []cluster2d.Point
		err error
	)
	if o.input == "" {
		pts, err = pointio.Read(cmd.InOrStdin(), pointio.FormatCSV)
	} else {
		pts, err = pointio.ReadFile(o.input)
	}
	if err != nil {
		return nil, err
	}
	if len(pts) < 2 {
		return nil, fmt.Errorf("there must be at least two points to cluster, got %d", len(pts))
	}
	return pts, nil
}

// newLogger builds a text or JSON slog logger writing to w.
func newLogger(w io.Writer, lc config.LogConfig) (*slog.Logger, error) {
	level, err := config.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	hopts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(lc.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	}
	return slog.New(slog.NewTextHandler(w, hopts)), nil
}
