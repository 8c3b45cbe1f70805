// Package config loads run settings for the cluster2d command from a YAML
// file. Fields missing from the file keep their defaults; command-line flags
// are applied on top by the caller.
//
// Example file:
//
//	log:
//	  level: debug
//	  format: json
//	dbscan:
//	  epsilon: 10
//	  min_pts: 4
//	  metric: euclidean
//	kmeans:
//	  k: 3
//	  trials: 20
//	  seed: 42
//	  workers: 4
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/TrevorS/cluster2d"
)

// Config holds every setting the command reads from a file.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	DBSCAN DBSCANConfig `yaml:"dbscan"`
	KMeans KMeansConfig `yaml:"kmeans"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// DBSCANConfig mirrors cluster2d.DBSCANConfig.
type DBSCANConfig struct {
	Epsilon  float64 `yaml:"epsilon"`
	MinPts   int     `yaml:"min_pts"`
	Metric   string  `yaml:"metric"`
	LeafSize int     `yaml:"leaf_size"`
}

// KMeansConfig mirrors cluster2d.KMeansConfig.
type KMeansConfig struct {
	K             int    `yaml:"k"`
	Trials        int    `yaml:"trials"`
	SubsampleSize int    `yaml:"subsample_size"`
	Seed          uint64 `yaml:"seed"`
	Workers       int    `yaml:"workers"`
	MaxIterations int    `yaml:"max_iterations"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	d := cluster2d.DefaultDBSCANConfig()
	k := cluster2d.DefaultKMeansConfig()
	return &Config{
		Log: LogConfig{Level: "info", Format: "text"},
		DBSCAN: DBSCANConfig{
			Epsilon:  d.Epsilon,
			MinPts:   d.MinPts,
			Metric:   "euclidean",
			LeafSize: d.LeafSize,
		},
		KMeans: KMeansConfig{
			K:       k.K,
			Trials:  k.Trials,
			Seed:    k.Seed,
			Workers: k.Workers,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, or returns the defaults when path is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks the enumerated fields. Numeric ranges are left to the
// clustering engines, which report them as cluster2d.ErrInvalidParameter.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be \"text\" or \"json\", got %q", c.Log.Format)
	}
	if _, err := MetricByName(c.DBSCAN.Metric); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", name)
	}
	return l, nil
}

// MetricByName returns the distance metric called name. The empty name
// selects Euclidean.
func MetricByName(name string) (cluster2d.DistanceMetric, error) {
	switch strings.ToLower(name) {
	case "", "euclidean", "l2":
		return cluster2d.EuclideanMetric{}, nil
	case "manhattan", "l1":
		return cluster2d.ManhattanMetric{}, nil
	case "chebyshev", "linf":
		return cluster2d.ChebyshevMetric{}, nil
	}
	return nil, fmt.Errorf("unknown metric %q (want euclidean, manhattan or chebyshev)", name)
}

// DBSCANSettings converts the file section into engine settings. Callers
// add Progress and Logger.
func (c *Config) DBSCANSettings() (cluster2d.DBSCANConfig, error) {
	metric, err := MetricByName(c.DBSCAN.Metric)
	if err != nil {
		return cluster2d.DBSCANConfig{}, err
	}
	return cluster2d.DBSCANConfig{
		Epsilon:  c.DBSCAN.Epsilon,
		MinPts:   c.DBSCAN.MinPts,
		Metric:   metric,
		LeafSize: c.DBSCAN.LeafSize,
	}, nil
}

// KMeansSettings converts the file section into engine settings.
func (c *Config) KMeansSettings() cluster2d.KMeansConfig {
	return cluster2d.KMeansConfig{
		K:             c.KMeans.K,
		Trials:        c.KMeans.Trials,
		SubsampleSize: c.KMeans.SubsampleSize,
		Seed:          c.KMeans.Seed,
		Workers:       c.KMeans.Workers,
		MaxIterations: c.KMeans.MaxIterations,
	}
}
