// Package config loads the pipeline configuration: the resort bounding
// box, the clustering and matching thresholds, and the curated station
// list. All magic numbers live here as named, documented fields.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"ski-graph/graph"
)

// Config is the full pipeline configuration.
type Config struct {
	// Area is a human-readable name for the resort.
	Area string `yaml:"area"`
	// BoundingBox limits the raw-feature queries.
	BoundingBox graph.BoundingBox `yaml:"boundingBox" validate:"required"`

	// ClusterRadiusM merges segment endpoints this close (meters) into
	// one node.
	ClusterRadiusM float64 `yaml:"clusterRadiusM" validate:"gt=0"`
	// LatBandDeg is the latitude pruning bound for the cluster scan
	// (degrees; 0.001 is ~111m).
	LatBandDeg float64 `yaml:"latBandDeg" validate:"gt=0"`
	// StationMatchMaxM is the farthest (meters) a station may sit from
	// its nearest node and still be assigned.
	StationMatchMaxM float64 `yaml:"stationMatchMaxM" validate:"gt=0"`
	// MaxElevationDeltaM is the largest plausible per-edge elevation
	// change (meters); larger deltas are flagged by validation.
	MaxElevationDeltaM int `yaml:"maxElevationDeltaM" validate:"gt=0"`

	// Stations are the curated real-world locations to map onto nodes.
	Stations []graph.StationSite `yaml:"stations" validate:"required,min=1,dive"`
}

// Default returns the threshold defaults. The bounding box and station
// list have no defaults; they must come from the config file.
func Default() *Config {
	return &Config{
		ClusterRadiusM:     graph.DefaultClusterRadiusM,
		LatBandDeg:         graph.DefaultLatBandDeg,
		StationMatchMaxM:   graph.DefaultStationMatchMaxM,
		MaxElevationDeltaM: graph.DefaultMaxElevationDeltaM,
	}
}

// Load reads a YAML config file over the defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// OverpassBBox formats the bounding box in Overpass "south,west,north,east" order.
func (c *Config) OverpassBBox() string {
	b := c.BoundingBox
	return fmt.Sprintf("%v,%v,%v,%v", b.South, b.West, b.North, b.East)
}
