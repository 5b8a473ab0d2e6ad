// Package config provides configuration loading and management for the
// cell segmentation tool. It handles loading configuration from YAML
// files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/erencankur/cell-segmentation-analysis/pkg/segmentation"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Preprocess parameters control the stain-channel conditioning
	Preprocess struct {
		// ClipLimit bounds per-tile contrast amplification during
		// adaptive histogram equalization
		ClipLimit float64 `yaml:"clipLimit"`

		// TileGridSize is the number of equalization tiles per axis
		TileGridSize int `yaml:"tileGridSize"`

		// BlurKernelSize is the Gaussian smoothing kernel width in pixels
		BlurKernelSize int `yaml:"blurKernelSize"`
	} `yaml:"preprocess"`

	// Segmentation parameters control thresholding and the watershed
	Segmentation struct {
		// Method selects the strategy: global, adaptive, or watershed
		Method string `yaml:"method"`

		// ThreshMultiplier scales the Otsu threshold for the watershed
		// mask; values below 1 increase recall
		ThreshMultiplier float64 `yaml:"threshMultiplier"`

		// AdaptiveWindowSize is the odd window width of the adaptive
		// thresholding baseline
		AdaptiveWindowSize int `yaml:"adaptiveWindowSize"`

		// AdaptiveOffset is subtracted from the local mean
		AdaptiveOffset float64 `yaml:"adaptiveOffset"`

		// MinDistance is the minimum marker spacing in pixels
		MinDistance int `yaml:"minDistance"`

		// ThresholdRelative is the marker peak floor as a fraction of
		// the global maximum distance
		ThresholdRelative float64 `yaml:"thresholdRelative"`

		// MinObjectSize is the smallest retained region area in pixels
		MinObjectSize int `yaml:"minObjectSize"`
	} `yaml:"segmentation"`

	// Processing parameters control batch execution
	Processing struct {
		// NumWorkers is the size of the per-image worker pool
		NumWorkers int `yaml:"numWorkers"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// ResultsDir is where CSV files and overlays are written
		ResultsDir string `yaml:"resultsDir"`

		// SaveOverlays enables rendering a color overlay per image
		SaveOverlays bool `yaml:"saveOverlays"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	engine := segmentation.DefaultConfig()
	cfg.Preprocess.ClipLimit = engine.ClipLimit
	cfg.Preprocess.TileGridSize = engine.TileGridSize
	cfg.Preprocess.BlurKernelSize = engine.BlurKernelSize

	cfg.Segmentation.Method = "watershed"
	cfg.Segmentation.ThreshMultiplier = engine.ThreshMultiplier
	cfg.Segmentation.AdaptiveWindowSize = engine.AdaptiveWindowSize
	cfg.Segmentation.AdaptiveOffset = engine.AdaptiveOffset
	cfg.Segmentation.MinDistance = engine.MinDistance
	cfg.Segmentation.ThresholdRelative = engine.ThresholdRelative
	cfg.Segmentation.MinObjectSize = engine.MinObjectSize

	cfg.Processing.NumWorkers = runtime.NumCPU()

	cfg.Output.ResultsDir = "results"
	cfg.Output.SaveOverlays = true
	cfg.Output.Verbose = true

	return cfg
}

// EngineConfig assembles the immutable parameter record threaded through
// the segmentation stages.
func (c *Config) EngineConfig() segmentation.Config {
	return segmentation.Config{
		ClipLimit:          c.Preprocess.ClipLimit,
		TileGridSize:       c.Preprocess.TileGridSize,
		BlurKernelSize:     c.Preprocess.BlurKernelSize,
		ThreshMultiplier:   c.Segmentation.ThreshMultiplier,
		AdaptiveWindowSize: c.Segmentation.AdaptiveWindowSize,
		AdaptiveOffset:     c.Segmentation.AdaptiveOffset,
		MinDistance:        c.Segmentation.MinDistance,
		ThresholdRelative:  c.Segmentation.ThresholdRelative,
		MinObjectSize:      c.Segmentation.MinObjectSize,
	}
}

// Strategy resolves the configured method name to its strategy variant.
func (c *Config) Strategy() (segmentation.Strategy, error) {
	switch c.Segmentation.Method {
	case "global":
		return segmentation.GlobalThreshold{}, nil
	case "adaptive":
		return segmentation.AdaptiveThreshold{}, nil
	case "watershed", "":
		return segmentation.WatershedSegment{}, nil
	}
	return nil, fmt.Errorf("unknown segmentation method %q", c.Segmentation.Method)
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
