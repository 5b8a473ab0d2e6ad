package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/erencankur/cell-segmentation-analysis/pkg/segmentation"
)

// TestDefaultConfigIsValid verifies that the shipped defaults pass
// engine validation.
func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.EngineConfig().Validate(); err != nil {
		t.Fatalf("Expected default engine config to validate, got %v", err)
	}
	if cfg.Processing.NumWorkers < 1 {
		t.Errorf("Expected at least one worker, got %d", cfg.Processing.NumWorkers)
	}
}

// TestLoadConfigMissingFile verifies the default fallback when no config
// file exists.
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Expected defaults for missing file, got error %v", err)
	}
	if cfg.Segmentation.Method != "watershed" {
		t.Errorf("Expected watershed default method, got %q", cfg.Segmentation.Method)
	}
}

// TestSaveAndLoadRoundtrip verifies YAML persistence.
func TestSaveAndLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Segmentation.MinDistance = 13
	cfg.Preprocess.ClipLimit = 3.5
	cfg.Output.ResultsDir = "out"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Segmentation.MinDistance != 13 {
		t.Errorf("Expected minDistance 13, got %d", loaded.Segmentation.MinDistance)
	}
	if loaded.Preprocess.ClipLimit != 3.5 {
		t.Errorf("Expected clipLimit 3.5, got %f", loaded.Preprocess.ClipLimit)
	}
	if loaded.Output.ResultsDir != "out" {
		t.Errorf("Expected results dir 'out', got %q", loaded.Output.ResultsDir)
	}
}

// TestLoadConfigPartialFile verifies unspecified fields keep defaults.
func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	partial := "segmentation:\n  minDistance: 5\n"
	if err := os.WriteFile(path, []byte(partial), 0644); err != nil {
		t.Fatalf("Failed to write partial config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Segmentation.MinDistance != 5 {
		t.Errorf("Expected overridden minDistance 5, got %d", cfg.Segmentation.MinDistance)
	}
	if cfg.Preprocess.TileGridSize != segmentation.DefaultConfig().TileGridSize {
		t.Errorf("Expected default tile grid, got %d", cfg.Preprocess.TileGridSize)
	}
}

// TestStrategyResolution verifies the method-name mapping.
func TestStrategyResolution(t *testing.T) {
	cases := []struct {
		method string
		want   string
	}{
		{"global", "global"},
		{"adaptive", "adaptive"},
		{"watershed", "watershed"},
		{"", "watershed"},
	}

	for _, tc := range cases {
		cfg := DefaultConfig()
		cfg.Segmentation.Method = tc.method
		strategy, err := cfg.Strategy()
		if err != nil {
			t.Fatalf("Strategy(%q) failed: %v", tc.method, err)
		}
		if strategy.Name() != tc.want {
			t.Errorf("Strategy(%q): expected %q, got %q", tc.method, tc.want, strategy.Name())
		}
	}

	cfg := DefaultConfig()
	cfg.Segmentation.Method = "magic"
	if _, err := cfg.Strategy(); err == nil {
		t.Error("Expected error for unknown method")
	}
}
