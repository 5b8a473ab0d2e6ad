// Package segmentation implements the nucleus segmentation engine: stain
// preprocessing, global and adaptive thresholding baselines, and a
// marker-based watershed that separates touching nuclei, followed by
// morphological cleanup and region measurement.
//
// The engine is a deterministic, stateless, single-image transform. No
// stage mutates its input, no stage performs I/O, and identical inputs
// with identical configuration always reproduce bit-identical label maps.
// Batch drivers may therefore process many images concurrently without
// any cross-image synchronization.
package segmentation

import (
	"fmt"
	"image"

	"github.com/erencankur/cell-segmentation-analysis/internal/models"
)

// Result bundles everything one image produces: the final label map, the
// ordered region records, and the aggregate summary.
type Result struct {
	Labels  *models.LabelMap
	Regions []models.Region
	Summary models.Summary
}

// Pipeline runs the full raw-image-to-measurements transform with one
// fixed configuration and strategy.
type Pipeline struct {
	cfg      Config
	strategy Strategy
}

// NewPipeline validates the configuration and returns a pipeline using
// the watershed strategy.
func NewPipeline(cfg Config) (*Pipeline, error) {
	return NewPipelineWithStrategy(cfg, WatershedSegment{})
}

// NewPipelineWithStrategy validates the configuration and returns a
// pipeline using the given segmentation method.
func NewPipelineWithStrategy(cfg Config, strategy Strategy) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, strategy: strategy}, nil
}

// Config returns the pipeline's configuration record.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Run processes one RGB image end to end. An image whose mask comes out
// empty is not an error: it yields an all-background label map and a
// zeroed summary.
func (p *Pipeline) Run(img image.Image) (*Result, error) {
	intensity, err := Preprocess(img, p.cfg)
	if err != nil {
		return nil, fmt.Errorf("preprocessing failed: %w", err)
	}
	return p.RunIntensity(intensity)
}

// RunIntensity runs the segmentation and measurement stages on an
// already preprocessed intensity map.
func (p *Pipeline) RunIntensity(m *models.IntensityMap) (*Result, error) {
	labels, err := p.strategy.Segment(m, p.cfg)
	if err != nil {
		return nil, fmt.Errorf("%s segmentation failed: %w", p.strategy.Name(), err)
	}

	regions, summary := Measure(labels)
	return &Result{Labels: labels, Regions: regions, Summary: summary}, nil
}
