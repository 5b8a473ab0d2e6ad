package segmentation

// Config is the single immutable parameter record threaded through every
// stage of the pipeline. There are no package-level mutable defaults;
// callers start from DefaultConfig and adjust.
type Config struct {
	// ClipLimit bounds the per-tile contrast amplification during
	// adaptive histogram equalization. Expressed as a multiple of the
	// uniform histogram level; values at or below 0 are invalid and
	// values around 2-4 are typical.
	ClipLimit float64

	// TileGridSize is the number of equalization tiles along each axis.
	TileGridSize int

	// BlurKernelSize is the width of the Gaussian smoothing kernel in
	// pixels. Must be odd and positive.
	BlurKernelSize int

	// ThreshMultiplier scales the global Otsu threshold before the mask
	// for watershed is built. Values below 1 increase recall.
	ThreshMultiplier float64

	// AdaptiveWindowSize is the odd neighborhood width used by the
	// adaptive thresholding baseline.
	AdaptiveWindowSize int

	// AdaptiveOffset is subtracted from the local mean before comparing
	// a pixel against it.
	AdaptiveOffset float64

	// MinDistance is the minimum separation between accepted watershed
	// markers, in pixels.
	MinDistance int

	// ThresholdRelative is the minimum accepted marker height as a
	// fraction of the global maximum of the distance field, in [0, 1].
	ThresholdRelative float64

	// MinObjectSize is the smallest region area, in pixels, kept by the
	// morphological cleanup passes.
	MinObjectSize int
}

// DefaultConfig returns the parameter set used throughout the reference
// dataset experiments.
func DefaultConfig() Config {
	return Config{
		ClipLimit:          2.0,
		TileGridSize:       8,
		BlurKernelSize:     3,
		ThreshMultiplier:   0.75,
		AdaptiveWindowSize: 51,
		AdaptiveOffset:     0.02,
		MinDistance:        9,
		ThresholdRelative:  0.25,
		MinObjectSize:      30,
	}
}

// Validate checks every parameter range and returns a DegenerateConfigError
// for the first violation found.
func (c Config) Validate() error {
	if c.ClipLimit <= 0 {
		return &DegenerateConfigError{Param: "clipLimit", Value: c.ClipLimit}
	}
	if c.TileGridSize < 1 {
		return &DegenerateConfigError{Param: "tileGridSize", Value: float64(c.TileGridSize)}
	}
	if c.BlurKernelSize < 1 || c.BlurKernelSize%2 == 0 {
		return &DegenerateConfigError{Param: "blurKernelSize", Value: float64(c.BlurKernelSize)}
	}
	if c.ThreshMultiplier <= 0 {
		return &DegenerateConfigError{Param: "threshMultiplier", Value: c.ThreshMultiplier}
	}
	if c.AdaptiveWindowSize < 3 || c.AdaptiveWindowSize%2 == 0 {
		return &DegenerateConfigError{Param: "adaptiveWindowSize", Value: float64(c.AdaptiveWindowSize)}
	}
	if c.MinDistance <= 0 {
		return &DegenerateConfigError{Param: "minDistance", Value: float64(c.MinDistance)}
	}
	if c.ThresholdRelative < 0 || c.ThresholdRelative > 1 {
		return &DegenerateConfigError{Param: "thresholdRelative", Value: c.ThresholdRelative}
	}
	if c.MinObjectSize <= 0 {
		return &DegenerateConfigError{Param: "minObjectSize", Value: float64(c.MinObjectSize)}
	}
	return nil
}
