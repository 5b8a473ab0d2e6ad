package segmentation

import (
	"testing"

	"github.com/erencankur/cell-segmentation-analysis/internal/models"
)

// TestOtsuThresholdBimodal verifies that the global threshold falls
// between the two modes of a clearly bimodal image.
func TestOtsuThresholdBimodal(t *testing.T) {
	m := models.NewIntensityMap(64, 64)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if x < 32 {
				m.Set(x, y, 0.2)
			} else {
				m.Set(x, y, 0.8)
			}
		}
	}

	threshold := OtsuThreshold(m)
	if threshold < 0.2 || threshold >= 0.8 {
		t.Errorf("Expected threshold between the modes 0.2 and 0.8, got %f", threshold)
	}
}

// TestOtsuThresholdUniform verifies that a uniform zero image produces a
// threshold that yields an empty mask rather than a fault.
func TestOtsuThresholdUniform(t *testing.T) {
	m := models.NewIntensityMap(16, 16)

	threshold := OtsuThreshold(m)
	mask := GlobalMask(m, threshold)
	if mask.Count() != 0 {
		t.Errorf("Expected empty mask on uniform zero image, got %d foreground pixels", mask.Count())
	}
}

// TestGlobalMask verifies the strict-greater foreground rule.
func TestGlobalMask(t *testing.T) {
	m := models.NewIntensityMap(3, 1)
	m.Set(0, 0, 0.2)
	m.Set(1, 0, 0.5)
	m.Set(2, 0, 0.8)

	mask := GlobalMask(m, 0.5)
	expected := []bool{false, false, true}
	for i, want := range expected {
		if mask.Data[i] != want {
			t.Errorf("Pixel %d: expected %v, got %v", i, want, mask.Data[i])
		}
	}
}

// TestAdaptiveMaskUnevenIllumination verifies that the local method keeps
// foreground detectable under an illumination gradient that defeats a
// single global threshold, and that background next to a bright object
// falls below its raised local mean.
func TestAdaptiveMaskUnevenIllumination(t *testing.T) {
	width, height := 120, 40
	m := models.NewIntensityMap(width, height)

	// Background ramps from 0.1 to 0.5 across the image; two bright
	// squares sit on opposite ends.
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m.Set(x, y, 0.1+0.4*float64(x)/float64(width-1))
		}
	}
	for y := 15; y < 25; y++ {
		for x := 10; x < 20; x++ {
			m.Set(x, y, m.At(x, y)+0.4)
		}
		for x := 100; x < 110; x++ {
			m.Set(x, y, m.At(x, y)+0.4)
		}
	}

	mask := AdaptiveMask(m, 21, 0.05)

	if !mask.At(15, 20) {
		t.Error("Expected the dim-side square to be foreground")
	}
	if !mask.At(105, 20) {
		t.Error("Expected the bright-side square to be foreground")
	}

	// Just outside a square the local mean is pulled up by the square
	// itself, so the background there sits below mean minus offset.
	if mask.At(21, 20) {
		t.Error("Expected background beside the square to stay background")
	}
}

// TestAdaptiveMaskBorders verifies behavior at image borders, where the
// local window is clamped.
func TestAdaptiveMaskBorders(t *testing.T) {
	m := models.NewIntensityMap(8, 8)
	for i := range m.Data {
		m.Data[i] = 0.5
	}
	m.Set(0, 0, 0.9)
	m.Set(7, 7, 0.1)

	mask := AdaptiveMask(m, 5, 0.05)
	if !mask.At(0, 0) {
		t.Error("Expected bright corner pixel to be foreground")
	}
	if mask.At(7, 7) {
		t.Error("Expected dark corner pixel to be background")
	}
}
