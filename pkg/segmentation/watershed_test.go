package segmentation

import (
	"math"
	"testing"

	"github.com/erencankur/cell-segmentation-analysis/internal/models"
)

// TestWatershedSingleDisk covers the single-nucleus scenario: one filled
// disk of radius 20 yields one marker, one label, and an area close to
// the analytic disk area.
func TestWatershedSingleDisk(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinDistance = 9

	mask := diskMask(64, 64, 32, 32, 20)
	intensity := maskIntensity(mask, 0.9)

	dist := DistanceTransform(mask)
	markers := ExtractMarkers(dist, cfg)
	if len(markers) != 1 {
		t.Fatalf("Expected 1 marker, got %d", len(markers))
	}

	labels := Watershed(GradientMagnitude(intensity), mask, markers)
	regions, summary := Measure(labels)

	if summary.Count != 1 {
		t.Fatalf("Expected 1 label, got %d", summary.Count)
	}
	expected := math.Pi * 20 * 20
	if math.Abs(float64(regions[0].Area)-expected) > 0.05*expected {
		t.Errorf("Expected area near %f, got %d", expected, regions[0].Area)
	}
}

// TestWatershedSeparatesTouchingDisks covers the overlapping-nuclei
// scenario: two disks of radius 15 with centers 25 apart are split into
// two distinct labels, each center keeping its own region.
func TestWatershedSeparatesTouchingDisks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinDistance = 9
	cfg.ThresholdRelative = 0.25

	mask := diskMask(90, 60, 30, 30, 15)
	paintDisk(mask, 55, 30, 15)
	intensity := maskIntensity(mask, 0.9)

	dist := DistanceTransform(mask)
	markers := ExtractMarkers(dist, cfg)
	if len(markers) != 2 {
		t.Fatalf("Expected 2 markers, got %d", len(markers))
	}

	labels := Watershed(GradientMagnitude(intensity), mask, markers)
	_, summary := Measure(labels)

	if summary.Count != 2 {
		t.Fatalf("Expected 2 distinct labels, got %d", summary.Count)
	}
	left, right := labels.At(30, 30), labels.At(55, 30)
	if left == 0 || right == 0 || left == right {
		t.Errorf("Expected each disk center to keep its own label, got %d and %d", left, right)
	}

	// Pixels well inside either disk belong to that disk's label.
	if labels.At(22, 30) != left {
		t.Errorf("Expected left interior to carry the left label")
	}
	if labels.At(63, 30) != right {
		t.Errorf("Expected right interior to carry the right label")
	}
}

// TestWatershedZeroMarkers verifies the empty edge case: no markers
// yields an all-background map, not an error.
func TestWatershedZeroMarkers(t *testing.T) {
	mask := diskMask(32, 32, 16, 16, 8)
	intensity := maskIntensity(mask, 0.9)

	labels := Watershed(GradientMagnitude(intensity), mask, nil)
	for i, l := range labels.Data {
		if l != 0 {
			t.Fatalf("Expected all-background map, found label %d at %d", l, i)
		}
	}
}

// TestWatershedStaysInMask verifies that growth never crosses the mask
// boundary and that every labeled pixel is foreground.
func TestWatershedStaysInMask(t *testing.T) {
	cfg := DefaultConfig()

	mask := diskMask(48, 48, 24, 24, 10)
	intensity := maskIntensity(mask, 0.9)
	dist := DistanceTransform(mask)
	markers := ExtractMarkers(dist, cfg)
	labels := Watershed(GradientMagnitude(intensity), mask, markers)

	for i, l := range labels.Data {
		if l != 0 && !mask.Data[i] {
			t.Fatalf("Label %d escaped the mask at index %d", l, i)
		}
	}
}

// TestWatershedLabelsConnected verifies that every final label denotes a
// single 8-connected region.
func TestWatershedLabelsConnected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinDistance = 9

	mask := diskMask(90, 60, 30, 30, 15)
	paintDisk(mask, 55, 30, 15)
	intensity := maskIntensity(mask, 0.9)
	dist := DistanceTransform(mask)
	markers := ExtractMarkers(dist, cfg)
	labels := Watershed(GradientMagnitude(intensity), mask, markers)

	for _, m := range markers {
		region := models.NewMask(labels.Width, labels.Height)
		for i, l := range labels.Data {
			region.Data[i] = l == m.Label
		}
		if region.Count() == 0 {
			continue
		}
		components := LabelComponents(region)
		if max := components.MaxLabel(); max != 1 {
			t.Errorf("Label %d splits into %d connected components", m.Label, max)
		}
	}
}

// TestWatershedDeterministic verifies bit-identical output across
// repeated runs on identical inputs.
func TestWatershedDeterministic(t *testing.T) {
	cfg := DefaultConfig()

	mask := diskMask(90, 60, 30, 30, 15)
	paintDisk(mask, 55, 30, 15)
	paintDisk(mask, 70, 45, 9)
	intensity := maskIntensity(mask, 0.9)

	run := func() *models.LabelMap {
		dist := DistanceTransform(mask)
		markers := ExtractMarkers(dist, cfg)
		return Watershed(GradientMagnitude(intensity), mask, markers)
	}

	first := run()
	for i := 0; i < 5; i++ {
		if !sameLabels(first, run()) {
			t.Fatal("Expected bit-identical label maps across runs")
		}
	}
}
