// Package models holds the value types shared between the segmentation
// engine and its collaborators. All 2D maps use flat row-major storage
// (index = y*Width + x) so the processing stages can run over plain
// slices without per-pixel interface calls.
package models

// IntensityMap is a single-channel 2D array of pixel intensities in the
// 0-1 range, derived from a color image by the preprocessor.
type IntensityMap struct {
	// Width and Height are the spatial dimensions in pixels
	Width  int
	Height int

	// Data is the intensity data in row-major order
	Data []float64
}

// NewIntensityMap allocates a zeroed intensity map with the given dimensions.
func NewIntensityMap(width, height int) *IntensityMap {
	return &IntensityMap{
		Width:  width,
		Height: height,
		Data:   make([]float64, width*height),
	}
}

// At returns the intensity at (x, y).
func (m *IntensityMap) At(x, y int) float64 {
	return m.Data[y*m.Width+x]
}

// Set stores an intensity at (x, y).
func (m *IntensityMap) Set(x, y int, v float64) {
	m.Data[y*m.Width+x] = v
}

// Clone returns a deep copy of the map.
func (m *IntensityMap) Clone() *IntensityMap {
	out := NewIntensityMap(m.Width, m.Height)
	copy(out.Data, m.Data)
	return out
}

// Mask is a binary foreground mask with the same dimensions as the image
// it was derived from. True marks a foreground candidate pixel.
type Mask struct {
	Width  int
	Height int
	Data   []bool
}

// NewMask allocates an all-background mask with the given dimensions.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Data:   make([]bool, width*height),
	}
}

// At reports whether (x, y) is foreground.
func (m *Mask) At(x, y int) bool {
	return m.Data[y*m.Width+x]
}

// Set marks (x, y) as foreground or background.
func (m *Mask) Set(x, y int, v bool) {
	m.Data[y*m.Width+x] = v
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	out := NewMask(m.Width, m.Height)
	copy(out.Data, m.Data)
	return out
}

// Count returns the number of foreground pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Data {
		if v {
			n++
		}
	}
	return n
}

// LabelMap assigns every pixel a region id. Label 0 is background and is
// never measured; each positive label denotes exactly one 8-connected
// region, one id per detected nucleus.
type LabelMap struct {
	Width  int
	Height int
	Data   []int
}

// NewLabelMap allocates an all-background label map with the given dimensions.
func NewLabelMap(width, height int) *LabelMap {
	return &LabelMap{
		Width:  width,
		Height: height,
		Data:   make([]int, width*height),
	}
}

// At returns the label at (x, y).
func (m *LabelMap) At(x, y int) int {
	return m.Data[y*m.Width+x]
}

// Set stores a label at (x, y).
func (m *LabelMap) Set(x, y int, label int) {
	m.Data[y*m.Width+x] = label
}

// Clone returns a deep copy of the label map.
func (m *LabelMap) Clone() *LabelMap {
	out := NewLabelMap(m.Width, m.Height)
	copy(out.Data, m.Data)
	return out
}

// MaxLabel returns the largest label id present, or 0 for an empty map.
func (m *LabelMap) MaxLabel() int {
	max := 0
	for _, l := range m.Data {
		if l > max {
			max = l
		}
	}
	return max
}

// Region is one measured nucleus: its label id in the final label map and
// its pixel area.
type Region struct {
	Label int
	Area  int
}

// Summary aggregates the region measurements of a single image.
type Summary struct {
	// Count is the number of detected nuclei
	Count int

	// MeanArea is the mean nucleus area in pixels. Zero when Count is
	// zero, by convention.
	MeanArea float64

	// TotalArea is the total labeled pixel count
	TotalArea int
}

// Marker is a watershed seed: a coordinate on the distance field paired
// with the label its region will grow under. Labels are assigned in
// discovery order, starting at 1.
type Marker struct {
	X     int
	Y     int
	Label int
}
