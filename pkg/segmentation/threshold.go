package segmentation

import "github.com/erencankur/cell-segmentation-analysis/internal/models"

// histogramBins is the resolution of the global threshold search.
const histogramBins = 256

// OtsuThreshold selects the global threshold minimizing intra-class
// variance by an exhaustive scan over a 256-bin intensity histogram
// (equivalently, maximizing the between-class variance). The returned
// value is in the 0-1 intensity range; pixels strictly above it are
// foreground.
func OtsuThreshold(m *models.IntensityMap) float64 {
	hist := make([]int, histogramBins)
	for _, v := range m.Data {
		hist[quantize(v)]++
	}

	total := len(m.Data)
	weightedSum := 0.0
	for level, count := range hist {
		weightedSum += float64(level) * float64(count)
	}

	var (
		bestLevel    int
		bestVariance float64
		backPixels   int
		backSum      float64
		split        bool
	)
	for level, count := range hist {
		backPixels += count
		backSum += float64(level) * float64(count)

		forePixels := total - backPixels
		if backPixels == 0 || forePixels == 0 {
			continue
		}

		backMean := backSum / float64(backPixels)
		foreMean := (weightedSum - backSum) / float64(forePixels)
		diff := backMean - foreMean
		variance := float64(backPixels) * float64(forePixels) * diff * diff
		if variance > bestVariance {
			bestVariance = variance
			bestLevel = level
		}
		split = true
	}

	// A uniform image occupies a single bin and admits no two-class
	// split; the threshold degenerates to the top of the range so the
	// resulting mask is empty rather than all-foreground.
	if !split {
		return 1.0
	}

	return float64(bestLevel) / 255.0
}

// GlobalMask thresholds the map against a single scalar value. Pixels
// strictly above the threshold become foreground.
func GlobalMask(m *models.IntensityMap, threshold float64) *models.Mask {
	mask := models.NewMask(m.Width, m.Height)
	for i, v := range m.Data {
		mask.Data[i] = v > threshold
	}
	return mask
}

// AdaptiveMask thresholds every pixel against the mean of its local
// window minus a constant offset, which tolerates uneven illumination
// across the image. The window must be odd-sized; the mean is computed
// with an integral image so the cost is independent of window size.
func AdaptiveMask(m *models.IntensityMap, windowSize int, offset float64) *models.Mask {
	width, height := m.Width, m.Height

	// Summed-area table with a zero top row and left column.
	integral := make([]float64, (width+1)*(height+1))
	stride := width + 1
	for y := 0; y < height; y++ {
		rowSum := 0.0
		for x := 0; x < width; x++ {
			rowSum += m.At(x, y)
			integral[(y+1)*stride+x+1] = integral[y*stride+x+1] + rowSum
		}
	}

	radius := windowSize / 2
	mask := models.NewMask(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			x0 := clampInt(x-radius, 0, width-1)
			y0 := clampInt(y-radius, 0, height-1)
			x1 := clampInt(x+radius, 0, width-1)
			y1 := clampInt(y+radius, 0, height-1)

			sum := integral[(y1+1)*stride+x1+1] -
				integral[y0*stride+x1+1] -
				integral[(y1+1)*stride+x0] +
				integral[y0*stride+x0]
			area := float64((x1 - x0 + 1) * (y1 - y0 + 1))

			mask.Set(x, y, m.At(x, y) > sum/area-offset)
		}
	}
	return mask
}
