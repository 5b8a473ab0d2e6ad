package segmentation

import (
	"math"

	"github.com/erencankur/cell-segmentation-analysis/internal/models"
)

// claheBins is the number of histogram levels used by the tile
// equalization. Matches the 8-bit precision of the source images.
const claheBins = 256

// claheEqualize performs contrast-limited adaptive histogram equalization
// over a grid x grid tile layout. Each tile builds a clipped histogram
// whose excess is redistributed uniformly, and every pixel is remapped by
// bilinear interpolation between the mappings of the four nearest tile
// centers. The clip limit bounds per-tile contrast amplification so
// near-uniform tiles do not blow up noise.
func claheEqualize(m *models.IntensityMap, clipLimit float64, grid int) *models.IntensityMap {
	width, height := m.Width, m.Height
	if grid > width {
		grid = width
	}
	if grid > height {
		grid = height
	}
	if grid < 1 {
		grid = 1
	}

	tileW := (width + grid - 1) / grid
	tileH := (height + grid - 1) / grid

	// Build one remapping table per tile.
	luts := make([][]float64, grid*grid)
	for ty := 0; ty < grid; ty++ {
		for tx := 0; tx < grid; tx++ {
			x0, y0 := tx*tileW, ty*tileH
			x1, y1 := min(x0+tileW, width), min(y0+tileH, height)
			luts[ty*grid+tx] = tileLUT(m, x0, y0, x1, y1, clipLimit)
		}
	}

	out := models.NewIntensityMap(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			bin := int(quantize(m.At(x, y)))

			// Position relative to tile centers, clamped at the borders
			// so edge pixels use the nearest tile pair.
			fx := (float64(x)-float64(tileW)/2.0 + 0.5) / float64(tileW)
			fy := (float64(y)-float64(tileH)/2.0 + 0.5) / float64(tileH)
			tx0 := clampInt(int(math.Floor(fx)), 0, grid-1)
			ty0 := clampInt(int(math.Floor(fy)), 0, grid-1)
			tx1 := clampInt(tx0+1, 0, grid-1)
			ty1 := clampInt(ty0+1, 0, grid-1)
			wx := clampFloat(fx-math.Floor(fx), 0, 1)
			wy := clampFloat(fy-math.Floor(fy), 0, 1)

			top := (1-wx)*luts[ty0*grid+tx0][bin] + wx*luts[ty0*grid+tx1][bin]
			bottom := (1-wx)*luts[ty1*grid+tx0][bin] + wx*luts[ty1*grid+tx1][bin]
			out.Set(x, y, (1-wy)*top+wy*bottom)
		}
	}
	return out
}

// tileLUT builds the clipped-histogram remapping table for one tile.
func tileLUT(m *models.IntensityMap, x0, y0, x1, y1 int, clipLimit float64) []float64 {
	hist := make([]int, claheBins)
	total := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			hist[quantize(m.At(x, y))]++
			total++
		}
	}

	lut := make([]float64, claheBins)
	if total == 0 {
		return lut
	}

	// Clip each bin at clipLimit times the uniform level and spread the
	// clipped mass evenly, remainder going to the lowest bins so the
	// redistribution is deterministic.
	clip := int(clipLimit * float64(total) / float64(claheBins))
	if clip < 1 {
		clip = 1
	}
	excess := 0
	for i, c := range hist {
		if c > clip {
			excess += c - clip
			hist[i] = clip
		}
	}
	share := excess / claheBins
	rem := excess % claheBins
	for i := range hist {
		hist[i] += share
		if i < rem {
			hist[i]++
		}
	}

	cum := 0
	for i, c := range hist {
		cum += c
		lut[i] = float64(cum) / float64(total)
	}
	return lut
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
