package segmentation

import (
	"image"
	"image/color"

	"github.com/erencankur/cell-segmentation-analysis/internal/models"
)

// diskMask creates a mask with one filled disk.
func diskMask(width, height, cx, cy, r int) *models.Mask {
	mask := models.NewMask(width, height)
	paintDisk(mask, cx, cy, r)
	return mask
}

// paintDisk fills a disk into an existing mask.
func paintDisk(mask *models.Mask, cx, cy, r int) {
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				mask.Set(x, y, true)
			}
		}
	}
}

// maskIntensity builds an intensity map that is high on the mask and
// zero elsewhere, which thresholds back to the mask exactly.
func maskIntensity(mask *models.Mask, level float64) *models.IntensityMap {
	m := models.NewIntensityMap(mask.Width, mask.Height)
	for i, fg := range mask.Data {
		if fg {
			m.Data[i] = level
		}
	}
	return m
}

// stainedTestImage draws purple nucleus-like disks on a pale background,
// approximating an H&E stained photomicrograph.
func stainedTestImage(width, height int, centers [][2]int, r int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	background := color.RGBA{R: 243, G: 230, B: 238, A: 255}
	nucleus := color.RGBA{R: 92, G: 58, B: 138, A: 255}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, background)
			for _, c := range centers {
				dx, dy := x-c[0], y-c[1]
				if dx*dx+dy*dy <= r*r {
					img.SetRGBA(x, y, nucleus)
					break
				}
			}
		}
	}
	return img
}

// sameMask reports whether two masks are identical.
func sameMask(a, b *models.Mask) bool {
	if a.Width != b.Width || a.Height != b.Height {
		return false
	}
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			return false
		}
	}
	return true
}

// sameLabels reports whether two label maps are bit-identical.
func sameLabels(a, b *models.LabelMap) bool {
	if a.Width != b.Width || a.Height != b.Height {
		return false
	}
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			return false
		}
	}
	return true
}
