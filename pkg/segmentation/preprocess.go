package segmentation

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"gonum.org/v1/gonum/mat"

	"github.com/erencankur/cell-segmentation-analysis/internal/models"
)

// Normalized stain vectors for standard H&E staining, after Ruifrok and
// Johnston, "Quantification of histochemical staining by color
// deconvolution" (2001). Rows are hematoxylin, eosin, and the residual
// channel in optical density space.
var heStainMatrix = []float64{
	0.6500, 0.7040, 0.2860,
	0.0720, 0.9900, 0.1050,
	0.2680, 0.5700, 0.7760,
}

// minTransmission bounds the optical density transform; a fully dark
// pixel would otherwise map to an infinite density.
const minTransmission = 1.0 / 255.0

// Preprocess converts a stained RGB photomicrograph into a single
// intensity map emphasizing the nuclear (hematoxylin) stain.
//
// The transform runs three steps:
//  1. Color deconvolution into stain-concentration space; only the
//     hematoxylin channel is kept.
//  2. Contrast-limited adaptive histogram equalization over a tile grid,
//     bounded by cfg.ClipLimit.
//  3. A small Gaussian blur of width cfg.BlurKernelSize.
//
// The result is deterministic for identical inputs and configuration.
// An *InvalidInputError is returned for grayscale input, zero dimensions,
// or non-finite samples.
func Preprocess(img image.Image, cfg Config) (*models.IntensityMap, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateInput(img); err != nil {
		return nil, err
	}

	hema, err := separateStains(img)
	if err != nil {
		return nil, err
	}

	equalized := claheEqualize(hema, cfg.ClipLimit, cfg.TileGridSize)
	return gaussianSmooth(equalized, cfg.BlurKernelSize), nil
}

// validateInput rejects images the stain separation cannot work with.
// Single-channel images carry no stain information to separate.
func validateInput(img image.Image) error {
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return &InvalidInputError{Reason: "image has zero dimensions"}
	}
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return &InvalidInputError{Reason: "expected 3-channel RGB image, got grayscale"}
	}
	return nil
}

// separateStains projects every pixel from RGB into stain-concentration
// space and returns the hematoxylin channel, clamped to the 0-1 range.
func separateStains(img image.Image) (*models.IntensityMap, error) {
	stains := mat.NewDense(3, 3, heStainMatrix)
	var inverse mat.Dense
	if err := inverse.Inverse(stains); err != nil {
		return nil, &InvalidInputError{Reason: "stain matrix is singular"}
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	out := models.NewIntensityMap(width, height)

	maxH := 0.0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()

			// Optical density per channel; transmission is clamped so a
			// fully absorbed channel stays finite.
			odR := -math.Log10(math.Max(float64(r)/65535.0, minTransmission))
			odG := -math.Log10(math.Max(float64(g)/65535.0, minTransmission))
			odB := -math.Log10(math.Max(float64(b)/65535.0, minTransmission))

			if !isFinite(odR) || !isFinite(odG) || !isFinite(odB) {
				return nil, &InvalidInputError{Reason: "non-finite sample after density transform"}
			}

			// Concentration of the hematoxylin stain is the first
			// component of od * inverse(stainMatrix).
			h := odR*inverse.At(0, 0) + odG*inverse.At(1, 0) + odB*inverse.At(2, 0)
			if h < 0 {
				h = 0
			}

			out.Set(x, y, h)
			if h > maxH {
				maxH = h
			}
		}
	}

	// Concentrations above 1 are compressed back into the unit range.
	// Faint images are not stretched up; a near-blank slide must keep
	// its background near zero.
	if maxH > 1 {
		for i := range out.Data {
			out.Data[i] /= maxH
		}
	}

	return out, nil
}

// gaussianSmooth applies a small Gaussian blur to suppress pixel noise
// before thresholding. The map is quantized to 8-bit grayscale for the
// convolution, which matches the precision of the source images.
func gaussianSmooth(m *models.IntensityMap, kernelSize int) *models.IntensityMap {
	gray := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			gray.SetGray(x, y, color.Gray{Y: quantize(m.At(x, y))})
		}
	}

	radius := float64(kernelSize) / 2.0
	blurred := blur.Gaussian(gray, radius)

	out := models.NewIntensityMap(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			out.Set(x, y, float64(blurred.RGBAAt(x, y).R)/255.0)
		}
	}
	return out
}

// quantize maps a 0-1 intensity to an 8-bit level.
func quantize(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255.0 + 0.5)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
