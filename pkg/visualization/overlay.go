// Package visualization renders segmentation results for human review.
// It is a collaborator of the core engine: it consumes final label maps
// and never participates in the measurement path.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/erencankur/cell-segmentation-analysis/internal/models"
)

// goldenAngle spaces label hues so neighboring label ids land far apart
// on the color wheel.
const goldenAngle = 137.50776405003785

// Overlay renders a label map as a color overlay on top of the source
// image. Each label receives a distinct hue; background pixels show the
// source unchanged.
type Overlay struct {
	// alpha is the blend weight of the label color over the source
	alpha float64
}

// NewOverlay creates an overlay renderer with the given blend weight in
// the 0-1 range.
func NewOverlay(alpha float64) *Overlay {
	return &Overlay{alpha: alpha}
}

// LabelColor returns the display color of a label id. Colors are
// generated deterministically in HSV space, hue stepped by the golden
// angle, so re-rendering the same map always produces the same image.
func LabelColor(label int) color.NRGBA {
	hue := float64(label) * goldenAngle
	for hue >= 360 {
		hue -= 360
	}
	c := colorful.Hsv(hue, 0.85, 0.95)
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// Render produces the overlay image for one label map.
func (o *Overlay) Render(src image.Image, labels *models.LabelMap) *image.NRGBA {
	bounds := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, labels.Width, labels.Height))

	for y := 0; y < labels.Height; y++ {
		for x := 0; x < labels.Width; x++ {
			r, g, b, _ := src.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			base := color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}

			label := labels.At(x, y)
			if label == 0 {
				out.SetNRGBA(x, y, base)
				continue
			}

			tint := LabelColor(label)
			out.SetNRGBA(x, y, color.NRGBA{
				R: blend(base.R, tint.R, o.alpha),
				G: blend(base.G, tint.G, o.alpha),
				B: blend(base.B, tint.B, o.alpha),
				A: 255,
			})
		}
	}
	return out
}

// Save renders the overlay and writes it as a PNG file.
func (o *Overlay) Save(src image.Image, labels *models.LabelMap, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create overlay directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create overlay file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, o.Render(src, labels)); err != nil {
		return fmt.Errorf("failed to encode overlay: %w", err)
	}
	return nil
}

func blend(base, tint uint8, alpha float64) uint8 {
	v := (1-alpha)*float64(base) + alpha*float64(tint)
	if v > 255 {
		v = 255
	}
	return uint8(v + 0.5)
}
