package segmentation

import "github.com/erencankur/cell-segmentation-analysis/internal/models"

// ExtractMarkers locates watershed seeds on the distance field. A pixel
// becomes a marker when it is a local maximum of the field within a
// square window of radius cfg.MinDistance, its value is at least
// cfg.ThresholdRelative times the global field maximum, and it lies at
// least cfg.MinDistance (Euclidean) from every marker accepted before it.
//
// The scan is row-major and ties on plateaus resolve to the earliest
// pixel in scan order, so marker discovery, and with it label
// assignment, is fully deterministic. Labels start at 1 in discovery
// order. An empty field yields no markers, which is not an error.
func ExtractMarkers(dist *models.IntensityMap, cfg Config) []models.Marker {
	globalMax := 0.0
	for _, v := range dist.Data {
		if v > globalMax {
			globalMax = v
		}
	}
	if globalMax == 0 {
		return nil
	}
	floor := cfg.ThresholdRelative * globalMax

	radius := cfg.MinDistance
	minSq := cfg.MinDistance * cfg.MinDistance
	var markers []models.Marker

	for y := 0; y < dist.Height; y++ {
	candidates:
		for x := 0; x < dist.Width; x++ {
			v := dist.At(x, y)
			if v <= 0 || v < floor {
				continue
			}

			// Reject anything that is not the window maximum.
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= dist.Width || ny >= dist.Height {
						continue
					}
					if dist.At(nx, ny) > v {
						continue candidates
					}
				}
			}

			// Enforce the spacing floor against already accepted markers.
			for _, m := range markers {
				dx, dy := m.X-x, m.Y-y
				if dx*dx+dy*dy < minSq {
					continue candidates
				}
			}

			markers = append(markers, models.Marker{X: x, Y: y, Label: len(markers) + 1})
		}
	}
	return markers
}
