package segmentation

import (
	"gonum.org/v1/gonum/stat"

	"github.com/erencankur/cell-segmentation-analysis/internal/models"
)

// Measure converts a final label map into per-nucleus records and one
// aggregate summary. Records are ordered by ascending label id. The sum
// of record areas always equals the nonzero pixel count of the map, and
// a map with no labels yields a zeroed summary with mean area 0 by
// convention rather than a division fault.
func Measure(labels *models.LabelMap) ([]models.Region, models.Summary) {
	areas := make([]int, labels.MaxLabel()+1)
	for _, l := range labels.Data {
		if l != 0 {
			areas[l]++
		}
	}

	var regions []models.Region
	var values []float64
	total := 0
	for label := 1; label < len(areas); label++ {
		if areas[label] == 0 {
			continue
		}
		regions = append(regions, models.Region{Label: label, Area: areas[label]})
		values = append(values, float64(areas[label]))
		total += areas[label]
	}

	summary := models.Summary{
		Count:     len(regions),
		TotalArea: total,
	}
	if summary.Count > 0 {
		summary.MeanArea = stat.Mean(values, nil)
	}
	return regions, summary
}
