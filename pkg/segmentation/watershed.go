package segmentation

import (
	"container/heap"
	"math"

	"github.com/erencankur/cell-segmentation-analysis/internal/models"
)

// GradientMagnitude computes the Sobel gradient magnitude of the
// intensity map. The watershed stage uses it as the elevation surface:
// strong edges form ridges that region growth must climb, which is what
// keeps adjacent nuclei from fusing.
func GradientMagnitude(m *models.IntensityMap) *models.IntensityMap {
	width, height := m.Width, m.Height
	out := models.NewIntensityMap(width, height)

	// Sample with clamped coordinates so border pixels get a usable
	// one-sided gradient.
	at := func(x, y int) float64 {
		return m.At(clampInt(x, 0, width-1), clampInt(y, 0, height-1))
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := -at(x-1, y-1) + at(x+1, y-1) +
				-2*at(x-1, y) + 2*at(x+1, y) +
				-at(x-1, y+1) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			out.Set(x, y, math.Sqrt(gx*gx+gy*gy))
		}
	}
	return out
}

// floodItem is one entry of the growth queue: a candidate pixel, the
// elevation it was reached at, the label of the region that reached it,
// and a monotonic sequence number for deterministic tie-breaking.
type floodItem struct {
	elevation float64
	seq       int
	index     int
	label     int
}

// floodQueue is a binary min-heap ordered by elevation, then by insertion
// sequence. Markers are pushed in label order before any growth, so
// elevation ties resolve first to the earlier marker and then to the
// scan order in which frontier pixels were discovered.
type floodQueue []floodItem

func (q floodQueue) Len() int { return len(q) }

func (q floodQueue) Less(i, j int) bool {
	if q[i].elevation != q[j].elevation {
		return q[i].elevation < q[j].elevation
	}
	return q[i].seq < q[j].seq
}

func (q floodQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *floodQueue) Push(x any) { *q = append(*q, x.(floodItem)) }

func (q *floodQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// Watershed grows labeled regions from the markers across the masked
// foreground, flooding lowest elevations first. Each pop takes the
// unlabeled frontier pixel with the smallest elevation and assigns it
// the label of the region that reached it; its unlabeled 8-connected
// neighbors inside the mask are then queued. Growth never crosses the
// mask boundary, and foreground unreachable from any marker stays
// background. Identical inputs always produce a bit-identical label map.
func Watershed(elevation *models.IntensityMap, mask *models.Mask, markers []models.Marker) *models.LabelMap {
	width, height := mask.Width, mask.Height
	labels := models.NewLabelMap(width, height)
	if len(markers) == 0 {
		return labels
	}

	queue := make(floodQueue, 0, len(markers))
	seq := 0
	for _, m := range markers {
		idx := m.Y*width + m.X
		if !mask.Data[idx] {
			continue
		}
		queue = append(queue, floodItem{
			elevation: elevation.Data[idx],
			seq:       seq,
			index:     idx,
			label:     m.Label,
		})
		seq++
	}
	heap.Init(&queue)

	for queue.Len() > 0 {
		item := heap.Pop(&queue).(floodItem)
		if labels.Data[item.index] != 0 {
			continue
		}
		labels.Data[item.index] = item.label

		x, y := item.index%width, item.index/width
		for _, d := range eightNeighbors {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || ny < 0 || nx >= width || ny >= height {
				continue
			}
			nidx := ny*width + nx
			if !mask.Data[nidx] || labels.Data[nidx] != 0 {
				continue
			}
			heap.Push(&queue, floodItem{
				elevation: elevation.Data[nidx],
				seq:       seq,
				index:     nidx,
				label:     item.label,
			})
			seq++
		}
	}

	return labels
}
