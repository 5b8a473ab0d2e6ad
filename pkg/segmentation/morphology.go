package segmentation

import "github.com/erencankur/cell-segmentation-analysis/internal/models"

// eightNeighbors lists the 8-connected neighborhood offsets in row-major
// scan order. Region connectivity throughout the engine is 8-connected;
// the background complement used by hole filling is 4-connected.
var eightNeighbors = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

var fourNeighbors = [4][2]int{
	{0, -1}, {-1, 0}, {1, 0}, {0, 1},
}

// Erode shrinks foreground by one 3x3 structuring element: a pixel stays
// foreground only if its whole 3x3 neighborhood is foreground. Pixels
// outside the image count as background, so objects erode at the border.
func Erode(mask *models.Mask) *models.Mask {
	out := models.NewMask(mask.Width, mask.Height)
	for y := 0; y < mask.Height; y++ {
	pixels:
		for x := 0; x < mask.Width; x++ {
			if !mask.At(x, y) {
				continue
			}
			for _, d := range eightNeighbors {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || ny < 0 || nx >= mask.Width || ny >= mask.Height || !mask.At(nx, ny) {
					continue pixels
				}
			}
			out.Set(x, y, true)
		}
	}
	return out
}

// Dilate grows foreground by one 3x3 structuring element: a pixel becomes
// foreground if any pixel of its 3x3 neighborhood is foreground.
func Dilate(mask *models.Mask) *models.Mask {
	out := models.NewMask(mask.Width, mask.Height)
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if mask.At(x, y) {
				out.Set(x, y, true)
				continue
			}
			for _, d := range eightNeighbors {
				nx, ny := x+d[0], y+d[1]
				if nx >= 0 && ny >= 0 && nx < mask.Width && ny < mask.Height && mask.At(nx, ny) {
					out.Set(x, y, true)
					break
				}
			}
		}
	}
	return out
}

// Open removes isolated noise pixels without altering large-scale shape.
func Open(mask *models.Mask) *models.Mask {
	return Dilate(Erode(mask))
}

// Close fills small gaps without altering large-scale shape.
func Close(mask *models.Mask) *models.Mask {
	return Erode(Dilate(mask))
}

// FillHoles fills every background component fully enclosed by foreground.
// The fill is topological and independent of hole size: background is
// flood-filled 4-connected from the image border, and whatever background
// remains unreached is a hole.
func FillHoles(mask *models.Mask) *models.Mask {
	width, height := mask.Width, mask.Height
	reached := make([]bool, width*height)
	queue := make([]int, 0, width*2+height*2)

	seed := func(x, y int) {
		idx := y*width + x
		if !mask.Data[idx] && !reached[idx] {
			reached[idx] = true
			queue = append(queue, idx)
		}
	}
	for x := 0; x < width; x++ {
		seed(x, 0)
		seed(x, height-1)
	}
	for y := 0; y < height; y++ {
		seed(0, y)
		seed(width-1, y)
	}

	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		x, y := idx%width, idx/width
		for _, d := range fourNeighbors {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || ny < 0 || nx >= width || ny >= height {
				continue
			}
			nidx := ny*width + nx
			if !mask.Data[nidx] && !reached[nidx] {
				reached[nidx] = true
				queue = append(queue, nidx)
			}
		}
	}

	out := models.NewMask(width, height)
	for i := range out.Data {
		out.Data[i] = mask.Data[i] || !reached[i]
	}
	return out
}

// LabelComponents assigns one label per 8-connected foreground component.
// Labels are numbered 1..N in the row-major order of each component's
// first pixel, which keeps the labeling deterministic.
func LabelComponents(mask *models.Mask) *models.LabelMap {
	width, height := mask.Width, mask.Height
	labels := models.NewLabelMap(width, height)
	next := 1
	queue := make([]int, 0, 64)

	for start := 0; start < width*height; start++ {
		if !mask.Data[start] || labels.Data[start] != 0 {
			continue
		}
		labels.Data[start] = next
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			idx := queue[0]
			queue = queue[1:]
			x, y := idx%width, idx/width
			for _, d := range eightNeighbors {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				nidx := ny*width + nx
				if mask.Data[nidx] && labels.Data[nidx] == 0 {
					labels.Data[nidx] = next
					queue = append(queue, nidx)
				}
			}
		}
		next++
	}
	return labels
}

// RemoveSmallComponents discards 8-connected foreground components with
// strictly fewer than minSize pixels.
func RemoveSmallComponents(mask *models.Mask, minSize int) *models.Mask {
	labels := LabelComponents(mask)
	areas := make([]int, labels.MaxLabel()+1)
	for _, l := range labels.Data {
		areas[l]++
	}

	out := models.NewMask(mask.Width, mask.Height)
	for i, l := range labels.Data {
		out.Data[i] = l != 0 && areas[l] >= minSize
	}
	return out
}

// CleanMask is the pre-watershed cleanup pass: opening then closing with
// the 3x3 element, topological hole filling, then small-component
// rejection. Applying it twice yields the same mask as applying it once.
func CleanMask(mask *models.Mask, cfg Config) *models.Mask {
	cleaned := Close(Open(mask))
	cleaned = FillHoles(cleaned)
	return RemoveSmallComponents(cleaned, cfg.MinObjectSize)
}

// CleanLabels is the post-watershed cleanup pass: regions strictly
// smaller than cfg.MinObjectSize are dropped and the survivors are
// renumbered 1..N in the row-major order of their first pixel, so final
// label maps always carry contiguous ids.
func CleanLabels(labels *models.LabelMap, cfg Config) *models.LabelMap {
	areas := make([]int, labels.MaxLabel()+1)
	for _, l := range labels.Data {
		areas[l]++
	}

	remap := make([]int, len(areas))
	next := 1
	for _, l := range labels.Data {
		if l == 0 || areas[l] < cfg.MinObjectSize || remap[l] != 0 {
			continue
		}
		remap[l] = next
		next++
	}

	out := models.NewLabelMap(labels.Width, labels.Height)
	for i, l := range labels.Data {
		if l != 0 {
			out.Data[i] = remap[l]
		}
	}
	return out
}
