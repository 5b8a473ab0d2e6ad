package segmentation

import (
	"math"

	"github.com/erencankur/cell-segmentation-analysis/internal/models"
)

// distanceInf initializes foreground cells before the squared-distance
// passes. Any finite image keeps squared distances far below this.
const distanceInf = 1e20

// DistanceTransform computes the exact Euclidean distance transform of a
// binary mask: every foreground pixel receives its distance to the
// nearest background pixel, background pixels receive zero.
//
// The implementation is the two-pass method of Felzenszwalb and
// Huttenlocher, "Distance Transforms of Sampled Functions" (2012): a 1D
// squared-distance transform by lower envelopes of parabolas, run first
// over columns and then over rows, followed by a square root.
func DistanceTransform(mask *models.Mask) *models.IntensityMap {
	width, height := mask.Width, mask.Height
	out := models.NewIntensityMap(width, height)
	for i, fg := range mask.Data {
		if fg {
			out.Data[i] = distanceInf
		}
	}

	size := width
	if height > size {
		size = height
	}
	f := make([]float64, size)
	d := make([]float64, size)
	v := make([]int, size)
	z := make([]float64, size+1)

	// Column pass.
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			f[y] = out.Data[y*width+x]
		}
		distance1D(f[:height], d[:height], v[:height], z[:height+1])
		for y := 0; y < height; y++ {
			out.Data[y*width+x] = d[y]
		}
	}

	// Row pass.
	for y := 0; y < height; y++ {
		copy(f[:width], out.Data[y*width:(y+1)*width])
		distance1D(f[:width], d[:width], v[:width], z[:width+1])
		for x := 0; x < width; x++ {
			out.Data[y*width+x] = math.Sqrt(d[x])
		}
	}

	return out
}

// distance1D computes the 1D squared-distance transform of sampled
// function f into d, using v and z as scratch space for the parabola
// lower envelope.
func distance1D(f, d []float64, v []int, z []float64) {
	n := len(f)
	k := 0
	v[0] = 0
	z[0] = -distanceInf
	z[1] = distanceInf

	for q := 1; q < n; q++ {
		var s float64
		for {
			p := v[k]
			s = ((f[q] + float64(q*q)) - (f[p] + float64(p*p))) / float64(2*q-2*p)
			if s > z[k] {
				break
			}
			k--
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = distanceInf
	}

	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		dq := float64(q - v[k])
		d[q] = dq*dq + f[v[k]]
	}
}
