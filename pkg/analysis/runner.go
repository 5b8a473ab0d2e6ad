// Package analysis drives batch processing of stained tissue images. It
// scans a directory, runs the segmentation pipeline over a fixed-size
// worker pool with one image per worker, and hands the results to the
// export and visualization collaborators. Images are independent, so no
// synchronization exists between them beyond the result channel.
package analysis

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/erencankur/cell-segmentation-analysis/pkg/export"
	"github.com/erencankur/cell-segmentation-analysis/pkg/segmentation"
	"github.com/erencankur/cell-segmentation-analysis/pkg/visualization"
)

// overlayAlpha is the blend weight used for saved overlays.
const overlayAlpha = 0.45

// Params holds the batch run configuration.
type Params struct {
	// InputDir is the directory containing stained tissue images
	InputDir string

	// ResultsDir is where CSV files and overlays are written
	ResultsDir string

	// NumWorkers is the worker pool size; one image per worker
	NumWorkers int

	// SaveOverlays enables rendering a color overlay per image
	SaveOverlays bool
}

// ImageResult is the outcome for a single image. A failed image carries
// its error and zeroed measurements; the batch continues regardless.
type ImageResult struct {
	Source string
	Result *segmentation.Result
	Err    error
}

// Runner executes the pipeline over every image in a directory.
type Runner struct {
	params   *Params
	pipeline *segmentation.Pipeline
	log      *logrus.Logger
}

// NewRunner creates a batch runner around an already validated pipeline.
func NewRunner(params *Params, pipeline *segmentation.Pipeline, log *logrus.Logger) *Runner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Runner{params: params, pipeline: pipeline, log: log}
}

// Run processes every image in the input directory and writes the region
// and summary CSV files. Per-image failures are logged and recorded, not
// fatal; the returned results keep the input ordering.
func (r *Runner) Run() ([]ImageResult, error) {
	files, err := r.listImages()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no images found in %s", r.params.InputDir)
	}

	r.log.WithFields(logrus.Fields{
		"images":  len(files),
		"workers": r.params.NumWorkers,
	}).Info("starting batch segmentation")

	results := make([]ImageResult, len(files))

	type job struct {
		index int
		path  string
	}
	jobs := make(chan job)
	done := make(chan int)

	workers := r.params.NumWorkers
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		go func() {
			for j := range jobs {
				results[j.index] = r.processOne(j.path)
				done <- j.index
			}
		}()
	}

	go func() {
		for i, path := range files {
			jobs <- job{index: i, path: path}
		}
		close(jobs)
	}()

	failures := 0
	for range files {
		i := <-done
		res := results[i]
		if res.Err != nil {
			failures++
			r.log.WithField("source", res.Source).WithError(res.Err).Warn("image failed")
			continue
		}
		r.log.WithFields(logrus.Fields{
			"source":   res.Source,
			"nuclei":   res.Result.Summary.Count,
			"meanArea": res.Result.Summary.MeanArea,
		}).Info("image processed")
	}

	if err := r.writeResults(results); err != nil {
		return results, err
	}

	r.log.WithFields(logrus.Fields{
		"processed": len(files) - failures,
		"failed":    failures,
	}).Info("batch complete")
	return results, nil
}

// processOne loads and segments a single image.
func (r *Runner) processOne(path string) ImageResult {
	source := filepath.Base(path)

	img, err := imaging.Open(path)
	if err != nil {
		return ImageResult{Source: source, Err: fmt.Errorf("failed to load image: %w", err)}
	}

	result, err := r.pipeline.Run(img)
	if err != nil {
		return ImageResult{Source: source, Err: err}
	}

	if r.params.SaveOverlays {
		overlayPath := filepath.Join(r.params.ResultsDir, "overlays", source+".png")
		if err := visualization.NewOverlay(overlayAlpha).Save(img, result.Labels, overlayPath); err != nil {
			r.log.WithField("source", source).WithError(err).Warn("failed to save overlay")
		}
	}

	return ImageResult{Source: source, Result: result}
}

// writeResults hands the successful measurements to the CSV exporter.
func (r *Runner) writeResults(results []ImageResult) error {
	var regionRows []export.RegionRow
	var summaryRows []export.SummaryRow
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		for _, region := range res.Result.Regions {
			regionRows = append(regionRows, export.RegionRow{Source: res.Source, Region: region})
		}
		summaryRows = append(summaryRows, export.SummaryRow{Source: res.Source, Summary: res.Result.Summary})
	}

	if err := export.WriteRegions(filepath.Join(r.params.ResultsDir, "regions.csv"), regionRows); err != nil {
		return err
	}
	return export.WriteSummaries(filepath.Join(r.params.ResultsDir, "summaries.csv"), summaryRows)
}

// listImages returns the supported image files of the input directory,
// sorted by the numeric part of their filenames so sequentially numbered
// acquisitions keep their capture order.
func (r *Runner) listImages() ([]string, error) {
	entries, err := os.ReadDir(r.params.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png", ".tif", ".tiff", ".bmp":
			files = append(files, filepath.Join(r.params.InputDir, entry.Name()))
		}
	}

	sort.Slice(files, func(i, j int) bool {
		ni, nj := extractNumber(files[i]), extractNumber(files[j])
		if ni != nj {
			return ni < nj
		}
		return files[i] < files[j]
	})
	return files, nil
}

// extractNumber extracts the numeric part from a filename
func extractNumber(filename string) int {
	base := filepath.Base(filename)
	numStr := ""
	for _, c := range base {
		if c >= '0' && c <= '9' {
			numStr += string(c)
		}
	}

	if numStr != "" {
		num, err := strconv.Atoi(numStr)
		if err == nil {
			return num
		}
	}
	return 0
}
