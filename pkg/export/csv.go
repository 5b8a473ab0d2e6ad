// Package export writes measurement results to CSV files for downstream
// analysis. Like visualization, it is a collaborator of the core engine
// and owns all on-disk formats so the engine itself stays I/O free.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/erencankur/cell-segmentation-analysis/internal/models"
)

// RegionRow is one exported per-nucleus record.
type RegionRow struct {
	// Source identifies the image the region came from
	Source string

	// Region holds the label id and pixel area
	Region models.Region
}

// SummaryRow is one exported per-image summary.
type SummaryRow struct {
	Source  string
	Summary models.Summary
}

// WriteRegions writes per-nucleus records as CSV with columns
// source, label, area. Rows keep the order they were given, which for
// pipeline output means ascending label id per source.
func WriteRegions(path string, rows []RegionRow) error {
	return writeCSV(path, []string{"source", "label", "area"}, len(rows), func(i int) []string {
		return []string{
			rows[i].Source,
			strconv.Itoa(rows[i].Region.Label),
			strconv.Itoa(rows[i].Region.Area),
		}
	})
}

// WriteSummaries writes per-image measurement summaries as CSV with
// columns source, nucleusCount, meanArea, totalArea.
func WriteSummaries(path string, rows []SummaryRow) error {
	return writeCSV(path, []string{"source", "nucleusCount", "meanArea", "totalArea"}, len(rows), func(i int) []string {
		return []string{
			rows[i].Source,
			strconv.Itoa(rows[i].Summary.Count),
			strconv.FormatFloat(rows[i].Summary.MeanArea, 'f', 2, 64),
			strconv.Itoa(rows[i].Summary.TotalArea),
		}
	})
}

func writeCSV(path string, header []string, n int, row func(i int) []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
