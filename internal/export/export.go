// Package export writes the derived swim table to disk.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/swimtrend/internal/atomicfile"
	"github.com/verte-zerg/swimtrend/internal/model"
)

// DefaultOutputPath is the output file used when none is given.
const DefaultOutputPath = "all_swims.csv"

// Columns is the header of the full derived table.
var Columns = []string{
	"Time",
	"Date",
	"current_best",
	"time_diff",
	"time_from_best",
	"percent_improvement",
	"scaled_percent_improvement",
	"abs_dev",
	"modified_z_score",
}

// Record renders one trajectory row in column order.
func Record(r model.TrajectoryRow) []string {
	return []string{
		model.FormatFloat(r.Time),
		model.FormatDate(r.Date),
		model.FormatFloat(r.CurrentBest),
		model.FormatDays(r.TimeDiffDays),
		model.FormatFloat(r.TimeFromBest),
		model.FormatFloat(r.PercentImprovement),
		model.FormatFloat(r.ScaledPercentImprovement),
		model.FormatFloat(r.AbsDev),
		model.FormatFloat(r.ModifiedZScore),
	}
}

// WriteTable writes rows to path, replacing any existing file. Paths ending
// in .xlsx produce a workbook; anything else is CSV.
func WriteTable(path string, rows []model.TrajectoryRow) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("output path is empty")
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return atomicfile.Write(path, func(w io.Writer) error {
			return writeXLSX(w, rows)
		})
	}
	return atomicfile.Write(path, func(w io.Writer) error {
		return WriteCSV(w, rows)
	})
}

// WriteCSV writes the header and one record per row.
func WriteCSV(w io.Writer, rows []model.TrajectoryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(Record(r)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
