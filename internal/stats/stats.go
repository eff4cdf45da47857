package stats

import (
	"fmt"
	"io"
	"math"

	"github.com/verte-zerg/swimtrend/internal/model"
)

// FlaggedHeaders are the columns printed for flagged swims.
var FlaggedHeaders = []string{
	"Time",
	"Date",
	"time_from_best",
	"time_diff",
	"scaled_percent_improvement",
	"modified_z_score",
}

// RenderSummary prints headline numbers for the run.
func RenderSummary(w io.Writer, report Report) error {
	if len(report.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No swims found.")
		return err
	}
	best := report.Rows[0]
	for _, r := range report.Rows[1:] {
		if r.Time < best.Time {
			best = r
		}
	}
	first := report.Rows[0].Date
	last := report.Rows[len(report.Rows)-1].Date

	if _, err := fmt.Fprintln(w, titleStyle.Render("Summary")); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Swims: %d\n", len(report.Swims)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Swim days: %d (%s to %s)\n", len(report.Rows), model.FormatDate(first), model.FormatDate(last)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Personal best: %.2fs on %s\n", best.Time, model.FormatDate(best.Date)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Median scaled improvement: %s\n", model.FormatFloat(report.Summary.Median)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "MAD: %s\n", model.FormatFloat(report.Summary.MAD)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderTimeChart plots swim time against date for the given stage.
func RenderTimeChart(w io.Writer, report Report, stage string, totalWidth, height int, useColor bool) error {
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotTimeSeriesWithColor(w, "Swimming results over time", "Time (s)", report.TimeSeries(stage), width, height, useColor)
}

// RenderImprovementHistogram prints the distribution of scaled percent improvements.
func RenderImprovementHistogram(w io.Writer, report Report, bins, barWidth int) error {
	hist, err := Histogram(report.ScaledImprovements(), bins)
	if err != nil {
		return err
	}
	return RenderHistogram(w, "Distribution of Scaled Percent Improvements", hist, barWidth)
}

// RenderFlagged prints the flagged swims table.
func RenderFlagged(w io.Writer, flagged []model.TrajectoryRow) error {
	rows := make([][]string, 0, len(flagged))
	for _, r := range flagged {
		rows = append(rows, []string{
			fmt.Sprintf("%.2f", r.Time),
			model.FormatDate(r.Date),
			formatCell(r.TimeFromBest),
			model.FormatDays(r.TimeDiffDays),
			formatCell(r.ScaledPercentImprovement),
			formatCell(r.ModifiedZScore),
		})
	}
	rightAlign := map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true}
	if err := WriteTable(w, "Flagged Swims", FlaggedHeaders, rows, rightAlign); err != nil {
		return err
	}
	if len(flagged) == 0 {
		if _, err := fmt.Fprintln(w, "No swims flagged."); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderSwims prints the normalized swims in input order.
func RenderSwims(w io.Writer, swims []model.Swim) error {
	rows := make([][]string, 0, len(swims))
	for _, s := range swims {
		rows = append(rows, []string{fmt.Sprintf("%.2f", s.Time), model.FormatDate(s.Date)})
	}
	if err := WriteTable(w, fmt.Sprintf("Normalized Swims (%d)", len(swims)), []string{"Time", "Date"}, rows, map[int]bool{0: true}); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func formatCell(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return model.FormatFloat(v)
	}
	return fmt.Sprintf("%.4f", v)
}
