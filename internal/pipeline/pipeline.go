// Package pipeline runs the swim analysis from input file to derived table.
package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/verte-zerg/swimtrend/internal/chart"
	"github.com/verte-zerg/swimtrend/internal/export"
	"github.com/verte-zerg/swimtrend/internal/model"
	"github.com/verte-zerg/swimtrend/internal/normalize"
	"github.com/verte-zerg/swimtrend/internal/stats"
	"github.com/verte-zerg/swimtrend/internal/swimlog"
	"github.com/verte-zerg/swimtrend/internal/trajectory"
)

const (
	histogramBarWidth = 40
	timeChartTitle    = "Swimming results over time"
	histogramTitle    = "Distribution of Scaled Percent Improvements"
)

// Options configures a single run. PlotWidth is the total terminal width
// for the line chart; 0 detects it.
type Options struct {
	InputPath  string
	OutputPath string
	Report     model.ReportConfig
	PlotWidth  int
	Stdout     io.Writer
	Logger     *slog.Logger
}

// Result summarizes a completed run.
type Result struct {
	Report     stats.Report
	OutputPath string
	Charts     []string
}

// Run loads, normalizes, scores and reports the swim log, then writes the
// derived table to OutputPath.
func Run(opts Options) (Result, error) {
	opts = withDefaults(opts)
	log := opts.Logger

	if strings.TrimSpace(opts.InputPath) == "" {
		return Result{}, &model.InputError{Err: fmt.Errorf("must supply file (--file <filepath>)")}
	}

	records, err := swimlog.Load(opts.InputPath)
	if err != nil {
		return Result{}, err
	}
	log.Info("loaded swim log", "path", opts.InputPath, "records", len(records))

	swims, err := normalize.Records(records)
	if err != nil {
		return Result{}, err
	}
	log.Info("normalized swims", "swims", len(swims))

	if opts.Report.EchoTable {
		if err := stats.RenderSwims(opts.Stdout, swims); err != nil {
			return Result{}, fmt.Errorf("failed to write output: %w", err)
		}
	}

	rows := trajectory.ApplyMetrics(trajectory.Build(swims))
	log.Info("built trajectory", "days", len(rows))

	report, err := stats.BuildReport(swims, rows)
	if err != nil {
		return Result{}, err
	}
	log.Info("scored outliers",
		"median", report.Summary.Median,
		"mad", report.Summary.MAD,
		"flagged", len(report.Flagged),
	)
	if report.Summary.Degenerate {
		log.Warn("median absolute deviation is zero; no swims can be flagged")
	}

	if err := render(opts, report); err != nil {
		return Result{}, fmt.Errorf("failed to write output: %w", err)
	}

	result := Result{Report: report, OutputPath: opts.OutputPath}
	if dir := strings.TrimSpace(opts.Report.ChartsDir); dir != "" {
		result.Charts = writeCharts(dir, opts, report)
	}

	if err := export.WriteTable(opts.OutputPath, report.Rows); err != nil {
		return Result{}, err
	}
	log.Info("wrote derived table", "path", opts.OutputPath, "rows", len(report.Rows))
	return result, nil
}

func withDefaults(opts Options) Options {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if strings.TrimSpace(opts.OutputPath) == "" {
		opts.OutputPath = export.DefaultOutputPath
	}
	if opts.Report.LineChartStage == "" {
		opts.Report.LineChartStage = model.StageNormalized
	}
	return opts
}

func render(opts Options, report stats.Report) error {
	out := opts.Stdout
	if err := stats.RenderSummary(out, report); err != nil {
		return err
	}
	if err := stats.RenderTimeChart(out, report, opts.Report.LineChartStage, opts.PlotWidth, opts.Report.PlotHeight, false); err != nil {
		return err
	}
	if opts.Report.RenderHistogram {
		if _, err := fmt.Fprintln(out, ""); err != nil {
			return err
		}
		if err := stats.RenderImprovementHistogram(out, report, opts.Report.HistogramBins, histogramBarWidth); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(out, ""); err != nil {
		return err
	}
	return stats.RenderFlagged(out, report.Flagged)
}

// writeCharts renders PNG charts. Failures are logged and skipped.
func writeCharts(dir string, opts Options, report stats.Report) []string {
	var written []string
	path, err := chart.WriteTimeChart(dir, timeChartTitle, report.TimeSeries(opts.Report.LineChartStage))
	if err != nil {
		opts.Logger.Warn("skipped time chart", "path", path, "err", err)
	} else {
		written = append(written, path)
	}

	if !opts.Report.RenderHistogram {
		return written
	}
	bins, err := stats.Histogram(report.ScaledImprovements(), opts.Report.HistogramBins)
	if err != nil {
		opts.Logger.Warn("skipped histogram chart", "err", err)
		return written
	}
	path, err = chart.WriteHistogramChart(dir, histogramTitle, bins)
	if err != nil {
		opts.Logger.Warn("skipped histogram chart", "path", path, "err", err)
		return written
	}
	return append(written, path)
}
