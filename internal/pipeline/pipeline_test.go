package pipeline

import (
	"bytes"
	"encoding/csv"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/swimtrend/internal/chart"
	"github.com/verte-zerg/swimtrend/internal/model"
	"github.com/verte-zerg/swimtrend/internal/swimlog"
)

func writeInput(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "swims.csv")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func readOutput(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	return records
}

func TestRunEndToEnd(t *testing.T) {
	in := writeInput(t, "Date,Time\n\"Jan 1, 2023\",30.00\n\"Jan 2, 2023\",29.50\n\"Jan 2, 2023\",1:31.00\n")
	out := filepath.Join(t.TempDir(), "all_swims.csv")
	var stdout bytes.Buffer

	result, err := Run(Options{
		InputPath:  in,
		OutputPath: out,
		Report:     model.ReportConfig{RenderHistogram: true, EchoTable: true},
		PlotWidth:  60,
		Stdout:     &stdout,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	rows := result.Report.Rows
	if len(rows) != 2 {
		t.Fatalf("expected 2 trajectory rows, got %d", len(rows))
	}
	if rows[1].Time != 29.5 || rows[1].CurrentBest != 30 {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
	if math.Abs(rows[1].PercentImprovement-5.0/3.0) > 1e-9 {
		t.Fatalf("expected percent improvement 5/3, got %v", rows[1].PercentImprovement)
	}
	if len(result.Report.Flagged) != 0 {
		t.Fatalf("expected no flagged swims, got %d", len(result.Report.Flagged))
	}

	records := readOutput(t, out)
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[1][2] != "inf" || records[1][3] != "" {
		t.Fatalf("unexpected first output row: %v", records[1])
	}
	if records[2][0] != "29.5" || records[2][3] != "1" || records[2][4] != "-0.5" {
		t.Fatalf("unexpected second output row: %v", records[2])
	}

	text := stdout.String()
	for _, want := range []string{"Normalized Swims (3)", "91.00", "Summary", "Distribution of Scaled Percent Improvements", "No swims flagged."} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
}

func TestRunSingleSwim(t *testing.T) {
	in := writeInput(t, "Time,Date\n30.00,\"Jan 1, 2023\"\n")
	out := filepath.Join(t.TempDir(), "all_swims.csv")
	chartsDir := filepath.Join(t.TempDir(), "charts")

	result, err := Run(Options{
		InputPath:  in,
		OutputPath: out,
		Report:     model.ReportConfig{RenderHistogram: true, ChartsDir: chartsDir},
		Stdout:     &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	row := result.Report.Rows[0]
	if !math.IsInf(row.CurrentBest, 1) || row.PercentImprovement != 0 || row.ScaledPercentImprovement != 0 {
		t.Fatalf("unexpected single row: %+v", row)
	}
	if !result.Report.Summary.Degenerate {
		t.Fatalf("expected degenerate summary")
	}
	if len(result.Charts) != 1 || filepath.Base(result.Charts[0]) != chart.HistogramChartFile {
		t.Fatalf("expected only the histogram chart, got %v", result.Charts)
	}
	if _, err := os.Stat(filepath.Join(chartsDir, chart.TimeChartFile)); !os.IsNotExist(err) {
		t.Fatalf("expected no time chart for a single date, got %v", err)
	}
	records := readOutput(t, out)
	if len(records) != 2 || records[1][8] != "NaN" {
		t.Fatalf("unexpected output: %v", records)
	}
}

func TestRunWritesCharts(t *testing.T) {
	in := writeInput(t, "Time,Date\n30.00,\"Jan 1, 2023\"\n29.80,\"Jan 3, 2023\"\n29.70,\"Jan 4, 2023\"\n")
	chartsDir := filepath.Join(t.TempDir(), "charts")

	result, err := Run(Options{
		InputPath:  in,
		OutputPath: filepath.Join(t.TempDir(), "all_swims.xlsx"),
		Report: model.ReportConfig{
			RenderHistogram: true,
			HistogramBins:   3,
			LineChartStage:  model.StageDaily,
			ChartsDir:       chartsDir,
		},
		Stdout: &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Charts) != 2 {
		t.Fatalf("expected two charts, got %v", result.Charts)
	}
	for _, name := range []string{chart.TimeChartFile, chart.HistogramChartFile} {
		if _, err := os.Stat(filepath.Join(chartsDir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	records, err := swimlog.Load(result.OutputPath)
	if err != nil {
		t.Fatalf("reload workbook: %v", err)
	}
	if len(records) != 3 || records[0].TimeRaw != "30" || records[2].DateRaw != "2023-01-04" {
		t.Fatalf("unexpected workbook records: %+v", records)
	}
}

func TestRunMissingColumn(t *testing.T) {
	in := writeInput(t, "Date,Seconds\n\"Jan 1, 2023\",30.00\n")
	_, err := Run(Options{InputPath: in, OutputPath: filepath.Join(t.TempDir(), "out.csv"), Stdout: &bytes.Buffer{}})
	var inputErr *model.InputError
	if !errors.As(err, &inputErr) || !errors.Is(err, model.ErrMissingColumn) {
		t.Fatalf("expected missing column InputError, got %v", err)
	}
}

func TestRunBadTimeIsFatal(t *testing.T) {
	in := writeInput(t, "Time,Date\n30.00,\"Jan 1, 2023\"\nfast,\"Jan 2, 2023\"\n")
	out := filepath.Join(t.TempDir(), "out.csv")
	_, err := Run(Options{InputPath: in, OutputPath: out, Stdout: &bytes.Buffer{}})
	var parseErr *model.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Row != 2 || parseErr.Field != "Time" {
		t.Fatalf("unexpected parse error: %+v", parseErr)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("expected no output on parse failure, got %v", err)
	}
}

func TestRunRequiresInput(t *testing.T) {
	_, err := Run(Options{Stdout: &bytes.Buffer{}})
	if err == nil || !strings.Contains(err.Error(), "must supply file") {
		t.Fatalf("expected missing file error, got %v", err)
	}
}
