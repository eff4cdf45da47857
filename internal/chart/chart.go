// Package chart renders swim charts to PNG images.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sort"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/verte-zerg/swimtrend/internal/atomicfile"
	"github.com/verte-zerg/swimtrend/internal/stats"
)

// File names written into the charts directory.
const (
	TimeChartFile      = "swim_times.png"
	HistogramChartFile = "scaled_improvement_hist.png"
)

const (
	chartWidth  = 1024
	chartHeight = 512
	barWidth    = 24
	barSpacing  = 8
	barMargin   = 160
)

// ErrTooFewPoints is returned when a line chart has fewer than two distinct dates.
var ErrTooFewPoints = errors.New("line chart needs at least two distinct dates")

var seriesColors = []drawing.Color{
	gochart.ColorBlue,
	gochart.ColorOrange,
	gochart.ColorGreen,
}

// WriteTimeChart renders a time series chart into dir and returns its path.
func WriteTimeChart(dir, title string, series []stats.Series) (string, error) {
	path := filepath.Join(dir, TimeChartFile)
	err := atomicfile.Write(path, func(w io.Writer) error {
		return RenderTimeChart(w, title, series)
	})
	return path, err
}

// WriteHistogramChart renders a histogram bar chart into dir and returns its path.
func WriteHistogramChart(dir, title string, bins []stats.Bin) (string, error) {
	path := filepath.Join(dir, HistogramChartFile)
	err := atomicfile.Write(path, func(w io.Writer) error {
		return RenderHistogramChart(w, title, bins)
	})
	return path, err
}

// RenderTimeChart draws swim time against date as PNG.
func RenderTimeChart(w io.Writer, title string, series []stats.Series) error {
	var (
		chartSeries []gochart.Series
		dates       = map[time.Time]struct{}{}
		minY        = math.Inf(1)
		maxY        = math.Inf(-1)
	)
	for i, s := range series {
		xs, ys := finitePoints(s.Points)
		if len(xs) == 0 {
			continue
		}
		for j, x := range xs {
			dates[x] = struct{}{}
			minY = math.Min(minY, ys[j])
			maxY = math.Max(maxY, ys[j])
		}
		color := seriesColors[i%len(seriesColors)]
		chartSeries = append(chartSeries, gochart.TimeSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style: gochart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotColor:    color,
				DotWidth:    3,
			},
		})
	}
	if len(dates) < 2 {
		return ErrTooFewPoints
	}

	yAxis := gochart.YAxis{Name: "Time (s)"}
	if maxY-minY < 1e-9 {
		yAxis.Range = &gochart.ContinuousRange{Min: minY - 1, Max: maxY + 1}
	}
	graph := gochart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: gochart.XAxis{
			Name:           "Date",
			ValueFormatter: gochart.TimeDateValueFormatter,
		},
		YAxis:  yAxis,
		Series: chartSeries,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("failed to render time chart: %w", err)
	}
	return nil
}

// RenderHistogramChart draws histogram bins as a PNG bar chart.
func RenderHistogramChart(w io.Writer, title string, bins []stats.Bin) error {
	if len(bins) == 0 {
		return fmt.Errorf("histogram has no bins")
	}
	bars := make([]gochart.Value, len(bins))
	for i, b := range bins {
		bars[i] = gochart.Value{
			Value: float64(b.Count),
			Label: fmt.Sprintf("%.2f", (b.Lo+b.Hi)/2),
		}
	}
	graph := gochart.BarChart{
		Title:  title,
		Width:  max(chartWidth, len(bars)*(barWidth+barSpacing)+barMargin),
		Height: chartHeight,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40},
		},
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Bars:       bars,
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: float64(maxCount(bins))},
		},
	}
	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("failed to render histogram chart: %w", err)
	}
	return nil
}

func finitePoints(points []stats.Point) ([]time.Time, []float64) {
	sorted := append([]stats.Point(nil), points...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X.Before(sorted[j].X)
	})
	xs := make([]time.Time, 0, len(sorted))
	ys := make([]float64, 0, len(sorted))
	for _, p := range sorted {
		if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			continue
		}
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}
	return xs, ys
}

func maxCount(bins []stats.Bin) int {
	m := 1
	for _, b := range bins {
		m = max(m, b.Count)
	}
	return m
}
