package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	gstat "gonum.org/v1/gonum/stat"
)

const (
	histogramBarChar  = "█"
	defaultBarWidth   = 40
	minHistogramWidth = 10
)

// MaxHistogramBins caps the requested bin count.
const MaxHistogramBins = 1000

// Bin is a half-open histogram interval [Lo, Hi) and its count. The last bin
// also holds values equal to its upper edge.
type Bin struct {
	Lo    float64
	Hi    float64
	Count int
}

// SturgesBins returns ceil(log2(n)) + 1, at least 1.
func SturgesBins(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// Histogram bins finite values into equal-width intervals spanning their range.
// A bin count of 0 selects Sturges' rule.
func Histogram(values []float64, bins int) ([]Bin, error) {
	if bins < 0 {
		return nil, fmt.Errorf("bin count must be >= 0, got %d", bins)
	}
	if bins > MaxHistogramBins {
		return nil, fmt.Errorf("bin count must be <= %d, got %d", MaxHistogramBins, bins)
	}
	data := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		data = append(data, v)
	}
	if len(data) == 0 {
		return nil, nil
	}
	if bins == 0 {
		bins = SturgesBins(len(data))
	}
	sort.Float64s(data)

	lo, hi := data[0], data[len(data)-1]
	if hi-lo < 1e-12 {
		lo -= 0.5
		hi += 0.5
	}
	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	edges := append([]float64(nil), dividers...)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := gstat.Histogram(nil, dividers, data, nil)
	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lo: edges[i], Hi: edges[i+1], Count: int(counts[i])}
	}
	return out, nil
}

// RenderHistogram prints one horizontal bar per bin, scaled to barWidth.
func RenderHistogram(w io.Writer, title string, bins []Bin, barWidth int) error {
	if len(bins) == 0 {
		_, err := fmt.Fprintln(w, "No values to plot.")
		return err
	}
	if barWidth <= 0 {
		barWidth = defaultBarWidth
	}
	if barWidth < minHistogramWidth {
		barWidth = minHistogramWidth
	}
	maxCount := 0
	for _, b := range bins {
		maxCount = max(maxCount, b.Count)
	}

	rows := make([][]string, 0, len(bins))
	for i, b := range bins {
		closing := ")"
		if i == len(bins)-1 {
			closing = "]"
		}
		bar := ""
		if maxCount > 0 && b.Count > 0 {
			n := int(math.Round(float64(b.Count) / float64(maxCount) * float64(barWidth)))
			bar = strings.Repeat(histogramBarChar, max(n, 1))
		}
		rows = append(rows, []string{
			fmt.Sprintf("[%.2f, %.2f%s", b.Lo, b.Hi, closing),
			strconv.Itoa(b.Count),
			bar,
		})
	}
	if err := WriteTable(w, title, []string{"Range", "Count", ""}, rows, map[int]bool{1: true}); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
