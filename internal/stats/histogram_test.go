package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestSturgesBins(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 8: 4, 9: 5, 100: 8}
	for n, want := range cases {
		if got := SturgesBins(n); got != want {
			t.Fatalf("SturgesBins(%d): expected %d, got %d", n, want, got)
		}
	}
}

func TestHistogramCountsEveryFiniteValue(t *testing.T) {
	values := []float64{0, 0.5, 1, 1.5, 2, 4, math.NaN(), math.Inf(1)}
	bins, err := Histogram(values, 4)
	if err != nil {
		t.Fatalf("Histogram failed: %v", err)
	}
	if len(bins) != 4 {
		t.Fatalf("expected 4 bins, got %d", len(bins))
	}
	want := []int{2, 2, 1, 1}
	total := 0
	for i, b := range bins {
		if b.Count != want[i] {
			t.Fatalf("bin %d [%v,%v): expected %d, got %d", i, b.Lo, b.Hi, want[i], b.Count)
		}
		total += b.Count
	}
	if total != 6 {
		t.Fatalf("expected 6 counted values, got %d", total)
	}
	if bins[0].Lo != 0 || bins[3].Hi != 4 {
		t.Fatalf("unexpected edges: %+v", bins)
	}
}

func TestHistogramConstantSeries(t *testing.T) {
	bins, err := Histogram([]float64{3, 3, 3}, 0)
	if err != nil {
		t.Fatalf("Histogram failed: %v", err)
	}
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total != 3 {
		t.Fatalf("expected 3 counted values, got %d", total)
	}
}

func TestHistogramRejectsNegativeBins(t *testing.T) {
	if _, err := Histogram([]float64{1}, -1); err == nil {
		t.Fatalf("expected error for negative bins")
	}
}

func TestHistogramBinCap(t *testing.T) {
	bins, err := Histogram([]float64{0, 1, 2}, MaxHistogramBins)
	if err != nil {
		t.Fatalf("expected %d bins to be accepted, got %v", MaxHistogramBins, err)
	}
	if len(bins) != MaxHistogramBins {
		t.Fatalf("expected %d bins, got %d", MaxHistogramBins, len(bins))
	}
	if _, err := Histogram([]float64{0, 1, 2}, 100000000); err == nil {
		t.Fatalf("expected error for an oversized bin count")
	}
}

func TestRenderHistogram(t *testing.T) {
	var buf bytes.Buffer
	bins := []Bin{{Lo: 0, Hi: 1, Count: 4}, {Lo: 1, Hi: 2, Count: 0}, {Lo: 2, Hi: 3, Count: 2}}
	if err := RenderHistogram(&buf, "Distribution", bins, 10); err != nil {
		t.Fatalf("RenderHistogram failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Distribution") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, strings.Repeat(histogramBarChar, 10)) {
		t.Fatalf("expected full-width bar for the largest bin:\n%s", out)
	}
	if !strings.Contains(out, "[2.00, 3.00]") {
		t.Fatalf("expected closed last interval:\n%s", out)
	}
}
