// Package trajectory builds the personal-best trajectory and improvement metrics.
package trajectory

import (
	"math"
	"sort"
	"time"

	"github.com/verte-zerg/swimtrend/internal/model"
)

const hoursPerDay = 24

// SortSwims returns a copy ordered by date, then time. Ties keep input order.
func SortSwims(swims []model.Swim) []model.Swim {
	out := append([]model.Swim(nil), swims...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].Time < out[j].Time
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// DailyBest sorts swims and keeps the fastest swim for each date.
func DailyBest(swims []model.Swim) []model.Swim {
	sorted := SortSwims(swims)
	out := make([]model.Swim, 0, len(sorted))
	for _, s := range sorted {
		if n := len(out); n > 0 && out[n-1].Date.Equal(s.Date) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Build dedupes swims to one per date and assigns each row the fastest time
// seen on strictly earlier dates.
func Build(swims []model.Swim) []model.TrajectoryRow {
	daily := DailyBest(swims)
	rows := make([]model.TrajectoryRow, len(daily))
	best := math.Inf(1)
	for i, s := range daily {
		rows[i] = model.TrajectoryRow{Swim: s, CurrentBest: best}
		if s.Time < best {
			best = s.Time
		}
	}
	return rows
}

// ApplyMetrics returns a copy of rows with gap, percent and scaled improvement filled in.
func ApplyMetrics(rows []model.TrajectoryRow) []model.TrajectoryRow {
	out := append([]model.TrajectoryRow(nil), rows...)
	for i := range out {
		r := &out[i]
		r.TimeDiffDays = nil
		if i > 0 {
			days := DaysBetween(out[i-1].Date, r.Date)
			r.TimeDiffDays = &days
		}
		r.TimeFromBest = r.Time - r.CurrentBest
		r.PercentImprovement = PercentImprovement(r.Time, r.CurrentBest)
		r.ScaledPercentImprovement = ScaledImprovement(r.PercentImprovement, r.TimeDiffDays)
	}
	return out
}

// PercentImprovement is the percent by which t beats best. A non-finite best
// (no earlier swim) yields 0.
func PercentImprovement(t, best float64) float64 {
	if math.IsInf(best, 0) {
		return 0
	}
	return (t - best) / best * -100
}

// ScaledImprovement divides percent by the day gap; 0 unless days > 0.
func ScaledImprovement(percent float64, days *int) float64 {
	if days == nil || *days <= 0 {
		return 0
	}
	return percent / float64(*days)
}

// DaysBetween counts calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(math.Round(end.Sub(start).Hours() / hoursPerDay))
}

// RunningBest returns the inclusive running minimum of each row's time,
// the personal best after that swim.
func RunningBest(rows []model.TrajectoryRow) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = math.Min(r.CurrentBest, r.Time)
	}
	return out
}
