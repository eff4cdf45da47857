package stats

import (
	"fmt"
	"math"

	mstats "github.com/montanaflynn/stats"

	"github.com/verte-zerg/swimtrend/internal/model"
)

// Modified Z-score constants (Iglewicz and Hoaglin).
const (
	ZScoreScale      = 0.6745
	OutlierThreshold = 3.5
)

// ScoreOutliers returns a copy of rows with AbsDev and ModifiedZScore set
// from the scaled improvement series. A zero MAD leaves non-finite scores
// and marks the summary degenerate.
func ScoreOutliers(rows []model.TrajectoryRow) ([]model.TrajectoryRow, model.OutlierSummary, error) {
	if len(rows) == 0 {
		return nil, model.OutlierSummary{}, fmt.Errorf("cannot score an empty trajectory")
	}
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = r.ScaledPercentImprovement
	}
	median, err := mstats.Median(values)
	if err != nil {
		return nil, model.OutlierSummary{}, fmt.Errorf("failed to compute median: %w", err)
	}

	out := append([]model.TrajectoryRow(nil), rows...)
	absDevs := make([]float64, len(out))
	for i := range out {
		out[i].AbsDev = math.Abs(out[i].ScaledPercentImprovement - median)
		absDevs[i] = out[i].AbsDev
	}
	mad, err := mstats.Median(absDevs)
	if err != nil {
		return nil, model.OutlierSummary{}, fmt.Errorf("failed to compute median absolute deviation: %w", err)
	}
	for i := range out {
		out[i].ModifiedZScore = ZScoreScale * (out[i].ScaledPercentImprovement - median) / mad
	}
	return out, model.OutlierSummary{
		Median:     median,
		MAD:        mad,
		Degenerate: mad == 0 || math.IsNaN(mad),
	}, nil
}

// IsOutlier reports whether a modified Z-score is above the threshold.
// Non-finite scores never qualify, so +Inf from a zero MAD is not flagged.
func IsOutlier(z float64) bool {
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return false
	}
	return z > OutlierThreshold
}

// Flagged returns the rows whose score is an outlier, in order.
func Flagged(rows []model.TrajectoryRow) []model.TrajectoryRow {
	var out []model.TrajectoryRow
	for _, r := range rows {
		if IsOutlier(r.ModifiedZScore) {
			out = append(out, r)
		}
	}
	return out
}
