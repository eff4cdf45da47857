package stats

import (
	"github.com/verte-zerg/swimtrend/internal/model"
	"github.com/verte-zerg/swimtrend/internal/trajectory"
)

// Report contains precomputed data for rendering.
type Report struct {
	Swims   []model.Swim
	Rows    []model.TrajectoryRow
	Flagged []model.TrajectoryRow
	Summary model.OutlierSummary
}

// BuildReport scores the trajectory rows and collects flagged swims.
// swims is the normalized history before dedupe.
func BuildReport(swims []model.Swim, rows []model.TrajectoryRow) (Report, error) {
	scored, summary, err := ScoreOutliers(rows)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Swims:   swims,
		Rows:    scored,
		Flagged: Flagged(scored),
		Summary: summary,
	}, nil
}

// TimeSeries returns the chart series for the requested stage.
func (r Report) TimeSeries(stage string) []Series {
	if stage == model.StageDaily {
		times := make([]Point, len(r.Rows))
		best := make([]Point, len(r.Rows))
		running := trajectory.RunningBest(r.Rows)
		for i, row := range r.Rows {
			times[i] = Point{X: row.Date, Y: row.Time}
			best[i] = Point{X: row.Date, Y: running[i]}
		}
		return []Series{
			{Name: "Fastest of day", Points: times},
			{Name: "Personal best", Points: best},
		}
	}
	points := make([]Point, len(r.Swims))
	for i, s := range r.Swims {
		points[i] = Point{X: s.Date, Y: s.Time}
	}
	return []Series{{Name: "Time", Points: points}}
}

// ScaledImprovements returns the scaled percent improvement of every row.
func (r Report) ScaledImprovements() []float64 {
	out := make([]float64, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.ScaledPercentImprovement
	}
	return out
}
