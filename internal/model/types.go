// Package model defines shared data structures.
package model

import "time"

// Line chart stages.
const (
	StageNormalized = "normalized"
	StageDaily      = "daily"
)

// ReportConfig defines rendering options for a pipeline run.
type ReportConfig struct {
	RenderHistogram bool
	HistogramBins   int
	EchoTable       bool
	LineChartStage  string
	ChartsDir       string
	PlotHeight      int
}

// SwimRecord is a raw row from the swim log.
type SwimRecord struct {
	Row     int
	TimeRaw string
	DateRaw string
}

// Swim is a normalized swim: seconds and a UTC calendar date.
type Swim struct {
	Time float64
	Date time.Time
}

// TrajectoryRow is one swim date in the personal-best trajectory.
type TrajectoryRow struct {
	Swim

	// CurrentBest is the fastest time strictly before this row, +Inf for the first row.
	CurrentBest float64
	// TimeDiffDays is nil for the first row.
	TimeDiffDays *int

	TimeFromBest             float64
	PercentImprovement       float64
	ScaledPercentImprovement float64

	AbsDev         float64
	ModifiedZScore float64
}

// OutlierSummary describes the robust statistics of a scored trajectory.
type OutlierSummary struct {
	Median     float64
	MAD        float64
	Degenerate bool
}
