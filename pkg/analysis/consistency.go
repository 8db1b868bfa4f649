package analysis

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/mpapenbr/racemetrics/pkg/model"
)

// MinConsistencyLaps is the number of laps needed for a consistency rating.
const MinConsistencyLaps = 3

type ConsistencySummary struct {
	Average           float64 `json:"average"`
	StandardDeviation float64 `json:"standardDeviation"`
	ConsistencyScore  float64 `json:"consistencyScore"` // 0..100
	LapCount          int     `json:"lapCount"`
}

func AnalyzeConsistency(points []model.PerformanceDataPoint) *ConsistencySummary {
	return consistencyOf(LapTimes(points))
}

func consistencyOf(laps []float64) *ConsistencySummary {
	if len(laps) < MinConsistencyLaps {
		return nil
	}
	avg, _ := stats.Mean(laps)
	sd, _ := stats.StandardDeviationPopulation(laps)
	return &ConsistencySummary{
		Average:           avg,
		StandardDeviation: sd,
		ConsistencyScore:  math.Max(0, (avg-sd)/avg*100),
		LapCount:          len(laps),
	}
}

// StdDev is the population standard deviation, 0 for fewer than two values.
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	sd, err := stats.StandardDeviationPopulation(data)
	if err != nil {
		return 0
	}
	return sd
}
