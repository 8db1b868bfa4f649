// Package analysis computes the aggregate statistics shown on the session
// analysis pages. All functions are pure and work on in-memory slices.
package analysis

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/samber/lo"

	"github.com/mpapenbr/racemetrics/pkg/model"
)

type LapTimeSummary struct {
	Average float64 `json:"average"`
	Best    float64 `json:"best"`
	Worst   float64 `json:"worst"`
	Count   int     `json:"count"`
}

// Spread is (worst-best)/average, the relative lap time variance.
func (s *LapTimeSummary) Spread() float64 {
	if s == nil || s.Average == 0 {
		return 0
	}
	return (s.Worst - s.Best) / s.Average
}

// LapTimes returns the valid lap times (finite, > 0) in data point order.
func LapTimes(points []model.PerformanceDataPoint) []float64 {
	return lo.FilterMap(points, func(p model.PerformanceDataPoint, _ int) (float64, bool) {
		return positive(p.LapTime)
	})
}

// AnalyzeLapTimes returns nil if no data point carries a lap time.
func AnalyzeLapTimes(points []model.PerformanceDataPoint) *LapTimeSummary {
	return summarizeLaps(LapTimes(points))
}

func summarizeLaps(laps []float64) *LapTimeSummary {
	if len(laps) == 0 {
		return nil
	}
	avg, _ := stats.Mean(laps)
	best, _ := stats.Min(laps)
	worst, _ := stats.Max(laps)
	return &LapTimeSummary{Average: avg, Best: best, Worst: worst, Count: len(laps)}
}

// positive treats missing, zero, negative and non-finite values as absent.
func positive(v *float64) (float64, bool) {
	if v == nil || *v <= 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}

// nonZero treats missing, zero and non-finite values as absent.
// Negative readings are kept.
func nonZero(v *float64) (float64, bool) {
	if v == nil || *v == 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}

func collect(vals []*float64, accept func(*float64) (float64, bool)) []float64 {
	ret := make([]float64, 0, len(vals))
	for _, v := range vals {
		if f, ok := accept(v); ok {
			ret = append(ret, f)
		}
	}
	return ret
}

func mean(data []float64) *float64 {
	if len(data) == 0 {
		return nil
	}
	m, err := stats.Mean(data)
	if err != nil {
		return nil
	}
	return &m
}

func maximum(data []float64) *float64 {
	if len(data) == 0 {
		return nil
	}
	m, err := stats.Max(data)
	if err != nil {
		return nil
	}
	return &m
}
