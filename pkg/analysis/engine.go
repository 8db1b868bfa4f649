package analysis

import (
	"github.com/samber/lo"

	"github.com/mpapenbr/racemetrics/pkg/model"
)

type EngineSummary struct {
	AvgRPM          *float64 `json:"avgRpm"`
	MaxRPM          *float64 `json:"maxRpm"`
	AvgSparkAdvance *float64 `json:"avgSparkAdvance"`
	AvgFuelMs       *float64 `json:"avgFuelMs"`
	DataPoints      int      `json:"dataPoints"`
}

type TemperatureSummary struct {
	AvgEngineTemp  *float64 `json:"avgEngineTemp"`
	MaxEngineTemp  *float64 `json:"maxEngineTemp"`
	AvgAmbientTemp *float64 `json:"avgAmbientTemp"`
	AvgTrackTemp   *float64 `json:"avgTrackTemp"`
}

type FuelSummary struct {
	Total      float64 `json:"total"`
	Average    float64 `json:"average"`
	DataPoints int     `json:"dataPoints"`
}

func hasEngineReading(e model.EngineReading) bool {
	return e.RPM != nil || e.SparkAdvance != nil || e.FuelMilliseconds != nil ||
		e.Temperature != nil || e.RevLimit != nil || e.StoichRatio != nil
}

// AnalyzeEngine returns nil if no data point has engine readings.
func AnalyzeEngine(points []model.PerformanceDataPoint) *EngineSummary {
	engine := lo.FilterMap(points, func(p model.PerformanceDataPoint, _ int) (model.EngineReading, bool) {
		return p.Engine, hasEngineReading(p.Engine)
	})
	if len(engine) == 0 {
		return nil
	}
	rpm := collect(lo.Map(engine, func(e model.EngineReading, _ int) *float64 { return e.RPM }), nonZero)
	spark := collect(lo.Map(engine, func(e model.EngineReading, _ int) *float64 { return e.SparkAdvance }), nonZero)
	fuel := collect(lo.Map(engine, func(e model.EngineReading, _ int) *float64 { return e.FuelMilliseconds }), nonZero)
	return &EngineSummary{
		AvgRPM:          mean(rpm),
		MaxRPM:          maximum(rpm),
		AvgSparkAdvance: mean(spark),
		AvgFuelMs:       mean(fuel),
		DataPoints:      len(engine),
	}
}

// AnalyzeTemperatures returns nil if no data point has any temperature.
func AnalyzeTemperatures(points []model.PerformanceDataPoint) *TemperatureSummary {
	var engineT, ambientT, trackT []*float64
	for i := range points {
		engineT = append(engineT, points[i].Engine.Temperature)
		ambientT = append(ambientT, points[i].Environmental.AmbientTemp)
		trackT = append(trackT, points[i].Environmental.TrackTemp)
	}
	e := collect(engineT, nonZero)
	a := collect(ambientT, nonZero)
	t := collect(trackT, nonZero)
	if len(e)+len(a)+len(t) == 0 {
		return nil
	}
	return &TemperatureSummary{
		AvgEngineTemp:  mean(e),
		MaxEngineTemp:  maximum(e),
		AvgAmbientTemp: mean(a),
		AvgTrackTemp:   mean(t),
	}
}

// AnalyzeFuel returns nil if no data point has a fuel consumption reading.
func AnalyzeFuel(points []model.PerformanceDataPoint) *FuelSummary {
	consumption := collect(
		lo.Map(points, func(p model.PerformanceDataPoint, _ int) *float64 { return p.FuelConsumption }),
		nonZero)
	if len(consumption) == 0 {
		return nil
	}
	total := lo.Sum(consumption)
	return &FuelSummary{
		Total:      total,
		Average:    total / float64(len(consumption)),
		DataPoints: len(consumption),
	}
}
