package analysis

import "github.com/mpapenbr/racemetrics/pkg/model"

type LapPoint struct {
	Lap     int     `json:"lap"`
	LapTime float64 `json:"lapTime"`
}

type EnginePoint struct {
	DataPoint    int     `json:"dataPoint"`
	RPM          float64 `json:"rpm"`
	Temperature  float64 `json:"temperature"`
	SparkAdvance float64 `json:"sparkAdvance"`
}

type TirePoint struct {
	DataPoint  int      `json:"dataPoint"`
	FrontLeft  *float64 `json:"frontLeft,omitempty"`
	FrontRight *float64 `json:"frontRight,omitempty"`
	RearLeft   *float64 `json:"rearLeft,omitempty"`
	RearRight  *float64 `json:"rearRight,omitempty"`
}

// LapSeries numbers the valid lap times starting at 1.
func LapSeries(points []model.PerformanceDataPoint) []LapPoint {
	laps := LapTimes(points)
	ret := make([]LapPoint, len(laps))
	for i, l := range laps {
		ret[i] = LapPoint{Lap: i + 1, LapTime: l}
	}
	return ret
}

// EngineSeries contains data points with an rpm reading. Missing temperature
// and spark advance are reported as 0.
func EngineSeries(points []model.PerformanceDataPoint) []EnginePoint {
	ret := make([]EnginePoint, 0)
	for i := range points {
		e := points[i].Engine
		rpm, ok := positive(e.RPM)
		if !ok {
			continue
		}
		temp, _ := present(e.Temperature)
		spark, _ := present(e.SparkAdvance)
		ret = append(ret, EnginePoint{
			DataPoint:    len(ret) + 1,
			RPM:          rpm,
			Temperature:  temp,
			SparkAdvance: spark,
		})
	}
	return ret
}

func TirePressureSeries(points []model.PerformanceDataPoint) []TirePoint {
	ret := make([]TirePoint, 0)
	for i := range points {
		tp := points[i].TirePressures
		if tp.Empty() {
			continue
		}
		ret = append(ret, TirePoint{
			DataPoint:  len(ret) + 1,
			FrontLeft:  tp.FrontLeft,
			FrontRight: tp.FrontRight,
			RearLeft:   tp.RearLeft,
			RearRight:  tp.RearRight,
		})
	}
	return ret
}
