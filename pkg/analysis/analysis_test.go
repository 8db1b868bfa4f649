package analysis

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racemetrics/pkg/model"
)

func laps(times ...float64) []model.PerformanceDataPoint {
	return lo.Map(times, func(t float64, _ int) model.PerformanceDataPoint {
		return model.PerformanceDataPoint{LapTime: lo.ToPtr(t)}
	})
}

func pressures(fl, fr, rl, rr *float64) model.PerformanceDataPoint {
	return model.PerformanceDataPoint{TirePressures: model.Corners{
		FrontLeft: fl, FrontRight: fr, RearLeft: rl, RearRight: rr,
	}}
}

func TestAnalyzeLapTimes(t *testing.T) {
	tests := []struct {
		name   string
		points []model.PerformanceDataPoint
		want   *LapTimeSummary
	}{
		{
			name:   "three laps",
			points: laps(80, 82, 81),
			want:   &LapTimeSummary{Average: 81, Best: 80, Worst: 82, Count: 3},
		},
		{
			name:   "invalid laps ignored",
			points: append(laps(90, 0, -1, math.NaN()), model.PerformanceDataPoint{}),
			want:   &LapTimeSummary{Average: 90, Best: 90, Worst: 90, Count: 1},
		},
		{name: "no laps", points: []model.PerformanceDataPoint{{}}, want: nil},
		{name: "empty", points: nil, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeLapTimes(tt.points)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("AnalyzeLapTimes() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLapSpread(t *testing.T) {
	s := AnalyzeLapTimes(laps(80, 84, 82))
	assert.InDelta(t, 4.0/82.0, s.Spread(), 1e-9)
	var nilSummary *LapTimeSummary
	assert.Zero(t, nilSummary.Spread())
}

func TestAnalyzeTirePressures(t *testing.T) {
	points := []model.PerformanceDataPoint{
		pressures(lo.ToPtr(30.0), lo.ToPtr(32.0), nil, lo.ToPtr(0.0)),
		pressures(lo.ToPtr(32.0), lo.ToPtr(34.0), nil, nil),
		{LapTime: lo.ToPtr(80.0)},
	}
	got := AnalyzeTirePressures(points)
	require.NotNil(t, got)
	assert.InDelta(t, 31.0, got.FrontLeft, 1e-9)
	assert.InDelta(t, 33.0, got.FrontRight, 1e-9)
	assert.Zero(t, got.RearLeft)
	assert.Zero(t, got.RearRight)
	assert.Equal(t, 2, got.Corners)

	overall, ok := got.Overall()
	assert.True(t, ok)
	assert.InDelta(t, 16.0, overall, 1e-9, "missing corners count as 0")

	assert.Nil(t, AnalyzeTirePressures(laps(80)))
}

func TestAnalyzeEngine(t *testing.T) {
	points := []model.PerformanceDataPoint{
		{Engine: model.EngineReading{RPM: lo.ToPtr(6000.0), SparkAdvance: lo.ToPtr(30.0)}},
		{Engine: model.EngineReading{RPM: lo.ToPtr(7000.0), FuelMilliseconds: lo.ToPtr(4.0)}},
		{Engine: model.EngineReading{Temperature: lo.ToPtr(190.0)}},
		{LapTime: lo.ToPtr(80.0)},
	}
	got := AnalyzeEngine(points)
	require.NotNil(t, got)
	assert.InDelta(t, 6500.0, *got.AvgRPM, 1e-9)
	assert.InDelta(t, 7000.0, *got.MaxRPM, 1e-9)
	assert.InDelta(t, 30.0, *got.AvgSparkAdvance, 1e-9)
	assert.InDelta(t, 4.0, *got.AvgFuelMs, 1e-9)
	assert.Equal(t, 3, got.DataPoints)

	assert.Nil(t, AnalyzeEngine(laps(80)))
}

func TestAnalyzeEngineKeepsNegativeReadings(t *testing.T) {
	points := []model.PerformanceDataPoint{
		{Engine: model.EngineReading{RPM: lo.ToPtr(6000.0), SparkAdvance: lo.ToPtr(-4.0)}},
		{Engine: model.EngineReading{RPM: lo.ToPtr(0.0), SparkAdvance: lo.ToPtr(10.0)}},
	}
	got := AnalyzeEngine(points)
	require.NotNil(t, got)
	assert.InDelta(t, 3.0, *got.AvgSparkAdvance, 1e-9)
	assert.InDelta(t, 6000.0, *got.AvgRPM, 1e-9, "zero rpm is no reading")
	assert.Equal(t, 2, got.DataPoints)
}

func TestAnalyzeTemperatures(t *testing.T) {
	points := []model.PerformanceDataPoint{
		{Engine: model.EngineReading{Temperature: lo.ToPtr(180.0)}},
		{
			Engine:        model.EngineReading{Temperature: lo.ToPtr(200.0)},
			Environmental: model.EnvironmentReading{AmbientTemp: lo.ToPtr(75.0), TrackTemp: lo.ToPtr(110.0)},
		},
	}
	got := AnalyzeTemperatures(points)
	require.NotNil(t, got)
	assert.InDelta(t, 190.0, *got.AvgEngineTemp, 1e-9)
	assert.InDelta(t, 200.0, *got.MaxEngineTemp, 1e-9)
	assert.InDelta(t, 75.0, *got.AvgAmbientTemp, 1e-9)
	assert.InDelta(t, 110.0, *got.AvgTrackTemp, 1e-9)

	assert.Nil(t, AnalyzeTemperatures(laps(80)))

	cold := AnalyzeTemperatures([]model.PerformanceDataPoint{
		{Environmental: model.EnvironmentReading{AmbientTemp: lo.ToPtr(0.0), TrackTemp: lo.ToPtr(-5.0)}},
		{Environmental: model.EnvironmentReading{AmbientTemp: lo.ToPtr(4.0)}},
	})
	require.NotNil(t, cold)
	assert.InDelta(t, 4.0, *cold.AvgAmbientTemp, 1e-9, "zero reading dropped")
	assert.InDelta(t, -5.0, *cold.AvgTrackTemp, 1e-9)
	assert.Nil(t, cold.AvgEngineTemp)
}

func TestAnalyzeFuel(t *testing.T) {
	points := []model.PerformanceDataPoint{
		{FuelConsumption: lo.ToPtr(1.5)},
		{FuelConsumption: lo.ToPtr(2.5)},
		{},
	}
	got := AnalyzeFuel(points)
	assert.Equal(t, &FuelSummary{Total: 4, Average: 2, DataPoints: 2}, got)
	assert.Nil(t, AnalyzeFuel(nil))
}

func TestAnalyzeConsistency(t *testing.T) {
	assert.Nil(t, AnalyzeConsistency(laps(80, 81)))

	got := AnalyzeConsistency(laps(80, 82, 81))
	require.NotNil(t, got)
	sd := math.Sqrt(2.0 / 3.0)
	assert.InDelta(t, 81.0, got.Average, 1e-9)
	assert.InDelta(t, sd, got.StandardDeviation, 1e-9)
	assert.InDelta(t, (81-sd)/81*100, got.ConsistencyScore, 1e-9)
	assert.Equal(t, 3, got.LapCount)
}

func TestStdDev(t *testing.T) {
	assert.Zero(t, StdDev(nil))
	assert.Zero(t, StdDev([]float64{80}))
	assert.InDelta(t, 2.0, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
}

func TestFormatLapTime(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{81.5, "1:21.500"},
		{65.2, "1:05.200"},
		{59.9999, "1:00.000"},
		{42.123, "0:42.123"},
		{0, "N/A"},
		{-3, "N/A"},
		{math.NaN(), "N/A"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatLapTime(tt.in), "%v", tt.in)
	}
}

func TestSeries(t *testing.T) {
	points := []model.PerformanceDataPoint{
		{LapTime: lo.ToPtr(80.0), Engine: model.EngineReading{RPM: lo.ToPtr(6000.0)}},
		{Engine: model.EngineReading{Temperature: lo.ToPtr(190.0)}},
		{LapTime: lo.ToPtr(81.0), Engine: model.EngineReading{RPM: lo.ToPtr(6500.0), SparkAdvance: lo.ToPtr(28.0)}},
		pressures(lo.ToPtr(30.0), nil, nil, nil),
	}
	assert.Equal(t, []LapPoint{{1, 80}, {2, 81}}, LapSeries(points))
	assert.Equal(t, []EnginePoint{
		{DataPoint: 1, RPM: 6000},
		{DataPoint: 2, RPM: 6500, SparkAdvance: 28},
	}, EngineSeries(points))
	tires := TirePressureSeries(points)
	require.Len(t, tires, 1)
	assert.Equal(t, 1, tires[0].DataPoint)
	assert.InDelta(t, 30.0, *tires[0].FrontLeft, 1e-9)
}

func TestAnalyzeSessionSummary(t *testing.T) {
	s := &model.Session{Name: "Friday practice", TrackName: "Lucas Oil Raceway", TrackCondition: model.TrackDry}
	a := AnalyzeSession(s, laps(80, 82, 81))
	assert.Equal(t, 3, a.DataPoints)
	assert.Nil(t, a.Engine)
	summary := a.Summary()
	assert.Contains(t, summary, "Performance Analysis: Friday practice")
	assert.Contains(t, summary, "Best Lap: 1:20.000")
	assert.Contains(t, summary, "Average Lap: 1:21.000")
	assert.Contains(t, summary, "Total Laps: 3")
	assert.Contains(t, summary, "Consistency Score: 99.0%")

	empty := AnalyzeSession(&model.Session{Name: "empty"}, nil).Summary()
	assert.Contains(t, empty, "Best Lap: N/A")
	assert.Contains(t, empty, "Consistency Score: N/A")
}

func TestCompareSessions(t *testing.T) {
	data := []SessionData{
		{Session: model.Session{Name: "a"}, Points: laps(80, 81, 82)},
		{Session: model.Session{Name: "b"}, Points: laps(79, 80)},
		{Session: model.Session{Name: "c"}},
	}
	got := CompareSessions(data)
	require.Len(t, got, 3)
	assert.InDelta(t, 1.0, *got[0].GapToBest, 1e-9)
	assert.InDelta(t, 0.0, *got[1].GapToBest, 1e-9)
	assert.Nil(t, got[1].Consistency)
	assert.Nil(t, got[2].LapTimes)
	assert.Nil(t, got[2].GapToBest)
}
