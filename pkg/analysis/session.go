package analysis

import (
	"fmt"
	"strings"

	"github.com/mpapenbr/racemetrics/pkg/model"
)

// SessionAnalysis bundles everything the analysis view shows for a session.
// Sections without data are nil.
type SessionAnalysis struct {
	Session       model.Session        `json:"session"`
	DataPoints    int                  `json:"dataPoints"`
	LapTimes      *LapTimeSummary      `json:"lapTimes"`
	TirePressures *TirePressureSummary `json:"tirePressures"`
	Engine        *EngineSummary       `json:"engine"`
	Temperatures  *TemperatureSummary  `json:"temperatures"`
	Fuel          *FuelSummary         `json:"fuel"`
	Consistency   *ConsistencySummary  `json:"consistency"`
	LapSeries     []LapPoint           `json:"lapSeries"`
	EngineSeries  []EnginePoint        `json:"engineSeries"`
	TireSeries    []TirePoint          `json:"tireSeries"`
}

func AnalyzeSession(s *model.Session, points []model.PerformanceDataPoint) *SessionAnalysis {
	return &SessionAnalysis{
		Session:       *s,
		DataPoints:    len(points),
		LapTimes:      AnalyzeLapTimes(points),
		TirePressures: AnalyzeTirePressures(points),
		Engine:        AnalyzeEngine(points),
		Temperatures:  AnalyzeTemperatures(points),
		Fuel:          AnalyzeFuel(points),
		Consistency:   AnalyzeConsistency(points),
		LapSeries:     LapSeries(points),
		EngineSeries:  EngineSeries(points),
		TireSeries:    TirePressureSeries(points),
	}
}

// Summary is the plain text report users copy into their notes.
func (a *SessionAnalysis) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Performance Analysis: %s\n", a.Session.Name)
	if a.Session.TrackName != "" {
		fmt.Fprintf(&b, "Track: %s (%s)\n", a.Session.TrackName, a.Session.TrackCondition)
	}
	best, avg, laps := 0.0, 0.0, 0
	if a.LapTimes != nil {
		best, avg, laps = a.LapTimes.Best, a.LapTimes.Average, a.LapTimes.Count
	}
	fmt.Fprintf(&b, "Best Lap: %s\n", FormatLapTime(best))
	fmt.Fprintf(&b, "Average Lap: %s\n", FormatLapTime(avg))
	fmt.Fprintf(&b, "Total Laps: %d\n", laps)
	if a.Consistency != nil {
		fmt.Fprintf(&b, "Consistency Score: %.1f%%\n", a.Consistency.ConsistencyScore)
	} else {
		b.WriteString("Consistency Score: N/A\n")
	}
	return b.String()
}
