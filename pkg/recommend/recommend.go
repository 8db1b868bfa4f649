// Package recommend turns session statistics into setup recommendations using
// a fixed sequence of threshold checks.
package recommend

import (
	"github.com/gofrs/uuid/v5"

	"github.com/mpapenbr/racemetrics/pkg/analysis"
	"github.com/mpapenbr/racemetrics/pkg/model"
)

// Suggestion is a generated recommendation before it is stored.
type Suggestion struct {
	Category       string         `json:"category"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Change         string         `json:"change,omitempty"`
	ExpectedImpact string         `json:"expectedImpact,omitempty"`
	Priority       model.Priority `json:"priority"`
	SessionID      *uuid.UUID     `json:"sessionId,omitempty"`
}

// thresholds used by the session rules
const (
	MaxLapSpread        = 0.05
	MinLapsForSpread    = 3 // more laps than this are needed
	MinTirePressure     = 28.0
	MaxTirePressure     = 35.0
	TrendSlowdownFactor = 1.02
	MaxLapStdDev        = 2.0
	MinSpeedRatio       = 1.5
)

// ForSession applies the per session rules to the logged data points.
func ForSession(points []model.PerformanceDataPoint) []Suggestion {
	ret := make([]Suggestion, 0)

	if l := analysis.AnalyzeLapTimes(points); l != nil &&
		l.Count > MinLapsForSpread && l.Spread() > MaxLapSpread {
		ret = append(ret, Suggestion{
			Category:    "consistency",
			Title:       "Lap time consistency",
			Description: "Lap times show high variance. Focus on consistent driving and setup.",
			Priority:    model.PriorityHigh,
		})
	}

	if avg, ok := analysis.AnalyzeTirePressures(points).Overall(); ok {
		switch {
		case avg < MinTirePressure:
			ret = append(ret, Suggestion{
				Category:    "tires",
				Title:       "Tire pressure",
				Description: "Consider increasing tire pressures for better handling.",
				Priority:    model.PriorityMedium,
			})
		case avg > MaxTirePressure:
			ret = append(ret, Suggestion{
				Category:    "tires",
				Title:       "Tire pressure",
				Description: "Consider reducing tire pressures for better grip.",
				Priority:    model.PriorityMedium,
			})
		}
	}
	return ret
}
