package recommend

import (
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/samber/lo"

	"github.com/mpapenbr/racemetrics/pkg/analysis"
	"github.com/mpapenbr/racemetrics/pkg/model"
)

// SessionResult is the condensed outcome of one session of a car.
type SessionResult struct {
	SessionID uuid.UUID
	BestLap   float64
	LapTimes  []float64
	TopSpeed  *float64
}

// ForCar compares the latest session (last element) with the previous ones.
// At least two sessions are needed.
func ForCar(specs *model.CarSpecs, sessions []SessionResult) []Suggestion {
	ret := make([]Suggestion, 0)
	if len(sessions) < 2 {
		return ret
	}
	if specs == nil {
		specs = &model.CarSpecs{}
	}
	latest := sessions[len(sessions)-1]
	previous := sessions[:len(sessions)-1]
	sessionID := lo.ToPtr(latest.SessionID)

	prevAvg := lo.SumBy(previous, func(s SessionResult) float64 { return s.BestLap }) /
		float64(len(previous))
	if latest.BestLap > prevAvg*TrendSlowdownFactor {
		ret = append(ret,
			suspensionSuggestion(specs, sessionID),
			tireSuggestion(specs, sessionID))
	}

	if analysis.StdDev(latest.LapTimes) > MaxLapStdDev {
		ret = append(ret, Suggestion{
			Category:       "suspension",
			Title:          "Improve Consistency",
			Description:    "High lap time variance indicates potential handling issues",
			Change:         "Review shock dampening settings and alignment",
			ExpectedImpact: "More consistent lap times and better driver confidence",
			Priority:       model.PriorityMedium,
			SessionID:      sessionID,
		})
	}

	if latest.TopSpeed != nil && *latest.TopSpeed > 0 && latest.BestLap > 0 {
		speedRatio := *latest.TopSpeed / (latest.BestLap * 10)
		if speedRatio < MinSpeedRatio {
			ret = append(ret, engineSuggestion(specs, sessionID))
		}
	}
	return ret
}

func suspensionSuggestion(specs *model.CarSpecs, id *uuid.UUID) Suggestion {
	change := "Consider softening the front springs by 25 lb/in"
	if rate := specs.Suspension.FrontSpringRate; rate != nil {
		change = fmt.Sprintf("Consider adjusting spring rates: Front from %g to %g lb/in",
			*rate, *rate-25)
	}
	return Suggestion{
		Category:       "suspension",
		Title:          "Optimize Suspension Setup",
		Description:    "Recent lap times suggest the suspension setup could be improved for better handling",
		Change:         change,
		ExpectedImpact: "Better cornering speed and 0.2-0.5 second lap time improvement",
		Priority:       model.PriorityHigh,
		SessionID:      id,
	}
}

func tireSuggestion(specs *model.CarSpecs, id *uuid.UUID) Suggestion {
	change := "Consider raising the front tire pressures by 2 PSI"
	if p := specs.Wheels.FrontTirePressure; p != nil {
		change = fmt.Sprintf("Adjust tire pressures: Front from %g to %g PSI", *p, *p+2)
	}
	return Suggestion{
		Category:       "wheels",
		Title:          "Adjust Tire Pressures",
		Description:    "Tire performance analysis suggests pressure optimization needed",
		Change:         change,
		ExpectedImpact: "Improved tire contact patch and better grip",
		Priority:       model.PriorityMedium,
		SessionID:      id,
	}
}

func engineSuggestion(specs *model.CarSpecs, id *uuid.UUID) Suggestion {
	change := "Consider advancing the ignition timing by 2°"
	if t := specs.Engine.IgnitionTiming; t != nil {
		change = fmt.Sprintf("Consider advancing timing from %g° to %g° BTDC", *t, *t+2)
	}
	return Suggestion{
		Category:       "engine",
		Title:          "Optimize Engine Performance",
		Description:    "Power-to-weight ratio suggests engine tuning opportunities",
		Change:         change,
		ExpectedImpact: "Increased power output and better acceleration",
		Priority:       model.PriorityLow,
		SessionID:      id,
	}
}
