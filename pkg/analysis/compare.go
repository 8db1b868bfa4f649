package analysis

import (
	"github.com/samber/lo"

	"github.com/mpapenbr/racemetrics/pkg/model"
)

type SessionData struct {
	Session model.Session
	Points  []model.PerformanceDataPoint
}

type SessionComparison struct {
	SessionID   string              `json:"sessionId"`
	Name        string              `json:"name"`
	LapTimes    *LapTimeSummary     `json:"lapTimes"`
	Consistency *ConsistencySummary `json:"consistency"`
	AvgPressure *float64            `json:"avgTirePressure"`
	// difference of this session's best lap to the best lap of all sessions
	GapToBest *float64 `json:"gapToBest"`
}

// CompareSessions summarizes sessions side by side in the given order.
func CompareSessions(data []SessionData) []SessionComparison {
	ret := lo.Map(data, func(d SessionData, _ int) SessionComparison {
		c := SessionComparison{
			SessionID:   d.Session.ID.String(),
			Name:        d.Session.Name,
			LapTimes:    AnalyzeLapTimes(d.Points),
			Consistency: AnalyzeConsistency(d.Points),
		}
		if avg, ok := AnalyzeTirePressures(d.Points).Overall(); ok {
			c.AvgPressure = &avg
		}
		return c
	})
	withLaps := lo.Filter(ret, func(c SessionComparison, _ int) bool { return c.LapTimes != nil })
	if len(withLaps) == 0 {
		return ret
	}
	overall := lo.MinBy(withLaps, func(a, b SessionComparison) bool {
		return a.LapTimes.Best < b.LapTimes.Best
	}).LapTimes.Best
	for i := range ret {
		if ret[i].LapTimes != nil {
			gap := ret[i].LapTimes.Best - overall
			ret[i].GapToBest = &gap
		}
	}
	return ret
}
