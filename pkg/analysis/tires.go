package analysis

import (
	"github.com/montanaflynn/stats"

	"github.com/mpapenbr/racemetrics/pkg/model"
)

// TirePressureSummary holds the average pressure per corner.
// A corner without readings reports 0.
type TirePressureSummary struct {
	FrontLeft  float64 `json:"frontLeft"`
	FrontRight float64 `json:"frontRight"`
	RearLeft   float64 `json:"rearLeft"`
	RearRight  float64 `json:"rearRight"`
	// number of corners that had at least one reading
	Corners int `json:"corners"`
}

// Overall is the sum of the four corner averages divided by 4.
// Corners without readings count as 0 and pull the result down.
func (s *TirePressureSummary) Overall() (float64, bool) {
	if s == nil {
		return 0, false
	}
	return (s.FrontLeft + s.FrontRight + s.RearLeft + s.RearRight) / 4, true
}

// AnalyzeTirePressures returns nil if no data point has tire pressures.
func AnalyzeTirePressures(points []model.PerformanceDataPoint) *TirePressureSummary {
	var fl, fr, rl, rr []*float64
	found := false
	for i := range points {
		tp := points[i].TirePressures
		if tp.Empty() {
			continue
		}
		found = true
		fl = append(fl, tp.FrontLeft)
		fr = append(fr, tp.FrontRight)
		rl = append(rl, tp.RearLeft)
		rr = append(rr, tp.RearRight)
	}
	if !found {
		return nil
	}
	ret := &TirePressureSummary{}
	for _, c := range []struct {
		dst  *float64
		vals []*float64
	}{
		{&ret.FrontLeft, fl},
		{&ret.FrontRight, fr},
		{&ret.RearLeft, rl},
		{&ret.RearRight, rr},
	} {
		data := collect(c.vals, positive)
		if len(data) == 0 {
			continue
		}
		*c.dst, _ = stats.Mean(data)
		ret.Corners++
	}
	return ret
}
