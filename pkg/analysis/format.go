package analysis

import (
	"fmt"
	"math"
)

// FormatLapTime renders seconds as m:ss.sss, e.g. 81.5 -> "1:21.500".
func FormatLapTime(seconds float64) string {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "N/A"
	}
	minutes := math.Floor(seconds / 60)
	rest := seconds - minutes*60
	s := fmt.Sprintf("%06.3f", rest)
	// rounding may carry into the next minute
	if s == "60.000" {
		minutes++
		s = "00.000"
	}
	return fmt.Sprintf("%d:%s", int(minutes), s)
}
