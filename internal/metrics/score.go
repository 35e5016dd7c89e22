package metrics

import (
	"math"
	"time"
)

// DominanceScore sums the capped-linear score terms over the trailing score
// window and rounds to one decimal. Each term contributes at most its weight,
// so the stock policy stays within [0, 100].
func DominanceScore(records []Record, today time.Time, p Policy) float64 {
	window := Window(records, today, p.Score.WindowDays)
	if len(window) == 0 {
		return 0
	}

	var score float64
	for _, term := range p.Score.Terms {
		if term.Cap <= 0 {
			continue
		}
		ratio := math.Min(Sum(window, term.Field)/term.Cap, 1)
		score += ratio * term.Weight
	}
	return math.Round(score*10) / 10
}
