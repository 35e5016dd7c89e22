package metrics

import "time"

// Gap is the day count since a field was last positive.
type Gap struct {
	Field Field `json:"field"`
	Days  int   `json:"days"`
	Never bool  `json:"never"`
}

// Report is everything the presentation layer shows, computed in one pass.
type Report struct {
	Today          time.Time     `json:"today"`
	Assessment     Assessment    `json:"assessment"`
	DominanceScore float64       `json:"dominance_score"`
	ProjectedTotal int           `json:"projected_total"`
	Streaks        []StreakCount `json:"streaks"`
	Gaps           []Gap         `json:"gaps"`
	Locks          Locks         `json:"locks"`
	Escalation     Tier          `json:"escalation_tier"`
	Finance        Finance       `json:"finance"`
	WinRate        float64       `json:"win_rate"`
	LastLog        *Record       `json:"last_log,omitempty"`
	DaysLogged     int           `json:"days_logged"`
}

// GapFields are the fields whose recency is reported.
var GapFields = []Field{FieldMoneyIn, FieldColdCalls, FieldWorkout, FieldReadingPages}

// Evaluate recomputes the full report from a snapshot.
func Evaluate(records []Record, today time.Time, p Policy) Report {
	today = Day(today)
	r := Report{
		Today:          today,
		Assessment:     Assess(records, today, p),
		DominanceScore: DominanceScore(records, today, p),
		ProjectedTotal: ProjectedYearEnd(records, today, p),
		Streaks:        Streaks(records, DefaultPredicates(p)),
		Locks:          EvaluateLocks(records, today, p),
		Escalation:     Escalation(records, today, p),
		Finance:        Finances(records, today, p),
		WinRate:        WinRate(records, p),
		DaysLogged:     len(uniqueDays(records)),
	}
	for _, f := range GapFields {
		days := DaysSincePositive(records, today, f)
		r.Gaps = append(r.Gaps, Gap{Field: f, Days: days, Never: days >= NeverGap})
	}
	if last, ok := Latest(records); ok {
		r.LastLog = &last
	}
	return r
}
