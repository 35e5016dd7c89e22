package metrics

import "time"

// ProjectedYearEnd extrapolates total revenue to the policy horizon using the
// mean daily revenue of the trailing projection window. It is a plain linear
// extrapolation, not a fitted trend.
func ProjectedYearEnd(records []Record, today time.Time, p Policy) int {
	if len(records) == 0 {
		return 0
	}
	total := Sum(records, FieldMoneyIn)

	dailyAvg, ok := Mean(Window(records, today, p.Projection.WindowDays), FieldMoneyIn)
	if !ok {
		return int(total)
	}

	remaining := max(DaysBetween(today, p.HorizonFor(today)), 0)
	return int(total + dailyAvg*float64(remaining))
}

// Finance summarizes progress toward the money goal.
type Finance struct {
	Total         float64 `json:"total"`
	Goal          float64 `json:"goal"`
	Currency      string  `json:"currency"`
	Remaining     float64 `json:"remaining"`
	Progress      float64 `json:"progress"`
	DaysRemaining int     `json:"days_remaining"`
	DailyTarget   float64 `json:"daily_target"`
	MissionDay    int     `json:"mission_day"`
}

// Finances computes goal progress and the daily revenue required to reach
// the goal by the horizon.
func Finances(records []Record, today time.Time, p Policy) Finance {
	total := Sum(records, FieldMoneyIn)
	f := Finance{
		Total:         total,
		Goal:          p.Goal.Amount,
		Currency:      p.Goal.Currency,
		Remaining:     max(p.Goal.Amount-total, 0),
		DaysRemaining: max(DaysBetween(today, p.HorizonFor(today)), 0),
		MissionDay:    1,
	}
	if p.Goal.Amount > 0 {
		f.Progress = min(total/p.Goal.Amount, 1)
	}
	if f.DaysRemaining > 0 {
		f.DailyTarget = f.Remaining / float64(f.DaysRemaining)
	}
	if !p.Goal.StartDate.IsZero() {
		f.MissionDay = max(DaysBetween(p.Goal.StartDate, today), 1)
	}
	return f
}

// WinRate is the percentage of logged days with any meaningful activity:
// enough deep work, at least one call, or a workout.
func WinRate(records []Record, p Policy) float64 {
	if len(records) == 0 {
		return 0
	}
	active := 0
	for _, r := range records {
		if r.DeepWorkHours >= p.Goal.ActiveMinDeepWork || r.ColdCalls > 0 || r.WorkoutDone {
			active++
		}
	}
	return float64(active) / float64(len(records)) * 100
}
