package metrics

import "time"

// Locks are the two view gates.
type Locks struct {
	Dashboard bool `json:"dashboard_locked"`
	Arsenal   bool `json:"arsenal_locked"`
}

// DashboardGate is the per-day condition yesterday must meet to open the
// command view.
func DashboardGate(p Policy) Predicate {
	return func(r Record) bool {
		return r.DeepWorkHours >= p.Locks.DashboardMinDeepWork && r.ColdCalls >= p.Locks.DashboardMinColdCalls
	}
}

// DashboardLocked reports whether the command view is withheld. A missing log
// for yesterday counts as a failed day, as does an empty store.
func DashboardLocked(records []Record, today time.Time, p Policy) bool {
	if len(records) == 0 {
		return true
	}
	yesterday, ok := lastByDate(records)[Day(today).AddDate(0, 0, -1)]
	if !ok {
		return true
	}
	return !DashboardGate(p)(yesterday)
}

// ArsenalLocked reports whether the reading view is withheld because nothing
// was read for too long.
func ArsenalLocked(records []Record, today time.Time, p Policy) bool {
	return DaysSincePositive(records, today, FieldReadingPages) >= p.Locks.ArsenalMaxGapDays
}

// EvaluateLocks computes both gates.
func EvaluateLocks(records []Record, today time.Time, p Policy) Locks {
	return Locks{
		Dashboard: DashboardLocked(records, today, p),
		Arsenal:   ArsenalLocked(records, today, p),
	}
}
