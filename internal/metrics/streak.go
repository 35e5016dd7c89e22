package metrics

import (
	"sort"
	"time"
)

// Predicate decides whether a single day counts toward a streak.
type Predicate func(Record) bool

// NamedPredicate pairs a predicate with the label shown next to its streak.
type NamedPredicate struct {
	Name  string
	Check Predicate
}

// StreakCount is the current and best run for one predicate.
type StreakCount struct {
	Name    string `json:"name"`
	Current int    `json:"current"`
	Longest int    `json:"longest"`
}

// Streak counts consecutive logged calendar days, walking back from the
// latest logged date, that satisfy pred. A day with no record breaks the run
// just like a failing day does. When a date has several records the last one
// written is evaluated.
func Streak(records []Record, pred Predicate) int {
	days := uniqueDays(records)
	if len(days) == 0 {
		return 0
	}
	byDate := lastByDate(records)

	count := 0
	expected := days[len(days)-1]
	for i := len(days) - 1; i >= 0; i-- {
		if !days[i].Equal(expected) {
			break
		}
		if !pred(byDate[days[i]]) {
			break
		}
		count++
		expected = expected.AddDate(0, 0, -1)
	}
	return count
}

// LongestStreak returns the longest run of consecutive calendar days anywhere
// in the history that all satisfy pred.
func LongestStreak(records []Record, pred Predicate) int {
	days := uniqueDays(records)
	byDate := lastByDate(records)

	longest, current := 0, 0
	var prev time.Time
	for _, d := range days {
		if !pred(byDate[d]) {
			current = 0
			continue
		}
		if current > 0 && DaysBetween(prev, d) == 1 {
			current++
		} else {
			current = 1
		}
		prev = d
		if current > longest {
			longest = current
		}
	}
	return longest
}

// Streaks evaluates each named predicate.
func Streaks(records []Record, preds []NamedPredicate) []StreakCount {
	out := make([]StreakCount, 0, len(preds))
	for _, np := range preds {
		out = append(out, StreakCount{
			Name:    np.Name,
			Current: Streak(records, np.Check),
			Longest: LongestStreak(records, np.Check),
		})
	}
	return out
}

// DefaultPredicates returns the streaks tracked on the command tab.
func DefaultPredicates(p Policy) []NamedPredicate {
	return []NamedPredicate{
		{Name: "discipline", Check: DashboardGate(p)},
		{Name: "deep_work", Check: func(r Record) bool { return r.DeepWorkHours >= p.Locks.DashboardMinDeepWork }},
		{Name: "cold_calls", Check: func(r Record) bool { return r.ColdCalls >= p.Locks.DashboardMinColdCalls }},
		{Name: "workout", Check: func(r Record) bool { return r.WorkoutDone }},
		{Name: "reading", Check: func(r Record) bool { return r.ReadingPages > 0 }},
		{Name: "revenue", Check: func(r Record) bool { return r.MoneyIn > 0 }},
	}
}

func uniqueDays(records []Record) []time.Time {
	seen := make(map[time.Time]struct{}, len(records))
	days := make([]time.Time, 0, len(records))
	for _, r := range records {
		d := Day(r.Date)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}
