package metrics

import "time"

// NeverGap is returned by DaysSincePositive when the event never happened.
// It is larger than any realistic threshold, so "gap >= N" holds without a
// special case.
const NeverGap = 10000

// Window returns the records dated on or after today-(n-1), in ascending date
// order. The window is anchored at today, not at the last logged date; a
// record dated after today is kept. n <= 0 yields an empty window.
func Window(records []Record, today time.Time, n int) []Record {
	if n <= 0 || len(records) == 0 {
		return nil
	}
	start := Day(today).AddDate(0, 0, -(n - 1))

	var out []Record
	for _, r := range SortByDate(records) {
		if Day(r.Date).Before(start) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Sum adds field f over records.
func Sum(records []Record, f Field) float64 {
	var total float64
	for _, r := range records {
		total += r.Value(f)
	}
	return total
}

// Mean averages field f over records. ok is false for an empty slice and the
// division is never attempted.
func Mean(records []Record, f Field) (mean float64, ok bool) {
	if len(records) == 0 {
		return 0, false
	}
	return Sum(records, f) / float64(len(records)), true
}

// DaysSincePositive returns the number of days between today and the latest
// record whose field is above zero, or NeverGap if there is none. A positive
// record dated after today counts as 0.
func DaysSincePositive(records []Record, today time.Time, f Field) int {
	var latest time.Time
	found := false
	for _, r := range records {
		if r.Value(f) <= 0 {
			continue
		}
		d := Day(r.Date)
		if !found || d.After(latest) {
			latest = d
			found = true
		}
	}
	if !found {
		return NeverGap
	}
	return max(DaysBetween(latest, today), 0)
}
