// Package metrics computes streaks, windows, scores, projections and lock
// predicates over the daily record table.
//
// Every function here is a pure function of a record snapshot, the current
// calendar date and a Policy. Nothing is cached between calls.
package metrics

import (
	"sort"
	"time"
)

// DateLayout is the storage format of a record date.
const DateLayout = "2006-01-02"

// Record is one day of self-reported activity.
type Record struct {
	Date          time.Time `json:"date"`
	ColdCalls     int       `json:"cold_calls"`
	DeepWorkHours float64   `json:"deep_work_hours"`
	Calories      int       `json:"calories"`
	WorkoutDone   bool      `json:"workout_done"`
	MoneyIn       float64   `json:"money_in"`
	SleepHours    float64   `json:"sleep_hours"`
	ReadingPages  int       `json:"reading_pages"`
	Mood          int       `json:"mood"`
	Confidence    int       `json:"confidence"`
	Aggression    int       `json:"aggression"`
	Notes         string    `json:"notes"`
}

// Field names a numeric column of Record.
type Field string

const (
	FieldColdCalls    Field = "cold_calls"
	FieldDeepWork     Field = "deep_work_hours"
	FieldCalories     Field = "calories"
	FieldWorkout      Field = "workout_done"
	FieldMoneyIn      Field = "money_in"
	FieldSleep        Field = "sleep_hours"
	FieldReadingPages Field = "reading_pages"
	FieldMood         Field = "mood"
	FieldConfidence   Field = "confidence"
	FieldAggression   Field = "aggression"
)

// Fields lists every numeric field in schema order.
var Fields = []Field{
	FieldColdCalls, FieldDeepWork, FieldCalories, FieldWorkout, FieldMoneyIn,
	FieldSleep, FieldReadingPages, FieldMood, FieldConfidence, FieldAggression,
}

// Value returns the numeric value of f. Booleans read as 0/1 and unknown
// fields as 0.
func (r Record) Value(f Field) float64 {
	switch f {
	case FieldColdCalls:
		return float64(r.ColdCalls)
	case FieldDeepWork:
		return r.DeepWorkHours
	case FieldCalories:
		return float64(r.Calories)
	case FieldWorkout:
		if r.WorkoutDone {
			return 1
		}
		return 0
	case FieldMoneyIn:
		return r.MoneyIn
	case FieldSleep:
		return r.SleepHours
	case FieldReadingPages:
		return float64(r.ReadingPages)
	case FieldMood:
		return float64(r.Mood)
	case FieldConfidence:
		return float64(r.Confidence)
	case FieldAggression:
		return float64(r.Aggression)
	default:
		return 0
	}
}

// Day truncates t to its calendar date, expressed as midnight UTC so that day
// arithmetic never crosses a DST boundary.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// DaysBetween returns the whole number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// SortByDate returns a copy of records in ascending date order. Records that
// share a date keep their input order.
func SortByDate(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return Day(out[i].Date).Before(Day(out[j].Date))
	})
	return out
}

// Latest returns the most recent record, preferring the last one written for
// the latest date. ok is false for an empty table.
func Latest(records []Record) (Record, bool) {
	if len(records) == 0 {
		return Record{}, false
	}
	sorted := SortByDate(records)
	return sorted[len(sorted)-1], true
}

// lastByDate maps each calendar date to the last record written for it.
func lastByDate(records []Record) map[time.Time]Record {
	byDate := make(map[time.Time]Record, len(records))
	for _, r := range records {
		byDate[Day(r.Date)] = r
	}
	return byDate
}
