// Package ledger converts between stored rows, flat files and engine records.
package ledger

import (
	"math"
	"strconv"
	"strings"

	"github.com/utopialog/internal/db"
	"github.com/utopialog/internal/metrics"
)

// Column names of the current CSV schema, in file order.
const (
	ColDate          = "date"
	ColColdCalls     = "cold_calls"
	ColDeepWorkHours = "deep_work_hours"
	ColCalories      = "calories"
	ColWorkoutDone   = "workout_done"
	ColMoneyIn       = "money_in"
	ColSleepHours    = "sleep_hours"
	ColReadingPages  = "reading_pages"
	ColMood          = "mood"
	ColConfidence    = "confidence"
	ColAggression    = "aggression"
	ColNotes         = "notes"
)

// Header is the column order written by WriteCSV.
var Header = []string{
	ColDate, ColColdCalls, ColDeepWorkHours, ColCalories, ColWorkoutDone, ColMoneyIn,
	ColSleepHours, ColReadingPages, ColMood, ColConfidence, ColAggression, ColNotes,
}

// legacyColumns maps headers of the first file format onto current names.
var legacyColumns = map[string]string{
	"deep_work_hrs": ColDeepWorkHours,
	"workouts":      ColWorkoutDone,
	"sleep_hrs":     ColSleepHours,
}

// NormalizeColumn lowercases a header and maps legacy names onto the current
// schema.
func NormalizeColumn(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, " ", "_")
	if mapped, ok := legacyColumns[key]; ok {
		return mapped
	}
	return key
}

// EnsureSchema turns a loosely typed row into a record. Keys may use legacy or
// current names in any case. Missing or malformed numbers become 0, as do
// infinities, counts too large for an int and hour fields above 24. Missing
// text becomes empty and ordinal scores outside 1–5 become 0. ok is false
// only when the date does not parse, in which case the row must be dropped.
//
// Applying EnsureSchema to the output of Row gives back the same record.
func EnsureSchema(row map[string]string) (rec metrics.Record, ok bool) {
	fields := make(map[string]string, len(row))
	for k, v := range row {
		fields[NormalizeColumn(k)] = strings.TrimSpace(v)
	}

	date, err := metrics.ParseDate(firstDate(fields[ColDate]))
	if err != nil {
		return metrics.Record{}, false
	}

	rec = metrics.Record{
		Date:          date,
		ColdCalls:     parseCount(fields[ColColdCalls]),
		DeepWorkHours: clampHours(parseAmount(fields[ColDeepWorkHours])),
		Calories:      parseCount(fields[ColCalories]),
		WorkoutDone:   parseFlag(fields[ColWorkoutDone]),
		MoneyIn:       parseAmount(fields[ColMoneyIn]),
		SleepHours:    clampHours(parseAmount(fields[ColSleepHours])),
		ReadingPages:  parseCount(fields[ColReadingPages]),
		Mood:          parseOrdinal(fields[ColMood]),
		Confidence:    parseOrdinal(fields[ColConfidence]),
		Aggression:    parseOrdinal(fields[ColAggression]),
		Notes:         fields[ColNotes],
	}
	return rec, true
}

// Row renders a record with the current column names.
func Row(rec metrics.Record) map[string]string {
	workout := "0"
	if rec.WorkoutDone {
		workout = "1"
	}
	return map[string]string{
		ColDate:          rec.Date.Format(metrics.DateLayout),
		ColColdCalls:     strconv.Itoa(rec.ColdCalls),
		ColDeepWorkHours: formatAmount(rec.DeepWorkHours),
		ColCalories:      strconv.Itoa(rec.Calories),
		ColWorkoutDone:   workout,
		ColMoneyIn:       formatAmount(rec.MoneyIn),
		ColSleepHours:    formatAmount(rec.SleepHours),
		ColReadingPages:  strconv.Itoa(rec.ReadingPages),
		ColMood:          strconv.Itoa(rec.Mood),
		ColConfidence:    strconv.Itoa(rec.Confidence),
		ColAggression:    strconv.Itoa(rec.Aggression),
		ColNotes:         rec.Notes,
	}
}

// FromModel converts a stored row. Rows whose date fails to parse are
// reported with ok=false. Out-of-range values are coerced as EnsureSchema does.
func FromModel(m db.DailyRecord) (rec metrics.Record, ok bool) {
	date, err := metrics.ParseDate(strings.TrimSpace(m.Date))
	if err != nil {
		return metrics.Record{}, false
	}
	return metrics.Record{
		Date:          date,
		ColdCalls:     max(m.ColdCalls, 0),
		DeepWorkHours: clampHours(m.DeepWorkHours),
		Calories:      max(m.Calories, 0),
		WorkoutDone:   m.WorkoutDone,
		MoneyIn:       nonNegative(m.MoneyIn),
		SleepHours:    clampHours(m.SleepHours),
		ReadingPages:  max(m.ReadingPages, 0),
		Mood:          clampOrdinal(m.Mood),
		Confidence:    clampOrdinal(m.Confidence),
		Aggression:    clampOrdinal(m.Aggression),
		Notes:         m.Notes,
	}, true
}

// ToModel converts a record into a row ready for upsert.
func ToModel(rec metrics.Record) db.DailyRecord {
	return db.DailyRecord{
		Date:          rec.Date.Format(metrics.DateLayout),
		ColdCalls:     rec.ColdCalls,
		DeepWorkHours: rec.DeepWorkHours,
		Calories:      rec.Calories,
		WorkoutDone:   rec.WorkoutDone,
		MoneyIn:       rec.MoneyIn,
		SleepHours:    rec.SleepHours,
		ReadingPages:  rec.ReadingPages,
		Mood:          rec.Mood,
		Confidence:    rec.Confidence,
		Aggression:    rec.Aggression,
		Notes:         rec.Notes,
	}
}

// FromModels converts stored rows and returns how many were dropped.
func FromModels(rows []db.DailyRecord) (records []metrics.Record, dropped int) {
	records = make([]metrics.Record, 0, len(rows))
	for _, row := range rows {
		rec, ok := FromModel(row)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	return records, dropped
}

// firstDate accepts "2026-01-02" as well as timestamps such as
// "2026-01-02 00:00:00" that spreadsheet tools tend to write.
func firstDate(raw string) string {
	if len(raw) > len(metrics.DateLayout) {
		if i := strings.IndexAny(raw, " T"); i == len(metrics.DateLayout) {
			return raw[:i]
		}
	}
	return raw
}

func parseCount(raw string) int {
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return max(n, 0)
	}
	// Spreadsheet exports write integers as "12.0".
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || f <= 0 || f >= math.MaxInt {
		return 0
	}
	return int(f)
}

func parseAmount(raw string) float64 {
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return nonNegative(f)
}

func parseFlag(raw string) bool {
	switch strings.ToLower(raw) {
	case "1", "1.0", "true", "yes", "y":
		return true
	default:
		return false
	}
}

func parseOrdinal(raw string) int {
	return clampOrdinal(parseCount(raw))
}

func clampOrdinal(n int) int {
	if n < 1 || n > 5 {
		return 0
	}
	return n
}

func nonNegative(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// MaxHours bounds the hour fields of a single day.
const MaxHours = 24

func clampHours(f float64) float64 {
	f = nonNegative(f)
	if f > MaxHours {
		return 0
	}
	return f
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
