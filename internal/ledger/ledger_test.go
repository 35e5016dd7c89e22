package ledger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utopialog/internal/db"
	"github.com/utopialog/internal/metrics"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEnsureSchemaLegacyRow(t *testing.T) {
	rec, ok := EnsureSchema(map[string]string{
		"Date":          "2026-02-03",
		"Cold_Calls":    "12",
		"Deep_Work_Hrs": "4.5",
		"Calories":      "2400.0",
		"Workouts":      "1",
		"Money_In":      "1500",
		"Sleep_Hrs":     "",
		"Reading_Pages": "abc",
		"Notes":         "  closed the gym deal ",
	})
	require.True(t, ok)

	want := metrics.Record{
		Date:          day(2026, 2, 3),
		ColdCalls:     12,
		DeepWorkHours: 4.5,
		Calories:      2400,
		WorkoutDone:   true,
		MoneyIn:       1500,
		Notes:         "closed the gym deal",
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Fatalf("unexpected record (-want +got):\n%s", diff)
	}
}

func TestEnsureSchemaDefaultsAndClamps(t *testing.T) {
	rec, ok := EnsureSchema(map[string]string{
		"date":       "2026-02-03 00:00:00",
		"money_in":   "-40",
		"mood":       "9",
		"confidence": "4",
		"aggression": "-1",
	})
	require.True(t, ok)
	assert.Equal(t, day(2026, 2, 3), rec.Date)
	assert.Zero(t, rec.MoneyIn)
	assert.Zero(t, rec.Mood)
	assert.Equal(t, 4, rec.Confidence)
	assert.Zero(t, rec.Aggression)
	assert.Empty(t, rec.Notes)
}

func TestEnsureSchemaCoercesOutOfRangeNumbers(t *testing.T) {
	rec, ok := EnsureSchema(map[string]string{
		"Date":          "2026-02-03",
		"Cold_Calls":    "inf",
		"Calories":      "NaN",
		"Money_In":      "Infinity",
		"Reading_Pages": "1e30",
		"Deep_Work_Hrs": "25",
		"Sleep_Hrs":     "30",
		"Mood":          "+Inf",
	})
	require.True(t, ok)
	assert.Equal(t, metrics.Record{Date: day(2026, 2, 3)}, rec)

	rec, ok = EnsureSchema(map[string]string{"Date": "2026-02-03", "Sleep_Hrs": "24", "Cold_Calls": "12.0"})
	require.True(t, ok)
	assert.Equal(t, 24.0, rec.SleepHours)
	assert.Equal(t, 12, rec.ColdCalls)
}

func TestFromModelCoercesHours(t *testing.T) {
	rec, ok := FromModel(db.DailyRecord{Date: "2026-02-03", SleepHours: 30, DeepWorkHours: 5})
	require.True(t, ok)
	assert.Zero(t, rec.SleepHours)
	assert.Equal(t, 5.0, rec.DeepWorkHours)
}

func TestEnsureSchemaRejectsBadDates(t *testing.T) {
	for _, raw := range []string{"", "yesterday", "2026-13-01", "03/02/2026"} {
		_, ok := EnsureSchema(map[string]string{"Date": raw, "Cold_Calls": "5"})
		assert.False(t, ok, raw)
	}
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	first, ok := EnsureSchema(map[string]string{
		"Date": "2026-02-03", "Deep_Work_Hrs": "2.25", "Workouts": "true", "Mood": "3", "Notes": "x",
	})
	require.True(t, ok)

	second, ok := EnsureSchema(Row(first))
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestReadCSVDropsUnparsableRows(t *testing.T) {
	input := strings.Join([]string{
		"Date,Cold_Calls,Deep_Work_Hrs,Calories,Workouts,Money_In,Sleep_Hrs,Reading_Pages,Notes",
		"2026-01-01,10,4,2000,1,0,7,20,first",
		"not-a-date,99,9,0,1,0,0,0,broken",
		"2026-01-02,5,2.5,1800,0,250,6.5,0,",
		"2026-01-02,7,3,1800,0,300,6.5,0,resubmitted",
	}, "\n")

	result, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Dropped)
	require.Len(t, result.Records, 3)
	assert.Equal(t, "resubmitted", result.Records[2].Notes)
	assert.Equal(t, 300.0, result.Records[2].MoneyIn)
}

func TestReadCSVEmpty(t *testing.T) {
	result, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, result.Records)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	records := []metrics.Record{
		{Date: day(2026, 1, 5), MoneyIn: 99.5, Mood: 4, Notes: "comma, inside"},
		{Date: day(2026, 1, 4), ColdCalls: 3, WorkoutDone: true},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))
	assert.True(t, strings.HasPrefix(buf.String(), strings.Join(Header, ",")+"\n"))

	result, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Zero(t, result.Dropped)
	if diff := cmp.Diff(metrics.SortByDate(records), result.Records); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFromModels(t *testing.T) {
	rows := []db.DailyRecord{
		{Date: "2026-01-01", ColdCalls: -3, DeepWorkHours: 3, Mood: 7},
		{Date: "garbage"},
		{Date: " 2026-01-02 ", Notes: "ok"},
	}

	records, dropped := FromModels(rows)
	assert.Equal(t, 1, dropped)
	require.Len(t, records, 2)
	assert.Zero(t, records[0].ColdCalls)
	assert.Zero(t, records[0].Mood)
	assert.Equal(t, day(2026, 1, 2), records[1].Date)

	model := ToModel(records[1])
	assert.Equal(t, "2026-01-02", model.Date)
	assert.Equal(t, "ok", model.Notes)
}

func TestLegacyJSON(t *testing.T) {
	dir := t.TempDir()

	todos := filepath.Join(dir, LegacyDirectivesFile)
	require.NoError(t, os.WriteFile(todos, []byte(`[{"task":"Call TDT","done":false},{"task":"Scrape leads","done":true}]`), 0o644))
	directives, err := ReadLegacyDirectives(todos)
	require.NoError(t, err)
	require.Len(t, directives, 2)
	assert.True(t, directives[1].Done)

	books := filepath.Join(dir, LegacyBooksFile)
	require.NoError(t, os.WriteFile(books, []byte(`{not json`), 0o644))
	bookMap, err := ReadLegacyBooks(books)
	require.NoError(t, err)
	assert.Empty(t, bookMap)

	journal, err := ReadLegacyJournal(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, journal)

	entry := LegacyJournalEntry{Time: "2026-02-01 21:30"}
	assert.Equal(t, time.Date(2026, 2, 1, 21, 30, 0, 0, time.UTC), entry.CreatedAt(time.UTC))
	assert.True(t, LegacyJournalEntry{Time: "soon"}.CreatedAt(time.UTC).IsZero())
}
