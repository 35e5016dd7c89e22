package cli

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utopialog/internal/metrics"
)

type cliEnv struct {
	dir    string
	dbPath string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	return &cliEnv{dir: dir, dbPath: filepath.Join(dir, "utopia.db")}
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"--db", e.dbPath, "--policy", filepath.Join(e.dir, "policy.yaml")}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootRejectsUnknownFormat(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "--format", "xml", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestSeedSkipsExistingDays(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "seed", "--days", "10", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Seeded 10 day(s), skipped 0")

	out, err = env.run(t, "seed", "--days", "10", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Seeded 0 day(s), skipped 10")

	out, err = env.run(t, "--format", "json", "seed", "--days", "10", "--seed", "7", "--force")
	require.NoError(t, err)
	var resp map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 10, resp["written"])
	assert.Equal(t, 0, resp["skipped"])
}

func TestSeedRejectsNonPositiveDays(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "seed", "--days", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--days must be positive")
}

func TestStatusJSON(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "seed", "--days", "12", "--seed", "3")
	require.NoError(t, err)

	out, err := env.run(t, "--format", "json", "status")
	require.NoError(t, err)

	var resp struct {
		Report struct {
			DaysLogged int `json:"days_logged"`
			Streaks    []struct {
				Name string `json:"name"`
			} `json:"streaks"`
		} `json:"report"`
		State             metrics.State `json:"state"`
		EscalationMessage string        `json:"escalation_message"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 12, resp.Report.DaysLogged)
	assert.Len(t, resp.Report.Streaks, len(metrics.DefaultPredicates(metrics.DefaultPolicy())))
}

func TestStatusTextOnEmptyStore(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "PROJECT UTOPIA")
	assert.Contains(t, out, "CRITICAL")
	assert.Contains(t, out, "DAYS LOGGED")
	assert.Contains(t, out, "LOCKED")
}

func TestExportAndReimportCSV(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "seed", "--days", "5", "--seed", "11")
	require.NoError(t, err)

	exportPath := filepath.Join(env.dir, "out.csv")
	out, err := env.run(t, "export", "--out", exportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "5 records written")

	raw, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "date,cold_calls,"))

	out, err = env.run(t, "export")
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(string(raw)), strings.TrimSpace(out))

	fresh := newCLIEnv(t)
	out, err = fresh.run(t, "import", "--csv", exportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Imported 5 record(s)")

	out, err = fresh.run(t, "export")
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(string(raw)), strings.TrimSpace(out))
}

func TestExportBackupDir(t *testing.T) {
	env := newCLIEnv(t)

	backupDir := filepath.Join(env.dir, "backups")
	out, err := env.run(t, "export", "--dir", backupDir)
	require.NoError(t, err)
	assert.Contains(t, out, "backup written to")

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "mission_data-"))
}

func TestImportLegacyDir(t *testing.T) {
	env := newCLIEnv(t)

	legacy := filepath.Join(env.dir, "legacy")
	require.NoError(t, os.MkdirAll(legacy, 0o755))
	csv := "Date,Cold_Calls,Deep_Work_Hrs,Money_In\n2026-03-01,10,4,0\nbogus,1,1,1\n2026-03-02,12,5,1500\n"
	require.NoError(t, os.WriteFile(filepath.Join(legacy, "mission_data.csv"), []byte(csv), 0o644))

	out, err := env.run(t, "--format", "json", "import", "--dir", legacy)
	require.NoError(t, err)

	var summary struct {
		Records int `json:"records"`
		Dropped int `json:"dropped"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 2, summary.Records)
	assert.Equal(t, 1, summary.Dropped)
}

func TestImportNeedsExactlyOneSource(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "import")
	require.Error(t, err)

	_, err = env.run(t, "import", "--dir", env.dir, "--csv", "x.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of")
}

func TestGenerateRecords(t *testing.T) {
	today := time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC)
	records := GenerateRecords(today, 14, rand.New(rand.NewSource(42)))

	require.Len(t, records, 14)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), records[13].Date)

	for i, rec := range records {
		if i > 0 {
			assert.Equal(t, records[i-1].Date.AddDate(0, 0, 1), rec.Date)
		}
		assert.GreaterOrEqual(t, rec.DeepWorkHours, 0.0)
		assert.LessOrEqual(t, rec.DeepWorkHours, 7.0)
		assert.LessOrEqual(t, rec.SleepHours, 24.0)
		assert.GreaterOrEqual(t, rec.ColdCalls, 0)
		for _, ordinal := range []int{rec.Mood, rec.Confidence, rec.Aggression} {
			assert.True(t, ordinal >= 1 && ordinal <= 5, "ordinal out of range: %d", ordinal)
		}
	}

	again := GenerateRecords(today, 14, rand.New(rand.NewSource(42)))
	assert.Equal(t, records, again)
}
