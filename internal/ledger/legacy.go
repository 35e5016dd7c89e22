package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
)

// Legacy file names of the first dashboard.
const (
	LegacyRecordsFile    = "mission_data.csv"
	LegacyDirectivesFile = "todo_list.json"
	LegacyBooksFile      = "library_status.json"
	LegacyJournalFile    = "journal_entries.json"
)

// LegacyDirective is one entry of todo_list.json.
type LegacyDirective struct {
	Task string `json:"task"`
	Done bool   `json:"done"`
}

// LegacyBook is one value of library_status.json.
type LegacyBook struct {
	Status   string `json:"status"`
	Progress int    `json:"progress"`
}

// LegacyJournalEntry is one entry of journal_entries.json.
type LegacyJournalEntry struct {
	Time  string `json:"time"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// legacyTimeLayout is the minute-precision timestamp of journal entries.
const legacyTimeLayout = "2006-01-02 15:04"

// CreatedAt parses the entry time. Unparsable values yield the zero time.
func (e LegacyJournalEntry) CreatedAt(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(legacyTimeLayout, strings.TrimSpace(e.Time), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ReadLegacyDirectives loads todo_list.json. A missing or corrupt file is an
// empty list.
func ReadLegacyDirectives(path string) ([]LegacyDirective, error) {
	return readLegacyJSON[[]LegacyDirective](path)
}

// ReadLegacyBooks loads library_status.json. A missing or corrupt file is an
// empty map.
func ReadLegacyBooks(path string) (map[string]LegacyBook, error) {
	books, err := readLegacyJSON[map[string]LegacyBook](path)
	if books == nil {
		books = map[string]LegacyBook{}
	}
	return books, err
}

// ReadLegacyJournal loads journal_entries.json, newest first as stored.
func ReadLegacyJournal(path string) ([]LegacyJournalEntry, error) {
	return readLegacyJSON[[]LegacyJournalEntry](path)
}

// readLegacyJSON returns the zero value when the file is absent or does not
// decode. Only unexpected read errors are returned.
func readLegacyJSON[T any](path string) (T, error) {
	var zero T
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zero, nil
		}
		return zero, fmt.Errorf("read %s: %w", path, err)
	}

	var decoded T
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return zero, nil
	}
	return decoded, nil
}
