package service

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/utopialog/internal/ledger"
	"github.com/utopialog/internal/logger"
)

// backupTimeLayout names backup files so they sort chronologically.
const backupTimeLayout = "20060102-150405"

// ImportSummary counts what an import wrote.
type ImportSummary struct {
	Records        int `json:"records"`
	Dropped        int `json:"dropped"`
	Directives     int `json:"directives"`
	Books          int `json:"books"`
	JournalEntries int `json:"journal_entries"`
}

// BackupService moves the stores to and from flat files.
type BackupService struct {
	records    *RecordService
	directives *DirectiveService
	reading    *ReadingService
	journal    *JournalService
	loc        *time.Location
	log        *logger.Logger
}

func NewBackupService(records *RecordService, directives *DirectiveService, reading *ReadingService, journal *JournalService, loc *time.Location, log *logger.Logger) *BackupService {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logger.Nop()
	}
	return &BackupService{
		records:    records,
		directives: directives,
		reading:    reading,
		journal:    journal,
		loc:        loc,
		log:        log,
	}
}

// ExportCSV writes the record store to w and returns the row count.
func (s *BackupService) ExportCSV(w io.Writer) (int, error) {
	records, _, err := s.records.Snapshot()
	if err != nil {
		return 0, err
	}
	if err := ledger.WriteCSV(w, records); err != nil {
		return 0, fmt.Errorf("write csv: %w", err)
	}
	return len(records), nil
}

// ExportToDir writes a timestamped CSV into dir. The file appears under its
// final name only once fully written.
func (s *BackupService) ExportToDir(dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".mission_data-*.csv")
	if err != nil {
		return "", fmt.Errorf("create backup file: %w", err)
	}
	defer os.Remove(tmp.Name())

	count, err := s.ExportCSV(tmp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", err
	}

	name := filepath.Join(dir, fmt.Sprintf("mission_data-%s.csv", now.In(s.loc).Format(backupTimeLayout)))
	if err := os.Rename(tmp.Name(), name); err != nil {
		return "", fmt.Errorf("finalize backup: %w", err)
	}
	s.log.Info("backup written", "path", name, "records", count)
	return name, nil
}

// ImportCSV upserts every valid row of r in file order. Rows with a bad date
// or values the store rejects are counted in Dropped.
func (s *BackupService) ImportCSV(r io.Reader) (ImportSummary, error) {
	result, err := ledger.ReadCSV(r)
	if err != nil {
		return ImportSummary{}, err
	}
	summary := ImportSummary{Dropped: result.Dropped}
	valid := result.Records[:0]
	for _, rec := range result.Records {
		if err := validateRecord(rec); err != nil {
			summary.Dropped++
			continue
		}
		valid = append(valid, rec)
	}
	summary.Records, err = s.records.UpsertAll(valid)
	if err != nil {
		return summary, err
	}
	if summary.Dropped > 0 {
		s.log.Warn("import dropped rows", "count", summary.Dropped)
	}
	return summary, nil
}

// ImportLegacyDir loads the flat files of the original dashboard from dir.
// Each file is optional.
func (s *BackupService) ImportLegacyDir(dir string) (ImportSummary, error) {
	var summary ImportSummary

	f, err := os.Open(filepath.Join(dir, ledger.LegacyRecordsFile))
	switch {
	case err == nil:
		summary, err = s.ImportCSV(f)
		f.Close()
		if err != nil {
			return summary, err
		}
	case !errors.Is(err, fs.ErrNotExist):
		return summary, fmt.Errorf("open records: %w", err)
	}

	directives, err := ledger.ReadLegacyDirectives(filepath.Join(dir, ledger.LegacyDirectivesFile))
	if err != nil {
		return summary, err
	}
	if summary.Directives, err = s.directives.Import(directives); err != nil {
		return summary, err
	}

	books, err := ledger.ReadLegacyBooks(filepath.Join(dir, ledger.LegacyBooksFile))
	if err != nil {
		return summary, err
	}
	if summary.Books, err = s.reading.Import(books); err != nil {
		return summary, err
	}

	entries, err := ledger.ReadLegacyJournal(filepath.Join(dir, ledger.LegacyJournalFile))
	if err != nil {
		return summary, err
	}
	if summary.JournalEntries, err = s.journal.Import(entries, s.loc); err != nil {
		return summary, err
	}

	s.log.Info("legacy import finished",
		"records", summary.Records,
		"dropped", summary.Dropped,
		"directives", summary.Directives,
		"books", summary.Books,
		"journal", summary.JournalEntries,
	)
	return summary, nil
}
