package service

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/utopialog/internal/db"
	"github.com/utopialog/internal/ledger"
	"github.com/utopialog/internal/metrics"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrRecordInvalid is returned when a field of a daily record is out of range
	ErrRecordInvalid = errors.New("invalid daily record")
	// ErrRecordNotFound is returned when no record exists for a date
	ErrRecordNotFound = errors.New("daily record not found")
)

// recordColumns are overwritten on conflict. Every data column is listed so a
// resubmission replaces the whole row.
var recordColumns = []string{
	"cold_calls", "deep_work_hours", "calories", "workout_done", "money_in",
	"sleep_hours", "reading_pages", "mood", "confidence", "aggression",
	"notes", "updated_at",
}

// RecordService reads and writes daily records. Writes are serialized so a
// date always holds exactly one full row.
type RecordService struct {
	db *gorm.DB
	mu sync.RWMutex
}

// NewRecordService constructs a RecordService.
func NewRecordService(gdb *gorm.DB) *RecordService {
	return &RecordService{db: gdb}
}

// Upsert stores rec as the only record of its date, replacing any earlier
// submission entirely.
func (s *RecordService) Upsert(rec metrics.Record) (metrics.Record, error) {
	if err := validateRecord(rec); err != nil {
		return metrics.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row := recordRow(rec)
	if err := upsertRecord(s.db, &row); err != nil {
		return metrics.Record{}, err
	}

	var stored db.DailyRecord
	if err := s.db.Where("date = ?", row.Date).First(&stored).Error; err != nil {
		return metrics.Record{}, fmt.Errorf("reload daily record: %w", err)
	}
	saved, _ := ledger.FromModel(stored)
	return saved, nil
}

// UpsertAll stores records in order inside one transaction. A date appearing
// twice keeps its last record.
func (s *RecordService) UpsertAll(records []metrics.Record) (int, error) {
	for _, rec := range records {
		if err := validateRecord(rec); err != nil {
			return 0, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			row := recordRow(rec)
			if err := upsertRecord(tx, &row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// Get returns the record of one date.
func (s *RecordService) Get(date string) (metrics.Record, error) {
	day, err := metrics.ParseDate(strings.TrimSpace(date))
	if err != nil {
		return metrics.Record{}, fmt.Errorf("%w: bad date %q", ErrRecordInvalid, date)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var row db.DailyRecord
	if err := s.db.Where("date = ?", day.Format(metrics.DateLayout)).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return metrics.Record{}, ErrRecordNotFound
		}
		return metrics.Record{}, fmt.Errorf("get daily record: %w", err)
	}
	rec, _ := ledger.FromModel(row)
	return rec, nil
}

// Snapshot loads the whole store in date order. Rows whose stored date does
// not parse are left out and counted in dropped.
func (s *RecordService) Snapshot() (records []metrics.Record, dropped int, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []db.DailyRecord
	if err := s.db.Order("date ASC").Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list daily records: %w", err)
	}
	records, dropped = ledger.FromModels(rows)
	return metrics.SortByDate(records), dropped, nil
}

// Between loads records with start <= date <= end in date order.
func (s *RecordService) Between(start, end time.Time) ([]metrics.Record, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end before start", ErrRecordInvalid)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []db.DailyRecord
	if err := s.db.Where("date BETWEEN ? AND ?", metrics.Day(start).Format(metrics.DateLayout), metrics.Day(end).Format(metrics.DateLayout)).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list daily records between: %w", err)
	}
	records, _ := ledger.FromModels(rows)
	return metrics.SortByDate(records), nil
}

// List returns every record, newest first, for the logs page.
func (s *RecordService) List() ([]metrics.Record, error) {
	records, _, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func upsertRecord(tx *gorm.DB, row *db.DailyRecord) error {
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns(recordColumns),
	}).Create(row).Error; err != nil {
		return fmt.Errorf("upsert daily record: %w", err)
	}
	return nil
}

func recordRow(rec metrics.Record) db.DailyRecord {
	rec.Date = metrics.Day(rec.Date)
	rec.Notes = strings.TrimSpace(rec.Notes)
	return ledger.ToModel(rec)
}

func validateRecord(rec metrics.Record) error {
	if rec.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrRecordInvalid)
	}
	if rec.ColdCalls < 0 || rec.Calories < 0 || rec.ReadingPages < 0 {
		return fmt.Errorf("%w: counts must not be negative", ErrRecordInvalid)
	}
	for name, v := range map[string]float64{
		"deep_work_hours": rec.DeepWorkHours,
		"money_in":        rec.MoneyIn,
		"sleep_hours":     rec.SleepHours,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be a non-negative number", ErrRecordInvalid, name)
		}
	}
	if rec.SleepHours > ledger.MaxHours || rec.DeepWorkHours > ledger.MaxHours {
		return fmt.Errorf("%w: hours cannot exceed %d", ErrRecordInvalid, ledger.MaxHours)
	}
	for name, v := range map[string]int{
		"mood":       rec.Mood,
		"confidence": rec.Confidence,
		"aggression": rec.Aggression,
	} {
		if v < 0 || v > 5 {
			return fmt.Errorf("%w: %s must be between 1 and 5", ErrRecordInvalid, name)
		}
	}
	return nil
}
