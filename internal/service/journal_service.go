package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/utopialog/internal/db"
	"github.com/utopialog/internal/ledger"
	"gorm.io/gorm"
)

// ErrJournalEntryInvalid 在标题或正文为空时返回
var ErrJournalEntryInvalid = errors.New("journal entry needs a title and a body")

// JournalService stores free-text journal entries.
type JournalService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewJournalService(gdb *gorm.DB) *JournalService {
	return &JournalService{db: gdb, now: time.Now}
}

// Add records a new entry stamped with the current time.
func (s *JournalService) Add(title, body string) (*db.JournalEntry, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" || body == "" {
		return nil, ErrJournalEntryInvalid
	}

	entry := db.JournalEntry{
		ID:        uuid.NewString(),
		Title:     title,
		Body:      body,
		CreatedAt: s.now(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("add journal entry: %w", err)
	}
	return &entry, nil
}

// List 按时间倒序返回日记
func (s *JournalService) List() ([]db.JournalEntry, error) {
	var entries []db.JournalEntry
	if err := s.db.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	return entries, nil
}

// Import stores legacy entries. Entries with an unreadable timestamp are
// stamped with the import time; incomplete entries and entries already stored
// with the same title and body are skipped.
func (s *JournalService) Import(entries []ledger.LegacyJournalEntry, loc *time.Location) (int, error) {
	imported := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, legacy := range entries {
			title := strings.TrimSpace(legacy.Title)
			body := strings.TrimSpace(legacy.Body)
			if title == "" || body == "" {
				continue
			}
			var existing int64
			if err := tx.Model(&db.JournalEntry{}).Where("title = ? AND body = ?", title, body).Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				continue
			}
			created := legacy.CreatedAt(loc)
			if created.IsZero() {
				created = s.now()
			}
			entry := db.JournalEntry{ID: uuid.NewString(), Title: title, Body: body, CreatedAt: created}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("import journal: %w", err)
	}
	return imported, nil
}
