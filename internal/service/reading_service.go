package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/utopialog/internal/db"
	"github.com/utopialog/internal/ledger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Book statuses, in reading order.
const (
	BookNotStarted = "Not Started"
	BookReading    = "Reading"
	BookAbsorbed   = "Absorbed"
)

// BookStatuses lists the accepted statuses for the status picker.
var BookStatuses = []string{BookNotStarted, BookReading, BookAbsorbed}

var (
	// ErrBookNotFound 在书目不存在时返回
	ErrBookNotFound = errors.New("book not found")
	// ErrBookInvalid 在状态或进度不合法时返回
	ErrBookInvalid = errors.New("invalid book status or progress")
)

// ReadingService tracks progress through the required reading list.
type ReadingService struct {
	db       *gorm.DB
	required []string
}

// NewReadingService keeps a copy of the required titles. They are always
// listed, first and in this order.
func NewReadingService(gdb *gorm.DB, required []string) *ReadingService {
	titles := make([]string, 0, len(required))
	for _, title := range required {
		if title = strings.TrimSpace(title); title != "" {
			titles = append(titles, title)
		}
	}
	return &ReadingService{db: gdb, required: titles}
}

// List seeds any missing required title as not started and returns every book.
func (s *ReadingService) List() ([]db.Book, error) {
	if err := s.seed(); err != nil {
		return nil, err
	}

	var books []db.Book
	if err := s.db.Find(&books).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	rank := make(map[string]int, len(s.required))
	for i, title := range s.required {
		rank[title] = i
	}
	sort.SliceStable(books, func(i, j int) bool {
		ri, iRequired := rank[books[i].Title]
		rj, jRequired := rank[books[j].Title]
		switch {
		case iRequired && jRequired:
			return ri < rj
		case iRequired != jRequired:
			return iRequired
		default:
			return books[i].Title < books[j].Title
		}
	})
	return books, nil
}

// Update 更新书目的阅读状态与进度
func (s *ReadingService) Update(title, status string, progress int) (*db.Book, error) {
	title = strings.TrimSpace(title)
	status, err := normalizeBookStatus(status)
	if err != nil {
		return nil, err
	}
	if progress < 0 || progress > 100 {
		return nil, fmt.Errorf("%w: progress must be between 0 and 100", ErrBookInvalid)
	}
	if err := s.seed(); err != nil {
		return nil, err
	}

	var book db.Book
	if err := s.db.First(&book, "title = ?", title).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}

	book.Status = status
	book.Progress = progress
	if err := s.db.Save(&book).Error; err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	return &book, nil
}

// Import writes legacy library entries. Unknown statuses fall back to not
// started and progress is clamped to 0–100.
func (s *ReadingService) Import(books map[string]ledger.LegacyBook) (int, error) {
	titles := make([]string, 0, len(books))
	for title := range books {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	imported := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, title := range titles {
			name := strings.TrimSpace(title)
			if name == "" {
				continue
			}
			legacy := books[title]
			status, err := normalizeBookStatus(legacy.Status)
			if err != nil {
				status = BookNotStarted
			}
			book := db.Book{Title: name, Status: status, Progress: min(max(legacy.Progress, 0), 100)}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "title"}},
				DoUpdates: clause.AssignmentColumns([]string{"status", "progress", "updated_at"}),
			}).Create(&book).Error; err != nil {
				return err
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("import books: %w", err)
	}
	return imported, nil
}

func (s *ReadingService) seed() error {
	if len(s.required) == 0 {
		return nil
	}
	books := make([]db.Book, 0, len(s.required))
	for _, title := range s.required {
		books = append(books, db.Book{Title: title, Status: BookNotStarted})
	}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&books).Error; err != nil {
		return fmt.Errorf("seed books: %w", err)
	}
	return nil
}

func normalizeBookStatus(status string) (string, error) {
	status = strings.TrimSpace(status)
	for _, known := range BookStatuses {
		if strings.EqualFold(status, known) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrBookInvalid, status)
}
