package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/utopialog/internal/db"
	"github.com/utopialog/internal/ledger"
	"gorm.io/gorm"
)

var (
	// ErrDirectiveNotFound 在指定任务不存在时返回
	ErrDirectiveNotFound = errors.New("directive not found")
	// ErrDirectiveTextMissing 在任务内容为空时返回
	ErrDirectiveTextMissing = errors.New("directive text is required")
)

// DirectiveService manages the ordered task list of the ops tab.
type DirectiveService struct {
	db *gorm.DB
	mu sync.Mutex
}

// ActiveDirectives is the head of the pending list plus how many were left out.
type ActiveDirectives struct {
	Top       []db.Directive `json:"top"`
	Remaining int            `json:"remaining"`
	Total     int            `json:"total"`
}

func NewDirectiveService(gdb *gorm.DB) *DirectiveService {
	return &DirectiveService{db: gdb}
}

// Add appends a pending directive to the end of the list.
func (s *DirectiveService) Add(text string) (*db.Directive, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrDirectiveTextMissing
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var directive db.Directive
	err := s.db.Transaction(func(tx *gorm.DB) error {
		pos, err := nextPosition(tx)
		if err != nil {
			return err
		}
		directive = db.Directive{ID: uuid.NewString(), Text: text, Position: pos}
		return tx.Create(&directive).Error
	})
	if err != nil {
		return nil, fmt.Errorf("add directive: %w", err)
	}
	return &directive, nil
}

// List 按添加顺序返回全部任务
func (s *DirectiveService) List() ([]db.Directive, error) {
	var directives []db.Directive
	if err := s.db.Order("position ASC").Find(&directives).Error; err != nil {
		return nil, fmt.Errorf("list directives: %w", err)
	}
	return directives, nil
}

// Active returns the first limit pending directives in list order.
func (s *DirectiveService) Active(limit int) (ActiveDirectives, error) {
	var pending []db.Directive
	if err := s.db.Where("done = ?", false).Order("position ASC").Find(&pending).Error; err != nil {
		return ActiveDirectives{}, fmt.Errorf("list active directives: %w", err)
	}

	result := ActiveDirectives{Total: len(pending)}
	if limit < 0 {
		limit = 0
	}
	if len(pending) > limit {
		result.Top = pending[:limit]
		result.Remaining = len(pending) - limit
	} else {
		result.Top = pending
	}
	return result, nil
}

// SetDone 更新任务完成状态
func (s *DirectiveService) SetDone(id string, done bool) (*db.Directive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var directive db.Directive
	if err := s.db.First(&directive, "id = ?", strings.TrimSpace(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDirectiveNotFound
		}
		return nil, fmt.Errorf("find directive: %w", err)
	}

	directive.Done = done
	if err := s.db.Save(&directive).Error; err != nil {
		return nil, fmt.Errorf("update directive: %w", err)
	}
	return &directive, nil
}

// PurgeCompleted deletes every finished directive and reports how many went.
func (s *DirectiveService) PurgeCompleted() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.db.Where("done = ?", true).Delete(&db.Directive{})
	if result.Error != nil {
		return 0, fmt.Errorf("purge directives: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Import appends legacy directives after the existing ones, keeping their order.
// A directive already stored with the same text and state is skipped, so
// running an import twice adds nothing.
func (s *DirectiveService) Import(items []ledger.LegacyDirective) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	imported := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		pos, err := nextPosition(tx)
		if err != nil {
			return err
		}
		for _, item := range items {
			text := strings.TrimSpace(item.Task)
			if text == "" {
				continue
			}
			var existing int64
			if err := tx.Model(&db.Directive{}).Where("text = ? AND done = ?", text, item.Done).Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				continue
			}
			directive := db.Directive{ID: uuid.NewString(), Text: text, Done: item.Done, Position: pos}
			if err := tx.Create(&directive).Error; err != nil {
				return err
			}
			pos++
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("import directives: %w", err)
	}
	return imported, nil
}

func nextPosition(tx *gorm.DB) (int, error) {
	var last int
	if err := tx.Model(&db.Directive{}).Select("COALESCE(MAX(position), 0)").Scan(&last).Error; err != nil {
		return 0, err
	}
	return last + 1, nil
}
