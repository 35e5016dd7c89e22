package db

import "time"

// Book tracks reading progress, keyed by title.
type Book struct {
	Title     string    `gorm:"primaryKey;size:255" json:"title"`
	Status    string    `gorm:"size:32;not null" json:"status"`
	Progress  int       `gorm:"not null;default:0" json:"progress"`
	UpdatedAt time.Time `json:"updated_at"`
}
