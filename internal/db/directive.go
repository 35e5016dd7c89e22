package db

import "time"

// Directive is a task on the ops list.
type Directive struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Done      bool      `gorm:"not null;default:false;index" json:"done"`
	Position  int       `gorm:"not null;index" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
