package db

import "time"

// DailyRecord is one row of the mission log. Date is the natural key, stored
// as YYYY-MM-DD, and a unique index keeps it to one row per day.
// Numeric columns default to 0 so aggregates never see NULL.
type DailyRecord struct {
	ID            uint    `gorm:"primaryKey"`
	Date          string  `gorm:"size:10;uniqueIndex;not null"`
	ColdCalls     int     `gorm:"not null;default:0"`
	DeepWorkHours float64 `gorm:"not null;default:0"`
	Calories      int     `gorm:"not null;default:0"`
	WorkoutDone   bool    `gorm:"not null;default:false"`
	MoneyIn       float64 `gorm:"not null;default:0"`
	SleepHours    float64 `gorm:"not null;default:0"`
	ReadingPages  int     `gorm:"not null;default:0"`
	Mood          int     `gorm:"not null;default:0"`
	Confidence    int     `gorm:"not null;default:0"`
	Aggression    int     `gorm:"not null;default:0"`
	Notes         string  `gorm:"type:text;not null;default:''"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName keeps the historical table name.
func (DailyRecord) TableName() string {
	return "daily_records"
}
