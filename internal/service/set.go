package service

import (
	"time"

	"github.com/utopialog/internal/content"
	"github.com/utopialog/internal/logger"
	"gorm.io/gorm"
)

// Set bundles every store service over one database.
type Set struct {
	Records    *RecordService
	Directives *DirectiveService
	Reading    *ReadingService
	Journal    *JournalService
	Dashboard  *DashboardService
	Activity   *ActivityService
	Backups    *BackupService
}

// NewSet wires the services. clock and loc describe the user's calendar;
// nil values fall back to the local zone.
func NewSet(gdb *gorm.DB, policy PolicySource, clock func() time.Time, loc *time.Location, log *logger.Logger) *Set {
	records := NewRecordService(gdb)
	directives := NewDirectiveService(gdb)
	reading := NewReadingService(gdb, content.RequiredReading)
	journal := NewJournalService(gdb)
	return &Set{
		Records:    records,
		Directives: directives,
		Reading:    reading,
		Journal:    journal,
		Dashboard:  NewDashboardService(records, policy, clock, log),
		Activity:   NewActivityService(records, policy, clock),
		Backups:    NewBackupService(records, directives, reading, journal, loc, log),
	}
}
