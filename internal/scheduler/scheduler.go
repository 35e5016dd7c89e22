// Package scheduler runs the nightly jobs: a CSV backup of the record store
// and a verdict line in the log.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/utopialog/internal/logger"
	"github.com/utopialog/internal/metrics"
)

// Backuper writes a timestamped snapshot into a directory.
type Backuper interface {
	ExportToDir(dir string, now time.Time) (string, error)
}

// Reporter evaluates the engine for today.
type Reporter interface {
	Report() (metrics.Report, error)
}

type Scheduler struct {
	cron      *cron.Cron
	backups   Backuper
	reports   Reporter
	backupDir string
	now       func() time.Time
	log       *logger.Logger

	mu      sync.Mutex
	started bool
}

// New registers both jobs on schedule. An empty backupDir disables the backup job.
func New(schedule, backupDir string, backups Backuper, reports Reporter, loc *time.Location, log *logger.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logger.Nop()
	}
	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		backups:   backups,
		reports:   reports,
		backupDir: backupDir,
		now:       func() time.Time { return time.Now().In(loc) },
		log:       log,
	}

	if backupDir != "" && backups != nil {
		if _, err := s.cron.AddFunc(schedule, s.runBackup); err != nil {
			return nil, fmt.Errorf("schedule backup %q: %w", schedule, err)
		}
	}
	if reports != nil {
		if _, err := s.cron.AddFunc(schedule, s.runVerdict); err != nil {
			return nil, fmt.Errorf("schedule verdict %q: %w", schedule, err)
		}
	}
	return s, nil
}

// Jobs reports how many jobs are registered.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// Next returns the next activation time, zero when nothing is scheduled.
func (s *Scheduler) Next() time.Time {
	var next time.Time
	for _, entry := range s.cron.Entries() {
		if next.IsZero() || entry.Next.Before(next) {
			next = entry.Next
		}
	}
	return next
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.cron.Start()
	s.log.Info("scheduler started", "jobs", s.Jobs())
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunOnce runs every job immediately on the calling goroutine.
func (s *Scheduler) RunOnce() {
	if s.backupDir != "" && s.backups != nil {
		s.runBackup()
	}
	if s.reports != nil {
		s.runVerdict()
	}
}

func (s *Scheduler) runBackup() {
	path, err := s.backups.ExportToDir(s.backupDir, s.now())
	if err != nil {
		s.log.Error("backup failed", "dir", s.backupDir, "error", err)
		return
	}
	s.log.Info("backup written", "path", path)
}

func (s *Scheduler) runVerdict() {
	report, err := s.reports.Report()
	if err != nil {
		s.log.Error("verdict failed", "error", err)
		return
	}
	s.log.Info("daily verdict",
		"date", report.Today.Format(metrics.DateLayout),
		"state", report.Assessment.State.String(),
		"dominance_score", report.DominanceScore,
		"projected_total", report.ProjectedTotal,
		"dashboard_locked", report.Locks.Dashboard,
		"arsenal_locked", report.Locks.Arsenal,
		"escalation_tier", int(report.Escalation),
	)
}
