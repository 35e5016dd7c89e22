package service

import (
	"time"

	"github.com/utopialog/internal/logger"
	"github.com/utopialog/internal/metrics"
)

// PolicySource supplies the policy in force for an evaluation.
type PolicySource interface {
	Current() metrics.Policy
}

// StaticPolicy is a PolicySource that never changes.
type StaticPolicy metrics.Policy

func (p StaticPolicy) Current() metrics.Policy {
	return metrics.Policy(p)
}

// DashboardService recomputes the engine report from a fresh snapshot on
// every call.
type DashboardService struct {
	records *RecordService
	policy  PolicySource
	clock   func() time.Time
	log     *logger.Logger
}

// NewDashboardService wires the report. clock supplies the wall time in the
// user's zone; nil means time.Now.
func NewDashboardService(records *RecordService, policy PolicySource, clock func() time.Time, log *logger.Logger) *DashboardService {
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardService{records: records, policy: policy, clock: clock, log: log}
}

// Today returns the current calendar day.
func (s *DashboardService) Today() time.Time {
	return metrics.Day(s.clock())
}

// Policy returns the policy currently in force.
func (s *DashboardService) Policy() metrics.Policy {
	return s.policy.Current()
}

// Report evaluates the store as of today.
func (s *DashboardService) Report() (metrics.Report, error) {
	return s.ReportAt(s.Today())
}

// ReportAt evaluates the store as of the given day.
func (s *DashboardService) ReportAt(today time.Time) (metrics.Report, error) {
	records, dropped, err := s.records.Snapshot()
	if err != nil {
		return metrics.Report{}, err
	}
	if dropped > 0 {
		s.log.Warn("dropped records with unparsable dates", "count", dropped)
	}
	return metrics.Evaluate(records, today, s.policy.Current()), nil
}
