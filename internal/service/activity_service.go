package service

import (
	"fmt"
	"time"

	"github.com/utopialog/internal/metrics"
)

// HeatmapEntry 表示热力图中的单日数据
type HeatmapEntry struct {
	Date          time.Time
	Met           []string
	DeepWorkHours float64
}

// ActivityStats 汇总单个指标在区间内的完成情况
type ActivityStats struct {
	Name           string
	RangeStart     time.Time
	RangeEnd       time.Time
	CompletedCount int
	TargetCount    int
	CompletionRate float64
	CurrentStreak  int
	LongestStreak  int
}

// ActivityService 负责热力图与区间统计
type ActivityService struct {
	records *RecordService
	policy  PolicySource
	clock   func() time.Time
}

func NewActivityService(records *RecordService, policy PolicySource, clock func() time.Time) *ActivityService {
	if clock == nil {
		clock = time.Now
	}
	return &ActivityService{records: records, policy: policy, clock: clock}
}

// HeatmapRange 返回区间内每个有记录的日期及其满足的指标
func (s *ActivityService) HeatmapRange(start, end time.Time) ([]HeatmapEntry, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end before start", ErrRecordInvalid)
	}
	records, err := s.records.Between(start, end)
	if err != nil {
		return nil, err
	}

	predicates := metrics.DefaultPredicates(s.policy.Current())
	entries := make([]HeatmapEntry, 0, len(records))
	for _, rec := range records {
		entry := HeatmapEntry{Date: rec.Date, Met: []string{}, DeepWorkHours: rec.DeepWorkHours}
		for _, p := range predicates {
			if p.Check(rec) {
				entry.Met = append(entry.Met, p.Name)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// StatsBetween 计算区间内每个指标的完成天数、完成率及连胜。
// 目标天数只计算到今天为止。
func (s *ActivityService) StatsBetween(start, end time.Time) ([]ActivityStats, error) {
	start, end = metrics.Day(start), metrics.Day(end)
	records, err := s.records.Between(start, end)
	if err != nil {
		return nil, err
	}

	targetEnd := end
	if today := metrics.Day(s.clock()); today.Before(targetEnd) {
		targetEnd = today
	}
	target := 0
	if !targetEnd.Before(start) {
		target = int(targetEnd.Sub(start).Hours()/24) + 1
	}

	predicates := metrics.DefaultPredicates(s.policy.Current())
	stats := make([]ActivityStats, 0, len(predicates))
	for _, p := range predicates {
		st := ActivityStats{
			Name:          p.Name,
			RangeStart:    start,
			RangeEnd:      end,
			TargetCount:   target,
			CurrentStreak: metrics.Streak(records, p.Check),
			LongestStreak: metrics.LongestStreak(records, p.Check),
		}
		for _, rec := range records {
			if p.Check(rec) {
				st.CompletedCount++
			}
		}
		if st.TargetCount > 0 {
			st.CompletionRate = float64(st.CompletedCount) / float64(st.TargetCount)
		}
		stats = append(stats, st)
	}
	return stats, nil
}
