package handler

import (
	"cmp"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/utopialog/internal/metrics"
	"github.com/utopialog/internal/service"
)

const (
	defaultCalendarView = "monthly"
	heatmapDays         = 365
)

type heatmapDay struct {
	Date          string   `json:"date"`
	Met           []string `json:"met"`
	Level         int      `json:"level"`
	DeepWorkHours float64  `json:"deep_work_hours"`
}

type heatmapRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type heatmapSummary struct {
	LoggedDays int            `json:"logged_days"`
	ActiveDays int            `json:"active_days"`
	ByName     map[string]int `json:"by_name"`
}

type heatmapPayload struct {
	Range       heatmapRange   `json:"range"`
	Days        []heatmapDay   `json:"days"`
	Names       []string       `json:"names"`
	Summary     heatmapSummary `json:"summary"`
	GeneratedAt string         `json:"generated_at"`
}

type activityStatsPayload struct {
	Name           string  `json:"name"`
	CompletedCount int     `json:"completed_count"`
	TargetCount    int     `json:"target_count"`
	CompletionRate float64 `json:"completion_rate"`
	CurrentStreak  int     `json:"current_streak"`
	LongestStreak  int     `json:"longest_streak"`
}

// GetHeatmap 返回过去一年的活动热力图
func (a *API) GetHeatmap(c *gin.Context) {
	end := a.dashboard.Today()
	start := end.AddDate(0, 0, -(heatmapDays - 1))

	entries, err := a.activity.HeatmapRange(start, end)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}

	names := make([]string, 0)
	for _, p := range metrics.DefaultPredicates(a.dashboard.Policy()) {
		names = append(names, p.Name)
	}
	c.JSON(http.StatusOK, buildHeatmapPayload(entries, names, start, end, time.Now()))
}

// buildHeatmapPayload shapes logged days for the calendar grid. Level is the
// number of predicates met scaled to 0-4.
func buildHeatmapPayload(entries []service.HeatmapEntry, names []string, start, end, generatedAt time.Time) heatmapPayload {
	byName := make(map[string]int, len(names))
	for _, name := range names {
		byName[name] = 0
	}

	days := make([]heatmapDay, 0, len(entries))
	active := 0
	for _, entry := range entries {
		met := slices.Clone(entry.Met)
		slices.SortFunc(met, func(a, b string) int {
			return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
		})
		for _, name := range met {
			byName[name]++
		}
		if len(met) > 0 {
			active++
		}
		days = append(days, heatmapDay{
			Date:          entry.Date.Format(metrics.DateLayout),
			Met:           met,
			Level:         heatLevel(len(met), len(names)),
			DeepWorkHours: entry.DeepWorkHours,
		})
	}

	slices.SortFunc(days, func(a, b heatmapDay) int {
		return cmp.Compare(a.Date, b.Date)
	})

	payload := heatmapPayload{
		Range: heatmapRange{
			Start: start.Format(metrics.DateLayout),
			End:   end.Format(metrics.DateLayout),
		},
		Days:    days,
		Names:   names,
		Summary: heatmapSummary{LoggedDays: len(days), ActiveDays: active, ByName: byName},
	}

	if !generatedAt.IsZero() {
		payload.GeneratedAt = generatedAt.Format(time.RFC3339)
	}

	return payload
}

func heatLevel(met, total int) int {
	if met <= 0 || total <= 0 {
		return 0
	}
	level := (met*4 + total - 1) / total
	return min(level, 4)
}

// GetCalendar 返回日期区间内的日志与统计
func (a *API) GetCalendar(c *gin.Context) {
	view := strings.ToLower(c.DefaultQuery("view", defaultCalendarView))
	if view != "weekly" && view != "monthly" {
		respondError(c, http.StatusBadRequest, "view must be weekly or monthly")
		return
	}
	start, end, ok := resolveRange(c.Query("start"), view, a.dashboard.Today())
	if !ok {
		respondError(c, http.StatusBadRequest, "start must be YYYY-MM-DD")
		return
	}

	records, err := a.records.Between(start, end)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	stats, err := a.activity.StatsBetween(start, end)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}

	items := make([]recordPayload, 0, len(records))
	for _, rec := range records {
		items = append(items, recordToPayload(rec))
	}
	statItems := make([]activityStatsPayload, 0, len(stats))
	for _, st := range stats {
		statItems = append(statItems, activityStatsPayload{
			Name:           st.Name,
			CompletedCount: st.CompletedCount,
			TargetCount:    st.TargetCount,
			CompletionRate: st.CompletionRate,
			CurrentStreak:  st.CurrentStreak,
			LongestStreak:  st.LongestStreak,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"records": items,
		"stats":   statItems,
		"range":   gin.H{"start": start.Format(metrics.DateLayout), "end": end.Format(metrics.DateLayout), "view": view},
	})
}

// resolveRange returns the Monday-to-Sunday week or the calendar month that
// contains start. A blank start means today.
func resolveRange(startStr, view string, today time.Time) (time.Time, time.Time, bool) {
	start := metrics.Day(today)
	if raw := strings.TrimSpace(startStr); raw != "" {
		parsed, err := metrics.ParseDate(raw)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		start = parsed
	}

	switch view {
	case "weekly":
		weekday := int(start.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start = start.AddDate(0, 0, -weekday+1)
		return start, start.AddDate(0, 0, 6), true
	default:
		start = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1), true
	}
}
