package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/utopialog/internal/metrics"
	"github.com/utopialog/internal/service"
)

// recordPayload is the wire form of a daily record. Omitted numbers are 0:
// a submission always replaces the whole day.
type recordPayload struct {
	Date          string  `json:"date"`
	ColdCalls     int     `json:"cold_calls"`
	DeepWorkHours float64 `json:"deep_work_hours"`
	Calories      int     `json:"calories"`
	WorkoutDone   bool    `json:"workout_done"`
	MoneyIn       float64 `json:"money_in"`
	SleepHours    float64 `json:"sleep_hours"`
	ReadingPages  int     `json:"reading_pages"`
	Mood          int     `json:"mood"`
	Confidence    int     `json:"confidence"`
	Aggression    int     `json:"aggression"`
	Notes         string  `json:"notes"`
}

func recordToPayload(rec metrics.Record) recordPayload {
	return recordPayload{
		Date:          rec.Date.Format(metrics.DateLayout),
		ColdCalls:     rec.ColdCalls,
		DeepWorkHours: rec.DeepWorkHours,
		Calories:      rec.Calories,
		WorkoutDone:   rec.WorkoutDone,
		MoneyIn:       rec.MoneyIn,
		SleepHours:    rec.SleepHours,
		ReadingPages:  rec.ReadingPages,
		Mood:          rec.Mood,
		Confidence:    rec.Confidence,
		Aggression:    rec.Aggression,
		Notes:         rec.Notes,
	}
}

// toRecord resolves the date, defaulting to today when blank.
func (p recordPayload) toRecord(today time.Time) (metrics.Record, error) {
	date := today
	if raw := strings.TrimSpace(p.Date); raw != "" {
		parsed, err := metrics.ParseDate(raw)
		if err != nil {
			return metrics.Record{}, fmt.Errorf("%w: date must be YYYY-MM-DD", service.ErrRecordInvalid)
		}
		date = parsed
	}
	return metrics.Record{
		Date:          date,
		ColdCalls:     p.ColdCalls,
		DeepWorkHours: p.DeepWorkHours,
		Calories:      p.Calories,
		WorkoutDone:   p.WorkoutDone,
		MoneyIn:       p.MoneyIn,
		SleepHours:    p.SleepHours,
		ReadingPages:  p.ReadingPages,
		Mood:          p.Mood,
		Confidence:    p.Confidence,
		Aggression:    p.Aggression,
		Notes:         p.Notes,
	}, nil
}

// ShowLogs 渲染日志输入页与历史记录
func (a *API) ShowLogs(c *gin.Context) {
	today := a.dashboard.Today()
	form := recordPayload{Date: today.Format(metrics.DateLayout)}

	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		rec, err := a.records.Get(raw)
		switch {
		case err == nil:
			form = recordToPayload(rec)
		case errors.Is(err, service.ErrRecordNotFound):
			form.Date = raw
		default:
			addFlash(c, flashAlert, userMessage(err))
		}
	}

	records, err := a.records.List()
	if err != nil {
		a.log.Error("list records", "error", err)
		a.renderHTML(c, http.StatusInternalServerError, "logs.html", "logs", gin.H{
			"title": "LOGS",
			"form":  form,
			"error": "failed to load the log",
		})
		return
	}

	rows := make([]recordPayload, 0, len(records))
	for _, rec := range records {
		rows = append(rows, recordToPayload(rec))
	}

	a.renderHTML(c, http.StatusOK, "logs.html", "logs", gin.H{
		"title":   "LOGS",
		"form":    form,
		"records": rows,
	})
}

// SubmitLog handles the input terminal form.
func (a *API) SubmitLog(c *gin.Context) {
	rec, err := a.recordFromForm(c)
	if err == nil {
		_, err = a.records.Upsert(rec)
	}
	if err != nil {
		redirectWith(c, "/logs", flashAlert, userMessage(err))
		return
	}
	redirectWith(c, "/logs", flashNotice, "Entry saved for "+rec.Date.Format(metrics.DateLayout)+".")
}

func (a *API) recordFromForm(c *gin.Context) (metrics.Record, error) {
	p := recordPayload{
		Date:        c.PostForm("date"),
		WorkoutDone: formBool(c, "workout_done"),
		Notes:       c.PostForm("notes"),
	}
	var err error
	ints := []struct {
		key string
		dst *int
	}{
		{"cold_calls", &p.ColdCalls},
		{"calories", &p.Calories},
		{"reading_pages", &p.ReadingPages},
		{"mood", &p.Mood},
		{"confidence", &p.Confidence},
		{"aggression", &p.Aggression},
	}
	for _, f := range ints {
		if *f.dst, err = formInt(c, f.key); err != nil {
			return metrics.Record{}, err
		}
	}
	floats := []struct {
		key string
		dst *float64
	}{
		{"deep_work_hours", &p.DeepWorkHours},
		{"money_in", &p.MoneyIn},
		{"sleep_hours", &p.SleepHours},
	}
	for _, f := range floats {
		if *f.dst, err = formFloat(c, f.key); err != nil {
			return metrics.Record{}, err
		}
	}
	return p.toRecord(a.dashboard.Today())
}

// ListRecords 返回全部日志（按日期倒序）
func (a *API) ListRecords(c *gin.Context) {
	records, err := a.records.List()
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	items := make([]recordPayload, 0, len(records))
	for _, rec := range records {
		items = append(items, recordToPayload(rec))
	}
	c.JSON(http.StatusOK, gin.H{"records": items})
}

// GetRecord returns the record of one date.
func (a *API) GetRecord(c *gin.Context) {
	rec, err := a.records.Get(c.Param("date"))
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": recordToPayload(rec)})
}

// UpsertRecord stores a record, replacing any earlier one for its date.
func (a *API) UpsertRecord(c *gin.Context) {
	var payload recordPayload
	if !bindJSON(c, &payload, "invalid record payload") {
		return
	}

	rec, err := payload.toRecord(a.dashboard.Today())
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	saved, err := a.records.Upsert(rec)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": recordToPayload(saved)})
}

// ExportCSV streams the record store as a CSV download.
func (a *API) ExportCSV(c *gin.Context) {
	name := fmt.Sprintf("mission_data-%s.csv", a.dashboard.Today().Format(metrics.DateLayout))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Status(http.StatusOK)
	if _, err := a.backups.ExportCSV(c.Writer); err != nil {
		a.log.Error("export csv", "error", err)
		c.Error(err)
	}
}
