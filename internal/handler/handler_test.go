package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/utopialog/internal/content"
	"github.com/utopialog/internal/db"
	"github.com/utopialog/internal/metrics"
	"github.com/utopialog/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubHTMLRender struct {
	last *stubHTMLInstance
}

type stubHTMLInstance struct {
	name string
	data interface{}
}

func (r *stubHTMLRender) Instance(name string, data interface{}) render.Render {
	r.last = &stubHTMLInstance{name: name, data: data}
	return r.last
}

func (r *stubHTMLInstance) Render(http.ResponseWriter) error {
	return nil
}

func (r *stubHTMLInstance) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

var handlerDBCounter atomic.Int64

var testNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	router   *gin.Engine
	renderer *stubHTMLRender
	set      *service.Set
}

func setupHandlerTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-test-%d?mode=memory&cache=shared", handlerDBCounter.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	set := service.NewSet(gdb, service.StaticPolicy(metrics.DefaultPolicy()), func() time.Time { return testNow }, time.UTC, nil)
	api := NewAPI(set, content.NewPicker(1), nil)

	renderer := &stubHTMLRender{}
	router := gin.New()
	router.HTMLRender = renderer
	router.Use(sessions.Sessions("utopia_session", cookie.NewStore([]byte("test-secret"))))

	router.GET("/command", api.ShowCommand)
	router.GET("/plan", api.ShowPlan)
	router.GET("/logs", api.ShowLogs)
	router.POST("/logs", api.SubmitLog)
	router.GET("/journal", api.ShowJournal)
	router.POST("/journal", api.SubmitJournal)
	router.GET("/ops", api.ShowOps)
	router.POST("/ops", api.AddDirectiveForm)
	router.POST("/ops/:id/toggle", api.ToggleDirectiveForm)
	router.POST("/ops/purge", api.PurgeDirectivesForm)
	router.GET("/arsenal", api.ShowArsenal)
	router.POST("/arsenal/books", api.UpdateBookForm)

	apiGroup := router.Group("/api")
	apiGroup.GET("/report", api.GetReport)
	apiGroup.GET("/records", api.ListRecords)
	apiGroup.POST("/records", api.UpsertRecord)
	apiGroup.GET("/records/:date", api.GetRecord)
	apiGroup.GET("/directives", api.ListDirectives)
	apiGroup.POST("/directives", api.CreateDirective)
	apiGroup.PATCH("/directives/:id", api.UpdateDirective)
	apiGroup.DELETE("/directives/completed", api.PurgeDirectives)
	apiGroup.GET("/journal", api.ListJournal)
	apiGroup.POST("/journal", api.CreateJournalEntry)
	apiGroup.GET("/books", api.ListBooks)
	apiGroup.PUT("/books/:title", api.UpdateBook)
	apiGroup.GET("/export.csv", api.ExportCSV)
	apiGroup.GET("/reality-check", api.GetRealityCheck)
	apiGroup.GET("/heatmap", api.GetHeatmap)
	apiGroup.GET("/calendar", api.GetCalendar)

	return &testEnv{router: router, renderer: renderer, set: set}
}

func (e *testEnv) do(t *testing.T, method, target string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) doJSON(t *testing.T, method, target string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return e.do(t, method, target, raw, "application/json")
}

func (e *testEnv) postForm(t *testing.T, target string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodPost, target, []byte(values.Encode()), "application/x-www-form-urlencoded")
}

func (e *testEnv) lastData(t *testing.T) gin.H {
	t.Helper()
	if e.renderer.last == nil {
		t.Fatal("expected a template to be rendered")
	}
	data, ok := e.renderer.last.data.(gin.H)
	if !ok {
		t.Fatalf("unexpected template data type %T", e.renderer.last.data)
	}
	return data
}

func TestCommandLockedWithoutYesterday(t *testing.T) {
	env := setupHandlerTest(t)

	rec := env.do(t, http.MethodGet, "/command", nil, "")
	if rec.Code != http.StatusLocked {
		t.Fatalf("expected status %d, got %d", http.StatusLocked, rec.Code)
	}
	if env.renderer.last.name != "locked.html" {
		t.Fatalf("expected locked template, got %s", env.renderer.last.name)
	}
	if got := env.lastData(t)["date"]; got != "2026-03-14" {
		t.Fatalf("expected lock to point at yesterday, got %v", got)
	}
}

func TestCommandUnlocksAfterPassingYesterday(t *testing.T) {
	env := setupHandlerTest(t)

	rec := env.postForm(t, "/logs", url.Values{
		"date":            {"2026-03-14"},
		"deep_work_hours": {"4"},
		"cold_calls":      {"10"},
		"notes":           {"grind"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}

	if _, err := env.set.Directives.Add("Call TDT"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	rec = env.do(t, http.MethodGet, "/command", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if env.renderer.last.name != "command.html" {
		t.Fatalf("expected command template, got %s", env.renderer.last.name)
	}
	data := env.lastData(t)
	report, ok := data["report"].(metrics.Report)
	if !ok {
		t.Fatalf("unexpected report type %T", data["report"])
	}
	if report.LastLog == nil || report.LastLog.Notes != "grind" {
		t.Fatalf("expected last log to be yesterday's entry, got %+v", report.LastLog)
	}
	directives := data["directives"].(service.ActiveDirectives)
	if directives.Total != 1 {
		t.Fatalf("expected one priority directive, got %+v", directives)
	}
}

func TestSubmitLogRejectsBadNumbers(t *testing.T) {
	env := setupHandlerTest(t)

	rec := env.postForm(t, "/logs", url.Values{"date": {"2026-03-14"}, "cold_calls": {"lots"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if _, err := env.set.Records.Get("2026-03-14"); err == nil {
		t.Fatal("expected nothing to be stored")
	}
}

func TestRecordAPIUpsertOverwrites(t *testing.T) {
	env := setupHandlerTest(t)

	rec := env.doJSON(t, http.MethodPost, "/api/records", map[string]interface{}{
		"date": "2026-03-10", "money_in": 500, "notes": "first",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = env.doJSON(t, http.MethodPost, "/api/records", map[string]interface{}{
		"date": "2026-03-10", "cold_calls": 12,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/records/2026-03-10", nil, "")
	var body struct {
		Record recordPayload `json:"record"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Record.Notes != "" || body.Record.MoneyIn != 0 || body.Record.ColdCalls != 12 {
		t.Fatalf("expected full overwrite, got %+v", body.Record)
	}

	rec = env.doJSON(t, http.MethodPost, "/api/records", map[string]interface{}{"date": "10/03/2026"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	rec = env.doJSON(t, http.MethodPost, "/api/records", map[string]interface{}{"mood": 9})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/records/2026-01-01", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestReportAPIOnEmptyStore(t *testing.T) {
	env := setupHandlerTest(t)

	rec := env.do(t, http.MethodGet, "/api/report", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var body struct {
		State  string `json:"state"`
		Report struct {
			DominanceScore float64 `json:"dominance_score"`
			ProjectedTotal int     `json:"projected_total"`
			Locks          struct {
				Dashboard bool `json:"dashboard_locked"`
				Arsenal   bool `json:"arsenal_locked"`
			} `json:"locks"`
		} `json:"report"`
		Message string `json:"escalation_message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.State != "CRITICAL" || body.Report.DominanceScore != 0 || body.Report.ProjectedTotal != 0 {
		t.Fatalf("unexpected empty report: %+v", body)
	}
	if !body.Report.Locks.Dashboard || !body.Report.Locks.Arsenal {
		t.Fatalf("expected both locks on an empty store: %+v", body.Report.Locks)
	}
	if body.Message != content.Escalation.Tier4 {
		t.Fatalf("expected tier 4 message, got %q", body.Message)
	}
}

func TestDirectiveAPI(t *testing.T) {
	env := setupHandlerTest(t)

	rec := env.doJSON(t, http.MethodPost, "/api/directives", directivePayload{Text: ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}

	rec = env.doJSON(t, http.MethodPost, "/api/directives", directivePayload{Text: "Scrape 50 leads"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rec.Code)
	}
	var created struct {
		Directive db.Directive `json:"directive"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	rec = env.doJSON(t, http.MethodPatch, "/api/directives/"+created.Directive.ID, map[string]bool{"done": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	rec = env.doJSON(t, http.MethodPatch, "/api/directives/"+created.Directive.ID, map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	rec = env.doJSON(t, http.MethodPatch, "/api/directives/missing", map[string]bool{"done": true})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/api/directives/completed", nil, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"purged":1`) {
		t.Fatalf("unexpected purge response %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/directives", nil, "")
	if !strings.Contains(rec.Body.String(), `"directives":[]`) {
		t.Fatalf("expected empty list, got %s", rec.Body.String())
	}
}

func TestOpsForms(t *testing.T) {
	env := setupHandlerTest(t)

	env.postForm(t, "/ops", url.Values{"text": {"Book 3 demos"}})
	directives, err := env.set.Directives.List()
	if err != nil || len(directives) != 1 {
		t.Fatalf("expected one directive, got %d (%v)", len(directives), err)
	}

	rec := env.postForm(t, "/ops/"+directives[0].ID+"/toggle", url.Values{"done": {"on"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	env.postForm(t, "/ops/purge", nil)

	rec = env.do(t, http.MethodGet, "/ops", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if got := env.lastData(t)["directives"].([]db.Directive); len(got) != 0 {
		t.Fatalf("expected purged list, got %+v", got)
	}
}

func TestJournalRendersMarkdownSafely(t *testing.T) {
	env := setupHandlerTest(t)

	rec := env.doJSON(t, http.MethodPost, "/api/journal", journalPayload{
		Title: "Day 7",
		Body:  "**Rejected** by 10 CEOs <script>alert(1)</script>",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/journal", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	entries := env.lastData(t)["entries"].([]journalEntryView)
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	body := string(entries[0].Body)
	if !strings.Contains(body, "<strong>Rejected</strong>") || strings.Contains(body, "<script>") {
		t.Fatalf("unexpected rendered body: %s", body)
	}

	rec = env.doJSON(t, http.MethodPost, "/api/journal", journalPayload{Title: "empty"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestArsenalLockAndBooks(t *testing.T) {
	env := setupHandlerTest(t)

	rec := env.do(t, http.MethodGet, "/arsenal", nil, "")
	if rec.Code != http.StatusLocked {
		t.Fatalf("expected status %d, got %d", http.StatusLocked, rec.Code)
	}

	if _, err := env.set.Records.Upsert(metrics.Record{Date: metrics.Day(testNow).AddDate(0, 0, -2), ReadingPages: 25}); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	rec = env.do(t, http.MethodGet, "/arsenal", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	books := env.lastData(t)["books"].([]db.Book)
	if len(books) != len(content.RequiredReading) {
		t.Fatalf("expected %d books, got %d", len(content.RequiredReading), len(books))
	}

	rec = env.doJSON(t, http.MethodPut, "/api/books/"+url.PathEscape("The Art of War"), map[string]interface{}{"status": "Absorbed", "progress": 100})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	rec = env.doJSON(t, http.MethodPut, "/api/books/"+url.PathEscape("The Art of War"), map[string]interface{}{"status": "Absorbed", "progress": 140})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	rec = env.doJSON(t, http.MethodPut, "/api/books/Unknown", map[string]interface{}{"status": "Reading", "progress": 1})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}

	env.postForm(t, "/arsenal/books", url.Values{"title": {"Meditations"}, "status": {"Reading"}, "progress": {"30"}})
	rec = env.do(t, http.MethodGet, "/api/books", nil, "")
	if !strings.Contains(rec.Body.String(), `"title":"Meditations","status":"Reading","progress":30`) {
		t.Fatalf("expected updated book in %s", rec.Body.String())
	}
}

func TestExportAndRealityCheck(t *testing.T) {
	env := setupHandlerTest(t)

	if _, err := env.set.Records.Upsert(metrics.Record{Date: metrics.Day(testNow), ColdCalls: 7, Notes: "ok"}); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	rec := env.do(t, http.MethodGet, "/api/export.csv", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if !strings.HasPrefix(rec.Body.String(), "date,cold_calls,") || !strings.Contains(rec.Body.String(), "2026-03-15,7,") {
		t.Fatalf("unexpected csv: %s", rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "mission_data-2026-03-15.csv") {
		t.Fatalf("unexpected disposition: %s", got)
	}

	rec = env.do(t, http.MethodGet, "/api/reality-check", nil, "")
	var body struct {
		Quote string `json:"quote"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	found := false
	for _, q := range content.RealityChecks {
		if q == body.Quote {
			found = true
		}
	}
	if !found {
		t.Fatalf("quote not from the bank: %q", body.Quote)
	}
}

func TestPlanAndLogsPages(t *testing.T) {
	env := setupHandlerTest(t)

	rec := env.do(t, http.MethodGet, "/plan", nil, "")
	if rec.Code != http.StatusOK || env.renderer.last.name != "plan.html" {
		t.Fatalf("unexpected plan response %d %s", rec.Code, env.renderer.last.name)
	}
	if got := env.lastData(t)["activeTab"]; got != "plan" {
		t.Fatalf("expected active tab plan, got %v", got)
	}

	rec = env.do(t, http.MethodGet, "/logs", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if form := env.lastData(t)["form"].(recordPayload); form.Date != "2026-03-15" {
		t.Fatalf("expected form to default to today, got %s", form.Date)
	}
}

func TestHeatmapAndCalendar(t *testing.T) {
	env := setupHandlerTest(t)

	day := metrics.Day(testNow)
	seed := []metrics.Record{
		{Date: day.AddDate(0, 0, -3), DeepWorkHours: 5, ColdCalls: 12, WorkoutDone: true},
		{Date: day.AddDate(0, 0, -2), ReadingPages: 10},
		{Date: day.AddDate(0, 0, -1), Notes: "nothing"},
	}
	if _, err := env.set.Records.UpsertAll(seed); err != nil {
		t.Fatalf("UpsertAll returned error: %v", err)
	}

	rec := env.do(t, http.MethodGet, "/api/heatmap", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var heatmap heatmapPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &heatmap); err != nil {
		t.Fatalf("decode heatmap: %v", err)
	}
	if heatmap.Range.End != "2026-03-15" || heatmap.Range.Start != "2025-03-16" {
		t.Fatalf("unexpected range %+v", heatmap.Range)
	}
	if len(heatmap.Days) != 3 || heatmap.Summary.ActiveDays != 2 {
		t.Fatalf("unexpected heatmap days %+v summary %+v", heatmap.Days, heatmap.Summary)
	}
	first := heatmap.Days[0]
	if first.Date != "2026-03-12" || first.Level != 3 || len(first.Met) != 4 {
		t.Fatalf("unexpected first day %+v", first)
	}
	if heatmap.Days[2].Level != 0 || heatmap.Summary.ByName["reading"] != 1 {
		t.Fatalf("unexpected levels %+v", heatmap)
	}

	rec = env.do(t, http.MethodGet, "/api/calendar?view=weekly&start=2026-03-13", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var calendar struct {
		Records []recordPayload        `json:"records"`
		Stats   []activityStatsPayload `json:"stats"`
		Range   map[string]string      `json:"range"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &calendar); err != nil {
		t.Fatalf("decode calendar: %v", err)
	}
	if calendar.Range["start"] != "2026-03-09" || calendar.Range["end"] != "2026-03-15" {
		t.Fatalf("unexpected range %v", calendar.Range)
	}
	if len(calendar.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(calendar.Records))
	}
	for _, st := range calendar.Stats {
		if st.TargetCount != 7 {
			t.Fatalf("expected 7 target days, got %+v", st)
		}
		if st.Name == "workout" && (st.CompletedCount != 1 || st.LongestStreak != 1) {
			t.Fatalf("unexpected workout stats %+v", st)
		}
	}

	rec = env.do(t, http.MethodGet, "/api/calendar?view=yearly", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/calendar?start=03/13/2026", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestResolveRange(t *testing.T) {
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	start, end, ok := resolveRange("", "monthly", today)
	if !ok || start.Format(metrics.DateLayout) != "2026-03-01" || end.Format(metrics.DateLayout) != "2026-03-31" {
		t.Fatalf("unexpected monthly range %s %s", start, end)
	}
	start, end, ok = resolveRange("2026-03-15", "weekly", today)
	if !ok || start.Format(metrics.DateLayout) != "2026-03-09" || end.Format(metrics.DateLayout) != "2026-03-15" {
		t.Fatalf("unexpected weekly range %s %s", start, end)
	}
	if _, _, ok := resolveRange("tomorrow", "weekly", today); ok {
		t.Fatalf("expected a bad start to be rejected")
	}
}
