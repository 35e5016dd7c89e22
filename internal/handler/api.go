package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/utopialog/internal/content"
	"github.com/utopialog/internal/logger"
	"github.com/utopialog/internal/metrics"
	"github.com/utopialog/internal/service"
	"github.com/utopialog/internal/view"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	records    *service.RecordService
	directives *service.DirectiveService
	reading    *service.ReadingService
	journal    *service.JournalService
	dashboard  *service.DashboardService
	activity   *service.ActivityService
	backups    *service.BackupService
	picker     *content.Picker
	log        *logger.Logger
}

const siteName = "PROJECT UTOPIA"

// NewAPI constructs a handler set over the given services.
func NewAPI(set *service.Set, picker *content.Picker, log *logger.Logger) *API {
	if picker == nil {
		picker = content.NewPicker(0)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &API{
		records:    set.Records,
		directives: set.Directives,
		reading:    set.Reading,
		journal:    set.Journal,
		dashboard:  set.Dashboard,
		activity:   set.Activity,
		backups:    set.Backups,
		picker:     picker,
		log:        log,
	}
}

// renderHTML adds the page chrome every template expects: navigation,
// header lyric and pending flash messages.
func (a *API) renderHTML(c *gin.Context, status int, template, tab string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	notices, alerts := popFlashes(c)
	if _, exists := payload["siteName"]; !exists {
		payload["siteName"] = siteName
	}
	if _, exists := payload["lyric"]; !exists {
		payload["lyric"] = a.picker.Lyric()
	}
	payload["tabs"] = view.Tabs()
	payload["activeTab"] = tab
	payload["notices"] = notices
	payload["alerts"] = alerts

	c.HTML(status, template, payload)
}

// report evaluates the store, logging failures for the caller.
func (a *API) report(c *gin.Context) (metrics.Report, bool) {
	report, err := a.dashboard.Report()
	if err != nil {
		a.log.Error("evaluate report", "error", err)
		c.Error(err)
		return metrics.Report{}, false
	}
	return report, true
}
