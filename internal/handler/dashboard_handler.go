package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/utopialog/internal/content"
	"github.com/utopialog/internal/metrics"
	"github.com/utopialog/internal/view"
)

const priorityDirectiveCount = 3

// ShowCommand 渲染指挥中心；昨日未达标时返回锁屏
func (a *API) ShowCommand(c *gin.Context) {
	report, ok := a.report(c)
	if !ok {
		a.renderHTML(c, http.StatusInternalServerError, "error.html", "command", gin.H{
			"title": "COMMAND",
			"error": "failed to evaluate the log",
		})
		return
	}

	if report.Locks.Dashboard {
		policy := a.dashboard.Policy()
		yesterday := report.Today.AddDate(0, 0, -1).Format(metrics.DateLayout)
		a.renderHTML(c, http.StatusLocked, "locked.html", "command", gin.H{
			"title":  "COMMAND LOCKED",
			"reason": "Yesterday's log is missing or below the line.",
			"requirements": []string{
				fmt.Sprintf("Deep work of at least %g hours", policy.Locks.DashboardMinDeepWork),
				fmt.Sprintf("At least %d cold calls", policy.Locks.DashboardMinColdCalls),
			},
			"date":    yesterday,
			"unlock":  "/logs?date=" + yesterday,
			"message": a.picker.EscalationMessage(report.Escalation),
		})
		return
	}

	directives, err := a.directives.Active(priorityDirectiveCount)
	if err != nil {
		a.log.Warn("load priority directives", "error", err)
	}

	a.renderHTML(c, http.StatusOK, "command.html", "command", gin.H{
		"title":      "COMMAND",
		"report":     report,
		"badge":      view.StateBadge(report.Assessment.State),
		"integrity":  view.Integrity(report.WinRate),
		"directives": directives,
		"message":    a.picker.EscalationMessage(report.Escalation),
	})
}

// ShowPlan renders the static battle plan.
func (a *API) ShowPlan(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "plan.html", "plan", gin.H{
		"title":   content.PlanTitle,
		"mandate": content.PlanMandate,
		"phases":  content.BattlePlan,
	})
}

// GetReport returns the full engine report. It is never locked.
func (a *API) GetReport(c *gin.Context) {
	report, ok := a.report(c)
	if !ok {
		respondError(c, http.StatusInternalServerError, "failed to evaluate the log")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"report":             report,
		"state":              report.Assessment.State,
		"escalation_message": a.picker.EscalationMessage(report.Escalation),
	})
}

// GetRealityCheck returns a random quote from the reality-check bank.
func (a *API) GetRealityCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"quote": a.picker.RealityCheck()})
}

// GetLyric returns one header line for the rotating banner.
func (a *API) GetLyric(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"lyric": a.picker.Lyric()})
}
