package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/utopialog/internal/content"
	"github.com/utopialog/internal/service"
)

type bookPayload struct {
	Status   string `json:"status"`
	Progress *int   `json:"progress"`
}

// ShowArsenal 渲染书单与播客页；长时间未阅读时返回锁屏
func (a *API) ShowArsenal(c *gin.Context) {
	report, ok := a.report(c)
	if !ok {
		a.renderHTML(c, http.StatusInternalServerError, "error.html", "arsenal", gin.H{
			"title": "ARSENAL",
			"error": "failed to evaluate the log",
		})
		return
	}

	if report.Locks.Arsenal {
		policy := a.dashboard.Policy()
		a.renderHTML(c, http.StatusLocked, "locked.html", "arsenal", gin.H{
			"title":  "ARSENAL LOCKED",
			"reason": "No pages read for too long.",
			"requirements": []string{
				fmt.Sprintf("Log reading at least once every %d days", policy.Locks.ArsenalMaxGapDays),
			},
			"unlock": "/logs",
		})
		return
	}

	books, err := a.reading.List()
	if err != nil {
		a.log.Error("list books", "error", err)
		a.renderHTML(c, http.StatusInternalServerError, "error.html", "arsenal", gin.H{
			"title": "ARSENAL",
			"error": "failed to load the library",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "arsenal.html", "arsenal", gin.H{
		"title":     "ARSENAL",
		"books":     books,
		"statuses":  service.BookStatuses,
		"listening": content.RequiredListening,
	})
}

// UpdateBookForm saves status and progress from the arsenal form.
func (a *API) UpdateBookForm(c *gin.Context) {
	progress, err := formInt(c, "progress")
	if err != nil {
		redirectWith(c, "/arsenal", flashAlert, "progress must be a whole number")
		return
	}
	title := strings.TrimSpace(c.PostForm("title"))
	if _, err := a.reading.Update(title, c.PostForm("status"), progress); err != nil {
		redirectWith(c, "/arsenal", flashAlert, userMessage(err))
		return
	}
	redirectWith(c, "/arsenal", flashNotice, title+" updated.")
}

// ListBooks 返回书单 JSON
func (a *API) ListBooks(c *gin.Context) {
	books, err := a.reading.List()
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books, "statuses": service.BookStatuses})
}

// UpdateBook sets status and progress of one title.
func (a *API) UpdateBook(c *gin.Context) {
	var payload bookPayload
	if !bindJSON(c, &payload, "invalid book payload") {
		return
	}
	if payload.Progress == nil {
		respondError(c, http.StatusBadRequest, "progress is required")
		return
	}
	book, err := a.reading.Update(c.Param("title"), payload.Status, *payload.Progress)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"book": book})
}
