package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/utopialog/internal/db"
)

type directivePayload struct {
	Text string `json:"text"`
}

type directiveStatusPayload struct {
	Done *bool `json:"done"`
}

// ShowOps 渲染任务列表页
func (a *API) ShowOps(c *gin.Context) {
	directives, err := a.directives.List()
	if err != nil {
		a.log.Error("list directives", "error", err)
		a.renderHTML(c, http.StatusInternalServerError, "ops.html", "ops", gin.H{
			"title": "OPS",
			"error": "failed to load directives",
		})
		return
	}
	a.renderHTML(c, http.StatusOK, "ops.html", "ops", gin.H{
		"title":      "OPS",
		"directives": directives,
	})
}

// AddDirectiveForm appends a directive from the ops form.
func (a *API) AddDirectiveForm(c *gin.Context) {
	if _, err := a.directives.Add(c.PostForm("text")); err != nil {
		redirectWith(c, "/ops", flashAlert, userMessage(err))
		return
	}
	redirectWith(c, "/ops", flashNotice, "Directive added.")
}

// ToggleDirectiveForm sets the done flag from a checkbox form.
func (a *API) ToggleDirectiveForm(c *gin.Context) {
	if _, err := a.directives.SetDone(c.Param("id"), formBool(c, "done")); err != nil {
		redirectWith(c, "/ops", flashAlert, userMessage(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/ops")
}

// PurgeDirectivesForm deletes completed directives from the ops form.
func (a *API) PurgeDirectivesForm(c *gin.Context) {
	n, err := a.directives.PurgeCompleted()
	if err != nil {
		redirectWith(c, "/ops", flashAlert, userMessage(err))
		return
	}
	redirectWith(c, "/ops", flashNotice, fmt.Sprintf("Purged %d completed directives.", n))
}

// ListDirectives 返回任务列表 JSON
func (a *API) ListDirectives(c *gin.Context) {
	directives, err := a.directives.List()
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	if directives == nil {
		directives = []db.Directive{}
	}
	c.JSON(http.StatusOK, gin.H{"directives": directives})
}

// CreateDirective appends a directive from JSON.
func (a *API) CreateDirective(c *gin.Context) {
	var payload directivePayload
	if !bindJSON(c, &payload, "invalid directive payload") {
		return
	}
	directive, err := a.directives.Add(payload.Text)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"directive": directive})
}

// UpdateDirective sets the done flag of one directive.
func (a *API) UpdateDirective(c *gin.Context) {
	var payload directiveStatusPayload
	if !bindJSON(c, &payload, "invalid directive payload") {
		return
	}
	if payload.Done == nil {
		respondError(c, http.StatusBadRequest, "done is required")
		return
	}
	directive, err := a.directives.SetDone(c.Param("id"), *payload.Done)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"directive": directive})
}

// PurgeDirectives deletes every completed directive.
func (a *API) PurgeDirectives(c *gin.Context) {
	n, err := a.directives.PurgeCompleted()
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purged": n})
}
