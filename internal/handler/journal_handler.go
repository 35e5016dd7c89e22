package handler

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/utopialog/internal/db"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

const journalTimeLayout = "2006-01-02 15:04"

type journalEntryView struct {
	ID    string
	Title string
	Time  string
	Body  template.HTML
}

type journalPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	safe := sanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(safe), nil
}

// ShowJournal 渲染日记页，正文按 Markdown 渲染
func (a *API) ShowJournal(c *gin.Context) {
	entries, err := a.journal.List()
	if err != nil {
		a.log.Error("list journal", "error", err)
		a.renderHTML(c, http.StatusInternalServerError, "journal.html", "journal", gin.H{
			"title": "JOURNAL",
			"error": "failed to load the journal",
		})
		return
	}

	views := make([]journalEntryView, 0, len(entries))
	for _, entry := range entries {
		body, err := renderMarkdown(entry.Body)
		if err != nil {
			body = template.HTML(template.HTMLEscapeString(entry.Body))
		}
		views = append(views, journalEntryView{
			ID:    entry.ID,
			Title: entry.Title,
			Time:  entry.CreatedAt.Format(journalTimeLayout),
			Body:  body,
		})
	}

	a.renderHTML(c, http.StatusOK, "journal.html", "journal", gin.H{
		"title":   "JOURNAL",
		"entries": views,
	})
}

// SubmitJournal handles the journal form.
func (a *API) SubmitJournal(c *gin.Context) {
	if _, err := a.journal.Add(c.PostForm("title"), c.PostForm("body")); err != nil {
		redirectWith(c, "/journal", flashAlert, userMessage(err))
		return
	}
	redirectWith(c, "/journal", flashNotice, "Thought encrypted.")
}

// ListJournal 返回全部日记 JSON
func (a *API) ListJournal(c *gin.Context) {
	entries, err := a.journal.List()
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	if entries == nil {
		entries = []db.JournalEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// CreateJournalEntry stores one entry from JSON.
func (a *API) CreateJournalEntry(c *gin.Context) {
	var payload journalPayload
	if !bindJSON(c, &payload, "invalid journal payload") {
		return
	}
	entry, err := a.journal.Add(payload.Title, payload.Body)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}
