package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/utopialog/internal/service"
)

const (
	flashNotice = "notice"
	flashAlert  = "alert"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// handleServiceError maps service sentinels onto HTTP statuses.
func (a *API) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRecordInvalid),
		errors.Is(err, service.ErrDirectiveTextMissing),
		errors.Is(err, service.ErrBookInvalid),
		errors.Is(err, service.ErrJournalEntryInvalid):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrRecordNotFound),
		errors.Is(err, service.ErrDirectiveNotFound),
		errors.Is(err, service.ErrBookNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	default:
		a.log.Error("request failed", "path", c.Request.URL.Path, "error", err)
		respondError(c, http.StatusInternalServerError, "operation failed")
	}
}

// userMessage is the flash text for a failed form submission.
func userMessage(err error) string {
	for _, known := range []error{
		service.ErrRecordInvalid,
		service.ErrDirectiveTextMissing,
		service.ErrBookInvalid,
		service.ErrJournalEntryInvalid,
		service.ErrRecordNotFound,
		service.ErrDirectiveNotFound,
		service.ErrBookNotFound,
	} {
		if errors.Is(err, known) {
			return err.Error()
		}
	}
	return "operation failed"
}

func addFlash(c *gin.Context, kind, message string) {
	session := sessions.Default(c)
	session.AddFlash(message, kind)
	_ = session.Save()
}

func popFlashes(c *gin.Context) (notices, alerts []string) {
	session := sessions.Default(c)
	for _, v := range session.Flashes(flashNotice) {
		if s, ok := v.(string); ok {
			notices = append(notices, s)
		}
	}
	for _, v := range session.Flashes(flashAlert) {
		if s, ok := v.(string); ok {
			alerts = append(alerts, s)
		}
	}
	if len(notices) > 0 || len(alerts) > 0 {
		_ = session.Save()
	}
	return notices, alerts
}

// redirectWith stores a flash and sends the browser back with 303.
func redirectWith(c *gin.Context, location, kind, message string) {
	addFlash(c, kind, message)
	c.Redirect(http.StatusSeeOther, location)
}

// formInt reads an optional non-negative integer form field. Blank is 0.
func formInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.PostForm(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a whole number", service.ErrRecordInvalid, key)
	}
	return v, nil
}

// formFloat reads an optional decimal form field. Blank is 0.
func formFloat(c *gin.Context, key string) (float64, error) {
	raw := strings.TrimSpace(c.PostForm(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", service.ErrRecordInvalid, key)
	}
	return v, nil
}

func formBool(c *gin.Context, key string) bool {
	switch strings.ToLower(strings.TrimSpace(c.PostForm(key))) {
	case "1", "on", "true", "yes":
		return true
	}
	return false
}
