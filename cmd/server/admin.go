package main

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/syllabusmaster/planner/internal/syllabus"
)

// requireAdmin checks the bearer token against the configured bcrypt hash.
// The endpoints are only registered when a hash is configured, so a missing
// hash never means open access.
func (a *app) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(a.cfg.Admin.TokenHash), []byte(token)) != nil {
			writeError(w, http.StatusForbidden, "invalid admin token")
			return
		}
		next(w, r)
	}
}

// handleReplaceMonth swaps in a full month definition supplied as JSON.
func (a *app) handleReplaceMonth(w http.ResponseWriter, r *http.Request) {
	class, err := syllabus.ParseClassLevel(r.PathValue("class"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var m syllabus.Month
	if !readJSON(w, r, &m) {
		return
	}
	if err := a.catalog.ReplaceMonth(class, m); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	slog.Info("month replaced", "class", class, "month", m.Number)
	w.WriteHeader(http.StatusNoContent)
}

// handleImportMonth replaces a month's content with subjects parsed from an
// uploaded Excel workbook. The month keeps its existing description and
// color; only the topic listing changes.
func (a *app) handleImportMonth(w http.ResponseWriter, r *http.Request) {
	class, err := syllabus.ParseClassLevel(r.PathValue("class"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	number, err := strconv.Atoi(r.PathValue("month"))
	if err != nil || number < 1 || number > 12 {
		writeError(w, http.StatusBadRequest, "month must be 1..12")
		return
	}

	subjects, err := syllabus.ImportMonthWorkbook(r.Body)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s, ok := a.catalog.Class(class)
	if !ok {
		writeError(w, http.StatusNotFound, "class not found")
		return
	}
	m := s.Months[number-1]
	m.Content = subjects
	m.DailyRevisionPlan = nil
	if err := a.catalog.ReplaceMonth(class, m); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	slog.Info("month imported from workbook",
		"class", class, "month", number, "subjects", len(subjects))
	w.WriteHeader(http.StatusNoContent)
}
