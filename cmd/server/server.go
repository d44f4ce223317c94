package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/syllabusmaster/planner/internal/platform/config"
	"github.com/syllabusmaster/planner/internal/progress"
	"github.com/syllabusmaster/planner/internal/session"
	"github.com/syllabusmaster/planner/internal/syllabus"
)

// app wires the catalog, the session manager and the set of live sessions
// behind the HTTP surface. One session per identifier: the UI on any
// number of tabs shares the single logical owner of that student's state.
type app struct {
	cfg     *config.Config
	catalog *syllabus.Catalog
	manager *session.Manager

	mu       sync.Mutex
	sessions map[string]*session.Session
}

func newApp(cfg *config.Config, cat *syllabus.Catalog, mgr *session.Manager) *app {
	return &app{
		cfg:      cfg,
		catalog:  cat,
		manager:  mgr,
		sessions: make(map[string]*session.Session),
	}
}

func (a *app) newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", handleReadyz)

	mux.HandleFunc("POST /api/login", a.handleLogin)
	mux.HandleFunc("POST /api/register", a.handleRegister)
	mux.HandleFunc("POST /api/logout", a.handleLogout)

	mux.HandleFunc("GET /api/syllabus/{class}", a.handleSyllabus)
	mux.HandleFunc("GET /api/progress", a.handleSnapshot)
	mux.HandleFunc("GET /api/report", a.handleReport)

	mux.HandleFunc("POST /api/topics/toggle", a.handleToggleTopic)
	mux.HandleFunc("POST /api/tests", a.handleTestResult)
	mux.HandleFunc("POST /api/month", a.handleChangeMonth)
	mux.HandleFunc("POST /api/daily-flag", a.handleDailyFlag)
	mux.HandleFunc("POST /api/skip", a.handleSkip)
	mux.HandleFunc("POST /api/board", a.handleBoard)

	mux.HandleFunc("GET /ws", a.handleWS)

	if a.cfg.Admin.TokenHash != "" {
		mux.HandleFunc("POST /admin/classes/{class}/months", a.requireAdmin(a.handleReplaceMonth))
		mux.HandleFunc("POST /admin/classes/{class}/months/{month}/import", a.requireAdmin(a.handleImportMonth))
	}

	return mux
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func handleReadyz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// session returns the live session for an identifier, if any. The raw
// input is normalized so every spelling of the same identifier lands on
// the same session.
func (a *app) session(rawID string) (*session.Session, bool) {
	id, err := session.NormalizeIdentifier(rawID)
	if err != nil {
		return nil, false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.sessions[id]
	return s, ok
}

// adoptSession registers a freshly opened session for its identifier. When
// a concurrent login or registration already installed one, that session
// stays the single owner: the latecomer is closed and the existing one
// returned.
func (a *app) adoptSession(s *session.Session) *session.Session {
	a.mu.Lock()
	existing, ok := a.sessions[s.Identifier]
	if !ok {
		a.sessions[s.Identifier] = s
	}
	a.mu.Unlock()

	if ok {
		s.Close()
		return existing
	}
	return s
}

func (a *app) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	if s, ok := a.session(req.Identifier); ok {
		writeJSON(w, http.StatusOK, s.Store.Snapshot())
		return
	}

	s, err := a.manager.Login(r.Context(), req.Identifier)
	switch {
	case errors.Is(err, session.ErrIdentifierTooShort):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, session.ErrUnknownStudent):
		writeError(w, http.StatusNotFound, "no saved profile, registration required")
		return
	case err != nil:
		// Backing store failure: the student stays unauthenticated rather
		// than being treated as new.
		slog.Error("login failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "profile store unavailable")
		return
	}

	s = a.adoptSession(s)
	writeJSON(w, http.StatusOK, s.Store.Snapshot())
}

func (a *app) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Class      string `json:"class"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	class, err := syllabus.ParseClassLevel(req.Class)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s, err := a.manager.Register(r.Context(), req.Identifier, class)
	switch {
	case errors.Is(err, session.ErrIdentifierTooShort):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		slog.Error("registration failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "profile store unavailable")
		return
	}

	s = a.adoptSession(s)
	writeJSON(w, http.StatusCreated, s.Store.Snapshot())
}

func (a *app) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	id, err := session.NormalizeIdentifier(req.Identifier)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	a.mu.Lock()
	s, ok := a.sessions[id]
	delete(a.sessions, id)
	a.mu.Unlock()

	if ok {
		s.Close()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *app) handleSyllabus(w http.ResponseWriter, r *http.Request) {
	class, err := syllabus.ParseClassLevel(r.PathValue("class"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s, ok := a.catalog.Class(class)
	if !ok {
		writeError(w, http.StatusNotFound, "class not found")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (a *app) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(r.URL.Query().Get("identifier"))
	if !ok {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}
	writeJSON(w, http.StatusOK, s.Store.Snapshot())
}

func (a *app) handleToggleTopic(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		MonthIndex int    `json:"monthIndex"`
		Subject    string `json:"subject"`
		Topic      string `json:"topic"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	s, ok := a.session(req.Identifier)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	res := s.Store.ToggleTopicCompletion(req.MonthIndex, req.Subject, req.Topic)
	writeJSON(w, http.StatusOK, map[string]any{
		"topicId":    res.TopicID,
		"completed":  res.Completed,
		"promptTest": res.PromptTest,
	})
}

func (a *app) handleTestResult(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		TopicID    string `json:"topicId"`
		Score      int    `json:"score"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	s, ok := a.session(req.Identifier)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	if err := s.Store.RecordTestResult(req.TopicID, req.Score); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"averageScore": s.Store.AverageScore(),
	})
}

func (a *app) handleChangeMonth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Month      int    `json:"month"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	s, ok := a.session(req.Identifier)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	s.Store.ChangeActiveMonth(req.Month)
	w.WriteHeader(http.StatusNoContent)
}

func (a *app) handleDailyFlag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Flag       string `json:"flag"`
		Value      *bool  `json:"value"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	s, ok := a.session(req.Identifier)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	if err := s.Store.ToggleDailyFlag(req.Flag, req.Value); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *app) handleSkip(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Month      int    `json:"month"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	s, ok := a.session(req.Identifier)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	if err := s.Store.ConsumeSkipToken(req.Month); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *app) handleBoard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	s, ok := a.session(req.Identifier)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"board": s.Store.ToggleBoard()})
}

// handleReport builds the yearly pending-work report: per-month completion
// percentage and outstanding topics, plus the overall average score.
func (a *app) handleReport(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(r.URL.Query().Get("identifier"))
	if !ok {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	class, ok := s.Syllabus()
	if !ok {
		writeError(w, http.StatusNotFound, "syllabus not found")
		return
	}

	type monthReport struct {
		Month      int                     `json:"month"`
		Completion int                     `json:"completion"`
		Pending    []progress.PendingTopic `json:"pending"`
	}
	months := make([]monthReport, 0, len(class.Months))
	for i := range class.Months {
		months = append(months, monthReport{
			Month:      i + 1,
			Completion: s.Store.CompletionPercentage(i),
			Pending:    s.Store.PendingTopics(i),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"months":       months,
		"averageScore": s.Store.AverageScore(),
		"weakTopics":   s.Store.Snapshot().WeakTopics,
	})
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
