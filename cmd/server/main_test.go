package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/syllabusmaster/planner/internal/gateway"
	"github.com/syllabusmaster/planner/internal/platform/config"
	"github.com/syllabusmaster/planner/internal/session"
	"github.com/syllabusmaster/planner/internal/syllabus"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	cfg := &config.Config{}
	cat := syllabus.NewCatalog()
	mgr := session.NewManager(cat, gateway.NewMemory())
	a := newApp(cfg, cat, mgr)
	t.Cleanup(a.closeSessions)
	return a
}

func postJSON(t *testing.T, mux *http.ServeMux, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	mux := newTestApp(t).newMux()

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "healthz returns 200",
			path:       "/healthz",
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ok"}`,
		},
		{
			name:       "readyz returns 200",
			path:       "/readyz",
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ready"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRegisterLoginFlow(t *testing.T) {
	a := newTestApp(t)
	mux := a.newMux()

	rec := postJSON(t, mux, "/api/register", map[string]string{
		"identifier": "student@example.com",
		"class":      "10",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body)
	}

	var snapshot struct {
		SelectedClass string `json:"selectedClass"`
		LoginMethod   string `json:"loginMethod"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("decoding snapshot: %v", err)
	}
	if snapshot.SelectedClass != "10" {
		t.Errorf("selectedClass = %q, want %q", snapshot.SelectedClass, "10")
	}
	if snapshot.LoginMethod != "email" {
		t.Errorf("loginMethod = %q, want %q", snapshot.LoginMethod, "email")
	}

	// Logging in again, even with different casing, reuses the profile.
	rec = postJSON(t, mux, "/api/login", map[string]string{
		"identifier": "Student@Example.COM",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}
}

func TestAdoptSession_KeepsSingleOwner(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	first, err := a.manager.Register(ctx, "racer99", syllabus.Class9)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	// A second request that missed the pre-check opens its own session
	// before either reaches the registry.
	second, err := a.manager.Login(ctx, "racer99")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if got := a.adoptSession(first); got != first {
		t.Fatal("first adoption did not install the session")
	}
	if got := a.adoptSession(second); got != first {
		t.Error("second adoption displaced the existing session")
	}

	a.mu.Lock()
	n := len(a.sessions)
	registered := a.sessions[first.Identifier]
	a.mu.Unlock()
	if n != 1 {
		t.Errorf("sessions = %d, want 1", n)
	}
	if registered != first {
		t.Error("registry does not hold the original session")
	}
}

func TestConcurrentLogins(t *testing.T) {
	a := newTestApp(t)
	mux := a.newMux()

	if rec := postJSON(t, mux, "/api/register", map[string]string{
		"identifier": "parallel7", "class": "10",
	}); rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body)
	}
	a.closeSessions()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := postJSON(t, mux, "/api/login", map[string]string{"identifier": "parallel7"})
			if rec.Code != http.StatusOK {
				t.Errorf("login status = %d: %s", rec.Code, rec.Body)
			}
		}()
	}
	wg.Wait()

	a.mu.Lock()
	n := len(a.sessions)
	a.mu.Unlock()
	if n != 1 {
		t.Errorf("sessions = %d, want 1 after concurrent logins", n)
	}
}

func TestLoginUnknownStudent(t *testing.T) {
	mux := newTestApp(t).newMux()

	rec := postJSON(t, mux, "/api/login", map[string]string{"identifier": "nobody@example.com"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestToggleAndTestResult(t *testing.T) {
	a := newTestApp(t)
	mux := a.newMux()

	if rec := postJSON(t, mux, "/api/register", map[string]string{
		"identifier": "9876543210", "class": "9",
	}); rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body)
	}

	rec := postJSON(t, mux, "/api/topics/toggle", map[string]any{
		"identifier": "9876543210",
		"monthIndex": 0,
		"subject":    "Science",
		"topic":      "Matter in Surroundings | हमारे आस-पास के पदार्थ",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d: %s", rec.Code, rec.Body)
	}
	var toggle struct {
		TopicID    string `json:"topicId"`
		Completed  bool   `json:"completed"`
		PromptTest bool   `json:"promptTest"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &toggle); err != nil {
		t.Fatalf("decoding toggle: %v", err)
	}
	if !toggle.Completed {
		t.Error("Completed = false, want true")
	}
	if !toggle.PromptTest {
		t.Error("PromptTest = false, want true for a non-math subject")
	}

	rec = postJSON(t, mux, "/api/tests", map[string]any{
		"identifier": "9876543210",
		"topicId":    toggle.TopicID,
		"score":      55,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("test result status = %d: %s", rec.Code, rec.Body)
	}

	rec = postJSON(t, mux, "/api/tests", map[string]any{
		"identifier": "9876543210",
		"topicId":    toggle.TopicID,
		"score":      150,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid score status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSkipQuotaOverHTTP(t *testing.T) {
	a := newTestApp(t)
	mux := a.newMux()

	if rec := postJSON(t, mux, "/api/register", map[string]string{
		"identifier": "skipper01", "class": "11",
	}); rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body)
	}

	for i := 0; i < 5; i++ {
		rec := postJSON(t, mux, "/api/skip", map[string]any{"identifier": "skipper01", "month": 1})
		if rec.Code != http.StatusNoContent {
			t.Fatalf("skip %d status = %d: %s", i+1, rec.Code, rec.Body)
		}
	}
	rec := postJSON(t, mux, "/api/skip", map[string]any{"identifier": "skipper01", "month": 1})
	if rec.Code != http.StatusConflict {
		t.Errorf("sixth skip status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestUnauthenticatedMutationsRejected(t *testing.T) {
	mux := newTestApp(t).newMux()

	paths := []string{"/api/topics/toggle", "/api/tests", "/api/month", "/api/daily-flag", "/api/skip", "/api/board"}
	for _, path := range paths {
		rec := postJSON(t, mux, path, map[string]any{"identifier": "ghost123"})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s status = %d, want %d", path, rec.Code, http.StatusUnauthorized)
		}
	}
}

func TestSyllabusEndpoint(t *testing.T) {
	mux := newTestApp(t).newMux()

	for _, class := range []string{"9", "10", "11", "12"} {
		req := httptest.NewRequest(http.MethodGet, "/api/syllabus/"+class, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("class %s status = %d, want %d", class, rec.Code, http.StatusOK)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/syllabus/13", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("class 13 status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestAdminEndpointsDisabledWithoutHash(t *testing.T) {
	mux := newTestApp(t).newMux()

	rec := postJSON(t, mux, "/admin/classes/9/months", map[string]any{"number": 1})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d when no admin hash configured", rec.Code, http.StatusNotFound)
	}
}

func TestReportEndpoint(t *testing.T) {
	a := newTestApp(t)
	mux := a.newMux()

	if rec := postJSON(t, mux, "/api/register", map[string]string{
		"identifier": "reporter1", "class": "12",
	}); rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/report?identifier=reporter1", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var report struct {
		Months []struct {
			Month      int `json:"month"`
			Completion int `json:"completion"`
		} `json:"months"`
		AverageScore int `json:"averageScore"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if len(report.Months) != 12 {
		t.Fatalf("len(Months) = %d, want 12", len(report.Months))
	}
	for i, m := range report.Months {
		if m.Month != i+1 {
			t.Errorf("Months[%d].Month = %d, want %d", i, m.Month, i+1)
		}
	}
}
