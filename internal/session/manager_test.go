package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/syllabusmaster/planner/internal/gateway"
	"github.com/syllabusmaster/planner/internal/progress"
	"github.com/syllabusmaster/planner/internal/session"
	"github.com/syllabusmaster/planner/internal/syllabus"
)

// failingGateway simulates a backing store outage.
type failingGateway struct{}

func (failingGateway) Load(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (failingGateway) Save(context.Context, string, *progress.UserProgress) error {
	return errors.New("connection refused")
}

func newTestManager() (*session.Manager, *gateway.Memory) {
	gw := gateway.NewMemory()
	return session.NewManager(syllabus.NewCatalog(), gw), gw
}

func TestLogin_UnknownStudent(t *testing.T) {
	mgr, _ := newTestManager()

	_, err := mgr.Login(context.Background(), "nobody@example.com")
	if !errors.Is(err, session.ErrUnknownStudent) {
		t.Errorf("Login() error = %v, want ErrUnknownStudent", err)
	}
}

func TestLogin_StoreFailureIsNotUnknown(t *testing.T) {
	mgr := session.NewManager(syllabus.NewCatalog(), failingGateway{})

	_, err := mgr.Login(context.Background(), "student@example.com")
	if err == nil {
		t.Fatal("Login() error = nil, want error")
	}
	if errors.Is(err, session.ErrUnknownStudent) {
		t.Error("store failure reported as unknown student")
	}
}

func TestRegisterThenLogin(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	s, err := mgr.Register(ctx, "Student@Example.COM", syllabus.Class10)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if s.Identifier != "student@example.com" {
		t.Errorf("Identifier = %q, want folded form", s.Identifier)
	}
	snap := s.Store.Snapshot()
	if snap.LoginID != "Student@Example.COM" {
		t.Errorf("LoginID = %q, want original display form", snap.LoginID)
	}
	if snap.LoginMethod != progress.MethodEmail {
		t.Errorf("LoginMethod = %q, want email", snap.LoginMethod)
	}
	s.Store.ToggleTopicCompletion(0, "Maths", "Real Numbers | वास्तविक संख्याएँ")
	s.Close()

	// A fresh login with different casing lands on the same profile with
	// its progress intact.
	s2, err := mgr.Login(ctx, "STUDENT@example.com")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	defer s2.Close()
	if got := s2.Store.Snapshot().CompletedTopics; len(got) != 1 {
		t.Errorf("CompletedTopics = %v, want 1 entry after relogin", got)
	}
}

func TestRegister_TooShortIdentifier(t *testing.T) {
	mgr, _ := newTestManager()

	_, err := mgr.Register(context.Background(), "ab", syllabus.Class9)
	if !errors.Is(err, session.ErrIdentifierTooShort) {
		t.Errorf("Register() error = %v, want ErrIdentifierTooShort", err)
	}
}

func TestSession_ReceivesRemotePushes(t *testing.T) {
	mgr, gw := newTestManager()
	ctx := context.Background()

	s, err := mgr.Register(ctx, "shared-device", syllabus.Class11)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	defer s.Close()

	// A second device writes through the same gateway.
	other := progress.New("shared-device", progress.MethodID, syllabus.Class11, time.Now())
	other.CurrentMonth = 6
	if err := gw.Save(ctx, "shared-device", other); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Store.Snapshot().CurrentMonth == 6 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("CurrentMonth = %d, want 6 from remote push", s.Store.Snapshot().CurrentMonth)
}

func TestSession_Syllabus(t *testing.T) {
	mgr, _ := newTestManager()

	s, err := mgr.Register(context.Background(), "classgoer", syllabus.Class12)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	defer s.Close()

	class, ok := s.Syllabus()
	if !ok {
		t.Fatal("Syllabus() ok = false")
	}
	if class.ClassLevel != syllabus.Class12 {
		t.Errorf("ClassLevel = %q, want 12", class.ClassLevel)
	}
}

func TestFestivalOn(t *testing.T) {
	if name, ok := session.FestivalOn(time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)); !ok || name != "Independence Day" {
		t.Errorf("FestivalOn(Aug 15) = %q, %v", name, ok)
	}
	if _, ok := session.FestivalOn(time.Date(2026, 8, 16, 9, 0, 0, 0, time.UTC)); ok {
		t.Error("FestivalOn(Aug 16) ok = true, want false")
	}
}
