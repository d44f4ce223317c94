// Package session ties one student's identifier to their hydrated
// progress store and the sync gateway. All UI collaborators reach the
// progress operations through a Session; nothing here is reachable as
// ambient global state.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/syllabusmaster/planner/internal/gateway"
	"github.com/syllabusmaster/planner/internal/progress"
	"github.com/syllabusmaster/planner/internal/syllabus"
)

// ErrUnknownStudent signals that no saved profile exists for the
// identifier; the caller should proceed to registration. A failing
// backing store surfaces as a different error and must not be read as
// "new student".
var ErrUnknownStudent = errors.New("no saved profile for identifier")

// Manager opens sessions against a shared catalog and gateway.
type Manager struct {
	catalog *syllabus.Catalog
	gw      gateway.Gateway
}

// NewManager builds a session manager. The gateway is injected as a
// capability; passing a gateway.Memory gives an offline mode.
func NewManager(cat *syllabus.Catalog, gw gateway.Gateway) *Manager {
	return &Manager{catalog: cat, gw: gw}
}

// Session is the single logical owner of one student's progress for the
// lifetime of a login on one device.
type Session struct {
	Identifier string
	Store      *progress.Store

	catalog *syllabus.Catalog
	stop    func()
}

// Login hydrates a session from the stored profile. The identifier is
// normalized first; an absent profile returns ErrUnknownStudent.
func (m *Manager) Login(ctx context.Context, rawID string) (*Session, error) {
	id, err := NormalizeIdentifier(rawID)
	if err != nil {
		return nil, err
	}

	doc, found, err := m.gw.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	if !found {
		return nil, ErrUnknownStudent
	}

	p, err := progress.Hydrate(doc)
	if err != nil {
		return nil, fmt.Errorf("hydrating profile: %w", err)
	}

	sess := m.open(id, p)
	if sess.Store.ResetDailyTasksIfStale() {
		slog.Info("daily tasks reset", "identifier", id)
	}
	return sess, nil
}

// Register creates the default zero-state profile for a new student and
// writes it through before the session starts. The original raw input is
// kept as the display loginId; the folded form keys the document.
func (m *Manager) Register(ctx context.Context, rawID string, class syllabus.ClassLevel) (*Session, error) {
	id, err := NormalizeIdentifier(rawID)
	if err != nil {
		return nil, err
	}

	p := progress.New(rawID, DetectLoginMethod(rawID), class, time.Now())
	if err := m.gw.Save(ctx, id, p); err != nil {
		return nil, fmt.Errorf("saving new profile: %w", err)
	}

	slog.Info("student registered", "identifier", id, "class", class, "method", p.LoginMethod)
	return m.open(id, p), nil
}

func (m *Manager) open(id string, p *progress.UserProgress) *Session {
	sess := &Session{
		Identifier: id,
		Store:      progress.NewStore(id, p, m.catalog, m.gw),
		catalog:    m.catalog,
	}

	if sub, ok := m.gw.(gateway.Subscriber); ok {
		sess.watch(sub)
	}
	return sess
}

// watch applies pushed remote snapshots outside the local mutation path,
// shallow-merged with remote winning per top-level field.
func (s *Session) watch(sub gateway.Subscriber) {
	ctx, cancel := context.WithCancel(context.Background())
	snapshots, stop, err := sub.Subscribe(ctx, s.Identifier)
	if err != nil {
		cancel()
		slog.Warn("remote subscription unavailable", "identifier", s.Identifier, "error", err)
		return
	}
	s.stop = func() {
		stop()
		cancel()
	}

	go func() {
		for doc := range snapshots {
			if err := s.Store.ApplyRemote(doc); err != nil {
				slog.Warn("discarding malformed remote snapshot",
					"identifier", s.Identifier, "error", err)
			}
		}
	}()
}

// Syllabus returns the active class syllabus for the session's student.
func (s *Session) Syllabus() (*syllabus.ClassSyllabus, bool) {
	return s.catalog.Class(s.Store.Snapshot().SelectedClass)
}

// Close ends the session on this device: the subscription stops and
// in-flight saves drain. Remote state is never deleted here.
func (s *Session) Close() {
	if s.stop != nil {
		s.stop()
	}
	s.Store.Wait()
}
