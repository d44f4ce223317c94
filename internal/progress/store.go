package progress

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/syllabusmaster/planner/internal/syllabus"
)

// saveTimeout bounds each background merge-save.
const saveTimeout = 5 * time.Second

// Syncer is the durability capability injected into the store. Saves are
// merge-writes: fields present in the snapshot overwrite the remote
// document's same-named fields, absent fields stay untouched.
type Syncer interface {
	Save(ctx context.Context, identifier string, p *UserProgress) error
}

// NoopSyncer discards saves. Used when a session runs without a backing
// store and in tests that only exercise local state.
type NoopSyncer struct{}

func (NoopSyncer) Save(context.Context, string, *UserProgress) error { return nil }

// Store owns one student's UserProgress for the duration of a session.
// Mutations apply synchronously to local state, which is authoritative for
// the session, and are pushed to the syncer fire-and-forget: a failed save
// is logged, never retried in the background, and never rolled back.
type Store struct {
	mu         sync.Mutex
	identifier string
	progress   *UserProgress
	catalog    *syllabus.Catalog
	syncer     Syncer
	now        func() time.Time

	wg   sync.WaitGroup // in-flight background saves
	subs map[int]chan struct{}
	next int
}

// NewStore wraps an aggregate for a session. A nil syncer disables
// persistence.
func NewStore(identifier string, p *UserProgress, cat *syllabus.Catalog, syncer Syncer) *Store {
	if syncer == nil {
		syncer = NoopSyncer{}
	}
	return &Store{
		identifier: identifier,
		progress:   p,
		catalog:    cat,
		syncer:     syncer,
		now:        time.Now,
		subs:       make(map[int]chan struct{}),
	}
}

// Snapshot returns a deep copy of the current aggregate.
func (s *Store) Snapshot() *UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress.Clone()
}

// Wait blocks until in-flight background saves finish. Test and shutdown
// hook only.
func (s *Store) Wait() { s.wg.Wait() }

// Updates registers a change listener. The channel is buffered and
// coalescing: bursts of mutations collapse into a single pending signal.
// The cancel function must be called when the listener goes away.
func (s *Store) Updates() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// notify signals registered listeners. Caller must hold s.mu.
func (s *Store) notify() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// scheduleSave pushes a snapshot through the syncer without blocking the
// mutation path. Caller must hold s.mu.
func (s *Store) scheduleSave() {
	s.notify()
	snapshot := s.progress.Clone()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := s.syncer.Save(ctx, s.identifier, snapshot); err != nil {
			slog.Warn("progress save failed, local state remains authoritative",
				"identifier", s.identifier, "error", err)
		}
	}()
}

// ToggleResult reports the outcome of a completion toggle.
type ToggleResult struct {
	TopicID   string
	Completed bool
	// PromptTest is set when a non-mathematics topic just transitioned to
	// complete; mathematics topics are exempt from mandatory test prompts.
	PromptTest bool
}

// ToggleTopicCompletion flips a topic's membership in the completed set.
// Un-completing leaves test history and weak-topic membership untouched:
// history is sticky and a topic cannot be un-tested.
func (s *Store) ToggleTopicCompletion(monthIndex int, subject, topicName string) ToggleResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.progress
	id := syllabus.TopicID(p.SelectedClass, monthIndex, subject, topicName)
	completed := !contains(p.CompletedTopics, id)
	if completed {
		p.CompletedTopics = addUnique(p.CompletedTopics, id)
	} else {
		p.CompletedTopics = remove(p.CompletedTopics, id)
	}
	s.scheduleSave()

	return ToggleResult{
		TopicID:    id,
		Completed:  completed,
		PromptTest: completed && !isMathSubject(subject),
	}
}

// RecordTestResult appends a self-reported score for a topic, marks the
// topic tested and reconciles the weak-topic set. This is the only code
// path allowed to touch WeakTopics so the cached set cannot drift from the
// result log. Scores outside 0..100 are rejected with no state change.
func (s *Store) RecordTestResult(topicID string, score int) error {
	if score < 0 || score > 100 {
		return ErrInvalidScore
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.progress
	p.McqResults = append(p.McqResults, McqResult{
		TopicID: topicID,
		Score:   score,
		Date:    s.now().UTC(),
	})
	if score < WeakThreshold {
		p.WeakTopics = addUnique(p.WeakTopics, topicID)
	} else {
		p.WeakTopics = remove(p.WeakTopics, topicID)
	}
	p.TestedTopics = addUnique(p.TestedTopics, topicID)
	s.scheduleSave()
	return nil
}

// ChangeActiveMonth moves the student's month pointer. Jumps forward or
// back are allowed regardless of completion state.
func (s *Store) ChangeActiveMonth(month int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress.CurrentMonth = month
	s.scheduleSave()
}

// ToggleDailyFlag flips one boolean daily-task flag, or sets it when
// explicit is non-nil. No cross-field effects.
func (s *Store) ToggleDailyFlag(flag string, explicit *bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := &s.progress.DailyTasks
	var field *bool
	switch flag {
	case "studyDone":
		field = &d.StudyDone
	case "revisionDone":
		field = &d.RevisionDone
	case "saturdayRevisionDone":
		field = &d.SaturdayRevisionDone
	case "mcqDone":
		field = &d.McqDone
	default:
		return ErrUnknownFlag
	}

	if explicit != nil {
		*field = *explicit
	} else {
		*field = !*field
	}
	s.scheduleSave()
	return nil
}

// ConsumeSkipToken spends one of the month's five skip allowances and
// marks the day's study obligation satisfied. Fails with no state change
// once the quota is reached.
func (s *Store) ConsumeSkipToken(month int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.progress
	if p.SkippedDaysCount[month] >= MaxSkipsPerMonth {
		return ErrSkipQuotaExceeded
	}
	if p.SkippedDaysCount == nil {
		p.SkippedDaysCount = map[int]int{}
	}
	p.SkippedDaysCount[month]++
	p.DailyTasks.StudyDone = true
	s.scheduleSave()
	return nil
}

// ToggleBoard flips between the two supported boards and returns the new
// value.
func (s *Store) ToggleBoard() Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.progress
	if p.Board == BoardCBSE {
		p.Board = BoardBSEB
	} else {
		p.Board = BoardCBSE
	}
	s.scheduleSave()
	return p.Board
}

// ResetDailyTasksIfStale applies the daily-task reset policy and persists
// the result when anything changed. Invoked at hydration and by the
// midnight job.
func (s *Store) ResetDailyTasksIfStale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.progress.ResetIfStale(s.now()) {
		return false
	}
	s.scheduleSave()
	return true
}

// ApplyRemote merges a pushed remote snapshot into local state,
// remote-wins per top-level field. Arrives outside the local mutation path
// so it does not trigger a save of its own.
func (s *Store) ApplyRemote(doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := Merge(s.progress, doc); err != nil {
		return err
	}
	s.notify()
	return nil
}

// isMathSubject matches the mathematics exemption from test prompts.
func isMathSubject(subject string) bool {
	return strings.Contains(strings.ToLower(subject), "math")
}
