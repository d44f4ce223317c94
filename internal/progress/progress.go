// Package progress holds the mutable per-student state machine: completed
// and tested topic sets, test-result history, weak-topic detection, the
// skip-day quota and daily-task flags. One UserProgress aggregate exists
// per student; all mutations go through Store and are followed by a
// merge-save through the student's sync gateway.
package progress

import (
	"time"

	"github.com/syllabusmaster/planner/internal/syllabus"
)

// Board is the exam board the student targets. A display toggle only;
// syllabus content does not depend on it.
type Board string

const (
	BoardCBSE Board = "CBSE"
	BoardBSEB Board = "BSEB"
)

// LoginMethod records how the student's identifier was classified at
// registration. Immutable afterwards.
type LoginMethod string

const (
	MethodEmail LoginMethod = "email"
	MethodPhone LoginMethod = "phone"
	MethodID    LoginMethod = "id"
)

// WeakThreshold is the score below which a topic's latest result marks it
// weak.
const WeakThreshold = 60

// MaxSkipsPerMonth caps the skip tokens a student may consume in one month.
const MaxSkipsPerMonth = 5

// McqResult is one self-reported test score. The mcqResults log is
// append-only; the latest entry for a topic wins for "current score".
type McqResult struct {
	TopicID string    `json:"topicId"`
	Score   int       `json:"score"`
	Date    time.Time `json:"date"`
}

// DailyTasks are the per-day and per-week obligation flags. LastReset is a
// local calendar date (YYYY-MM-DD); see ResetIfStale for the reset policy.
type DailyTasks struct {
	LastReset            string `json:"lastReset"`
	StudyDone            bool   `json:"studyDone"`
	RevisionDone         bool   `json:"revisionDone"`
	SaturdayRevisionDone bool   `json:"saturdayRevisionDone"`
	SundayMcqCount       int    `json:"sundayMcqCount"`
	McqDone              bool   `json:"mcqDone"`
}

// UserProgress is the aggregate synchronized through the sync gateway, one
// logical document per student identifier. The topic sets serialize as
// plain string lists and skippedDaysCount as a sparse integer-keyed map,
// matching the persisted document layout.
type UserProgress struct {
	LoginID          string              `json:"loginId"`
	LoginMethod      LoginMethod         `json:"loginMethod"`
	Board            Board               `json:"board"`
	SelectedClass    syllabus.ClassLevel `json:"selectedClass"`
	CompletedTopics  []string            `json:"completedTopics"`
	TestedTopics     []string            `json:"testedTopics"`
	CurrentMonth     int                 `json:"currentMonth"`
	McqResults       []McqResult         `json:"mcqResults"`
	WeakTopics       []string            `json:"weakTopics"`
	SkippedDaysCount map[int]int         `json:"skippedDaysCount"`
	DailyTasks       DailyTasks          `json:"dailyTasks"`
}

// New returns the default zero-state aggregate created at registration.
func New(loginID string, method LoginMethod, class syllabus.ClassLevel, now time.Time) *UserProgress {
	return &UserProgress{
		LoginID:          loginID,
		LoginMethod:      method,
		Board:            BoardCBSE,
		SelectedClass:    class,
		CompletedTopics:  []string{},
		TestedTopics:     []string{},
		CurrentMonth:     1,
		McqResults:       []McqResult{},
		WeakTopics:       []string{},
		SkippedDaysCount: map[int]int{},
		DailyTasks: DailyTasks{
			LastReset: localDate(now),
		},
	}
}

// Clone returns a deep copy, used to hand snapshots to the sync gateway
// and to readers outside the store's lock.
func (p *UserProgress) Clone() *UserProgress {
	cp := *p
	cp.CompletedTopics = append([]string(nil), p.CompletedTopics...)
	cp.TestedTopics = append([]string(nil), p.TestedTopics...)
	cp.WeakTopics = append([]string(nil), p.WeakTopics...)
	cp.McqResults = append([]McqResult(nil), p.McqResults...)
	cp.SkippedDaysCount = make(map[int]int, len(p.SkippedDaysCount))
	for k, v := range p.SkippedDaysCount {
		cp.SkippedDaysCount[k] = v
	}
	return &cp
}

// localDate formats a time as the LastReset calendar date.
func localDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// contains reports set membership in a list-backed set.
func contains(set []string, id string) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}

// addUnique appends id unless already present, preserving the at-most-once
// invariant of the list-backed sets.
func addUnique(set []string, id string) []string {
	if contains(set, id) {
		return set
	}
	return append(set, id)
}

// remove deletes id from a list-backed set, preserving order.
func remove(set []string, id string) []string {
	out := set[:0]
	for _, v := range set {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
