package progress

import (
	"math"

	"github.com/syllabusmaster/planner/internal/syllabus"
)

// Derived read-only queries over the aggregate plus the static catalog.
// All are pure with respect to state: they never mutate and never sync.

// TopicStatus classifies a pending topic for the yearly report.
type TopicStatus string

const (
	// StatusUnread marks a topic not yet in the completed set.
	StatusUnread TopicStatus = "unread"
	// StatusUntested marks a completed topic with no recorded test.
	StatusUntested TopicStatus = "untested"
)

// PendingTopic is one outstanding item of the yearly pending-work report.
type PendingTopic struct {
	Subject string
	Topic   string
	TopicID string
	Status  TopicStatus
}

// CompletionPercentage returns the month's completed share, rounded to the
// nearest integer. Content months count subject topics, revision months
// count revision-day labels; a month with nothing to track reports 0.
func (s *Store) CompletionPercentage(monthIndex int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.catalog.TopicIDsForMonth(s.progress.SelectedClass, monthIndex)
	if len(ids) == 0 {
		return 0
	}
	completed := 0
	for _, id := range ids {
		if contains(s.progress.CompletedTopics, id) {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(ids)) * 100))
}

// PendingTopics lists the month's topics that are either unread or
// completed but never tested, in catalog order. Revision months have no
// subject topics and report nothing here.
func (s *Store) PendingTopics(monthIndex int) []PendingTopic {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.progress
	class, ok := s.catalog.Class(p.SelectedClass)
	if !ok || monthIndex < 0 || monthIndex >= len(class.Months) {
		return nil
	}

	var pending []PendingTopic
	for _, sub := range class.Months[monthIndex].Content {
		for _, t := range sub.Topics {
			id := syllabus.TopicID(p.SelectedClass, monthIndex, sub.SubjectName, t.Name)
			switch {
			case !contains(p.CompletedTopics, id):
				pending = append(pending, PendingTopic{sub.SubjectName, t.Name, id, StatusUnread})
			case !contains(p.TestedTopics, id):
				pending = append(pending, PendingTopic{sub.SubjectName, t.Name, id, StatusUntested})
			}
		}
	}
	return pending
}

// AverageScore is the mean over the whole result log, rounded to the
// nearest integer, or 0 with no results.
func (s *Store) AverageScore() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := s.progress.McqResults
	if len(results) == 0 {
		return 0
	}
	sum := 0
	for _, r := range results {
		sum += r.Score
	}
	return int(math.Round(float64(sum) / float64(len(results))))
}

// LatestScore returns the most recently appended score for a topic.
// Last write wins within the append-only log.
func (s *Store) LatestScore(topicID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := s.progress.McqResults
	for i := len(results) - 1; i >= 0; i-- {
		if results[i].TopicID == topicID {
			return results[i].Score, true
		}
	}
	return 0, false
}
