// Package syllabus holds the static curriculum tree: class levels, months,
// subject buckets and topics, plus the generated 30-day rotation schedule.
// The tree is built once at startup and is read-only afterwards; the only
// mutation is a whole-month replacement requested by the admin editor.
package syllabus

import "fmt"

// ClassLevel identifies one of the supported class years.
type ClassLevel string

const (
	Class9  ClassLevel = "9"
	Class10 ClassLevel = "10"
	Class11 ClassLevel = "11"
	Class12 ClassLevel = "12"
)

// ClassLevels lists all supported levels in display order.
var ClassLevels = []ClassLevel{Class9, Class10, Class11, Class12}

// ParseClassLevel validates a raw class level string.
func ParseClassLevel(s string) (ClassLevel, error) {
	for _, level := range ClassLevels {
		if string(level) == s {
			return level, nil
		}
	}
	return "", fmt.Errorf("unknown class level: %q", s)
}

// Topic is the atomic unit of study. Immutable once defined.
type Topic struct {
	Name  string `json:"name" yaml:"name"`
	Hours int    `json:"hours" yaml:"hours"`
	Days  int    `json:"days" yaml:"days"`
}

// Subject groups a month's topics under one subject. Topic order is the
// rotation order used by the schedule generator.
type Subject struct {
	SubjectName string  `json:"subjectName" yaml:"subject"`
	Icon        string  `json:"icon" yaml:"icon"`
	Topics      []Topic `json:"topics" yaml:"topics"`
}

// Task is one subject's assignment for a single day.
type Task struct {
	Subject string  `json:"subject"`
	Topic   string  `json:"topic"`
	Hours   float64 `json:"hours"`
}

// DayPlan is the generated plan for one day of a month.
type DayPlan struct {
	Day   int    `json:"day"`
	Tasks []Task `json:"tasks"`
}

// Month is one segment of the year. Exactly one of Content or
// DailyRevisionPlan is populated: content months carry subject buckets and
// an individually tracked topic set, the pure-revision month (month 12)
// carries a flat list of revision-day labels instead.
type Month struct {
	Number            int       `json:"month" yaml:"month"`
	Description       string    `json:"description" yaml:"description"`
	Color             string    `json:"color" yaml:"color"`
	Content           []Subject `json:"content" yaml:"subjects"`
	DailyRevisionPlan []string  `json:"dailyRevisionPlan,omitempty" yaml:"dailyRevisionPlan"`
	DailySchedule     []DayPlan `json:"dailySchedule,omitempty" yaml:"-"`
}

// IsRevision reports whether the month is tracked by revision-day labels
// rather than subject topics.
func (m Month) IsRevision() bool {
	return len(m.DailyRevisionPlan) > 0
}

// TopicIDs returns every identifier the month contributes to completion
// tracking, in catalog order. Content months and revision months expose
// the same shape here so callers never branch on the variant.
func (m Month) TopicIDs(class ClassLevel, monthIndex int) []string {
	if m.IsRevision() {
		ids := make([]string, 0, len(m.DailyRevisionPlan))
		for _, label := range m.DailyRevisionPlan {
			ids = append(ids, RevisionTopicID(class, monthIndex, label))
		}
		return ids
	}
	var ids []string
	for _, sub := range m.Content {
		for _, t := range sub.Topics {
			ids = append(ids, TopicID(class, monthIndex, sub.SubjectName, t.Name))
		}
	}
	return ids
}

// ClassSyllabus is the full year plan for one class level.
type ClassSyllabus struct {
	ClassLevel ClassLevel `json:"classLevel" yaml:"class"`
	Goal       string     `json:"goal" yaml:"goal"`
	Rules      []string   `json:"rules" yaml:"rules"`
	Months     []Month    `json:"months" yaml:"months"`
}

// Month returns the 1-based month, or false if out of range.
func (s *ClassSyllabus) Month(number int) (Month, bool) {
	if number < 1 || number > len(s.Months) {
		return Month{}, false
	}
	return s.Months[number-1], true
}

// revisionSubject is the pseudo-subject used in revision-month identifiers.
const revisionSubject = "DailyRevision"

// TopicID derives the stable composite key joining static curriculum and
// per-student progress. It is re-derivable from its parts alone and never
// stored separately, so it must not change shape across releases.
func TopicID(class ClassLevel, monthIndex int, subject, topic string) string {
	return fmt.Sprintf("%s_m%d_%s_%s", class, monthIndex, subject, topic)
}

// RevisionTopicID derives the identifier for a revision-day label.
func RevisionTopicID(class ClassLevel, monthIndex int, label string) string {
	return TopicID(class, monthIndex, revisionSubject, label)
}
