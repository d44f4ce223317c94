package syllabus

import (
	"fmt"
	"sync"
)

// Catalog holds the syllabus tree for every class level. It is built once
// at startup; the only write path afterwards is ReplaceMonth, the bulk
// substitution requested by the admin content editor.
type Catalog struct {
	mu      sync.RWMutex
	classes map[ClassLevel]*ClassSyllabus
}

// NewCatalog builds the catalog from the built-in curriculum, generating
// each content month's daily schedule. No I/O is involved.
func NewCatalog() *Catalog {
	classes := make(map[ClassLevel]*ClassSyllabus, len(ClassLevels))
	for _, level := range ClassLevels {
		classes[level] = builtinSyllabus(level)
	}
	return &Catalog{classes: classes}
}

// Class returns the syllabus for a level. The result is an immutable
// snapshot: replacements install a fresh value and swap the pointer, they
// never write through pointers already handed out.
func (c *Catalog) Class(level ClassLevel) (*ClassSyllabus, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.classes[level]
	return s, ok
}

// ReplaceMonth swaps in a full month definition for a class and regenerates
// its daily schedule. Partial in-place edits are not supported: schedules
// are derived data and only change when the whole month does.
func (c *Catalog) ReplaceMonth(level ClassLevel, m Month) error {
	if m.Number < 1 || m.Number > 12 {
		return fmt.Errorf("month number %d out of range", m.Number)
	}
	if m.IsRevision() && len(m.Content) > 0 {
		return fmt.Errorf("month %d declares both content and a revision plan", m.Number)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	old, ok := c.classes[level]
	if !ok {
		return fmt.Errorf("unknown class level: %q", level)
	}
	if !m.IsRevision() {
		m.DailySchedule = GenerateDailySchedule(m.Content)
	}

	// Copy-on-write: snapshots handed out by Class stay valid.
	next := *old
	next.Months = append([]Month(nil), old.Months...)
	next.Months[m.Number-1] = m
	c.classes[level] = &next
	return nil
}

// Replace swaps in a complete class syllabus, regenerating every content
// month's schedule. Used by the curriculum overlay loader.
func (c *Catalog) Replace(s *ClassSyllabus) error {
	if len(s.Months) != 12 {
		return fmt.Errorf("class %s: expected 12 months, got %d", s.ClassLevel, len(s.Months))
	}
	for i := range s.Months {
		if s.Months[i].IsRevision() {
			continue
		}
		s.Months[i].DailySchedule = GenerateDailySchedule(s.Months[i].Content)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.classes[s.ClassLevel]; !ok {
		return fmt.Errorf("unknown class level: %q", s.ClassLevel)
	}
	c.classes[s.ClassLevel] = s
	return nil
}

// TopicIDsForMonth returns the completion-tracking identifiers for one
// month of one class, or nil if the class or month does not exist.
func (c *Catalog) TopicIDsForMonth(level ClassLevel, monthIndex int) []string {
	s, ok := c.Class(level)
	if !ok || monthIndex < 0 || monthIndex >= len(s.Months) {
		return nil
	}
	return s.Months[monthIndex].TopicIDs(level, monthIndex)
}
