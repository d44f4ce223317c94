package progress

import "time"

// Reset policy for DailyTasks: the daily booleans (studyDone,
// revisionDone, mcqDone) reset when LastReset is not today's local date;
// the weekend fields (saturdayRevisionDone, sundayMcqCount) additionally
// reset when the ISO week changed. LastReset always advances to today.
// The policy runs at hydration and from the midnight job, never implicitly
// inside a mutation.

// ResetIfStale applies the reset policy for the given instant and reports
// whether anything changed.
func (p *UserProgress) ResetIfStale(now time.Time) bool {
	today := localDate(now)
	if p.DailyTasks.LastReset == today {
		return false
	}

	sameWeek := false
	if last, err := time.ParseInLocation("2006-01-02", p.DailyTasks.LastReset, now.Location()); err == nil {
		ly, lw := last.ISOWeek()
		ny, nw := now.ISOWeek()
		sameWeek = ly == ny && lw == nw
	}

	p.DailyTasks.StudyDone = false
	p.DailyTasks.RevisionDone = false
	p.DailyTasks.McqDone = false
	if !sameWeek {
		p.DailyTasks.SaturdayRevisionDone = false
		p.DailyTasks.SundayMcqCount = 0
	}
	p.DailyTasks.LastReset = today
	return true
}
