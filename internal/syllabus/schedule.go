package syllabus

import "math"

const (
	// scheduleDays is the fixed length of every month's rotation plan.
	scheduleDays = 30
	// dailyStudyHours is the total budget distributed across subjects.
	dailyStudyHours = 6.0
)

// Fallback task emitted for months with no subject content at all.
const (
	fallbackSubject = "Self Study"
	fallbackTopic   = "General Revision | सामान्य पुनरावृत्ति"
)

// GenerateDailySchedule produces the 30-day rotation plan for a month's
// subject buckets. Topics rotate round-robin within each subject, wrapping
// once the pool is exhausted, and the 6-hour daily budget is split evenly
// across subjects that have at least one topic. The function is pure and
// total: identical buckets always yield an identical schedule.
func GenerateDailySchedule(content []Subject) []DayPlan {
	type pool struct {
		subject string
		topics  []Topic
	}

	// Merge buckets sharing a subject name, preserving catalog order.
	var pools []pool
	index := make(map[string]int)
	for _, sub := range content {
		i, ok := index[sub.SubjectName]
		if !ok {
			i = len(pools)
			index[sub.SubjectName] = i
			pools = append(pools, pool{subject: sub.SubjectName})
		}
		pools[i].topics = append(pools[i].topics, sub.Topics...)
	}

	active := 0
	for _, p := range pools {
		if len(p.topics) > 0 {
			active++
		}
	}

	hours := dailyStudyHours
	if active > 0 {
		hours = roundHours(dailyStudyHours / float64(active))
	}

	schedule := make([]DayPlan, 0, scheduleDays)
	for day := 1; day <= scheduleDays; day++ {
		var tasks []Task
		for _, p := range pools {
			if len(p.topics) == 0 {
				continue
			}
			topic := p.topics[(day-1)%len(p.topics)]
			tasks = append(tasks, Task{
				Subject: p.subject,
				Topic:   topic.Name,
				Hours:   hours,
			})
		}
		if len(tasks) == 0 {
			tasks = append(tasks, Task{
				Subject: fallbackSubject,
				Topic:   fallbackTopic,
				Hours:   dailyStudyHours,
			})
		}
		schedule = append(schedule, DayPlan{Day: day, Tasks: tasks})
	}

	return schedule
}

// roundHours rounds the per-subject budget to one decimal place.
func roundHours(h float64) float64 {
	return math.Round(h*10) / 10
}
