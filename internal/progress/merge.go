package progress

import (
	"encoding/json"
	"fmt"
)

// Merge reconciles a partial remote document into the local aggregate.
// The policy is declared and deliberately shallow: every top-level field
// present in the document overwrites the local field wholesale, fields
// absent from the document are left alone. Two devices writing
// concurrently can drop each other's changes at this granularity; that is
// the documented limitation of last-write-wins sync, not something this
// layer tries to repair.
func Merge(local *UserProgress, doc []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return fmt.Errorf("parsing remote document: %w", err)
	}

	for key, raw := range fields {
		var err error
		switch key {
		case "loginId":
			err = json.Unmarshal(raw, &local.LoginID)
		case "loginMethod":
			err = json.Unmarshal(raw, &local.LoginMethod)
		case "board":
			err = json.Unmarshal(raw, &local.Board)
		case "selectedClass":
			err = json.Unmarshal(raw, &local.SelectedClass)
		case "completedTopics":
			err = json.Unmarshal(raw, &local.CompletedTopics)
		case "testedTopics":
			err = json.Unmarshal(raw, &local.TestedTopics)
		case "currentMonth":
			err = json.Unmarshal(raw, &local.CurrentMonth)
		case "mcqResults":
			err = json.Unmarshal(raw, &local.McqResults)
		case "weakTopics":
			err = json.Unmarshal(raw, &local.WeakTopics)
		case "skippedDaysCount":
			err = json.Unmarshal(raw, &local.SkippedDaysCount)
		case "dailyTasks":
			err = json.Unmarshal(raw, &local.DailyTasks)
		default:
			// Unknown fields from newer document versions are ignored.
		}
		if err != nil {
			return fmt.Errorf("merging field %q: %w", key, err)
		}
	}
	return nil
}

// Hydrate builds a session aggregate from a stored document: default
// zero-state overlaid with every field the document carries.
func Hydrate(doc []byte) (*UserProgress, error) {
	p := &UserProgress{
		Board:            BoardCBSE,
		CurrentMonth:     1,
		CompletedTopics:  []string{},
		TestedTopics:     []string{},
		WeakTopics:       []string{},
		McqResults:       []McqResult{},
		SkippedDaysCount: map[int]int{},
	}
	if err := Merge(p, doc); err != nil {
		return nil, err
	}
	return p, nil
}
