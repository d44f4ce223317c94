package progress_test

import (
	"testing"

	"github.com/syllabusmaster/planner/internal/progress"
	"github.com/syllabusmaster/planner/internal/syllabus"
)

func TestCompletionPercentage(t *testing.T) {
	store, _ := newTestStore(t, syllabus.Class9)

	// Class 9's first month has six topics across three subjects.
	if got := store.CompletionPercentage(0); got != 0 {
		t.Errorf("empty completion = %d, want 0", got)
	}

	store.ToggleTopicCompletion(0, "Maths", "Number Systems | संख्या पद्धति")
	if got := store.CompletionPercentage(0); got != 17 {
		t.Errorf("1/6 completion = %d, want 17", got)
	}

	store.ToggleTopicCompletion(0, "Maths", "Polynomials | बहुपद")
	store.ToggleTopicCompletion(0, "Science", "Motion | गति")
	if got := store.CompletionPercentage(0); got != 50 {
		t.Errorf("3/6 completion = %d, want 50", got)
	}

	// Other months are untouched.
	if got := store.CompletionPercentage(1); got != 0 {
		t.Errorf("second month completion = %d, want 0", got)
	}
	// Out-of-range months report zero rather than failing.
	if got := store.CompletionPercentage(42); got != 0 {
		t.Errorf("out-of-range completion = %d, want 0", got)
	}
}

func TestCompletionPercentage_RevisionMonth(t *testing.T) {
	store, _ := newTestStore(t, syllabus.Class9)
	cat := syllabus.NewCatalog()

	// Revision-day labels count toward completion like topics do.
	ids := cat.TopicIDsForMonth(syllabus.Class9, 11)
	if len(ids) == 0 {
		t.Fatal("revision month has no ids")
	}
	doc := []byte(`{"completedTopics":["` + ids[0] + `"]}`)
	if err := store.ApplyRemote(doc); err != nil {
		t.Fatalf("ApplyRemote() error = %v", err)
	}
	if got := store.CompletionPercentage(11); got == 0 {
		t.Error("revision month completion = 0 after completing a label")
	}
}

func TestPendingTopics(t *testing.T) {
	store, _ := newTestStore(t, syllabus.Class9)

	pending := store.PendingTopics(0)
	if len(pending) != 6 {
		t.Fatalf("len(pending) = %d, want 6 unread topics", len(pending))
	}
	for _, p := range pending {
		if p.Status != progress.StatusUnread {
			t.Errorf("%s status = %q, want %q", p.TopicID, p.Status, progress.StatusUnread)
		}
	}

	// Completing without testing moves the topic to untested.
	res := store.ToggleTopicCompletion(0, "Science", "Motion | गति")
	pending = store.PendingTopics(0)
	var found *progress.PendingTopic
	for i := range pending {
		if pending[i].TopicID == res.TopicID {
			found = &pending[i]
		}
	}
	if found == nil {
		t.Fatal("completed-but-untested topic missing from pending list")
	}
	if found.Status != progress.StatusUntested {
		t.Errorf("status = %q, want %q", found.Status, progress.StatusUntested)
	}

	// Completing and testing clears it entirely.
	if err := store.RecordTestResult(res.TopicID, 90); err != nil {
		t.Fatalf("RecordTestResult() error = %v", err)
	}
	for _, p := range store.PendingTopics(0) {
		if p.TopicID == res.TopicID {
			t.Error("tested topic still pending")
		}
	}
}

func TestAverageScore(t *testing.T) {
	store, _ := newTestStore(t, syllabus.Class10)

	if got := store.AverageScore(); got != 0 {
		t.Errorf("empty average = %d, want 0", got)
	}

	store.RecordTestResult("10_m1_Science_A", 40)
	store.RecordTestResult("10_m1_Science_B", 80)
	if got := store.AverageScore(); got != 60 {
		t.Errorf("average = %d, want 60", got)
	}

	store.RecordTestResult("10_m1_Science_C", 55)
	if got := store.AverageScore(); got != 58 {
		t.Errorf("average = %d, want 58 (rounded)", got)
	}
}

func TestLatestScore(t *testing.T) {
	store, _ := newTestStore(t, syllabus.Class10)
	const id = "10_m2_Maths_Triangles"

	if _, ok := store.LatestScore(id); ok {
		t.Error("LatestScore() ok = true with no results")
	}

	store.RecordTestResult(id, 30)
	store.RecordTestResult("10_m2_Maths_Circles", 95)
	store.RecordTestResult(id, 70)

	got, ok := store.LatestScore(id)
	if !ok {
		t.Fatal("LatestScore() ok = false")
	}
	if got != 70 {
		t.Errorf("LatestScore() = %d, want 70 (last write wins)", got)
	}
}
