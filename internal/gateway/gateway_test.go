package gateway_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/syllabusmaster/planner/internal/gateway"
	"github.com/syllabusmaster/planner/internal/progress"
	"github.com/syllabusmaster/planner/internal/syllabus"
)

func TestMemory_LoadUnknown(t *testing.T) {
	m := gateway.NewMemory()

	doc, found, err := m.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if found {
		t.Errorf("found = true, doc = %s", doc)
	}
}

func TestMemory_SaveLoadRoundTrip(t *testing.T) {
	m := gateway.NewMemory()
	ctx := context.Background()

	p := progress.New("alpha", progress.MethodEmail, syllabus.Class10, time.Now())
	p.CompletedTopics = []string{"10_m0_Maths_Real Numbers"}
	if err := m.Save(ctx, "alpha", p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	doc, found, err := m.Load(ctx, "alpha")
	if err != nil || !found {
		t.Fatalf("Load() = found %v, err %v", found, err)
	}

	got, err := progress.Hydrate(doc)
	if err != nil {
		t.Fatalf("Hydrate() error = %v", err)
	}
	if got.LoginID != "alpha" || got.SelectedClass != syllabus.Class10 {
		t.Errorf("hydrated = %+v", got)
	}
	if len(got.CompletedTopics) != 1 {
		t.Errorf("CompletedTopics = %v", got.CompletedTopics)
	}
}

func TestMemory_SaveIsIdempotent(t *testing.T) {
	m := gateway.NewMemory()
	ctx := context.Background()

	p := progress.New("beta", progress.MethodID, syllabus.Class9, time.Now())
	if err := m.Save(ctx, "beta", p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	first, _, _ := m.Load(ctx, "beta")

	if err := m.Save(ctx, "beta", p); err != nil {
		t.Fatalf("replayed Save() error = %v", err)
	}
	second, _, _ := m.Load(ctx, "beta")

	var a, b map[string]json.RawMessage
	if err := json.Unmarshal(first, &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(second, &b); err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Errorf("document changed across replayed save: %d vs %d fields", len(a), len(b))
	}
}

func TestMemory_Subscribe(t *testing.T) {
	m := gateway.NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, stop, err := m.Subscribe(ctx, "gamma")
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer stop()

	p := progress.New("gamma", progress.MethodPhone, syllabus.Class12, time.Now())
	p.CurrentMonth = 5
	if err := m.Save(ctx, "gamma", p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	select {
	case doc := <-ch:
		got, err := progress.Hydrate(doc)
		if err != nil {
			t.Fatalf("Hydrate() error = %v", err)
		}
		if got.CurrentMonth != 5 {
			t.Errorf("pushed CurrentMonth = %d, want 5", got.CurrentMonth)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot pushed after save")
	}

	// Saves for other identifiers do not cross streams.
	other := progress.New("delta", progress.MethodID, syllabus.Class9, time.Now())
	if err := m.Save(ctx, "delta", other); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	select {
	case doc := <-ch:
		t.Errorf("unexpected cross-identifier push: %s", doc)
	case <-time.After(50 * time.Millisecond):
	}

	stop()
	if _, open := <-ch; open {
		t.Error("channel still open after stop")
	}
}

func TestMemory_SaveDuringUnsubscribe(t *testing.T) {
	m := gateway.NewMemory()
	ctx := context.Background()

	p := progress.New("zeta", progress.MethodID, syllabus.Class9, time.Now())

	// Background saves keep landing while subscribers come and go, the
	// way a session's in-flight saves drain after its subscription stops.
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			if err := m.Save(ctx, "zeta", p); err != nil {
				t.Errorf("Save() error = %v", err)
				return
			}
		}
	}()

	for i := 0; i < 200; i++ {
		_, stop, err := m.Subscribe(ctx, "zeta")
		if err != nil {
			t.Fatalf("Subscribe() error = %v", err)
		}
		stop()
	}
	close(done)
	wg.Wait()
}

func TestMemory_SubscribeStopsWithContext(t *testing.T) {
	m := gateway.NewMemory()
	ctx, cancel := context.WithCancel(context.Background())

	ch, _, err := m.Subscribe(ctx, "epsilon")
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	cancel()
	select {
	case _, open := <-ch:
		if open {
			t.Error("received a value, want closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after context cancellation")
	}
}
