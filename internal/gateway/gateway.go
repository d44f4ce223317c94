// Package gateway implements the synchronization contract the progress
// store relies on for durability: load-by-identifier, idempotent
// merge-writes, and an optional push stream of remote snapshots.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/syllabusmaster/planner/internal/progress"
)

// Gateway persists progress documents keyed by a normalized student
// identifier. Save is a merge-write: only the fields present in the
// snapshot overwrite the stored document, and replaying the same save has
// no additional effect. Documents travel as raw JSON so partial remote
// shapes survive the trip.
type Gateway interface {
	// Load returns the stored document, or found=false for an unknown
	// identifier. An error means the backing store failed, which callers
	// must not conflate with absence.
	Load(ctx context.Context, identifier string) (doc []byte, found bool, err error)
	Save(ctx context.Context, identifier string, p *progress.UserProgress) error
}

// Subscriber is the push side of the contract: a stream of document
// snapshots for one identifier, delivered whenever any device saves.
type Subscriber interface {
	// Subscribe returns a snapshot channel and a stop function. The
	// channel closes after stop or when ctx ends.
	Subscribe(ctx context.Context, identifier string) (<-chan []byte, func(), error)
}

// mergeDocs overlays incoming onto existing at top-level field
// granularity, the same shallow policy the whole sync path uses.
func mergeDocs(existing, incoming []byte) ([]byte, error) {
	if len(existing) == 0 {
		return incoming, nil
	}
	var base, overlay map[string]json.RawMessage
	if err := json.Unmarshal(existing, &base); err != nil {
		return nil, fmt.Errorf("parsing stored document: %w", err)
	}
	if err := json.Unmarshal(incoming, &overlay); err != nil {
		return nil, fmt.Errorf("parsing incoming document: %w", err)
	}
	for k, v := range overlay {
		base[k] = v
	}
	return json.Marshal(base)
}

// Memory is an in-memory Gateway and Subscriber, used in tests and as the
// degraded no-database mode.
type Memory struct {
	mu   sync.Mutex
	docs map[string][]byte
	subs map[string][]chan []byte
}

// NewMemory creates an empty in-memory gateway.
func NewMemory() *Memory {
	return &Memory{
		docs: make(map[string][]byte),
		subs: make(map[string][]chan []byte),
	}
}

func (m *Memory) Load(_ context.Context, identifier string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[identifier]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), doc...), true, nil
}

func (m *Memory) Save(_ context.Context, identifier string, p *progress.UserProgress) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding progress: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	merged, err := mergeDocs(m.docs[identifier], doc)
	if err != nil {
		return err
	}
	m.docs[identifier] = merged

	// Fan out under the mutex: unsubscribe removes and closes channels
	// under the same lock, so a send can never hit a closed channel even
	// while background saves are still draining.
	for _, ch := range m.subs[identifier] {
		select {
		case ch <- merged:
		default: // slow subscriber, drop the snapshot
		}
	}
	return nil
}

func (m *Memory) Subscribe(ctx context.Context, identifier string) (<-chan []byte, func(), error) {
	ch := make(chan []byte, 8)

	m.mu.Lock()
	m.subs[identifier] = append(m.subs[identifier], ch)
	m.mu.Unlock()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			subs := m.subs[identifier]
			for i, c := range subs {
				if c == ch {
					m.subs[identifier] = append(subs[:i], subs[i+1:]...)
					break
				}
			}
			// Closed under the mutex so the send path cannot observe a
			// registered-but-closed channel.
			close(ch)
		})
	}

	go func() {
		<-ctx.Done()
		stop()
	}()

	return ch, stop, nil
}
