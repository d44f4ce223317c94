package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/syllabusmaster/planner/internal/progress"
)

// Published decorates a Gateway with a Redis pub/sub push channel. Every
// successful save is announced on the student's channel so other devices
// holding the same identifier receive the snapshot. Publish failures are
// logged, not returned: durability already succeeded and the push stream
// is best-effort by contract.
type Published struct {
	inner  Gateway
	client *redis.Client
}

// NewPublished wraps a durable gateway with the push stream.
func NewPublished(inner Gateway, client *redis.Client) *Published {
	return &Published{inner: inner, client: client}
}

func channelFor(identifier string) string {
	return "progress:" + identifier
}

func (g *Published) Load(ctx context.Context, identifier string) ([]byte, bool, error) {
	return g.inner.Load(ctx, identifier)
}

func (g *Published) Save(ctx context.Context, identifier string, p *progress.UserProgress) error {
	if err := g.inner.Save(ctx, identifier, p); err != nil {
		return err
	}

	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := g.client.Publish(ctx, channelFor(identifier), doc).Err(); err != nil {
		slog.Warn("snapshot publish failed", "identifier", identifier, "error", err)
	}
	return nil
}

func (g *Published) Subscribe(ctx context.Context, identifier string) (<-chan []byte, func(), error) {
	sub := g.client.Subscribe(ctx, channelFor(identifier))
	// Force the subscription onto the wire before we report success.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, nil, fmt.Errorf("subscribing to %s: %w", channelFor(identifier), err)
	}

	out := make(chan []byte, 8)
	var once sync.Once
	stop := func() {
		once.Do(func() { sub.Close() })
	}

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			select {
			case out <- []byte(msg.Payload):
			case <-ctx.Done():
				stop()
				return
			}
		}
	}()

	go func() {
		<-ctx.Done()
		stop()
	}()

	return out, stop, nil
}
