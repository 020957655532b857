package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// Subscriber receives raw published payloads for a routing key.
type Subscriber func(ctx context.Context, routingKey string, payload []byte)

// InProcessBus is an in-memory publisher for local mode (no RabbitMQ).
// Events are delivered synchronously to registered subscribers.
type InProcessBus struct {
	logger      *slog.Logger
	mu          sync.Mutex
	subscribers []Subscriber
}

// NewInProcessBus creates a new in-process bus.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{logger: logger}
}

// Subscribe registers a subscriber for all published events.
func (b *InProcessBus) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, s)
}

// Publish dispatches the payload to every subscriber synchronously.
func (b *InProcessBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	b.mu.Lock()
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.Unlock()

	for _, s := range subs {
		s(ctx, routingKey, payload)
	}

	b.logger.Debug("event dispatched",
		"routing_key", routingKey,
		"subscribers", len(subs),
	)

	return nil
}

// Close is a no-op for the in-process bus.
func (b *InProcessBus) Close() error {
	return nil
}
