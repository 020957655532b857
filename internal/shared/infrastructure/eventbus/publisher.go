// Package eventbus publishes ranking domain events. The default publisher
// dispatches in process; a RabbitMQ publisher is used when a broker URL is
// configured.
package eventbus

import (
	"context"
	"encoding/json"

	"github.com/felixgeelhaar/nextup/internal/shared/domain"
)

// Publisher defines the interface for publishing events to a message broker.
type Publisher interface {
	// Publish sends a message to the event bus.
	Publish(ctx context.Context, routingKey string, payload []byte) error

	// Close closes the publisher connection.
	Close() error
}

// envelope is the wire form of a domain event.
type envelope struct {
	EventID       string          `json:"event_id"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    string          `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
	UserID        string          `json:"user_id,omitempty"`
}

// PublishDomainEvents marshals and publishes each event, returning the
// first error encountered.
func PublishDomainEvents(ctx context.Context, p Publisher, events []domain.DomainEvent) error {
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}

		env := envelope{
			EventID:       event.EventID().String(),
			AggregateID:   event.AggregateID().String(),
			AggregateType: event.AggregateType(),
			RoutingKey:    event.RoutingKey(),
			OccurredAt:    event.OccurredAt().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
			Payload:       payload,
			UserID:        event.Metadata().UserID.String(),
		}

		body, err := json.Marshal(env)
		if err != nil {
			return err
		}

		if err := p.Publish(ctx, event.RoutingKey(), body); err != nil {
			return err
		}
	}
	return nil
}
