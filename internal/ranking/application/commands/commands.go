// Package commands implements the write side of the ranking engine.
// Every handler runs its state changes inside a unit of work and
// publishes the resulting domain events after the commit.
package commands

import (
	"context"
	"errors"
	"log/slog"

	sharedApplication "github.com/felixgeelhaar/nextup/internal/shared/application"
	"github.com/felixgeelhaar/nextup/internal/shared/domain"
	"github.com/felixgeelhaar/nextup/internal/shared/infrastructure/eventbus"
)

// ErrNotOwned is returned when a command references a task belonging to
// a different user.
var ErrNotOwned = errors.New("task does not belong to the requesting user")

// flushEvents publishes the uncommitted events of the given aggregates
// and clears them. Publish failures are logged, not returned; the state
// change has already committed and must not be reported as failed.
func flushEvents(ctx context.Context, logger *slog.Logger, publisher eventbus.Publisher, metadata domain.EventMetadata, roots ...domain.AggregateRoot) {
	for _, root := range roots {
		events := root.DomainEvents()
		if len(events) == 0 {
			continue
		}
		sharedApplication.ApplyEventMetadata(events, metadata)

		if publisher != nil {
			if err := eventbus.PublishDomainEvents(ctx, publisher, events); err != nil {
				logger.WarnContext(ctx, "publishing domain events failed",
					slog.String("aggregate_id", root.ID().String()),
					slog.String("error", err.Error()))
			}
		}
		root.ClearDomainEvents()
	}
}
