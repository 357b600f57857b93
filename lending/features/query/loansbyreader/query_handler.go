package loansbyreader

import (
	"context"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/shell"
)

// EventStore defines the interface needed by the QueryHandler for event store operations.
type EventStore interface {
	shell.QueriesEvents
}

// QueryHandler orchestrates the query processing workflow: Query -> Unmarshal -> Project.
// External wrappers handle all observability concerns.
type QueryHandler struct {
	eventStore EventStore
	clock      core.Clock
}

// Option configures a QueryHandler.
type Option func(*QueryHandler)

// WithClock sets the clock which decides whether a loan is overdue, the system clock is the default.
func WithClock(clock core.Clock) Option {
	return func(h *QueryHandler) {
		h.clock = clock
	}
}

// NewQueryHandler creates a new QueryHandler with the provided EventStore dependency.
func NewQueryHandler(eventStore EventStore, opts ...Option) QueryHandler {
	handler := QueryHandler{
		eventStore: eventStore,
		clock:      core.NewSystemClock(),
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle queries the lending history of the reader with eventual consistency and projects it.
func (h QueryHandler) Handle(ctx context.Context, query Query) (LoansOfReader, error) {
	ctx = eventstore.WithEventualConsistency(ctx)

	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, BuildEventFilter(query.ReaderID))
	if err != nil {
		return LoansOfReader{}, shell.ToStoreError(err)
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return LoansOfReader{}, shell.ToStoreError(err)
	}

	result := ProjectLoansOfReader(history, query, h.clock.Now())
	result.SequenceNumber = uint(maxSequenceNumber)

	return result, nil
}
