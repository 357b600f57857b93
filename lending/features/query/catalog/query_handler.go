package catalog

import (
	"context"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/shell"
)

// EventStore defines the interface needed by the QueryHandler for event store operations.
type EventStore interface {
	shell.QueriesEvents
}

// QueryHandler orchestrates the query processing workflow: Query -> Unmarshal -> Project.
type QueryHandler struct {
	eventStore EventStore
}

// NewQueryHandler creates a new QueryHandler with the provided EventStore dependency.
func NewQueryHandler(eventStore EventStore) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
	}
}

// Handle queries the catalog events with eventual consistency and projects the books.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Books, error) {
	ctx = eventstore.WithEventualConsistency(ctx)

	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, BuildEventFilter(query.BookID))
	if err != nil {
		return Books{}, shell.ToStoreError(err)
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return Books{}, shell.ToStoreError(err)
	}

	result, err := Project(history, query)
	if err != nil {
		return Books{}, err
	}

	result.SequenceNumber = uint(maxSequenceNumber)

	return result, nil
}
