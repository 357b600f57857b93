package shell

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

// Boundary is one read of a consistency boundary: the history the filter selects and the
// max sequence number that a later append is conditioned on.
//
// A Boundary belongs to a single attempt. After a concurrency conflict the command handler
// loads a new one, so the retried decision sees the state that won the race.
type Boundary struct {
	filter            eventstore.Filter
	history           core.DomainEvents
	maxSequenceNumber eventstore.MaxSequenceNumberUint
}

// LoadBoundary queries the events selected by filter with strong consistency.
// Errors are mapped with ToStoreError.
func LoadBoundary(ctx context.Context, es QueriesEvents, filter eventstore.Filter) (Boundary, error) {
	ctx = eventstore.WithStrongConsistency(ctx)

	storableEvents, maxSequenceNumber, err := es.Query(ctx, filter)
	if err != nil {
		return Boundary{}, ToStoreError(err)
	}

	history, err := DomainEventsFrom(storableEvents)
	if err != nil {
		return Boundary{}, ToStoreError(err)
	}

	return Boundary{
		filter:            filter,
		history:           history,
		maxSequenceNumber: maxSequenceNumber,
	}, nil
}

// Filter returns the filter that selected the boundary.
func (b Boundary) Filter() eventstore.Filter {
	return b.filter
}

// History returns the events of the boundary in sequence order.
func (b Boundary) History() core.DomainEvents {
	return b.history
}

// Version returns the max sequence number the boundary was read at.
func (b Boundary) Version() eventstore.MaxSequenceNumberUint {
	return b.maxSequenceNumber
}

// State projects the history.
func (b Boundary) State() *core.LibraryState {
	return core.ProjectLibraryState(b.history)
}

// Commit appends events atomically, conditioned on the boundary being unchanged since it was read.
// All events are correlated by correlationID. A conflict is returned as eventstore.ErrConcurrencyConflict,
// any other failure as STORE_FAILURE. Committing no events is a no-op.
func (b Boundary) Commit(ctx context.Context, es AppendsEvents, correlationID uuid.UUID, events ...core.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	storableEvents, err := StorableEventsFrom(events, correlationID)
	if err != nil {
		return ToStoreError(err)
	}

	ctx = eventstore.WithStrongConsistency(ctx)

	err = es.Append(ctx, b.filter, b.maxSequenceNumber, storableEvents[0], storableEvents[1:]...)

	return ToStoreError(err)
}
