package helper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/eventstore/memengine"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/shell"
)

func GivenUniqueID(t testing.TB) uuid.UUID {
	id, err := uuid.NewV7()
	require.NoError(t, err, "error in arranging test data")

	return id
}

// GivenMemoryEventStore creates an empty in-memory event store.
func GivenMemoryEventStore(t testing.TB, options ...memengine.Option) *memengine.EventStore {
	t.Helper()

	es, err := memengine.NewEventStore(options...)
	require.NoError(t, err, "error in arranging test data")

	return es
}

func ToStorable(t testing.TB, domainEvent core.DomainEvent) eventstore.StorableEvent {
	storableEvent, err := shell.StorableEventWithEmptyMetadataFrom(domainEvent)
	require.NoError(t, err, "error in arranging test data")

	return storableEvent
}

func ToStorableWithMetadata(t testing.TB, domainEvent core.DomainEvent, eventMetadata shell.EventMetadata) eventstore.StorableEvent {
	storableEvent, err := shell.StorableEventFrom(domainEvent, eventMetadata)
	require.NoError(t, err, "error in arranging test data")

	return storableEvent
}

// GivenEventsWereAppended appends history unconditionally, i.e. at the current end of the store.
func GivenEventsWereAppended(t testing.TB, ctx context.Context, es shell.EventStore, history ...core.DomainEvent) {
	t.Helper()

	if len(history) == 0 {
		return
	}

	filter := eventstore.BuildEventFilter().MatchingAnyEvent()

	_, maxSequenceNumber, err := es.Query(ctx, filter)
	require.NoError(t, err, "error in arranging test data")

	storableEvents := make(eventstore.StorableEvents, 0, len(history))
	for _, event := range history {
		storableEvents = append(storableEvents, ToStorable(t, event))
	}

	err = es.Append(ctx, filter, maxSequenceNumber, storableEvents[0], storableEvents[1:]...)
	require.NoError(t, err, "error in arranging test data")
}

// GivenFixtureWasAppended appends the events the fixture collected since its last append.
func GivenFixtureWasAppended(t testing.TB, ctx context.Context, es shell.EventStore, fixture *LibraryFixture) {
	t.Helper()

	GivenEventsWereAppended(t, ctx, es, fixture.Events[fixture.appended:]...)
	fixture.appended = len(fixture.Events)
}

// QueryAllEvents returns all domain events of the store in sequence order.
func QueryAllEvents(t testing.TB, ctx context.Context, es shell.QueriesEvents) core.DomainEvents {
	t.Helper()

	storableEvents, _, err := es.Query(ctx, eventstore.BuildEventFilter().MatchingAnyEvent())
	require.NoError(t, err, "error in querying events")

	history, err := shell.DomainEventsFrom(storableEvents)
	require.NoError(t, err, "error in mapping events")

	return history
}
