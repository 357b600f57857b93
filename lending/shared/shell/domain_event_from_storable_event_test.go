package shell_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/shell"
	"github.com/AntonStoeckl/lending-policy-engine/testutil/helper"
)

func Test_DomainEventsFrom_RestoresEveryEventType(t *testing.T) {
	// arrange
	fixture := helper.GivenLibraryFixture(t, time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC))
	readerID := fixture.Reader(core.ReaderKindStandard)
	librarianID := fixture.Reader(core.ReaderKindStaff)
	rootDomainID := fixture.Domain("")
	domainID := fixture.Domain(rootDomainID)
	_, copyIDs := fixture.BookWithCopies(2, domainID)
	fixture.Retire(copyIDs[1])
	loanID := fixture.Lend(readerID, copyIDs[0], librarianID, fixture.Now.AddDate(0, 0, -3))
	fixture.Extend(loanID, 7)
	fixture.Return(loanID, fixture.Now)

	storableEvents := make(eventstore.StorableEvents, 0, len(fixture.Events))
	for _, event := range fixture.Events {
		storableEvents = append(storableEvents, helper.ToStorable(t, event))
	}

	// act
	history, err := shell.DomainEventsFrom(storableEvents)

	// assert
	require.NoError(t, err)
	assert.Equal(t, fixture.Events, history)

	eventTypes := make(map[string]bool)
	for _, event := range history {
		eventTypes[event.IsEventType()] = true
	}

	for _, eventType := range append(core.CatalogEventTypes(), core.LendingEventTypes()...) {
		assert.True(t, eventTypes[eventType], "missing %s", eventType)
	}
}

func Test_DomainEventFrom_Errors(t *testing.T) {
	t.Run("unknown event type", func(t *testing.T) {
		storableEvent, err := eventstore.BuildStorableEventWithEmptyMetadata("BookBurned", time.Now(), []byte(`{}`))
		require.NoError(t, err)

		_, err = shell.DomainEventFrom(storableEvent)

		assert.ErrorIs(t, err, shell.ErrMappingToDomainEventFailed)
		assert.ErrorIs(t, err, shell.ErrMappingToDomainEventUnknownEventType)
	})

	t.Run("payload does not fit the event type", func(t *testing.T) {
		storableEvent, err := eventstore.BuildStorableEventWithEmptyMetadata(core.LoanExtendedEventType, time.Now(), []byte(`{"Days":"seven"}`))
		require.NoError(t, err)

		_, err = shell.DomainEventFrom(storableEvent)

		assert.ErrorIs(t, err, shell.ErrMappingToDomainEventFailed)
	})
}
