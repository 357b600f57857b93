package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts multiple StorableEvents to DomainEvents.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its corresponding DomainEvent.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) {
	switch storableEvent.EventType {
	case core.ReaderRegisteredEventType:
		return unmarshalAs[core.ReaderRegistered](storableEvent.PayloadJSON)

	case core.BookDomainDefinedEventType:
		return unmarshalAs[core.BookDomainDefined](storableEvent.PayloadJSON)

	case core.BookRegisteredEventType:
		return unmarshalAs[core.BookRegistered](storableEvent.PayloadJSON)

	case core.BookEditionAddedEventType:
		return unmarshalAs[core.BookEditionAdded](storableEvent.PayloadJSON)

	case core.BookCopyAddedToCirculationEventType:
		return unmarshalAs[core.BookCopyAddedToCirculation](storableEvent.PayloadJSON)

	case core.BookCopyRemovedFromCirculationEventType:
		return unmarshalAs[core.BookCopyRemovedFromCirculation](storableEvent.PayloadJSON)

	case core.BookCopyLentToReaderEventType:
		return unmarshalAs[core.BookCopyLentToReader](storableEvent.PayloadJSON)

	case core.BookCopyReturnedByReaderEventType:
		return unmarshalAs[core.BookCopyReturnedByReader](storableEvent.PayloadJSON)

	case core.LoanExtendedEventType:
		return unmarshalAs[core.LoanExtended](storableEvent.PayloadJSON)
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
}

// All events are flat structs without custom marshaling, so one generic decoder serves them all.
func unmarshalAs[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	var event E

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event)
	if err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}
