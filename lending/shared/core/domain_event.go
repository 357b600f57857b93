package core

import (
	"time"
)

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = []DomainEvent

// DomainEvent represents a business event that has occurred in the domain.
type DomainEvent interface {
	// IsEventType returns the string identifier for this event type.
	IsEventType() string

	// HasOccurredAt returns when this event occurred.
	HasOccurredAt() time.Time
}

// CatalogEventTypes are the events describing readers, domains, books, editions and copies.
func CatalogEventTypes() []EventTypeString {
	return []EventTypeString{
		BookDomainDefinedEventType,
		BookRegisteredEventType,
		BookEditionAddedEventType,
		BookCopyAddedToCirculationEventType,
		BookCopyRemovedFromCirculationEventType,
		ReaderRegisteredEventType,
	}
}

// LendingEventTypes are the events of the loan lifecycle.
func LendingEventTypes() []EventTypeString {
	return []EventTypeString{
		BookCopyLentToReaderEventType,
		BookCopyReturnedByReaderEventType,
		LoanExtendedEventType,
	}
}
