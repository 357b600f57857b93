package core

import (
	"time"

	"github.com/google/uuid"
)

// BookDomainDefinedEventType is the event type identifier.
const BookDomainDefinedEventType = "BookDomainDefined"

// BookDomainDefined represents when a subject domain was added to the domain forest.
// ParentDomainID is empty for a root domain.
type BookDomainDefined struct {
	EventType      EventTypeString
	DomainID       DomainIDString
	ParentDomainID DomainIDString
	Name           string
	OccurredAt     OccurredAtTS
}

// BuildBookDomainDefined creates a new BookDomainDefined event. Pass uuid.Nil as parentDomainID for a root domain.
func BuildBookDomainDefined(domainID uuid.UUID, parentDomainID uuid.UUID, name string, occurredAt time.Time) BookDomainDefined {
	event := BookDomainDefined{
		EventType:  BookDomainDefinedEventType,
		DomainID:   domainID.String(),
		Name:       name,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	if parentDomainID != uuid.Nil {
		event.ParentDomainID = parentDomainID.String()
	}

	return event
}

// IsEventType returns the event type identifier.
func (e BookDomainDefined) IsEventType() string {
	return BookDomainDefinedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookDomainDefined) HasOccurredAt() time.Time {
	return e.OccurredAt
}
