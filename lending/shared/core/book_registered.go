package core

import (
	"time"

	"github.com/google/uuid"
)

// BookRegisteredEventType is the event type identifier.
const BookRegisteredEventType = "BookRegistered"

// Author of a book.
type Author struct {
	FirstName string
	LastName  string
}

// BookRegistered represents when a book (the logical work) was registered with its subject domains.
type BookRegistered struct {
	EventType  EventTypeString
	BookID     BookIDString
	Title      string
	Authors    []Author
	DomainIDs  []DomainIDString
	OccurredAt OccurredAtTS
}

// BuildBookRegistered creates a new BookRegistered event.
func BuildBookRegistered(
	bookID uuid.UUID,
	title string,
	authors []Author,
	domainIDs []DomainIDString,
	occurredAt time.Time,
) BookRegistered {

	return BookRegistered{
		EventType:  BookRegisteredEventType,
		BookID:     bookID.String(),
		Title:      title,
		Authors:    authors,
		DomainIDs:  domainIDs,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookRegistered) IsEventType() string {
	return BookRegisteredEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookRegistered) HasOccurredAt() time.Time {
	return e.OccurredAt
}
