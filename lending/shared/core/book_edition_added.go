package core

import (
	"time"

	"github.com/google/uuid"
)

// BookEditionAddedEventType is the event type identifier.
const BookEditionAddedEventType = "BookEditionAdded"

// BookEditionAdded represents when an edition of a registered book was added.
type BookEditionAdded struct {
	EventType     EventTypeString
	EditionID     EditionIDString
	BookID        BookIDString
	Publisher     string
	Year          int
	EditionNumber int
	NumberOfPages int
	BookType      string
	OccurredAt    OccurredAtTS
}

// EditionDetails are the bibliographic details of an edition.
type EditionDetails struct {
	Publisher     string
	Year          int
	EditionNumber int
	NumberOfPages int
	BookType      string
}

// BuildBookEditionAdded creates a new BookEditionAdded event.
func BuildBookEditionAdded(editionID uuid.UUID, bookID uuid.UUID, details EditionDetails, occurredAt time.Time) BookEditionAdded {
	return BookEditionAdded{
		EventType:     BookEditionAddedEventType,
		EditionID:     editionID.String(),
		BookID:        bookID.String(),
		Publisher:     details.Publisher,
		Year:          details.Year,
		EditionNumber: details.EditionNumber,
		NumberOfPages: details.NumberOfPages,
		BookType:      details.BookType,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookEditionAdded) IsEventType() string {
	return BookEditionAddedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookEditionAdded) HasOccurredAt() time.Time {
	return e.OccurredAt
}
