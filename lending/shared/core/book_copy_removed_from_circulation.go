package core

import (
	"time"
)

// BookCopyRemovedFromCirculationEventType is the event type identifier.
const BookCopyRemovedFromCirculationEventType = "BookCopyRemovedFromCirculation"

// BookCopyRemovedFromCirculation represents when a copy was retired.
type BookCopyRemovedFromCirculation struct {
	EventType  EventTypeString
	CopyID     CopyIDString
	EditionID  EditionIDString
	BookID     BookIDString
	OccurredAt OccurredAtTS
}

// BuildBookCopyRemovedFromCirculation creates a new BookCopyRemovedFromCirculation event.
func BuildBookCopyRemovedFromCirculation(
	copyID CopyIDString,
	editionID EditionIDString,
	bookID BookIDString,
	occurredAt time.Time,
) BookCopyRemovedFromCirculation {

	return BookCopyRemovedFromCirculation{
		EventType:  BookCopyRemovedFromCirculationEventType,
		CopyID:     copyID,
		EditionID:  editionID,
		BookID:     bookID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookCopyRemovedFromCirculation) IsEventType() string {
	return BookCopyRemovedFromCirculationEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookCopyRemovedFromCirculation) HasOccurredAt() time.Time {
	return e.OccurredAt
}
