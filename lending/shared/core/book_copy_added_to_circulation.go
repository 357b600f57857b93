package core

import (
	"time"

	"github.com/google/uuid"
)

// BookCopyAddedToCirculationEventType is the event type identifier.
const BookCopyAddedToCirculationEventType = "BookCopyAddedToCirculation"

// BookCopyAddedToCirculation represents when a physical copy of an edition was put into circulation.
// BookID is denormalized so that lending boundaries can filter on it.
type BookCopyAddedToCirculation struct {
	EventType       EventTypeString
	CopyID          CopyIDString
	EditionID       EditionIDString
	BookID          BookIDString
	ReadingRoomOnly bool
	OccurredAt      OccurredAtTS
}

// BuildBookCopyAddedToCirculation creates a new BookCopyAddedToCirculation event.
func BuildBookCopyAddedToCirculation(
	copyID uuid.UUID,
	editionID uuid.UUID,
	bookID uuid.UUID,
	readingRoomOnly bool,
	occurredAt time.Time,
) BookCopyAddedToCirculation {

	return BookCopyAddedToCirculation{
		EventType:       BookCopyAddedToCirculationEventType,
		CopyID:          copyID.String(),
		EditionID:       editionID.String(),
		BookID:          bookID.String(),
		ReadingRoomOnly: readingRoomOnly,
		OccurredAt:      ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookCopyAddedToCirculation) IsEventType() string {
	return BookCopyAddedToCirculationEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookCopyAddedToCirculation) HasOccurredAt() time.Time {
	return e.OccurredAt
}
