package core

import (
	"time"

	"github.com/google/uuid"
)

// ReaderRegisteredEventType is the event type identifier.
const ReaderRegisteredEventType = "ReaderRegistered"

// ReaderRegistered represents when a reader (or staff member) was registered with the library.
type ReaderRegistered struct {
	EventType  EventTypeString
	ReaderID   ReaderIDString
	FirstName  string
	LastName   string
	Address    string
	Email      string
	Phone      string
	ReaderKind ReaderKind
	OccurredAt OccurredAtTS
}

// ReaderDetails are the personal details of a reader, opaque to the lending rules.
type ReaderDetails struct {
	FirstName string
	LastName  string
	Address   string
	Email     string
	Phone     string
}

// BuildReaderRegistered creates a new ReaderRegistered event.
func BuildReaderRegistered(readerID uuid.UUID, details ReaderDetails, kind ReaderKind, occurredAt time.Time) ReaderRegistered {
	return ReaderRegistered{
		EventType:  ReaderRegisteredEventType,
		ReaderID:   readerID.String(),
		FirstName:  details.FirstName,
		LastName:   details.LastName,
		Address:    details.Address,
		Email:      details.Email,
		Phone:      details.Phone,
		ReaderKind: kind,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ReaderRegistered) IsEventType() string {
	return ReaderRegisteredEventType
}

// HasOccurredAt returns when this event occurred.
func (e ReaderRegistered) HasOccurredAt() time.Time {
	return e.OccurredAt
}
