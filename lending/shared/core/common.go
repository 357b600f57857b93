package core

import (
	"time"
)

// Instead of implementing full value objects, alias types and a few helpers are used ...

// ReaderIDString represents a reader identifier, librarians are readers of kind STAFF.
type ReaderIDString = string

// BookIDString represents a book identifier.
type BookIDString = string

// EditionIDString represents a book edition identifier.
type EditionIDString = string

// CopyIDString represents a book copy identifier.
type CopyIDString = string

// DomainIDString represents a book domain identifier.
type DomainIDString = string

// LoanIDString represents a loan identifier.
type LoanIDString = string

// EventTypeString represents the type of a domain event.
type EventTypeString = string

// OccurredAtTS represents when an event occurred.
type OccurredAtTS = time.Time

// ReaderKind distinguishes standard readers from staff members.
type ReaderKind = string

const (
	ReaderKindStandard ReaderKind = "STANDARD"
	ReaderKindStaff    ReaderKind = "STAFF"
)

// ToOccurredAt converts a time to OccurredAtTS with UTC normalization and microsecond precision,
// which is what the event stores can persist.
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}

// IsStaff reports whether kind is ReaderKindStaff.
func IsStaff(kind ReaderKind) bool {
	return kind == ReaderKindStaff
}

// IsValidReaderKind reports whether kind is one of the known reader kinds.
func IsValidReaderKind(kind ReaderKind) bool {
	return kind == ReaderKindStandard || kind == ReaderKindStaff
}
