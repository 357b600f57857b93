package core

import (
	"time"
)

// BookCopyReturnedByReaderEventType is the event type identifier.
const BookCopyReturnedByReaderEventType = "BookCopyReturnedByReader"

// BookCopyReturnedByReader represents when a lent book copy came back. OccurredAt is the return date.
type BookCopyReturnedByReader struct {
	EventType  EventTypeString
	LoanID     LoanIDString
	CopyID     CopyIDString
	BookID     BookIDString
	ReaderID   ReaderIDString
	OccurredAt OccurredAtTS
}

// BuildBookCopyReturnedByReader creates a new BookCopyReturnedByReader event.
func BuildBookCopyReturnedByReader(loan Loan, occurredAt time.Time) BookCopyReturnedByReader {
	return BookCopyReturnedByReader{
		EventType:  BookCopyReturnedByReaderEventType,
		LoanID:     loan.LoanID,
		CopyID:     loan.CopyID,
		BookID:     loan.BookID,
		ReaderID:   loan.ReaderID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookCopyReturnedByReader) IsEventType() string {
	return BookCopyReturnedByReaderEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookCopyReturnedByReader) HasOccurredAt() time.Time {
	return e.OccurredAt
}
