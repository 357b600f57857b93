package core

import (
	"time"
)

// BookCopyLentToReaderEventType is the event type identifier.
const BookCopyLentToReaderEventType = "BookCopyLentToReader"

// BookCopyLentToReader represents when a book copy is lent to a reader. OccurredAt is the loan date.
// LibrarianID is empty if no staff member processed the loan.
type BookCopyLentToReader struct {
	EventType   EventTypeString
	LoanID      LoanIDString
	CopyID      CopyIDString
	BookID      BookIDString
	ReaderID    ReaderIDString
	LibrarianID ReaderIDString
	DueDate     time.Time
	OccurredAt  OccurredAtTS
}

// BuildBookCopyLentToReader creates a new BookCopyLentToReader event.
func BuildBookCopyLentToReader(
	loanID LoanIDString,
	copyID CopyIDString,
	bookID BookIDString,
	readerID ReaderIDString,
	librarianID ReaderIDString,
	dueDate time.Time,
	occurredAt time.Time,
) BookCopyLentToReader {

	return BookCopyLentToReader{
		EventType:   BookCopyLentToReaderEventType,
		LoanID:      loanID,
		CopyID:      copyID,
		BookID:      bookID,
		ReaderID:    readerID,
		LibrarianID: librarianID,
		DueDate:     ToOccurredAt(dueDate),
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookCopyLentToReader) IsEventType() string {
	return BookCopyLentToReaderEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookCopyLentToReader) HasOccurredAt() time.Time {
	return e.OccurredAt
}
