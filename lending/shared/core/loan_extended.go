package core

import (
	"time"
)

// LoanExtendedEventType is the event type identifier.
const LoanExtendedEventType = "LoanExtended"

// LoanExtended represents when the due date of an open loan was moved by Days. DueDate is the new due date.
type LoanExtended struct {
	EventType  EventTypeString
	LoanID     LoanIDString
	CopyID     CopyIDString
	BookID     BookIDString
	ReaderID   ReaderIDString
	Days       int
	DueDate    time.Time
	OccurredAt OccurredAtTS
}

// BuildLoanExtended creates a new LoanExtended event.
func BuildLoanExtended(loan Loan, days int, occurredAt time.Time) LoanExtended {
	return LoanExtended{
		EventType:  LoanExtendedEventType,
		LoanID:     loan.LoanID,
		CopyID:     loan.CopyID,
		BookID:     loan.BookID,
		ReaderID:   loan.ReaderID,
		Days:       days,
		DueDate:    ToOccurredAt(loan.DueDate.Add(Days(days))),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e LoanExtended) IsEventType() string {
	return LoanExtendedEventType
}

// HasOccurredAt returns when this event occurred.
func (e LoanExtended) HasOccurredAt() time.Time {
	return e.OccurredAt
}
