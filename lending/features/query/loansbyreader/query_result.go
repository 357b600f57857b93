package loansbyreader

import (
	"time"

	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

// LoanInfo represents one loan of the reader.
type LoanInfo struct {
	LoanID        core.LoanIDString
	CopyID        core.CopyIDString
	BookID        core.BookIDString
	LibrarianID   core.ReaderIDString
	LoanDate      time.Time
	DueDate       time.Time
	ReturnDate    time.Time // zero while the loan is open
	ExtensionDays int
	Open          bool
	Overdue       bool
}

// LoansOfReader represents the query result containing all loans of a reader, oldest first.
type LoansOfReader struct {
	ReaderID       core.ReaderIDString
	Loans          []LoanInfo
	OpenCount      int
	OverdueCount   int
	SequenceNumber uint
}

// GetSequenceNumber returns the highest event sequence number included in the projection.
func (r LoansOfReader) GetSequenceNumber() uint {
	return r.SequenceNumber
}
