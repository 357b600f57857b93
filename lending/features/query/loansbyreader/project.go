package loansbyreader

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

// ProjectLoansOfReader implements the query logic to list the loans of a reader.
// This is a pure function with no side effects.
//
// Query Logic:
//
//	GIVEN: A reader with ReaderID
//	WHEN: LoansByReader query is executed
//	THEN: LoansOfReader is returned with all loans of the reader, oldest first
//	INCLUDES: open and returned loans, extensions applied to the due date
//	OVERDUE: an open loan whose due date is before now
func ProjectLoansOfReader(history core.DomainEvents, query Query, now time.Time) LoansOfReader {
	readerID := query.ReaderID.String()
	state := core.ProjectLibraryState(history)
	result := LoansOfReader{ReaderID: readerID}

	for _, loan := range state.LoansOfReader(readerID) {
		info := LoanInfo{
			LoanID:        loan.LoanID,
			CopyID:        loan.CopyID,
			BookID:        loan.BookID,
			LibrarianID:   loan.LibrarianID,
			LoanDate:      loan.LoanDate,
			DueDate:       loan.DueDate,
			ReturnDate:    loan.ReturnDate,
			ExtensionDays: loan.ExtensionDays,
			Open:          loan.IsOpen(),
			Overdue:       loan.IsOpen() && loan.DueDate.Before(now),
		}

		if info.Open {
			result.OpenCount++
		}

		if info.Overdue {
			result.OverdueCount++
		}

		result.Loans = append(result.Loans, info)
	}

	slices.SortStableFunc(result.Loans, func(a, b LoanInfo) int {
		return a.LoanDate.Compare(b.LoanDate)
	})

	return result
}

// BuildEventFilter creates the filter for querying the lending history of the specified reader.
func BuildEventFilter(readerID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookCopyLentToReaderEventType,
			core.BookCopyReturnedByReaderEventType,
			core.LoanExtendedEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("ReaderID", readerID.String()),
		).
		Finalize()
}
