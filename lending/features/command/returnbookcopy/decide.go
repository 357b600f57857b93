package returnbookcopy

import (
	"time"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

// Decide implements the business logic to determine whether a loan can be closed.
//
// Business Rules:
//
//	GIVEN: A loan with LoanID
//	WHEN: ReturnBookCopy command is received
//	THEN: BookCopyReturnedByReader event is generated, the return date is never before the loan date
//	ERROR: NOT_FOUND if the loan does not exist
//	ERROR: ALREADY_RETURNED if the loan is closed
func Decide(history core.DomainEvents, command Command, now time.Time) core.DecisionResult {
	state := core.ProjectLibraryState(history)

	event, err := core.EvaluateReturn(state, now, command.LoanID)
	if err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(event)
}

// BuildEventFilter creates the filter for querying the lending history of one loan.
func BuildEventFilter(loanID core.LoanIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookCopyLentToReaderEventType,
			core.BookCopyReturnedByReaderEventType,
			core.LoanExtendedEventType,
		).
		AndAnyPredicateOf(eventstore.P("LoanID", loanID)).
		Finalize()
}
