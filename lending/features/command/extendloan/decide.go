package extendloan

import (
	"time"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

// Decide implements the business logic to determine whether a loan can be extended.
//
// Business Rules:
//
//	GIVEN: A loan with LoanID
//	WHEN: ExtendLoan command is received
//	THEN: LoanExtended event is generated, the due date moves by Days * 24h
//	ERROR: BAD_ARGUMENT if Days is not positive
//	ERROR: NOT_FOUND if the loan or its reader does not exist
//	ERROR: ALREADY_RETURNED if the loan is closed
//	ERROR: EXTENSION_LIMIT if the extension days of the loan would exceed MaxExtensionDays (doubled for STAFF)
func Decide(history core.DomainEvents, command Command, cfg core.PolicyConfig, now time.Time) core.DecisionResult {
	state := core.ProjectLibraryState(history)

	event, err := core.EvaluateExtension(state, cfg, now, command.LoanID, command.Days)
	if err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(event)
}

// BuildLoanFilter creates the filter for querying the lending history of one loan.
func BuildLoanFilter(loanID core.LoanIDString) eventstore.Filter {
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

// BuildEventFilter creates the consistency boundary of extending a loan of the given reader.
func BuildEventFilter(loanID core.LoanIDString, readerID core.ReaderIDString) eventstore.Filter {
	if readerID == "" {
		return BuildLoanFilter(loanID)
	}

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookCopyLentToReaderEventType,
			core.BookCopyReturnedByReaderEventType,
			core.LoanExtendedEventType,
		).
		AndAnyPredicateOf(eventstore.P("LoanID", loanID)).
		OrMatching().
		AnyEventTypeOf(core.ReaderRegisteredEventType).
		AndAnyPredicateOf(eventstore.P("ReaderID", readerID)).
		Finalize()
}
