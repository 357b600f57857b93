package borrowbookcopies

import (
	"time"

	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

// CheckRequest runs the checks of the whole request, in this order:
//
//	ERROR: EMPTY_REQUEST if no copy is requested
//	ERROR: NOT_FOUND if the reader is not registered
//	ERROR: LOAN_SIZE if more copies are requested than MaxBooksPerLoan (doubled for STAFF)
//	ERROR: INSUFFICIENT_CATEGORIES if three or more copies span less than two domain ids
func CheckRequest(history core.DomainEvents, command Command, cfg core.PolicyConfig) error {
	state := core.ProjectLibraryState(history)

	return core.CheckBulkRequest(state, cfg, command.ReaderID, command.CopyIDs())
}

// DecideAtomically implements the business logic of the all or nothing bulk borrow.
// This is a pure function with no side effects.
//
// Business Rules:
//
//	GIVEN: A reader with ReaderID and the copies of Items
//	WHEN: BorrowBookCopiesAtomically command is received
//	THEN: One BookCopyLentToReader event per item is generated
//	ERROR: the error of CheckRequest, or the first error of the single borrow rules,
//	       where every item sees the loans of the items before it
//	IDEMPOTENCY: If the loans of all items already exist, no event is generated (no-op)
func DecideAtomically(history core.DomainEvents, command Command, cfg core.PolicyConfig, now time.Time) core.DecisionResult {
	state := core.ProjectLibraryState(history)

	if allLoansExist(state, command.Items) {
		return core.IdempotentDecision()
	}

	if err := core.CheckBulkRequest(state, cfg, command.ReaderID, command.CopyIDs()); err != nil {
		return core.ErrorDecision(err)
	}

	events := make(core.DomainEvents, 0, len(command.Items))

	for _, item := range command.Items {
		if _, ok := state.Loan(item.LoanID); ok {
			continue
		}

		event, err := core.EvaluateBorrow(state, cfg, now, command.BorrowCommand(item).Request())
		if err != nil {
			return core.ErrorDecision(err)
		}

		state.Apply(event)
		events = append(events, event)
	}

	return core.SuccessDecision(events[0], events[1:]...)
}

func allLoansExist(state *core.LibraryState, items []Item) bool {
	if len(items) == 0 {
		return false
	}

	for _, item := range items {
		if _, ok := state.Loan(item.LoanID); !ok {
			return false
		}
	}

	return true
}
