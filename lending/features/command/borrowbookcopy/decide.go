package borrowbookcopy

import (
	"time"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

// Decide implements the business logic to determine whether a copy should be lent to a reader.
// This is a pure function with no side effects, the rules and their order are those of core.EvaluateBorrow.
//
// Business Rules:
//
//	GIVEN: A reader with ReaderID, a copy with CopyID and optionally a librarian with LibrarianID
//	WHEN: BorrowBookCopy command is received
//	THEN: BookCopyLentToReader event is generated, due LoanPeriodDays after now
//	ERROR: the LendingError of the first rule that rejects the borrow
//	IDEMPOTENCY: If a loan with LoanID already exists, no event is generated (no-op)
func Decide(history core.DomainEvents, command Command, cfg core.PolicyConfig, now time.Time) core.DecisionResult {
	state := core.ProjectLibraryState(history)

	if _, ok := state.Loan(command.LoanID); ok {
		return core.IdempotentDecision()
	}

	event, err := core.EvaluateBorrow(state, cfg, now, command.Request())
	if err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(event)
}

// BuildCopyFilter creates the filter for resolving the books of the given copies.
func BuildCopyFilter(copyIDs ...core.CopyIDString) eventstore.Filter {
	predicates := copyPredicates(copyIDs)

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookCopyAddedToCirculationEventType,
			core.BookCopyRemovedFromCirculationEventType,
		).
		AndAnyPredicateOf(predicates[0], predicates[1:]...).
		Finalize()
}

// BuildEventFilter creates the consistency boundary of borrowing copies of the given books.
//
// The domain forest and all books are included because the domain recency rule compares the domains
// of the requested book with those of every book the reader borrowed recently.
func BuildEventFilter(
	readerID core.ReaderIDString,
	librarianID core.ReaderIDString,
	bookIDs ...core.BookIDString,
) eventstore.Filter {

	bookPredicates := make([]eventstore.FilterPredicate, 0, len(bookIDs))
	for _, bookID := range bookIDs {
		bookPredicates = append(bookPredicates, eventstore.P("BookID", bookID))
	}

	catalogPredicates := withFallback(bookPredicates)

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookDomainDefinedEventType,
			core.BookRegisteredEventType,
		).
		OrMatching().
		AnyEventTypeOf(
			core.BookEditionAddedEventType,
			core.BookCopyAddedToCirculationEventType,
			core.BookCopyRemovedFromCirculationEventType,
		).
		AndAnyPredicateOf(catalogPredicates[0], catalogPredicates[1:]...).
		OrMatching().
		AnyEventTypeOf(
			core.ReaderRegisteredEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("ReaderID", readerID),
			eventstore.P("ReaderID", librarianID),
		).
		OrMatching().
		AnyEventTypeOf(
			core.BookCopyLentToReaderEventType,
			core.BookCopyReturnedByReaderEventType,
			core.LoanExtendedEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("ReaderID", readerID),
			append(bookPredicates, eventstore.P("LibrarianID", librarianID))...,
		).
		Finalize()
}

func copyPredicates(copyIDs []core.CopyIDString) []eventstore.FilterPredicate {
	predicates := make([]eventstore.FilterPredicate, 0, len(copyIDs))
	for _, copyID := range copyIDs {
		predicates = append(predicates, eventstore.P("CopyID", copyID))
	}

	return withFallback(predicates)
}

// withFallback keeps a filter item selective when no id is known, e.g. for an unknown copy.
// A predicate with an empty value is dropped by the filter builder, which would widen the item
// to all events of its types.
func withFallback(predicates []eventstore.FilterPredicate) []eventstore.FilterPredicate {
	if len(predicates) == 0 {
		return []eventstore.FilterPredicate{eventstore.P("BookID", unknownID)}
	}

	return predicates
}

// unknownID never matches a stored id, all ids are UUIDs.
const unknownID = "-"
