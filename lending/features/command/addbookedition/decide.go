package addbookedition

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

// Decide implements the business logic to determine whether an edition can be added.
//
// Business Rules:
//
//	GIVEN: An edition with EditionID of a book with BookID
//	WHEN: AddBookEdition command is received
//	THEN: BookEditionAdded event is generated
//	ERROR: NOT_FOUND if the book is not registered
//	ERROR: BAD_ARGUMENT if the year or the number of pages is not positive
//	IDEMPOTENCY: If the edition already exists, no event is generated (no-op)
func Decide(history core.DomainEvents, command Command, now time.Time) core.DecisionResult {
	state := core.ProjectLibraryState(history)

	if _, ok := state.Edition(command.EditionID.String()); ok {
		return core.IdempotentDecision()
	}

	if _, ok := state.Book(command.BookID.String()); !ok {
		return core.ErrorDecision(core.NewError(core.KindNotFound, "book %s", command.BookID))
	}

	if command.Details.Year <= 0 {
		return core.ErrorDecision(core.NewError(core.KindBadArgument, "year must be positive, got %d", command.Details.Year))
	}

	if command.Details.NumberOfPages <= 0 {
		return core.ErrorDecision(core.NewError(core.KindBadArgument, "number of pages must be positive, got %d", command.Details.NumberOfPages))
	}

	return core.SuccessDecision(core.BuildBookEditionAdded(command.EditionID, command.BookID, command.Details, now))
}

// BuildEventFilter creates the filter for querying the book and the edition.
func BuildEventFilter(editionID uuid.UUID, bookID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookRegisteredEventType).
		AndAnyPredicateOf(eventstore.P("BookID", bookID.String())).
		OrMatching().
		AnyEventTypeOf(core.BookEditionAddedEventType).
		AndAnyPredicateOf(eventstore.P("EditionID", editionID.String())).
		Finalize()
}
