package removebookcopy

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

// Decide implements the business logic to determine whether a copy can be removed from circulation.
//
// Business Rules:
//
//	GIVEN: A copy with CopyID
//	WHEN: RemoveBookCopy command is received
//	THEN: BookCopyRemovedFromCirculation event is generated
//	ERROR: NOT_FOUND if the copy does not exist
//	ERROR: COPY_UNAVAILABLE if the copy is lent out
//	IDEMPOTENCY: If the copy is already retired, no event is generated (no-op)
func Decide(history core.DomainEvents, command Command, now time.Time) core.DecisionResult {
	state := core.ProjectLibraryState(history)

	bookCopy, ok := state.Copy(command.CopyID.String())
	if !ok {
		return core.ErrorDecision(core.NewError(core.KindNotFound, "copy %s", command.CopyID))
	}

	if bookCopy.Retired {
		return core.IdempotentDecision()
	}

	if !bookCopy.Available {
		return core.ErrorDecision(core.NewError(core.KindCopyUnavailable, "copy %s is lent out", command.CopyID))
	}

	return core.SuccessDecision(
		core.BuildBookCopyRemovedFromCirculation(bookCopy.CopyID, bookCopy.EditionID, bookCopy.BookID, now),
	)
}

// BuildEventFilter creates the filter for querying the catalog and lending history of one copy.
func BuildEventFilter(copyID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookCopyAddedToCirculationEventType,
			core.BookCopyRemovedFromCirculationEventType,
			core.BookCopyLentToReaderEventType,
			core.BookCopyReturnedByReaderEventType,
		).
		AndAnyPredicateOf(eventstore.P("CopyID", copyID.String())).
		Finalize()
}
