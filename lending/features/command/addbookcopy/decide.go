package addbookcopy

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

// Decide implements the business logic to determine whether a copy can be added to circulation.
//
// Business Rules:
//
//	GIVEN: A copy with CopyID of an edition with EditionID
//	WHEN: AddBookCopy command is received
//	THEN: BookCopyAddedToCirculation event is generated, carrying the book of the edition
//	ERROR: NOT_FOUND if the edition does not exist
//	ERROR: DATA_INCOMPLETE if the book id of the edition is malformed
//	IDEMPOTENCY: If the copy already exists, no event is generated (no-op)
func Decide(history core.DomainEvents, command Command, now time.Time) core.DecisionResult {
	state := core.ProjectLibraryState(history)

	if _, ok := state.Copy(command.CopyID.String()); ok {
		return core.IdempotentDecision()
	}

	edition, ok := state.Edition(command.EditionID.String())
	if !ok {
		return core.ErrorDecision(core.NewError(core.KindNotFound, "edition %s", command.EditionID))
	}

	bookID, err := uuid.Parse(edition.BookID)
	if err != nil {
		return core.ErrorDecision(core.NewError(core.KindDataIncomplete, "book %q of edition %s: %v", edition.BookID, edition.EditionID, err))
	}

	return core.SuccessDecision(
		core.BuildBookCopyAddedToCirculation(command.CopyID, command.EditionID, bookID, command.ReadingRoomOnly, now),
	)
}

// BuildEventFilter creates the filter for querying the edition and the copy.
func BuildEventFilter(copyID uuid.UUID, editionID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookEditionAddedEventType).
		AndAnyPredicateOf(eventstore.P("EditionID", editionID.String())).
		OrMatching().
		AnyEventTypeOf(
			core.BookCopyAddedToCirculationEventType,
			core.BookCopyRemovedFromCirculationEventType,
		).
		AndAnyPredicateOf(eventstore.P("CopyID", copyID.String())).
		Finalize()
}
