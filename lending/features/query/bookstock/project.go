package bookstock

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

// ProjectBookStock implements the query logic to count the copies of a book.
// This is a pure function with no side effects.
//
// Query Logic:
//
//	GIVEN: A book with BookID
//	WHEN: BookStock query is executed
//	THEN: BookStock is returned with the copies counted by status
//	VERDICT: the stock floor check a borrow of this book would face right now
//	ERROR: NOT_FOUND if the book was never registered
func ProjectBookStock(history core.DomainEvents, query Query) (BookStock, error) {
	bookID := query.BookID.String()
	state := core.ProjectLibraryState(history)

	book, ok := state.Book(bookID)
	if !ok {
		return BookStock{}, core.NewError(core.KindNotFound, "book %s not found", bookID)
	}

	copies := state.CopiesOfBook(bookID)
	result := BookStock{
		BookID:       bookID,
		Title:        book.Title,
		Total:        len(copies),
		StockVerdict: core.KindOf(core.CheckStockFloor(copies)),
	}

	for _, c := range copies {
		switch {
		case c.ReadingRoomOnly:
			result.ReadingRoomOnly++
		case c.Available:
			result.CirculatingAvailable++
		default:
			result.Lent++
		}
	}

	for _, event := range history {
		if _, isRemoved := event.(core.BookCopyRemovedFromCirculation); isRemoved {
			result.Retired++
		}
	}

	return result, nil
}

// BuildEventFilter creates the filter for querying the catalog and lending events of the specified book.
func BuildEventFilter(bookID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookRegisteredEventType,
			core.BookEditionAddedEventType,
			core.BookCopyAddedToCirculationEventType,
			core.BookCopyRemovedFromCirculationEventType,
			core.BookCopyLentToReaderEventType,
			core.BookCopyReturnedByReaderEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("BookID", bookID.String()),
		).
		Finalize()
}
