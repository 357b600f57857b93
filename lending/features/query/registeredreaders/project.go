package registeredreaders

import (
	"cmp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

// Project implements the query logic to list the registered readers.
// This is a pure function with no side effects.
//
// Query Logic:
//
//	GIVEN: All ReaderRegistered events (or those of one reader)
//	WHEN: RegisteredReaders query is executed
//	THEN: RegisteredReaders is returned, ordered by last name, first name and ReaderID
//	INCLUDES: Readers of the queried kind, all readers for an empty kind
//	ERROR: NOT_FOUND if one reader was queried and it was never registered
func Project(history core.DomainEvents, query Query) (RegisteredReaders, error) {
	type sortableReader struct {
		info      ReaderInfo
		firstName string
		lastName  string
	}

	readers := make([]sortableReader, 0)

	for _, event := range history {
		e, ok := event.(core.ReaderRegistered)
		if !ok {
			continue
		}

		if query.Kind != "" && e.ReaderKind != query.Kind {
			continue
		}

		readers = append(readers, sortableReader{
			info: ReaderInfo{
				ReaderID:     e.ReaderID,
				Name:         strings.TrimSpace(e.FirstName + " " + e.LastName),
				Kind:         e.ReaderKind,
				Email:        e.Email,
				RegisteredAt: e.OccurredAt,
			},
			firstName: e.FirstName,
			lastName:  e.LastName,
		})
	}

	if query.ReaderID != uuid.Nil && len(readers) == 0 {
		return RegisteredReaders{}, core.NewError(core.KindNotFound, "reader %s not found", query.ReaderID)
	}

	slices.SortFunc(readers, func(a, b sortableReader) int {
		return cmp.Or(
			cmp.Compare(a.lastName, b.lastName),
			cmp.Compare(a.firstName, b.firstName),
			cmp.Compare(a.info.ReaderID, b.info.ReaderID),
		)
	})

	result := RegisteredReaders{
		Readers: make([]ReaderInfo, 0, len(readers)),
		Count:   len(readers),
	}

	for _, r := range readers {
		result.Readers = append(result.Readers, r.info)
	}

	return result, nil
}

// BuildEventFilter creates the filter for querying the registrations, of one reader if readerID is not nil.
func BuildEventFilter(readerID uuid.UUID) eventstore.Filter {
	if readerID == uuid.Nil {
		return eventstore.BuildEventFilter().
			Matching().
			AnyEventTypeOf(core.ReaderRegisteredEventType).
			Finalize()
	}

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.ReaderRegisteredEventType).
		AndAnyPredicateOf(eventstore.P("ReaderID", readerID.String())).
		Finalize()
}
