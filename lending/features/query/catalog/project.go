package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

// Project implements the query logic to list the books of the catalog.
// This is a pure function with no side effects.
//
// Query Logic:
//
//	GIVEN: All catalog events (or those of one book) and all domain definitions
//	WHEN: Catalog query is executed
//	THEN: Books are returned, ordered by title and BookID
//	INCLUDES: Books in the queried domain or one of its subdomains, all books for a nil domain
//	ERROR: NOT_FOUND if the queried book or domain is unknown
func Project(history core.DomainEvents, query Query) (Books, error) {
	state := core.ProjectLibraryState(history)

	domainID := ""
	if query.DomainID != uuid.Nil {
		domainID = query.DomainID.String()

		if _, ok := state.Domain(domainID); !ok {
			return Books{}, core.NewError(core.KindNotFound, "domain %s not found", domainID)
		}
	}

	editions := make(map[core.BookIDString]int)
	bookIDs := make([]core.BookIDString, 0)

	for _, event := range history {
		switch e := event.(type) {
		case core.BookRegistered:
			bookIDs = append(bookIDs, e.BookID)
		case core.BookEditionAdded:
			editions[e.BookID]++
		}
	}

	books := make([]BookInfo, 0, len(bookIDs))

	for _, bookID := range bookIDs {
		book, _ := state.Book(bookID)

		if domainID != "" && !inDomain(state, book.DomainIDs, domainID) {
			continue
		}

		books = append(books, toBookInfo(state, book, editions[bookID]))
	}

	if query.BookID != uuid.Nil && len(books) == 0 {
		return Books{}, core.NewError(core.KindNotFound, "book %s not found", query.BookID)
	}

	slices.SortFunc(books, func(a, b BookInfo) int {
		return cmp.Or(cmp.Compare(a.Title, b.Title), cmp.Compare(a.BookID, b.BookID))
	})

	return Books{Books: books, Count: len(books)}, nil
}

func inDomain(state *core.LibraryState, bookDomainIDs []core.DomainIDString, domainID core.DomainIDString) bool {
	for _, bookDomainID := range bookDomainIDs {
		if bookDomainID == domainID || core.IsAncestor(state, domainID, bookDomainID) {
			return true
		}
	}

	return false
}

func toBookInfo(state *core.LibraryState, book core.Book, editions int) BookInfo {
	info := BookInfo{
		BookID:   book.BookID,
		Title:    book.Title,
		Authors:  make([]string, 0, len(book.Authors)),
		Domains:  make([]DomainInfo, 0, len(book.DomainIDs)),
		Editions: editions,
	}

	for _, author := range book.Authors {
		info.Authors = append(info.Authors, strings.TrimSpace(author.FirstName+" "+author.LastName))
	}

	for _, domainID := range book.DomainIDs {
		domain, _ := state.Domain(domainID)
		info.Domains = append(info.Domains, DomainInfo{DomainID: domainID, Name: domain.Name})
	}

	for _, c := range state.CopiesOfBook(book.BookID) {
		info.Copies++

		if c.Available {
			info.Available++
		}
	}

	return info
}

// BuildEventFilter creates the filter for querying the catalog, of one book if bookID is not nil.
// Domain definitions are always included to resolve domain names and subdomains.
func BuildEventFilter(bookID uuid.UUID) eventstore.Filter {
	if bookID == uuid.Nil {
		return eventstore.BuildEventFilter().
			Matching().
			AnyEventTypeOf(
				core.BookDomainDefinedEventType,
				core.BookRegisteredEventType,
				core.BookEditionAddedEventType,
				core.BookCopyAddedToCirculationEventType,
				core.BookCopyRemovedFromCirculationEventType,
				core.BookCopyLentToReaderEventType,
				core.BookCopyReturnedByReaderEventType,
			).
			Finalize()
	}

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
		AndAnyPredicateOf(eventstore.P("BookID", bookID.String())).
		OrMatching().
		AnyEventTypeOf(core.BookDomainDefinedEventType).
		Finalize()
}
