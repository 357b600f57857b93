package helper

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

// LibraryFixture collects the history of a small library for tests.
// All ids are fresh UUIDs, all catalog events occur one year before Now.
type LibraryFixture struct {
	t      testing.TB
	Now    time.Time
	Events core.DomainEvents

	copyEditions map[core.CopyIDString]core.EditionIDString
	copyBooks    map[core.CopyIDString]core.BookIDString
	appended     int
}

// GivenLibraryFixture creates an empty LibraryFixture.
func GivenLibraryFixture(t testing.TB, now time.Time) *LibraryFixture {
	t.Helper()

	return &LibraryFixture{
		t:            t,
		Now:          now,
		copyEditions: make(map[core.CopyIDString]core.EditionIDString),
		copyBooks:    make(map[core.CopyIDString]core.BookIDString),
	}
}

func (f *LibraryFixture) catalogTime() time.Time {
	return f.Now.AddDate(-1, 0, 0)
}

// Reader registers a reader of the given kind and returns its id.
func (f *LibraryFixture) Reader(kind core.ReaderKind) core.ReaderIDString {
	readerID := GivenUniqueID(f.t)
	details := core.ReaderDetails{
		FirstName: "Jane",
		LastName:  "Reader",
		Address:   "1 Library Lane",
		Email:     "jane.reader@example.org",
	}

	f.Events = append(f.Events, core.BuildReaderRegistered(readerID, details, kind, f.catalogTime()))

	return readerID.String()
}

// Domain defines a domain below parentID, pass "" for a root domain.
func (f *LibraryFixture) Domain(parentID core.DomainIDString) core.DomainIDString {
	domainID := GivenUniqueID(f.t)

	parent := uuid.Nil
	if parentID != "" {
		parent = uuid.MustParse(parentID)
	}

	f.Events = append(f.Events, core.BuildBookDomainDefined(domainID, parent, "Domain "+domainID.String()[:8], f.catalogTime()))

	return domainID.String()
}

// Book registers a book in the given domains.
func (f *LibraryFixture) Book(domainIDs ...core.DomainIDString) core.BookIDString {
	bookID := GivenUniqueID(f.t)
	authors := []core.Author{{FirstName: "Vlad", LastName: "Khononov"}}

	f.Events = append(f.Events, core.BuildBookRegistered(bookID, "Learning Domain-Driven Design", authors, domainIDs, f.catalogTime()))

	return bookID.String()
}

// Edition adds an edition to a book.
func (f *LibraryFixture) Edition(bookID core.BookIDString) core.EditionIDString {
	editionID := GivenUniqueID(f.t)
	details := core.EditionDetails{
		Publisher:     "O'Reilly Media, Inc.",
		Year:          2021,
		EditionNumber: 1,
		NumberOfPages: 340,
		BookType:      "Paperback",
	}

	f.Events = append(f.Events, core.BuildBookEditionAdded(editionID, uuid.MustParse(bookID), details, f.catalogTime()))

	return editionID.String()
}

// Copy adds a copy of an edition to circulation.
func (f *LibraryFixture) Copy(editionID core.EditionIDString, bookID core.BookIDString, readingRoomOnly bool) core.CopyIDString {
	copyID := GivenUniqueID(f.t)

	f.Events = append(f.Events, core.BuildBookCopyAddedToCirculation(
		copyID,
		uuid.MustParse(editionID),
		uuid.MustParse(bookID),
		readingRoomOnly,
		f.catalogTime(),
	))

	f.copyEditions[copyID.String()] = editionID
	f.copyBooks[copyID.String()] = bookID

	return copyID.String()
}

// Copies adds one edition with n circulating copies of a book.
func (f *LibraryFixture) Copies(bookID core.BookIDString, n int) []core.CopyIDString {
	editionID := f.Edition(bookID)
	copyIDs := make([]core.CopyIDString, 0, n)

	for range n {
		copyIDs = append(copyIDs, f.Copy(editionID, bookID, false))
	}

	return copyIDs
}

// BookWithCopies registers a book in the given domains with n circulating copies.
func (f *LibraryFixture) BookWithCopies(n int, domainIDs ...core.DomainIDString) (core.BookIDString, []core.CopyIDString) {
	bookID := f.Book(domainIDs...)

	return bookID, f.Copies(bookID, n)
}

// Retire removes a copy from circulation.
func (f *LibraryFixture) Retire(copyID core.CopyIDString) {
	f.Events = append(f.Events, core.BuildBookCopyRemovedFromCirculation(
		copyID,
		f.copyEditions[copyID],
		f.copyBooks[copyID],
		f.catalogTime(),
	))
}

// Lend lends a copy to a reader at loanDate, librarianID may be empty.
func (f *LibraryFixture) Lend(readerID core.ReaderIDString, copyID core.CopyIDString, librarianID core.ReaderIDString, loanDate time.Time) core.LoanIDString {
	loanID := GivenUniqueID(f.t).String()

	f.Events = append(f.Events, core.BuildBookCopyLentToReader(
		loanID,
		copyID,
		f.copyBooks[copyID],
		readerID,
		librarianID,
		loanDate.Add(core.Days(14)),
		loanDate,
	))

	return loanID
}

// Return returns a loan at returnDate.
func (f *LibraryFixture) Return(loanID core.LoanIDString, returnDate time.Time) {
	loan, ok := f.State().Loan(loanID)
	if !ok {
		f.t.Fatalf("fixture has no loan %s", loanID)
	}

	f.Events = append(f.Events, core.BuildBookCopyReturnedByReader(loan, returnDate))
}

// Extend extends a loan by days.
func (f *LibraryFixture) Extend(loanID core.LoanIDString, days int) {
	loan, ok := f.State().Loan(loanID)
	if !ok {
		f.t.Fatalf("fixture has no loan %s", loanID)
	}

	f.Events = append(f.Events, core.BuildLoanExtended(loan, days, f.Now))
}

// BookOf returns the book of a copy created by this fixture.
func (f *LibraryFixture) BookOf(copyID core.CopyIDString) core.BookIDString {
	return f.copyBooks[copyID]
}

// State projects the collected history.
func (f *LibraryFixture) State() *core.LibraryState {
	return core.ProjectLibraryState(f.Events)
}
