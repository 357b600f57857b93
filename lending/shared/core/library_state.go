package core

import (
	"cmp"
	"slices"
	"time"
)

// Reader as seen by the lending rules.
type Reader struct {
	ReaderID ReaderIDString
	Kind     ReaderKind
	Details  ReaderDetails
}

// BookDomain is one node of the domain forest.
type BookDomain struct {
	DomainID       DomainIDString
	ParentDomainID DomainIDString
	Name           string
}

// Book is the logical work.
type Book struct {
	BookID    BookIDString
	Title     string
	Authors   []Author
	DomainIDs []DomainIDString
}

// BookEdition belongs to a Book.
type BookEdition struct {
	EditionID EditionIDString
	BookID    BookIDString
	Details   EditionDetails
}

// BookCopy is the unit of availability. Available is derived from the open loans of the copy.
type BookCopy struct {
	CopyID          CopyIDString
	EditionID       EditionIDString
	BookID          BookIDString
	ReadingRoomOnly bool
	Available       bool
	Retired         bool
}

// Loan of one copy to one reader, optionally processed by a librarian.
// DueDate always equals the initial due date plus ExtensionDays.
type Loan struct {
	LoanID        LoanIDString
	ReaderID      ReaderIDString
	CopyID        CopyIDString
	BookID        BookIDString
	LibrarianID   ReaderIDString
	LoanDate      time.Time
	DueDate       time.Time
	ReturnDate    time.Time // zero while the loan is open
	ExtensionDays int
}

// IsOpen reports whether the loan has not been returned yet.
func (l Loan) IsOpen() bool {
	return l.ReturnDate.IsZero()
}

// Catalog resolves readers, copies, editions and books.
type Catalog interface {
	Reader(readerID ReaderIDString) (Reader, bool)
	Copy(copyID CopyIDString) (BookCopy, bool)
	Edition(editionID EditionIDString) (BookEdition, bool)
	Book(bookID BookIDString) (Book, bool)
	CopiesOfBook(bookID BookIDString) []BookCopy
}

// Loans gives access to the loans of one consistency boundary.
type Loans interface {
	Loan(loanID LoanIDString) (Loan, bool)
	LoansOfReader(readerID ReaderIDString) []Loan
	LoansProcessedBy(librarianID ReaderIDString) []Loan
}

// LibraryState is the projection of the events of one consistency boundary.
// It only knows what the boundary's filter selected, e.g. the loans of one reader.
type LibraryState struct {
	readers  map[ReaderIDString]Reader
	domains  map[DomainIDString]BookDomain
	books    map[BookIDString]Book
	editions map[EditionIDString]BookEdition
	copies   map[CopyIDString]BookCopy
	loans    map[LoanIDString]Loan
	loanIDs  []LoanIDString // in append order
}

// NewLibraryState creates an empty LibraryState.
func NewLibraryState() *LibraryState {
	return &LibraryState{
		readers:  make(map[ReaderIDString]Reader),
		domains:  make(map[DomainIDString]BookDomain),
		books:    make(map[BookIDString]Book),
		editions: make(map[EditionIDString]BookEdition),
		copies:   make(map[CopyIDString]BookCopy),
		loans:    make(map[LoanIDString]Loan),
	}
}

// ProjectLibraryState builds the LibraryState by replaying history.
func ProjectLibraryState(history DomainEvents) *LibraryState {
	s := NewLibraryState()

	for _, event := range history {
		s.Apply(event)
	}

	return s
}

// Apply evolves the state by one event. Unknown events are ignored.
func (s *LibraryState) Apply(event DomainEvent) { //nolint:gocyclo // one case per event type
	switch e := event.(type) {
	case ReaderRegistered:
		s.readers[e.ReaderID] = Reader{
			ReaderID: e.ReaderID,
			Kind:     e.ReaderKind,
			Details: ReaderDetails{
				FirstName: e.FirstName,
				LastName:  e.LastName,
				Address:   e.Address,
				Email:     e.Email,
				Phone:     e.Phone,
			},
		}

	case BookDomainDefined:
		s.domains[e.DomainID] = BookDomain{DomainID: e.DomainID, ParentDomainID: e.ParentDomainID, Name: e.Name}

	case BookRegistered:
		s.books[e.BookID] = Book{BookID: e.BookID, Title: e.Title, Authors: e.Authors, DomainIDs: e.DomainIDs}

	case BookEditionAdded:
		s.editions[e.EditionID] = BookEdition{
			EditionID: e.EditionID,
			BookID:    e.BookID,
			Details: EditionDetails{
				Publisher:     e.Publisher,
				Year:          e.Year,
				EditionNumber: e.EditionNumber,
				NumberOfPages: e.NumberOfPages,
				BookType:      e.BookType,
			},
		}

	case BookCopyAddedToCirculation:
		s.copies[e.CopyID] = BookCopy{
			CopyID:          e.CopyID,
			EditionID:       e.EditionID,
			BookID:          e.BookID,
			ReadingRoomOnly: e.ReadingRoomOnly,
			Available:       !s.hasOpenLoan(e.CopyID),
		}

	case BookCopyRemovedFromCirculation:
		if c, ok := s.copies[e.CopyID]; ok {
			c.Retired = true
			s.copies[e.CopyID] = c
		}

	case BookCopyLentToReader:
		s.loans[e.LoanID] = Loan{
			LoanID:      e.LoanID,
			ReaderID:    e.ReaderID,
			CopyID:      e.CopyID,
			BookID:      e.BookID,
			LibrarianID: e.LibrarianID,
			LoanDate:    e.OccurredAt,
			DueDate:     e.DueDate,
		}
		s.loanIDs = append(s.loanIDs, e.LoanID)
		s.setAvailable(e.CopyID, false)

	case BookCopyReturnedByReader:
		if l, ok := s.loans[e.LoanID]; ok {
			l.ReturnDate = e.OccurredAt
			s.loans[e.LoanID] = l
		}
		s.setAvailable(e.CopyID, !s.hasOpenLoan(e.CopyID))

	case LoanExtended:
		if l, ok := s.loans[e.LoanID]; ok {
			l.ExtensionDays += e.Days
			l.DueDate = e.DueDate
			s.loans[e.LoanID] = l
		}
	}
}

func (s *LibraryState) setAvailable(copyID CopyIDString, available bool) {
	if c, ok := s.copies[copyID]; ok {
		c.Available = available
		s.copies[copyID] = c
	}
}

func (s *LibraryState) hasOpenLoan(copyID CopyIDString) bool {
	for _, l := range s.loans {
		if l.CopyID == copyID && l.IsOpen() {
			return true
		}
	}

	return false
}

// Reader resolves a registered reader or staff member.
func (s *LibraryState) Reader(readerID ReaderIDString) (Reader, bool) {
	r, ok := s.readers[readerID]
	return r, ok
}

// Copy resolves a copy, including retired ones.
func (s *LibraryState) Copy(copyID CopyIDString) (BookCopy, bool) {
	c, ok := s.copies[copyID]
	return c, ok
}

// Edition resolves an edition.
func (s *LibraryState) Edition(editionID EditionIDString) (BookEdition, bool) {
	e, ok := s.editions[editionID]
	return e, ok
}

// Book resolves a registered book.
func (s *LibraryState) Book(bookID BookIDString) (Book, bool) {
	b, ok := s.books[bookID]
	return b, ok
}

// Domain resolves a defined domain.
func (s *LibraryState) Domain(domainID DomainIDString) (BookDomain, bool) {
	d, ok := s.domains[domainID]
	return d, ok
}

// Parent returns the parent of a domain, false for roots and unknown domains.
func (s *LibraryState) Parent(domainID DomainIDString) (DomainIDString, bool) {
	d, ok := s.domains[domainID]
	if !ok || d.ParentDomainID == "" {
		return "", false
	}

	return d.ParentDomainID, true
}

// CopiesOfBook returns the non-retired copies whose edition belongs to bookID, ordered by CopyID.
func (s *LibraryState) CopiesOfBook(bookID BookIDString) []BookCopy {
	copies := make([]BookCopy, 0)

	for _, c := range s.copies {
		if c.Retired {
			continue
		}

		if e, ok := s.editions[c.EditionID]; ok && e.BookID == bookID {
			copies = append(copies, c)
		}
	}

	slices.SortFunc(copies, func(a, b BookCopy) int {
		return cmp.Compare(a.CopyID, b.CopyID)
	})

	return copies
}

// BookOfCopy follows copy -> edition -> book.
func (s *LibraryState) BookOfCopy(copyID CopyIDString) (Book, bool) {
	c, ok := s.copies[copyID]
	if !ok {
		return Book{}, false
	}

	e, ok := s.editions[c.EditionID]
	if !ok {
		return Book{}, false
	}

	return s.Book(e.BookID)
}

// Loan resolves a loan, open or returned.
func (s *LibraryState) Loan(loanID LoanIDString) (Loan, bool) {
	l, ok := s.loans[loanID]
	return l, ok
}

// LoansOfReader returns the loans of a reader in the order they were made.
func (s *LibraryState) LoansOfReader(readerID ReaderIDString) []Loan {
	return s.filterLoans(func(l Loan) bool { return l.ReaderID == readerID })
}

// LoansProcessedBy returns the loans processed by a librarian in the order they were made.
func (s *LibraryState) LoansProcessedBy(librarianID ReaderIDString) []Loan {
	return s.filterLoans(func(l Loan) bool { return l.LibrarianID == librarianID })
}

// LoansOfBook returns all loans of copies of a book in the order they were made.
func (s *LibraryState) LoansOfBook(bookID BookIDString) []Loan {
	return s.filterLoans(func(l Loan) bool { return l.BookID == bookID })
}

func (s *LibraryState) filterLoans(keep func(Loan) bool) []Loan {
	loans := make([]Loan, 0)

	for _, loanID := range s.loanIDs {
		if l := s.loans[loanID]; keep(l) {
			loans = append(loans, l)
		}
	}

	return loans
}

var (
	_ Catalog         = (*LibraryState)(nil)
	_ Loans           = (*LibraryState)(nil)
	_ DomainHierarchy = (*LibraryState)(nil)
)
