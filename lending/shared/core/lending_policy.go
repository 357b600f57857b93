package core

import (
	"slices"
	"time"
)

const stockFloorPercent = 10

// LendingView is everything the lending rules read: catalog, loans and the domain hierarchy.
type LendingView interface {
	Catalog
	Loans
	DomainHierarchy
}

// BorrowRequest asks to lend one copy to one reader. LibrarianID is optional.
type BorrowRequest struct {
	LoanID      LoanIDString
	ReaderID    ReaderIDString
	CopyID      CopyIDString
	LibrarianID ReaderIDString
}

// borrowTarget is the resolved entity chain of a BorrowRequest.
type borrowTarget struct {
	reader Reader
	copy   BookCopy
	book   Book
	limits ReaderLimits
}

// EvaluateBorrow runs the borrow rules in their fixed order and returns the event of the new loan,
// or the LendingError of the first rule that rejects the request.
//
//  1. entity resolution         NOT_FOUND, DATA_INCOMPLETE
//  2. copy availability         COPY_UNAVAILABLE
//  3. reading room restriction  READING_ROOM_ONLY
//  4. stock floor               ALL_READING_ROOM, STOCK_TOO_LOW
//  5. open loans (NMC)          READER_LIMIT
//  6. loans today (NCZ)         DAILY_LIMIT, not for STAFF
//  7. domain recency (D over L) DOMAIN_LIMIT
//  8. re-borrow interval        REBORROW_TOO_SOON
//  9. librarian cap (PERSIMP)   NOT_FOUND, NOT_A_LIBRARIAN, LIBRARIAN_LIMIT
func EvaluateBorrow(view LendingView, cfg PolicyConfig, now time.Time, req BorrowRequest) (BookCopyLentToReader, error) {
	target, err := resolveBorrowTarget(view, cfg, req)
	if err != nil {
		return BookCopyLentToReader{}, err
	}

	checks := []func() error{
		func() error { return checkAvailability(target.copy) },
		func() error { return checkReadingRoom(target.copy) },
		func() error { return CheckStockFloor(view.CopiesOfBook(target.book.BookID)) },
		func() error { return checkOpenLoans(view, target) },
		func() error { return checkLoansToday(view, target, now) },
		func() error { return checkDomainRecency(view, target, now) },
		func() error { return checkReborrowInterval(view, target, now) },
		func() error { return checkLibrarian(view, cfg, req.LibrarianID, now) },
	}

	for _, check := range checks {
		if err := check(); err != nil {
			return BookCopyLentToReader{}, err
		}
	}

	return BuildBookCopyLentToReader(
		req.LoanID,
		target.copy.CopyID,
		target.book.BookID,
		target.reader.ReaderID,
		req.LibrarianID,
		now.Add(Days(cfg.LoanPeriodDays)),
		now,
	), nil
}

func resolveBorrowTarget(view LendingView, cfg PolicyConfig, req BorrowRequest) (borrowTarget, error) {
	reader, ok := view.Reader(req.ReaderID)
	if !ok {
		return borrowTarget{}, NewError(KindNotFound, "reader %s", req.ReaderID)
	}

	bookCopy, book, err := ResolveCopy(view, req.CopyID)
	if err != nil {
		return borrowTarget{}, err
	}

	return borrowTarget{reader: reader, copy: bookCopy, book: book, limits: cfg.LimitsFor(reader.Kind)}, nil
}

// ResolveCopy resolves copy -> edition -> book. Retired copies are not found.
func ResolveCopy(catalog Catalog, copyID CopyIDString) (BookCopy, Book, error) {
	bookCopy, ok := catalog.Copy(copyID)
	if !ok || bookCopy.Retired {
		return BookCopy{}, Book{}, NewError(KindNotFound, "copy %s", copyID)
	}

	edition, ok := catalog.Edition(bookCopy.EditionID)
	if !ok {
		return BookCopy{}, Book{}, NewError(KindDataIncomplete, "edition %s of copy %s", bookCopy.EditionID, copyID)
	}

	book, ok := catalog.Book(edition.BookID)
	if !ok {
		return BookCopy{}, Book{}, NewError(KindDataIncomplete, "book %s of edition %s", edition.BookID, edition.EditionID)
	}

	return bookCopy, book, nil
}

func checkAvailability(bookCopy BookCopy) error {
	if !bookCopy.Available {
		return NewError(KindCopyUnavailable, "copy %s is lent out", bookCopy.CopyID)
	}

	return nil
}

func checkReadingRoom(bookCopy BookCopy) error {
	if bookCopy.ReadingRoomOnly {
		return NewError(KindReadingRoomOnly, "copy %s", bookCopy.CopyID)
	}

	return nil
}

// CheckStockFloor requires at least 10% of the copies of a book to be available for lending.
// The copy about to be lent still counts as available. No copies at all pass.
func CheckStockFloor(copies []BookCopy) error {
	if len(copies) == 0 {
		return nil
	}

	circulatingAvailable := 0
	allReadingRoom := true

	for _, c := range copies {
		if !c.ReadingRoomOnly {
			allReadingRoom = false

			if c.Available {
				circulatingAvailable++
			}
		}
	}

	if allReadingRoom {
		return NewError(KindAllReadingRoom, "all %d copies are reading room only", len(copies))
	}

	// circulatingAvailable / total < 10% in integer arithmetic
	if circulatingAvailable*100 < len(copies)*stockFloorPercent {
		return NewError(KindStockTooLow, "%d of %d copies available", circulatingAvailable, len(copies))
	}

	return nil
}

func checkOpenLoans(loans Loans, target borrowTarget) error {
	active := 0

	for _, l := range loans.LoansOfReader(target.reader.ReaderID) {
		if l.IsOpen() {
			active++
		}
	}

	if active >= target.limits.MaxOpenLoans {
		return NewError(KindReaderLimit, "reader has %d open loans, limit %d", active, target.limits.MaxOpenLoans)
	}

	return nil
}

func checkLoansToday(loans Loans, target borrowTarget, now time.Time) error {
	if target.limits.MaxLoansPerDay == 0 {
		return nil
	}

	today := countLoansOn(loans.LoansOfReader(target.reader.ReaderID), now)

	if today >= target.limits.MaxLoansPerDay {
		return NewError(KindDailyLimit, "reader borrowed %d books today, limit %d", today, target.limits.MaxLoansPerDay)
	}

	return nil
}

func checkDomainRecency(view LendingView, target borrowTarget, now time.Time) error {
	windowStart := MonthsBefore(now, target.limits.DomainWindowMonths)
	sameDomainCount := 0

	for _, l := range view.LoansOfReader(target.reader.ReaderID) {
		if l.LoanDate.Before(windowStart) {
			continue
		}

		book, ok := view.Book(l.BookID)
		if !ok {
			continue
		}

		if SharesRelatedDomain(view, book.DomainIDs, target.book.DomainIDs) {
			sameDomainCount++
		}
	}

	if sameDomainCount >= target.limits.MaxBooksPerDomain {
		return NewError(
			KindDomainLimit,
			"reader borrowed %d books of related domains in the last %d months, limit %d",
			sameDomainCount,
			target.limits.DomainWindowMonths,
			target.limits.MaxBooksPerDomain,
		)
	}

	return nil
}

func checkReborrowInterval(loans Loans, target borrowTarget, now time.Time) error {
	returned := slices.DeleteFunc(loans.LoansOfReader(target.reader.ReaderID), func(l Loan) bool {
		return l.IsOpen() || l.BookID != target.book.BookID
	})

	if len(returned) == 0 {
		return nil
	}

	mostRecent := slices.MaxFunc(returned, func(a, b Loan) int {
		return a.LoanDate.Compare(b.LoanDate)
	})

	if mostRecent.LoanDate.After(now.Add(-Days(target.limits.ReborrowRestrictedDays))) {
		return NewError(
			KindReborrowTooSoon,
			"book %s was last borrowed on %s, restriction %d days",
			target.book.BookID,
			mostRecent.LoanDate.Format(time.DateOnly),
			target.limits.ReborrowRestrictedDays,
		)
	}

	return nil
}

func checkLibrarian(view LendingView, cfg PolicyConfig, librarianID ReaderIDString, now time.Time) error {
	if librarianID == "" {
		return nil
	}

	librarian, ok := view.Reader(librarianID)
	if !ok {
		return NewError(KindNotFound, "librarian %s", librarianID)
	}

	if !IsStaff(librarian.Kind) {
		return NewError(KindNotALibrarian, "reader %s is not staff", librarianID)
	}

	processed := countLoansOn(view.LoansProcessedBy(librarianID), now)

	if processed >= cfg.MaxProcessedPerDayLibrarian {
		return NewError(KindLibrarianLimit, "librarian processed %d loans today, limit %d", processed, cfg.MaxProcessedPerDayLibrarian)
	}

	return nil
}

func countLoansOn(loans []Loan, now time.Time) int {
	count := 0

	for _, l := range loans {
		if SameLocalDay(l.LoanDate, now) {
			count++
		}
	}

	return count
}

// CheckBulkRequest runs the checks of a bulk borrow that precede the single borrows:
// a non-empty request, the per loan cap and, from three copies on, at least two distinct domain ids.
func CheckBulkRequest(view LendingView, cfg PolicyConfig, readerID ReaderIDString, copyIDs []CopyIDString) error {
	if len(copyIDs) == 0 {
		return NewError(KindEmptyRequest, "no copies requested")
	}

	reader, ok := view.Reader(readerID)
	if !ok {
		return NewError(KindNotFound, "reader %s", readerID)
	}

	perLoanCap := cfg.LimitsFor(reader.Kind).MaxBooksPerLoan
	if len(copyIDs) > perLoanCap {
		return NewError(KindLoanSize, "%d copies requested, limit %d", len(copyIDs), perLoanCap)
	}

	if len(copyIDs) < 3 {
		return nil
	}

	domainIDs := make(map[DomainIDString]struct{})

	for _, copyID := range copyIDs {
		_, book, err := ResolveCopy(view, copyID)
		if err != nil {
			return err
		}

		for _, domainID := range book.DomainIDs {
			domainIDs[domainID] = struct{}{}
		}
	}

	if len(domainIDs) < 2 {
		return NewError(KindInsufficientCategories, "%d copies span %d domain", len(copyIDs), len(domainIDs))
	}

	return nil
}

// EvaluateReturn closes an open loan. The return date is never before the loan date.
func EvaluateReturn(loans Loans, now time.Time, loanID LoanIDString) (BookCopyReturnedByReader, error) {
	loan, ok := loans.Loan(loanID)
	if !ok {
		return BookCopyReturnedByReader{}, NewError(KindNotFound, "loan %s", loanID)
	}

	if !loan.IsOpen() {
		return BookCopyReturnedByReader{}, NewError(KindAlreadyReturned, "loan %s", loanID)
	}

	returnDate := now
	if returnDate.Before(loan.LoanDate) {
		returnDate = loan.LoanDate
	}

	return BuildBookCopyReturnedByReader(loan, returnDate), nil
}

// EvaluateExtension moves the due date of an open loan by days, within the extension cap of the reader.
func EvaluateExtension(view LendingView, cfg PolicyConfig, now time.Time, loanID LoanIDString, days int) (LoanExtended, error) {
	if days <= 0 {
		return LoanExtended{}, NewError(KindBadArgument, "days must be positive, got %d", days)
	}

	loan, ok := view.Loan(loanID)
	if !ok {
		return LoanExtended{}, NewError(KindNotFound, "loan %s", loanID)
	}

	if !loan.IsOpen() {
		return LoanExtended{}, NewError(KindAlreadyReturned, "loan %s", loanID)
	}

	reader, ok := view.Reader(loan.ReaderID)
	if !ok {
		return LoanExtended{}, NewError(KindNotFound, "reader %s", loan.ReaderID)
	}

	limit := cfg.LimitsFor(reader.Kind).MaxExtensionDays
	if loan.ExtensionDays+days > limit {
		return LoanExtended{}, NewError(KindExtensionLimit, "%d + %d days exceeds %d", loan.ExtensionDays, days, limit)
	}

	return BuildLoanExtended(loan, days, now), nil
}
