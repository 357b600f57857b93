package core_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
	"github.com/AntonStoeckl/lending-policy-engine/testutil/helper"
)

func givenNow() time.Time {
	return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func givenBorrowRequest(readerID core.ReaderIDString, copyID core.CopyIDString) core.BorrowRequest {
	return core.BorrowRequest{
		LoanID:   uuid.NewString(),
		ReaderID: readerID,
		CopyID:   copyID,
	}
}

// givenOpenLoansInFreshDomains lends n copies of n books, each in its own domain, so that
// only the open loan count is affected.
func givenOpenLoansInFreshDomains(t *testing.T, f *helper.LibraryFixture, readerID core.ReaderIDString, n int, loanDate time.Time) {
	t.Helper()

	for range n {
		_, copyIDs := f.BookWithCopies(1, f.Domain(""))
		f.Lend(readerID, copyIDs[0], "", loanDate)
	}
}

func Test_EvaluateBorrow_HappyBorrow(t *testing.T) {
	// arrange
	now := givenNow()
	f := helper.GivenLibraryFixture(t, now)
	readerID := f.Reader(core.ReaderKindStandard)
	otherReaderID := f.Reader(core.ReaderKindStandard)
	bookID, copyIDs := f.BookWithCopies(10, f.Domain(""))
	f.Lend(otherReaderID, copyIDs[9], "", now.AddDate(0, 0, -3))
	state := f.State()
	req := givenBorrowRequest(readerID, copyIDs[0])

	// act
	event, err := core.EvaluateBorrow(state, core.DefaultPolicyConfig(), now, req)

	// assert
	require.NoError(t, err)
	assert.Equal(t, req.LoanID, event.LoanID)
	assert.Equal(t, bookID, event.BookID)
	assert.Equal(t, readerID, event.ReaderID)
	assert.True(t, now.Equal(event.OccurredAt))
	assert.True(t, now.Add(14*24*time.Hour).Equal(event.DueDate))

	state.Apply(event)
	loan, ok := state.Loan(req.LoanID)
	require.True(t, ok)
	assert.Equal(t, 0, loan.ExtensionDays)
	assert.True(t, loan.IsOpen())

	bookCopy, ok := state.Copy(copyIDs[0])
	require.True(t, ok)
	assert.False(t, bookCopy.Available)
}

func Test_EvaluateBorrow_EntityResolution(t *testing.T) {
	now := givenNow()
	f := helper.GivenLibraryFixture(t, now)
	readerID := f.Reader(core.ReaderKindStandard)
	_, copyIDs := f.BookWithCopies(2, f.Domain(""))
	f.Retire(copyIDs[1])

	orphanCopyID := uuid.New()
	f.Events = append(f.Events, core.BuildBookCopyAddedToCirculation(orphanCopyID, uuid.New(), uuid.New(), false, now))

	orphanEditionID := uuid.New()
	f.Events = append(f.Events, core.BuildBookEditionAdded(orphanEditionID, uuid.New(), core.EditionDetails{Year: 2020}, now))
	copyOfOrphanEditionID := uuid.New()
	f.Events = append(f.Events, core.BuildBookCopyAddedToCirculation(copyOfOrphanEditionID, orphanEditionID, uuid.New(), false, now))

	testCases := []struct {
		name     string
		readerID core.ReaderIDString
		copyID   core.CopyIDString
		expected error
	}{
		{name: "unknown reader", readerID: uuid.NewString(), copyID: copyIDs[0], expected: core.ErrNotFound},
		{name: "unknown copy", readerID: readerID, copyID: uuid.NewString(), expected: core.ErrNotFound},
		{name: "retired copy", readerID: readerID, copyID: copyIDs[1], expected: core.ErrNotFound},
		{name: "missing edition", readerID: readerID, copyID: orphanCopyID.String(), expected: core.ErrDataIncomplete},
		{name: "missing book", readerID: readerID, copyID: copyOfOrphanEditionID.String(), expected: core.ErrDataIncomplete},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := core.EvaluateBorrow(f.State(), core.DefaultPolicyConfig(), now, givenBorrowRequest(tc.readerID, tc.copyID))

			// assert
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func Test_EvaluateBorrow_CopyUnavailable_IsCheckedBeforeReaderLimits(t *testing.T) {
	// arrange
	now := givenNow()
	f := helper.GivenLibraryFixture(t, now)
	readerID := f.Reader(core.ReaderKindStandard)
	otherReaderID := f.Reader(core.ReaderKindStandard)
	_, copyIDs := f.BookWithCopies(3, f.Domain(""))
	f.Lend(otherReaderID, copyIDs[0], "", now.AddDate(0, 0, -1))
	givenOpenLoansInFreshDomains(t, f, readerID, 5, now.AddDate(0, 0, -20))

	// act
	_, err := core.EvaluateBorrow(f.State(), core.DefaultPolicyConfig(), now, givenBorrowRequest(readerID, copyIDs[0]))

	// assert
	assert.ErrorIs(t, err, core.ErrCopyUnavailable)
}

func Test_EvaluateBorrow_ReadingRoomOnly(t *testing.T) {
	// arrange
	now := givenNow()
	f := helper.GivenLibraryFixture(t, now)
	readerID := f.Reader(core.ReaderKindStaff)
	bookID, _ := f.BookWithCopies(3, f.Domain(""))
	readingRoomCopyID := f.Copy(f.Edition(bookID), bookID, true)

	// act
	_, err := core.EvaluateBorrow(f.State(), core.DefaultPolicyConfig(), now, givenBorrowRequest(readerID, readingRoomCopyID))

	// assert
	assert.ErrorIs(t, err, core.ErrReadingRoomOnly)
}

func Test_EvaluateBorrow_StockFloorBoundary(t *testing.T) {
	now := givenNow()

	testCases := []struct {
		name        string
		totalCopies int
		expected    error
	}{
		{name: "10 copies with 1 available passes at exactly 10%", totalCopies: 10, expected: nil},
		{name: "11 copies with 1 available fails", totalCopies: 11, expected: core.ErrStockTooLow},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			f := helper.GivenLibraryFixture(t, now)
			readerID := f.Reader(core.ReaderKindStandard)
			otherReaderID := f.Reader(core.ReaderKindStaff)
			_, copyIDs := f.BookWithCopies(tc.totalCopies, f.Domain(""))

			for _, copyID := range copyIDs[1:] {
				f.Lend(otherReaderID, copyID, "", now.AddDate(0, 0, -1))
			}

			// act
			_, err := core.EvaluateBorrow(f.State(), core.DefaultPolicyConfig(), now, givenBorrowRequest(readerID, copyIDs[0]))

			// assert
			if tc.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expected)
			}
		})
	}
}

func Test_CheckStockFloor(t *testing.T) {
	givenCopies := func(total int, available int, readingRoomOnly int) []core.BookCopy {
		copies := make([]core.BookCopy, 0, total)

		for i := range total {
			copies = append(copies, core.BookCopy{
				CopyID:          uuid.NewString(),
				Available:       i < available || i >= total-readingRoomOnly,
				ReadingRoomOnly: i >= total-readingRoomOnly,
			})
		}

		return copies
	}

	t.Run("100 copies with 10 available pass", func(t *testing.T) {
		assert.NoError(t, core.CheckStockFloor(givenCopies(100, 10, 0)))
	})

	t.Run("100 copies with 9 available fail", func(t *testing.T) {
		assert.ErrorIs(t, core.CheckStockFloor(givenCopies(100, 9, 0)), core.ErrStockTooLow)
	})

	t.Run("available reading room copies do not count as available", func(t *testing.T) {
		assert.ErrorIs(t, core.CheckStockFloor(givenCopies(10, 0, 5)), core.ErrStockTooLow)
	})

	t.Run("only reading room copies", func(t *testing.T) {
		assert.ErrorIs(t, core.CheckStockFloor(givenCopies(3, 0, 3)), core.ErrAllReadingRoom)
	})

	t.Run("no copies", func(t *testing.T) {
		assert.NoError(t, core.CheckStockFloor(nil))
	})
}

func Test_EvaluateBorrow_OpenLoansLimit(t *testing.T) {
	now := givenNow()

	testCases := []struct {
		name      string
		kind      core.ReaderKind
		openLoans int
		expected  error
	}{
		{name: "standard at limit minus one", kind: core.ReaderKindStandard, openLoans: 4, expected: nil},
		{name: "standard at limit", kind: core.ReaderKindStandard, openLoans: 5, expected: core.ErrReaderLimit},
		{name: "staff at doubled limit minus one", kind: core.ReaderKindStaff, openLoans: 9, expected: nil},
		{name: "staff at doubled limit", kind: core.ReaderKindStaff, openLoans: 10, expected: core.ErrReaderLimit},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			f := helper.GivenLibraryFixture(t, now)
			readerID := f.Reader(tc.kind)
			_, copyIDs := f.BookWithCopies(2, f.Domain(""))
			givenOpenLoansInFreshDomains(t, f, readerID, tc.openLoans, now.AddDate(0, 0, -10))

			// act
			_, err := core.EvaluateBorrow(f.State(), core.DefaultPolicyConfig(), now, givenBorrowRequest(readerID, copyIDs[0]))

			// assert
			if tc.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expected)
			}
		})
	}
}

func Test_EvaluateBorrow_ReturnedLoansDoNotCountAsOpen(t *testing.T) {
	// arrange
	now := givenNow()
	f := helper.GivenLibraryFixture(t, now)
	readerID := f.Reader(core.ReaderKindStandard)
	_, copyIDs := f.BookWithCopies(2, f.Domain(""))

	for range 5 {
		_, otherCopyIDs := f.BookWithCopies(1, f.Domain(""))
		loanID := f.Lend(readerID, otherCopyIDs[0], "", now.AddDate(0, -1, 0))
		f.Return(loanID, now.AddDate(0, 0, -20))
	}

	// act
	_, err := core.EvaluateBorrow(f.State(), core.DefaultPolicyConfig(), now, givenBorrowRequest(readerID, copyIDs[0]))

	// assert
	assert.NoError(t, err)
}

func Test_EvaluateBorrow_DailyLimit(t *testing.T) {
	now := givenNow()

	testCases := []struct {
		name       string
		kind       core.ReaderKind
		loansToday int
		loansDay   time.Time
		expected   error
	}{
		{name: "standard with one loan today", kind: core.ReaderKindStandard, loansToday: 1, loansDay: now.Add(-time.Hour), expected: nil},
		{name: "standard with two loans today", kind: core.ReaderKindStandard, loansToday: 2, loansDay: now.Add(-time.Hour), expected: core.ErrDailyLimit},
		{name: "standard with two loans yesterday", kind: core.ReaderKindStandard, loansToday: 2, loansDay: now.Add(-13 * time.Hour), expected: nil},
		{name: "staff with five loans today", kind: core.ReaderKindStaff, loansToday: 5, loansDay: now.Add(-time.Hour), expected: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			f := helper.GivenLibraryFixture(t, now)
			readerID := f.Reader(tc.kind)
			_, copyIDs := f.BookWithCopies(2, f.Domain(""))
			givenOpenLoansInFreshDomains(t, f, readerID, tc.loansToday, tc.loansDay)

			// act
			_, err := core.EvaluateBorrow(f.State(), core.DefaultPolicyConfig(), now, givenBorrowRequest(readerID, copyIDs[0]))

			// assert
			if tc.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expected)
			}
		})
	}
}

func Test_EvaluateBorrow_LibrarianBypassesDailyLimit(t *testing.T) {
	// arrange
	now := givenNow()
	cfg := core.DefaultPolicyConfig()
	cfg.MaxBooksPerDay = 1
	f := helper.GivenLibraryFixture(t, now)
	readerID := f.Reader(core.ReaderKindStaff)
	_, copyIDs := f.BookWithCopies(2, f.Domain(""))
	givenOpenLoansInFreshDomains(t, f, readerID, 5, now.Add(-2*time.Hour))

	// act
	_, err := core.EvaluateBorrow(f.State(), cfg, now, givenBorrowRequest(readerID, copyIDs[0]))

	// assert
	assert.NoError(t, err)
}

func Test_EvaluateBorrow_LocalDayFollowsClockLocation(t *testing.T) {
	// arrange
	berlin := time.FixedZone("CEST", 2*60*60)
	now := time.Date(2025, time.June, 15, 0, 30, 0, 0, berlin) // 22:30 UTC on June 14
	f := helper.GivenLibraryFixture(t, now)
	readerID := f.Reader(core.ReaderKindStandard)
	_, copyIDs := f.BookWithCopies(2, f.Domain(""))
	givenOpenLoansInFreshDomains(t, f, readerID, 2, time.Date(2025, time.June, 14, 23, 0, 0, 0, berlin))

	// act
	_, err := core.EvaluateBorrow(f.State(), core.DefaultPolicyConfig(), now, givenBorrowRequest(readerID, copyIDs[0]))

	// assert
	assert.NoError(t, err, "loans of the previous local day must not count, even if they share the UTC day")
}

func Test_EvaluateBorrow_DomainLimit(t *testing.T) { //nolint:funlen
	now := givenNow()
	loanDate := now.AddDate(0, 0, -10)

	t.Run("D minus one loans in the same domain pass", func(t *testing.T) {
		// arrange
		f := helper.GivenLibraryFixture(t, now)
		readerID := f.Reader(core.ReaderKindStandard)
		domainID := f.Domain("")
		_, copyIDs := f.BookWithCopies(2, domainID)

		for range 2 {
			_, otherCopyIDs := f.BookWithCopies(1, domainID)
			f.Lend(readerID, otherCopyIDs[0], "", loanDate)
		}

		// act
		_, err := core.EvaluateBorrow(f.State(), core.DefaultPolicyConfig(), now, givenBorrowRequest(readerID, copyIDs[0]))

		// assert
		assert.NoError(t, err)
	})

	t.Run("D loans in related domains fail", func(t *testing.T) {
		// arrange
		f := helper.GivenLibraryFixture(t, now)
		readerID := f.Reader(core.ReaderKindStandard)
		rootID := f.Domain("")
		childID := f.Domain(rootID)
		grandChildID := f.Domain(childID)
		_, copyIDs := f.BookWithCopies(2, childID)

		for _, domainID := range []core.DomainIDString{rootID, childID, grandChildID} {
			_, otherCopyIDs := f.BookWithCopies(1, domainID)
			loanID := f.Lend(readerID, otherCopyIDs[0], "", loanDate)
			f.Return(loanID, loanDate.Add(time.Hour))
		}

		// act
		_, err := core.EvaluateBorrow(f.State(), core.DefaultPolicyConfig(), now, givenBorrowRequest(readerID, copyIDs[0]))

		// assert
		assert.ErrorIs(t, err, core.ErrDomainLimit)
	})

	t.Run("sibling domains are not related", func(t *testing.T) {
		// arrange
		f := helper.GivenLibraryFixture(t, now)
		readerID := f.Reader(core.ReaderKindStandard)
		rootID := f.Domain("")
		_, copyIDs := f.BookWithCopies(2, f.Domain(rootID))
		siblingID := f.Domain(rootID)

		for range 3 {
			_, otherCopyIDs := f.BookWithCopies(1, siblingID)
			f.Lend(readerID, otherCopyIDs[0], "", loanDate)
		}

		// act
		_, err := core.EvaluateBorrow(f.State(), core.DefaultPolicyConfig(), now, givenBorrowRequest(readerID, copyIDs[0]))

		// assert
		assert.NoError(t, err)
	})

	t.Run("loans before the window do not count", func(t *testing.T) {
		// arrange
		f := helper.GivenLibraryFixture(t, now)
		readerID := f.Reader(core.ReaderKindStandard)
		domainID := f.Domain("")
		_, copyIDs := f.BookWithCopies(2, domainID)
		windowStart := core.MonthsBefore(now, 3)

		for i, date := range []time.Time{windowStart.Add(-time.Second), windowStart, loanDate} {
			_, otherCopyIDs := f.BookWithCopies(1, domainID)
			loanID := f.Lend(readerID, otherCopyIDs[0], "", date)
			if i < 2 {
				f.Return(loanID, date.Add(time.Hour))
			}
		}

		// act
		_, err := core.EvaluateBorrow(f.State(), core.DefaultPolicyConfig(), now, givenBorrowRequest(readerID, copyIDs[0]))

		// assert
		assert.NoError(t, err)
	})

	t.Run("staff doubles D and halves L", func(t *testing.T) {
		// arrange
		f := helper.GivenLibraryFixture(t, now)
		readerID := f.Reader(core.ReaderKindStaff)
		domainID := f.Domain("")
		_, copyIDs := f.BookWithCopies(2, domainID)

		for range 5 {
			_, otherCopyIDs := f.BookWithCopies(1, domainID)
			f.Lend(readerID, otherCopyIDs[0], "", loanDate)
		}

		for range 3 {
			_, otherCopyIDs := f.BookWithCopies(1, domainID)
			loanID := f.Lend(readerID, otherCopyIDs[0], "", now.AddDate(0, -2, 0))
			f.Return(loanID, now.AddDate(0, -1, -20))
		}

		// act
		_, err := core.EvaluateBorrow(f.State(), core.DefaultPolicyConfig(), now, givenBorrowRequest(readerID, copyIDs[0]))

		// assert
		assert.NoError(t, err)
	})
}

func Test_EvaluateBorrow_ReborrowInterval(t *testing.T) {
	now := givenNow()

	testCases := []struct {
		name      string
		kind      core.ReaderKind
		daysSince int
		expected  error
	}{
		{name: "standard exactly delta days ago", kind: core.ReaderKindStandard, daysSince: 90, expected: nil},
		{name: "standard delta minus one days ago", kind: core.ReaderKindStandard, daysSince: 89, expected: core.ErrReborrowTooSoon},
		{name: "staff 46 days ago", kind: core.ReaderKindStaff, daysSince: 46, expected: nil},
		{name: "staff 44 days ago", kind: core.ReaderKindStaff, daysSince: 44, expected: core.ErrReborrowTooSoon},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			f := helper.GivenLibraryFixture(t, now)
			readerID := f.Reader(tc.kind)
			_, copyIDs := f.BookWithCopies(3, f.Domain(""))
			loanDate := now.Add(-core.Days(tc.daysSince))
			loanID := f.Lend(readerID, copyIDs[1], "", loanDate)
			f.Return(loanID, loanDate.Add(core.Days(7)))

			// act
			_, err := core.EvaluateBorrow(f.State(), core.DefaultPolicyConfig(), now, givenBorrowRequest(readerID, copyIDs[0]))

			// assert
			if tc.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expected)
			}
		})
	}
}

func Test_EvaluateBorrow_ReborrowInterval_UsesMostRecentReturnedLoan(t *testing.T) {
	// arrange
	now := givenNow()
	f := helper.GivenLibraryFixture(t, now)
	readerID := f.Reader(core.ReaderKindStandard)
	_, copyIDs := f.BookWithCopies(3, f.Domain(""))

	recent := f.Lend(readerID, copyIDs[1], "", now.Add(-core.Days(30)))
	f.Return(recent, now.Add(-core.Days(20)))

	// appended later, but borrowed earlier
	older := f.Lend(readerID, copyIDs[2], "", now.Add(-core.Days(200)))
	f.Return(older, now.Add(-core.Days(10)))

	// act
	_, err := core.EvaluateBorrow(f.State(), core.DefaultPolicyConfig(), now, givenBorrowRequest(readerID, copyIDs[0]))

	// assert
	assert.ErrorIs(t, err, core.ErrReborrowTooSoon)
}

func Test_EvaluateBorrow_Librarian(t *testing.T) { //nolint:funlen
	now := givenNow()
	cfg := core.DefaultPolicyConfig()
	cfg.MaxProcessedPerDayLibrarian = 2

	t.Run("unknown librarian", func(t *testing.T) {
		// arrange
		f := helper.GivenLibraryFixture(t, now)
		readerID := f.Reader(core.ReaderKindStandard)
		_, copyIDs := f.BookWithCopies(2, f.Domain(""))
		req := givenBorrowRequest(readerID, copyIDs[0])
		req.LibrarianID = uuid.NewString()

		// act
		_, err := core.EvaluateBorrow(f.State(), cfg, now, req)

		// assert
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("librarian is not staff", func(t *testing.T) {
		// arrange
		f := helper.GivenLibraryFixture(t, now)
		readerID := f.Reader(core.ReaderKindStandard)
		_, copyIDs := f.BookWithCopies(2, f.Domain(""))
		req := givenBorrowRequest(readerID, copyIDs[0])
		req.LibrarianID = f.Reader(core.ReaderKindStandard)

		// act
		_, err := core.EvaluateBorrow(f.State(), cfg, now, req)

		// assert
		assert.ErrorIs(t, err, core.ErrNotALibrarian)
	})

	t.Run("librarian processed the maximum today", func(t *testing.T) {
		// arrange
		f := helper.GivenLibraryFixture(t, now)
		readerID := f.Reader(core.ReaderKindStandard)
		librarianID := f.Reader(core.ReaderKindStaff)
		_, copyIDs := f.BookWithCopies(2, f.Domain(""))

		for range 2 {
			otherReaderID := f.Reader(core.ReaderKindStandard)
			_, otherCopyIDs := f.BookWithCopies(1, f.Domain(""))
			f.Lend(otherReaderID, otherCopyIDs[0], librarianID, now.Add(-time.Hour))
		}

		req := givenBorrowRequest(readerID, copyIDs[0])
		req.LibrarianID = librarianID

		// act
		_, err := core.EvaluateBorrow(f.State(), cfg, now, req)

		// assert
		assert.ErrorIs(t, err, core.ErrLibrarianLimit)
	})

	t.Run("librarian below the maximum is recorded on the loan", func(t *testing.T) {
		// arrange
		f := helper.GivenLibraryFixture(t, now)
		readerID := f.Reader(core.ReaderKindStandard)
		librarianID := f.Reader(core.ReaderKindStaff)
		_, copyIDs := f.BookWithCopies(2, f.Domain(""))
		otherReaderID := f.Reader(core.ReaderKindStandard)
		_, otherCopyIDs := f.BookWithCopies(1, f.Domain(""))
		f.Lend(otherReaderID, otherCopyIDs[0], librarianID, now.Add(-time.Hour))

		req := givenBorrowRequest(readerID, copyIDs[0])
		req.LibrarianID = librarianID

		// act
		event, err := core.EvaluateBorrow(f.State(), cfg, now, req)

		// assert
		require.NoError(t, err)
		assert.Equal(t, librarianID, event.LibrarianID)
	})
}

func Test_CheckBulkRequest(t *testing.T) { //nolint:funlen
	now := givenNow()
	f := helper.GivenLibraryFixture(t, now)
	readerID := f.Reader(core.ReaderKindStandard)
	staffID := f.Reader(core.ReaderKindStaff)
	domainA := f.Domain("")
	domainB := f.Domain("")
	_, copiesA := f.BookWithCopies(6, domainA)
	_, copiesB := f.BookWithCopies(2, domainB)
	state := f.State()
	cfg := core.DefaultPolicyConfig()

	testCases := []struct {
		name     string
		readerID core.ReaderIDString
		copyIDs  []core.CopyIDString
		expected error
	}{
		{name: "empty request", readerID: readerID, copyIDs: nil, expected: core.ErrEmptyRequest},
		{name: "unknown reader", readerID: uuid.NewString(), copyIDs: copiesA[:1], expected: core.ErrNotFound},
		{name: "count equals the cap", readerID: readerID, copyIDs: []core.CopyIDString{copiesA[0], copiesA[1], copiesB[0]}, expected: nil},
		{name: "count exceeds the cap", readerID: readerID, copyIDs: append([]core.CopyIDString{copiesB[0]}, copiesA[:3]...), expected: core.ErrLoanSize},
		{name: "staff cap is doubled", readerID: staffID, copyIDs: append([]core.CopyIDString{copiesB[0]}, copiesA[:5]...), expected: nil},
		{name: "three copies of one domain", readerID: readerID, copyIDs: copiesA[:3], expected: core.ErrInsufficientCategories},
		{name: "two copies of one domain", readerID: readerID, copyIDs: copiesA[:2], expected: nil},
		{name: "unknown copy in a diverse request", readerID: readerID, copyIDs: []core.CopyIDString{copiesA[0], copiesB[0], uuid.NewString()}, expected: core.ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			err := core.CheckBulkRequest(state, cfg, tc.readerID, tc.copyIDs)

			// assert
			if tc.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expected)
			}
		})
	}
}

func Test_EvaluateReturn(t *testing.T) {
	now := givenNow()
	f := helper.GivenLibraryFixture(t, now)
	readerID := f.Reader(core.ReaderKindStandard)
	_, copyIDs := f.BookWithCopies(3, f.Domain(""))
	openLoanID := f.Lend(readerID, copyIDs[0], "", now.AddDate(0, 0, -5))
	returnedLoanID := f.Lend(readerID, copyIDs[1], "", now.AddDate(0, 0, -5))
	f.Return(returnedLoanID, now.AddDate(0, 0, -1))
	futureLoanID := f.Lend(readerID, copyIDs[2], "", now.Add(time.Hour))
	state := f.State()

	t.Run("open loan", func(t *testing.T) {
		// act
		event, err := core.EvaluateReturn(state, now, openLoanID)

		// assert
		require.NoError(t, err)
		assert.Equal(t, copyIDs[0], event.CopyID)
		assert.True(t, now.Equal(event.OccurredAt))

		returned := core.ProjectLibraryState(append(f.Events, event))
		bookCopy, _ := returned.Copy(copyIDs[0])
		assert.True(t, bookCopy.Available)
	})

	t.Run("return date is never before the loan date", func(t *testing.T) {
		// act
		event, err := core.EvaluateReturn(state, now, futureLoanID)

		// assert
		require.NoError(t, err)
		assert.True(t, now.Add(time.Hour).Equal(event.OccurredAt))
	})

	t.Run("already returned", func(t *testing.T) {
		_, err := core.EvaluateReturn(state, now, returnedLoanID)
		assert.ErrorIs(t, err, core.ErrAlreadyReturned)
	})

	t.Run("unknown loan", func(t *testing.T) {
		_, err := core.EvaluateReturn(state, now, uuid.NewString())
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}

func Test_EvaluateExtension(t *testing.T) { //nolint:funlen
	now := givenNow()

	t.Run("extension up to the cap passes, one more day fails", func(t *testing.T) {
		// arrange
		f := helper.GivenLibraryFixture(t, now)
		readerID := f.Reader(core.ReaderKindStandard)
		_, copyIDs := f.BookWithCopies(2, f.Domain(""))
		loanID := f.Lend(readerID, copyIDs[0], "", now.AddDate(0, 0, -5))
		f.Extend(loanID, 20)
		before, _ := f.State().Loan(loanID)

		// act
		event, err := core.EvaluateExtension(f.State(), core.DefaultPolicyConfig(), now, loanID, 10)

		// assert
		require.NoError(t, err)
		assert.True(t, before.DueDate.Add(core.Days(10)).Equal(event.DueDate))

		f.Events = append(f.Events, event)
		after, _ := f.State().Loan(loanID)
		assert.Equal(t, 30, after.ExtensionDays)

		_, err = core.EvaluateExtension(f.State(), core.DefaultPolicyConfig(), now, loanID, 1)
		assert.ErrorIs(t, err, core.ErrExtensionLimit)
	})

	t.Run("staff cap is doubled", func(t *testing.T) {
		// arrange
		f := helper.GivenLibraryFixture(t, now)
		readerID := f.Reader(core.ReaderKindStaff)
		_, copyIDs := f.BookWithCopies(2, f.Domain(""))
		loanID := f.Lend(readerID, copyIDs[0], "", now.AddDate(0, 0, -5))

		// act
		_, err := core.EvaluateExtension(f.State(), core.DefaultPolicyConfig(), now, loanID, 60)

		// assert
		assert.NoError(t, err)
	})

	t.Run("rejections", func(t *testing.T) {
		// arrange
		f := helper.GivenLibraryFixture(t, now)
		readerID := f.Reader(core.ReaderKindStandard)
		_, copyIDs := f.BookWithCopies(2, f.Domain(""))
		openLoanID := f.Lend(readerID, copyIDs[0], "", now.AddDate(0, 0, -5))
		returnedLoanID := f.Lend(readerID, copyIDs[1], "", now.AddDate(0, 0, -5))
		f.Return(returnedLoanID, now)
		state := f.State()
		cfg := core.DefaultPolicyConfig()

		// act
		_, zeroDaysErr := core.EvaluateExtension(state, cfg, now, openLoanID, 0)
		_, negativeDaysErr := core.EvaluateExtension(state, cfg, now, openLoanID, -3)
		_, unknownLoanErr := core.EvaluateExtension(state, cfg, now, uuid.NewString(), 1)
		_, returnedErr := core.EvaluateExtension(state, cfg, now, returnedLoanID, 1)

		// assert
		assert.ErrorIs(t, zeroDaysErr, core.ErrBadArgument)
		assert.ErrorIs(t, negativeDaysErr, core.ErrBadArgument)
		assert.ErrorIs(t, unknownLoanErr, core.ErrNotFound)
		assert.ErrorIs(t, returnedErr, core.ErrAlreadyReturned)
	})
}
