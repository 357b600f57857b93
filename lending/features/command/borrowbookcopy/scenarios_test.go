package borrowbookcopy_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/borrowbookcopy"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
	"github.com/AntonStoeckl/lending-policy-engine/testutil/helper"
)

// givenBookWithLentCopies lends all but the last copy, each to its own reader, and returns the last one.
func givenBookWithLentCopies(t *testing.T, f *helper.LibraryFixture, total int) core.CopyIDString {
	t.Helper()

	_, copyIDs := f.BookWithCopies(total, f.Domain(""))

	for _, copyID := range copyIDs[:total-1] {
		f.Lend(f.Reader(core.ReaderKindStandard), copyID, "", f.Now.AddDate(0, 0, -3))
	}

	return copyIDs[total-1]
}

func Test_Scenario_HappyBorrow(t *testing.T) {
	// arrange
	ctx := context.Background()
	now := givenNow()
	es := helper.GivenMemoryEventStore(t)
	f := helper.GivenLibraryFixture(t, now)
	readerID := f.Reader(core.ReaderKindStandard)
	_, copyIDs := f.BookWithCopies(10, f.Domain(""))
	f.Lend(f.Reader(core.ReaderKindStandard), copyIDs[9], "", now.AddDate(0, 0, -3))
	helper.GivenFixtureWasAppended(t, ctx, es, f)
	command := givenCommand(readerID, copyIDs[0])

	// act
	_, err := createHandler(t, es).Handle(ctx, command)

	// assert
	require.NoError(t, err)

	state := core.ProjectLibraryState(helper.QueryAllEvents(t, ctx, es))
	loan, ok := state.Loan(command.LoanID)
	require.True(t, ok)
	assert.True(t, now.Equal(loan.LoanDate))
	assert.True(t, now.Add(14*24*time.Hour).Equal(loan.DueDate))
	assert.Equal(t, 0, loan.ExtensionDays)

	bookCopy, ok := state.Copy(copyIDs[0])
	require.True(t, ok)
	assert.False(t, bookCopy.Available)
}

func Test_Scenario_StockFloorBoundary(t *testing.T) {
	testCases := []struct {
		name  string
		total int
		want  error
	}{
		{name: "1 of 10 available", total: 10},
		{name: "1 of 11 available", total: 11, want: core.ErrStockTooLow},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			ctx := context.Background()
			es := helper.GivenMemoryEventStore(t)
			f := helper.GivenLibraryFixture(t, givenNow())
			readerID := f.Reader(core.ReaderKindStandard)
			targetCopyID := givenBookWithLentCopies(t, f, tc.total)
			helper.GivenFixtureWasAppended(t, ctx, es, f)

			// act
			_, err := createHandler(t, es).Handle(ctx, givenCommand(readerID, targetCopyID))

			// assert
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func Test_Scenario_StaffBypassesTheDailyLimit(t *testing.T) {
	// arrange
	ctx := context.Background()
	now := givenNow()
	es := helper.GivenMemoryEventStore(t)
	f := helper.GivenLibraryFixture(t, now)
	staffID := f.Reader(core.ReaderKindStaff)

	for i := range 5 {
		_, copyIDs := f.BookWithCopies(1, f.Domain(""))
		f.Lend(staffID, copyIDs[0], "", now.Add(-time.Duration(i+1)*time.Minute))
	}

	_, copyIDs := f.BookWithCopies(1, f.Domain(""))
	helper.GivenFixtureWasAppended(t, ctx, es, f)

	policy := core.DefaultPolicyConfig()
	policy.MaxBooksPerDay = 1
	handler := borrowbookcopy.NewCommandHandler(es, policy, borrowbookcopy.WithClock(core.NewFixedClock(now)))

	// act
	_, err := handler.Handle(ctx, givenCommand(staffID, copyIDs[0]))

	// assert
	assert.NoError(t, err)
}

func Test_Scenario_StaffHalvesTheReborrowInterval(t *testing.T) {
	testCases := []struct {
		name    string
		daysAgo int
		want    error
	}{
		{name: "46 days ago", daysAgo: 46},
		{name: "44 days ago", daysAgo: 44, want: core.ErrReborrowTooSoon},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			ctx := context.Background()
			now := givenNow()
			es := helper.GivenMemoryEventStore(t)
			f := helper.GivenLibraryFixture(t, now)
			staffID := f.Reader(core.ReaderKindStaff)
			_, copyIDs := f.BookWithCopies(2, f.Domain(""))
			loanID := f.Lend(staffID, copyIDs[0], "", now.AddDate(0, 0, -tc.daysAgo))
			f.Return(loanID, now.AddDate(0, 0, -tc.daysAgo+7))
			helper.GivenFixtureWasAppended(t, ctx, es, f)

			// act
			_, err := createHandler(t, es).Handle(ctx, givenCommand(staffID, copyIDs[1]))

			// assert
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func Test_Scenario_DailyLimitCountsTheLocalDay(t *testing.T) {
	// 06:00 UTC on June 15 is 01:00 on June 15 at UTC-5, the earlier loans at 03:00 and 04:00 UTC
	// fall on June 14 there.
	instant := time.Date(2025, time.June, 15, 6, 0, 0, 0, time.UTC)
	eastern := time.FixedZone("UTC-5", -5*60*60)

	testCases := []struct {
		name string
		now  time.Time
		want error
	}{
		{name: "clock at UTC-5", now: instant.In(eastern)},
		{name: "clock at UTC", now: instant, want: core.ErrDailyLimit},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			ctx := context.Background()
			es := helper.GivenMemoryEventStore(t)
			f := helper.GivenLibraryFixture(t, tc.now)
			readerID := f.Reader(core.ReaderKindStandard)

			for _, loanedAt := range []time.Time{instant.Add(-3 * time.Hour), instant.Add(-2 * time.Hour)} {
				_, copyIDs := f.BookWithCopies(1, f.Domain(""))
				f.Lend(readerID, copyIDs[0], "", loanedAt)
			}

			_, copyIDs := f.BookWithCopies(1, f.Domain(""))
			helper.GivenFixtureWasAppended(t, ctx, es, f)

			handler := borrowbookcopy.NewCommandHandler(es, core.DefaultPolicyConfig(), borrowbookcopy.WithClock(core.NewFixedClock(tc.now)))

			// act
			_, err := handler.Handle(ctx, givenCommand(readerID, copyIDs[0]))

			// assert
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tc.want)
		})
	}
}
