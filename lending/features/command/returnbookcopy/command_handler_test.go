package returnbookcopy_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/returnbookcopy"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/shell"
	"github.com/AntonStoeckl/lending-policy-engine/testutil/helper"
)

func givenNow() time.Time {
	return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func createHandler(t *testing.T, es returnbookcopy.EventStore, now time.Time) returnbookcopy.CommandHandler {
	t.Helper()

	return returnbookcopy.NewCommandHandler(
		es,
		returnbookcopy.WithClock(core.NewFixedClock(now)),
		returnbookcopy.WithRetryOptions(shell.WithBaseDelay(0)),
	)
}

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	ctx := context.Background()
	now := givenNow()
	es := helper.GivenMemoryEventStore(t)
	f := helper.GivenLibraryFixture(t, now)
	readerID := f.Reader(core.ReaderKindStandard)
	_, copyIDs := f.BookWithCopies(1, f.Domain(""))
	loanID := f.Lend(readerID, copyIDs[0], "", now.AddDate(0, 0, -5))
	helper.GivenFixtureWasAppended(t, ctx, es, f)

	// act
	result, err := createHandler(t, es, now).Handle(ctx, returnbookcopy.BuildCommand(uuid.MustParse(loanID)))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.AppendedEvents)

	state := core.ProjectLibraryState(helper.QueryAllEvents(t, ctx, es))
	loan, ok := state.Loan(loanID)
	require.True(t, ok)
	assert.False(t, loan.IsOpen())
	assert.True(t, now.Equal(loan.ReturnDate))

	bookCopy, ok := state.Copy(copyIDs[0])
	require.True(t, ok)
	assert.True(t, bookCopy.Available)
}

func Test_CommandHandler_Handle_ReturnTwice(t *testing.T) {
	// arrange
	ctx := context.Background()
	now := givenNow()
	es := helper.GivenMemoryEventStore(t)
	f := helper.GivenLibraryFixture(t, now)
	readerID := f.Reader(core.ReaderKindStandard)
	_, copyIDs := f.BookWithCopies(1, f.Domain(""))
	loanID := f.Lend(readerID, copyIDs[0], "", now.AddDate(0, 0, -5))
	helper.GivenFixtureWasAppended(t, ctx, es, f)

	handler := createHandler(t, es, now)
	command := returnbookcopy.BuildCommand(uuid.MustParse(loanID))
	_, err := handler.Handle(ctx, command)
	require.NoError(t, err)

	// act
	result, err := handler.Handle(ctx, command)

	// assert
	assert.ErrorIs(t, err, core.ErrAlreadyReturned)
	assert.Equal(t, 0, result.AppendedEvents)
}

func Test_CommandHandler_Handle_UnknownLoan(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := helper.GivenMemoryEventStore(t)

	// act
	_, err := createHandler(t, es, givenNow()).Handle(ctx, returnbookcopy.BuildCommand(helper.GivenUniqueID(t)))

	// assert
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func Test_CommandHandler_Handle_ReturnDateNeverBeforeLoanDate(t *testing.T) {
	// arrange
	ctx := context.Background()
	now := givenNow()
	es := helper.GivenMemoryEventStore(t)
	f := helper.GivenLibraryFixture(t, now)
	readerID := f.Reader(core.ReaderKindStandard)
	_, copyIDs := f.BookWithCopies(1, f.Domain(""))
	loanID := f.Lend(readerID, copyIDs[0], "", now)
	helper.GivenFixtureWasAppended(t, ctx, es, f)

	// act
	_, err := createHandler(t, es, now.Add(-time.Hour)).Handle(ctx, returnbookcopy.BuildCommand(uuid.MustParse(loanID)))

	// assert
	require.NoError(t, err)

	loan, ok := core.ProjectLibraryState(helper.QueryAllEvents(t, ctx, es)).Loan(loanID)
	require.True(t, ok)
	assert.True(t, now.Equal(loan.ReturnDate))
}

func Test_CommandHandler_Handle_RetiredCopy(t *testing.T) {
	// arrange
	ctx := context.Background()
	now := givenNow()
	es := helper.GivenMemoryEventStore(t)
	f := helper.GivenLibraryFixture(t, now)
	readerID := f.Reader(core.ReaderKindStandard)
	_, copyIDs := f.BookWithCopies(1, f.Domain(""))
	loanID := f.Lend(readerID, copyIDs[0], "", now.AddDate(0, 0, -5))
	f.Retire(copyIDs[0])
	helper.GivenFixtureWasAppended(t, ctx, es, f)

	// act
	result, err := createHandler(t, es, now).Handle(ctx, returnbookcopy.BuildCommand(uuid.MustParse(loanID)))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.AppendedEvents)
}
