package loansbyreader_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-policy-engine/lending/features/query/loansbyreader"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
	"github.com/AntonStoeckl/lending-policy-engine/testutil/helper"
)

func givenNow() time.Time {
	return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func Test_QueryHandler_Handle(t *testing.T) {
	// arrange
	ctx := context.Background()
	now := givenNow()
	es := helper.GivenMemoryEventStore(t)
	f := helper.GivenLibraryFixture(t, now)
	readerID := f.Reader(core.ReaderKindStandard)
	otherReaderID := f.Reader(core.ReaderKindStandard)
	_, copyIDs := f.BookWithCopies(4, f.Domain(""))

	returnedLoanID := f.Lend(readerID, copyIDs[0], "", now.AddDate(0, -2, 0))
	f.Return(returnedLoanID, now.AddDate(0, -2, 5))
	overdueLoanID := f.Lend(readerID, copyIDs[1], "", now.AddDate(0, 0, -20))
	extendedLoanID := f.Lend(readerID, copyIDs[2], "", now.AddDate(0, 0, -10))
	f.Extend(extendedLoanID, 7)
	f.Lend(otherReaderID, copyIDs[3], "", now.AddDate(0, 0, -1))
	helper.GivenFixtureWasAppended(t, ctx, es, f)

	handler := loansbyreader.NewQueryHandler(es, loansbyreader.WithClock(core.NewFixedClock(now)))

	// act
	result, err := handler.Handle(ctx, loansbyreader.BuildQuery(uuid.MustParse(readerID)))

	// assert
	require.NoError(t, err)
	assert.Equal(t, readerID, result.ReaderID)
	require.Len(t, result.Loans, 3)
	assert.Equal(t, 2, result.OpenCount)
	assert.Equal(t, 1, result.OverdueCount)
	assert.Equal(t, uint(es.Len()-1), result.GetSequenceNumber()) // the last event belongs to the other reader

	returned, overdue, extended := result.Loans[0], result.Loans[1], result.Loans[2]
	assert.Equal(t, returnedLoanID, returned.LoanID)
	assert.False(t, returned.Open)
	assert.False(t, returned.Overdue)

	assert.Equal(t, overdueLoanID, overdue.LoanID)
	assert.True(t, overdue.Open)
	assert.True(t, overdue.Overdue)

	assert.Equal(t, extendedLoanID, extended.LoanID)
	assert.Equal(t, 7, extended.ExtensionDays)
	assert.True(t, now.AddDate(0, 0, 11).Equal(extended.DueDate))
	assert.False(t, extended.Overdue)
}

func Test_QueryHandler_Handle_UnknownReader(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := helper.GivenMemoryEventStore(t)

	// act
	result, err := loansbyreader.NewQueryHandler(es).Handle(ctx, loansbyreader.BuildQuery(helper.GivenUniqueID(t)))

	// assert
	require.NoError(t, err)
	assert.Empty(t, result.Loans)
	assert.Equal(t, "LoansByReader", loansbyreader.BuildQuery(uuid.Nil).QueryType())
}
