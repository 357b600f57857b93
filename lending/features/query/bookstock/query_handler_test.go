package bookstock_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-policy-engine/lending/features/query/bookstock"
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
	bookID, copyIDs := f.BookWithCopies(3, f.Domain(""))
	f.Copy(f.Edition(bookID), bookID, true)
	f.Retire(copyIDs[2])
	returnedLoanID := f.Lend(readerID, copyIDs[1], "", now.AddDate(0, 0, -30))
	f.Return(returnedLoanID, now.AddDate(0, 0, -20))
	f.Lend(readerID, copyIDs[0], "", now.AddDate(0, 0, -1))
	helper.GivenFixtureWasAppended(t, ctx, es, f)

	// act
	result, err := bookstock.NewQueryHandler(es).Handle(ctx, bookstock.BuildQuery(uuid.MustParse(bookID)))

	// assert
	require.NoError(t, err)
	assert.Equal(t, bookID, result.BookID)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.CirculatingAvailable)
	assert.Equal(t, 1, result.ReadingRoomOnly)
	assert.Equal(t, 1, result.Lent)
	assert.Equal(t, 1, result.Retired)
	assert.True(t, result.Lendable())
	assert.Equal(t, uint(es.Len()), result.GetSequenceNumber())
}

func Test_QueryHandler_Handle_StockTooLow(t *testing.T) {
	// arrange
	ctx := context.Background()
	now := givenNow()
	es := helper.GivenMemoryEventStore(t)
	f := helper.GivenLibraryFixture(t, now)
	readerID := f.Reader(core.ReaderKindStandard)
	bookID, copyIDs := f.BookWithCopies(11, f.Domain(""))

	for _, copyID := range copyIDs[:10] {
		f.Lend(readerID, copyID, "", now.AddDate(0, 0, -1))
	}

	helper.GivenFixtureWasAppended(t, ctx, es, f)

	// act
	result, err := bookstock.NewQueryHandler(es).Handle(ctx, bookstock.BuildQuery(uuid.MustParse(bookID)))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 10, result.Lent)
	assert.False(t, result.Lendable())
	assert.Equal(t, core.KindStockTooLow, result.StockVerdict)
}

func Test_QueryHandler_Handle_UnknownBook(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := helper.GivenMemoryEventStore(t)

	// act
	_, err := bookstock.NewQueryHandler(es).Handle(ctx, bookstock.BuildQuery(helper.GivenUniqueID(t)))

	// assert
	assert.Equal(t, core.KindNotFound, core.KindOf(err))
}
