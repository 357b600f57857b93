package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore/memengine"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/query/catalog"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
	"github.com/AntonStoeckl/lending-policy-engine/testutil/helper"
)

type givenCatalog struct {
	parentDomain core.DomainIDString
	childDomain  core.DomainIDString
	otherDomain  core.DomainIDString
	lentBook     core.BookIDString
	otherBook    core.BookIDString
}

func givenCatalogWithTwoBooks(t *testing.T, ctx context.Context, es *memengine.EventStore) givenCatalog {
	t.Helper()

	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	f := helper.GivenLibraryFixture(t, now)

	c := givenCatalog{}
	c.parentDomain = f.Domain("")
	c.childDomain = f.Domain(c.parentDomain)
	c.otherDomain = f.Domain("")

	var copyIDs []core.CopyIDString
	c.lentBook, copyIDs = f.BookWithCopies(3, c.childDomain)
	f.Copies(c.lentBook, 1)
	f.Retire(copyIDs[2])
	f.Lend(f.Reader(core.ReaderKindStandard), copyIDs[0], "", now.AddDate(0, 0, -1))

	c.otherBook, _ = f.BookWithCopies(1, c.otherDomain)

	helper.GivenFixtureWasAppended(t, ctx, es, f)

	return c
}

func Test_QueryHandler_Handle_AllBooks(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := helper.GivenMemoryEventStore(t)
	c := givenCatalogWithTwoBooks(t, ctx, es)

	// act
	result, err := catalog.NewQueryHandler(es).Handle(ctx, catalog.BuildQuery(uuid.Nil))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.ElementsMatch(t,
		[]core.BookIDString{c.lentBook, c.otherBook},
		[]core.BookIDString{result.Books[0].BookID, result.Books[1].BookID},
	)
	assert.LessOrEqual(t, result.Books[0].BookID, result.Books[1].BookID)
	assert.Equal(t, uint(es.Len()), result.GetSequenceNumber())
}

func Test_QueryHandler_Handle_OneBook(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := helper.GivenMemoryEventStore(t)
	c := givenCatalogWithTwoBooks(t, ctx, es)

	// act
	result, err := catalog.NewQueryHandler(es).Handle(ctx, catalog.BuildQueryForBook(uuid.MustParse(c.lentBook)))

	// assert
	require.NoError(t, err)
	require.Len(t, result.Books, 1)

	book := result.Books[0]
	assert.Equal(t, c.lentBook, book.BookID)
	assert.Equal(t, "Learning Domain-Driven Design", book.Title)
	assert.Equal(t, []string{"Vlad Khononov"}, book.Authors)
	assert.Equal(t, []catalog.DomainInfo{{DomainID: c.childDomain, Name: "Domain " + c.childDomain[:8]}}, book.Domains)
	assert.Equal(t, 2, book.Editions)
	assert.Equal(t, 3, book.Copies)
	assert.Equal(t, 2, book.Available)
}

func Test_QueryHandler_Handle_ByDomain(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := helper.GivenMemoryEventStore(t)
	c := givenCatalogWithTwoBooks(t, ctx, es)
	handler := catalog.NewQueryHandler(es)

	// act
	parentResult, parentErr := handler.Handle(ctx, catalog.BuildQuery(uuid.MustParse(c.parentDomain)))
	otherResult, otherErr := handler.Handle(ctx, catalog.BuildQuery(uuid.MustParse(c.otherDomain)))

	// assert
	require.NoError(t, parentErr)
	require.Len(t, parentResult.Books, 1)
	assert.Equal(t, c.lentBook, parentResult.Books[0].BookID)

	require.NoError(t, otherErr)
	require.Len(t, otherResult.Books, 1)
	assert.Equal(t, c.otherBook, otherResult.Books[0].BookID)
}

func Test_QueryHandler_Handle_NotFound(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := helper.GivenMemoryEventStore(t)
	givenCatalogWithTwoBooks(t, ctx, es)
	handler := catalog.NewQueryHandler(es)

	// act
	_, bookErr := handler.Handle(ctx, catalog.BuildQueryForBook(helper.GivenUniqueID(t)))
	_, domainErr := handler.Handle(ctx, catalog.BuildQuery(helper.GivenUniqueID(t)))

	// assert
	assert.Equal(t, core.KindNotFound, core.KindOf(bookErr))
	assert.Equal(t, core.KindNotFound, core.KindOf(domainErr))
}
