package registeredreaders_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore/memengine"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/query/registeredreaders"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
	"github.com/AntonStoeckl/lending-policy-engine/testutil/helper"
)

type givenReaders struct {
	zoeAdams  uuid.UUID
	annaBaker uuid.UUID
	bobAdams  uuid.UUID
}

func givenRegisteredReaders(t *testing.T, ctx context.Context, es *memengine.EventStore) givenReaders {
	t.Helper()

	registeredAt := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)
	readers := givenReaders{
		zoeAdams:  helper.GivenUniqueID(t),
		annaBaker: helper.GivenUniqueID(t),
		bobAdams:  helper.GivenUniqueID(t),
	}

	details := func(first string, last string) core.ReaderDetails {
		return core.ReaderDetails{FirstName: first, LastName: last, Address: "1 Library Lane", Email: first + "@example.org"}
	}

	helper.GivenEventsWereAppended(t, ctx, es,
		core.BuildReaderRegistered(readers.zoeAdams, details("Zoe", "Adams"), core.ReaderKindStandard, registeredAt),
		core.BuildReaderRegistered(readers.annaBaker, details("Anna", "Baker"), core.ReaderKindStaff, registeredAt.Add(time.Hour)),
		core.BuildReaderRegistered(readers.bobAdams, details("Bob", "Adams"), core.ReaderKindStandard, registeredAt.Add(2*time.Hour)),
		core.BuildBookDomainDefined(helper.GivenUniqueID(t), uuid.Nil, "Fiction", registeredAt.Add(3*time.Hour)),
	)

	return readers
}

func Test_QueryHandler_Handle_AllReaders(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := helper.GivenMemoryEventStore(t)
	readers := givenRegisteredReaders(t, ctx, es)

	// act
	result, err := registeredreaders.NewQueryHandler(es).Handle(ctx, registeredreaders.BuildQuery(""))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, result.Count)
	require.Len(t, result.Readers, 3)
	assert.Equal(t, readers.bobAdams.String(), result.Readers[0].ReaderID)
	assert.Equal(t, "Bob Adams", result.Readers[0].Name)
	assert.Equal(t, readers.zoeAdams.String(), result.Readers[1].ReaderID)
	assert.Equal(t, readers.annaBaker.String(), result.Readers[2].ReaderID)
	assert.Equal(t, core.ReaderKindStaff, result.Readers[2].Kind)
	assert.Equal(t, "Anna@example.org", result.Readers[2].Email)
	assert.Equal(t, uint(es.Len()-1), result.GetSequenceNumber())
}

func Test_QueryHandler_Handle_ByKind(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := helper.GivenMemoryEventStore(t)
	readers := givenRegisteredReaders(t, ctx, es)

	// act
	result, err := registeredreaders.NewQueryHandler(es).Handle(ctx, registeredreaders.BuildQuery(core.ReaderKindStaff))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	require.Len(t, result.Readers, 1)
	assert.Equal(t, readers.annaBaker.String(), result.Readers[0].ReaderID)
}

func Test_QueryHandler_Handle_OneReader(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := helper.GivenMemoryEventStore(t)
	readers := givenRegisteredReaders(t, ctx, es)

	// act
	result, err := registeredreaders.NewQueryHandler(es).Handle(ctx, registeredreaders.BuildQueryForReader(readers.zoeAdams))

	// assert
	require.NoError(t, err)
	require.Len(t, result.Readers, 1)
	assert.Equal(t, "Zoe Adams", result.Readers[0].Name)
	assert.Equal(t, time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC), result.Readers[0].RegisteredAt.UTC())
	assert.Equal(t, uint(1), result.GetSequenceNumber())
}

func Test_QueryHandler_Handle_UnknownReader(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := helper.GivenMemoryEventStore(t)
	givenRegisteredReaders(t, ctx, es)

	// act
	_, err := registeredreaders.NewQueryHandler(es).Handle(ctx, registeredreaders.BuildQueryForReader(helper.GivenUniqueID(t)))

	// assert
	assert.Equal(t, core.KindNotFound, core.KindOf(err))
}

func Test_QueryHandler_Handle_EmptyStore(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := helper.GivenMemoryEventStore(t)

	// act
	result, err := registeredreaders.NewQueryHandler(es).Handle(ctx, registeredreaders.BuildQuery(""))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Readers)
}
