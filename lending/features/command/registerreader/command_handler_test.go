package registerreader_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/registerreader"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
	"github.com/AntonStoeckl/lending-policy-engine/testutil/helper"
)

func Test_CommandHandler_Handle(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := helper.GivenMemoryEventStore(t)
	handler := registerreader.NewCommandHandler(es, registerreader.WithClock(core.NewFixedClock(givenNow())))
	command := registerreader.BuildCommand(helper.GivenUniqueID(t), givenDetails(), core.ReaderKindStandard)

	// act
	first, firstErr := handler.Handle(ctx, command)
	second, secondErr := handler.Handle(ctx, command)

	// assert
	require.NoError(t, firstErr)
	require.NoError(t, secondErr)
	assert.Equal(t, 1, first.AppendedEvents)
	assert.True(t, second.Idempotent)

	reader, ok := core.ProjectLibraryState(helper.QueryAllEvents(t, ctx, es)).Reader(command.ReaderID.String())
	require.True(t, ok)
	assert.Equal(t, core.ReaderKindStandard, reader.Kind)
	assert.Equal(t, "RegisterReader", command.CommandType())
}

func Test_CommandHandler_Handle_Rejected(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := helper.GivenMemoryEventStore(t)
	details := givenDetails()
	details.Address = ""

	// act
	result, err := registerreader.NewCommandHandler(es).Handle(ctx, registerreader.BuildCommand(helper.GivenUniqueID(t), details, core.ReaderKindStandard))

	// assert
	assert.ErrorIs(t, err, core.ErrBadArgument)
	assert.False(t, result.Idempotent)
	assert.Equal(t, 0, es.Len())
}
