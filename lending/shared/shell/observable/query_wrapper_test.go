package observable_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/shell"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/shell/observable"
	"github.com/AntonStoeckl/lending-policy-engine/testutil/helper"
)

type mockQuery struct{}

func (q mockQuery) QueryType() string {
	return "TestQuery"
}

type mockQueryResult struct {
	Count          int
	SequenceNumber uint
}

func (r mockQueryResult) GetSequenceNumber() uint {
	return r.SequenceNumber
}

type mockQueryHandler struct {
	result mockQueryResult
	err    error
}

func (h mockQueryHandler) Handle(_ context.Context, _ mockQuery) (mockQueryResult, error) {
	return h.result, h.err
}

func Test_QueryWrapper_Handle_Success(t *testing.T) {
	// arrange
	metricsCollector := helper.NewMetricsCollectorSpy()
	tracingCollector := helper.NewTracingCollectorSpy()
	logHandler := helper.NewTestLogHandler(false)
	expected := mockQueryResult{Count: 3, SequenceNumber: 42}

	wrapper, err := observable.NewQueryWrapper[mockQuery, mockQueryResult](
		mockQueryHandler{result: expected},
		observable.WithQueryMetrics[mockQuery, mockQueryResult](metricsCollector),
		observable.WithQueryTracing[mockQuery, mockQueryResult](tracingCollector),
		observable.WithQueryLogging[mockQuery, mockQueryResult](slog.New(logHandler)),
	)
	require.NoError(t, err)

	// act
	result, err := wrapper.Handle(t.Context(), mockQuery{})

	// assert
	require.NoError(t, err)
	assert.Equal(t, expected, result)
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.QueryHandlerCallsMetric).
		WithLabel(shell.LogAttrQueryType, "TestQuery").
		WithStatus(shell.StatusSuccess).
		Assert())
	assert.True(t, tracingCollector.HasSpan(shell.SpanNameQueryHandle, shell.StatusSuccess))
	assert.True(t, logHandler.HasLog(slog.LevelInfo, shell.LogMsgQueryCompleted))
}

func Test_QueryWrapper_Handle_Error(t *testing.T) {
	// arrange
	metricsCollector := helper.NewMetricsCollectorSpy()
	logHandler := helper.NewTestLogHandler(false)
	queryErr := errors.New("replica unavailable")

	wrapper, err := observable.NewQueryWrapper[mockQuery, mockQueryResult](
		mockQueryHandler{err: queryErr},
		observable.WithQueryMetrics[mockQuery, mockQueryResult](metricsCollector),
		observable.WithQueryContextualLogging[mockQuery, mockQueryResult](slog.New(logHandler)),
	)
	require.NoError(t, err)

	// act
	_, err = wrapper.Handle(t.Context(), mockQuery{})

	// assert
	assert.ErrorIs(t, err, queryErr)
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.QueryHandlerCallsMetric).WithStatus(shell.StatusError).Assert())
	assert.True(t, logHandler.HasLogWithAttr(slog.LevelError, shell.LogMsgQueryFailed, shell.LogAttrError))
}
