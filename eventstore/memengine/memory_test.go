package memengine_test

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/eventstore/memengine"
	"github.com/AntonStoeckl/lending-policy-engine/testutil/helper"
)

func Test_Query_ReturnsMatchingEventsWithMaxSequenceNumber(t *testing.T) {
	// arrange
	ctx := t.Context()
	es := givenEventStore(t)
	givenAppended(t, ctx, es, "Lent", `{"ReaderID": "r1", "BookID": "b1"}`)
	givenAppended(t, ctx, es, "Lent", `{"ReaderID": "r2", "BookID": "b2"}`)
	givenAppended(t, ctx, es, "Returned", `{"ReaderID": "r1", "BookID": "b1"}`)

	filter := filterForReader("r1")

	// act
	events, maxSeq, err := es.Query(ctx, filter)

	// assert
	require.NoError(t, err)
	assert.Len(t, events, 2, "only the events of r1 should be returned")
	assert.Equal(t, "Lent", events[0].EventType)
	assert.Equal(t, "Returned", events[1].EventType)
	assert.Equal(t, eventstore.MaxSequenceNumberUint(3), maxSeq)
}

func Test_Query_EmptyStreamHasMaxSequenceNumberZero(t *testing.T) {
	es := givenEventStore(t)

	events, maxSeq, err := es.Query(t.Context(), filterForReader("nobody"))

	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, eventstore.MaxSequenceNumberUint(0), maxSeq)
}

func Test_Append_FailsWithConcurrencyConflictWhenTheStreamMoved(t *testing.T) {
	// arrange
	ctx := t.Context()
	es := givenEventStore(t)
	filter := filterForReader("r1")
	_, maxSeq, err := es.Query(ctx, filter)
	require.NoError(t, err)

	givenAppended(t, ctx, es, "Lent", `{"ReaderID": "r1"}`)

	// act
	appendErr := es.Append(ctx, filter, maxSeq, givenStorableEvent(t, "Lent", `{"ReaderID": "r1"}`))

	// assert
	assert.ErrorIs(t, appendErr, eventstore.ErrConcurrencyConflict)
	assert.Equal(t, 1, es.Len())
}

func Test_Append_IgnoresEventsOutsideTheFilter(t *testing.T) {
	// arrange
	ctx := t.Context()
	es := givenEventStore(t)
	filter := filterForReader("r1")
	_, maxSeq, err := es.Query(ctx, filter)
	require.NoError(t, err)

	givenAppended(t, ctx, es, "Lent", `{"ReaderID": "r2"}`)

	// act
	appendErr := es.Append(ctx, filter, maxSeq, givenStorableEvent(t, "Lent", `{"ReaderID": "r1"}`))

	// assert
	assert.NoError(t, appendErr, "an event of another reader must not conflict")
	assert.Equal(t, 2, es.Len())
}

func Test_Append_MultipleEventsAreAtomic(t *testing.T) {
	ctx := t.Context()
	es := givenEventStore(t)
	filter := filterForReader("r1")

	err := es.Append(
		ctx,
		filter,
		0,
		givenStorableEvent(t, "Lent", `{"ReaderID": "r1", "BookID": "b1"}`),
		givenStorableEvent(t, "Lent", `{"ReaderID": "r1", "BookID": "b2"}`),
	)
	require.NoError(t, err)

	conflictErr := es.Append(ctx, filter, 1, givenStorableEvent(t, "Lent", `{"ReaderID": "r1"}`))

	assert.ErrorIs(t, conflictErr, eventstore.ErrConcurrencyConflict)
	assert.Equal(t, 2, es.Len())
}

func Test_Append_ConcurrentWritersOnlyOneWins(t *testing.T) {
	// arrange
	ctx := t.Context()
	es := givenEventStore(t)
	filter := filterForReader("r1")

	const writers = 10
	var wg sync.WaitGroup
	results := make(chan error, writers)

	// act
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- es.Append(ctx, filter, 0, givenStorableEvent(t, "Lent", fmt.Sprintf(`{"ReaderID": "r1", "N": %d}`, i)))
		}()
	}

	wg.Wait()
	close(results)

	// assert
	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}

		assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	}

	assert.Equal(t, 1, succeeded)
}

func Test_Append_RejectsCanceledContext(t *testing.T) {
	es := givenEventStore(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := es.Append(ctx, filterForReader("r1"), 0, givenStorableEvent(t, "Lent", `{"ReaderID": "r1"}`))

	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, eventstore.ErrAppendingEventFailed)
}

func Test_Observability_IsRecorded(t *testing.T) {
	// arrange
	ctx := t.Context()
	metrics := helper.NewMetricsCollectorSpy()
	tracing := helper.NewTracingCollectorSpy()
	logHandler := helper.NewTestLogHandler(false)
	es, err := memengine.NewEventStore(
		memengine.WithMetrics(metrics),
		memengine.WithTracing(tracing),
		memengine.WithLogger(slog.New(logHandler)),
	)
	require.NoError(t, err)
	filter := filterForReader("r1")

	// act
	givenAppended(t, ctx, es, "Lent", `{"ReaderID": "r1"}`)
	_ = es.Append(ctx, filter, 0, givenStorableEvent(t, "Lent", `{"ReaderID": "r1"}`))
	_, _, _ = es.Query(ctx, filter)

	// assert
	assert.True(t, metrics.HasDurationRecordForMetric("eventstore_append_duration_seconds").WithStatus("success").Assert())
	assert.True(t, metrics.HasCounterRecordForMetric("eventstore_concurrency_conflicts_total").WithLabel("engine", "memory").Assert())
	assert.True(t, metrics.HasDurationRecordForMetric("eventstore_query_duration_seconds").WithOperation("query").Assert())
	assert.True(t, tracing.HasSpan("eventstore.append", "concurrency_conflict"))
	assert.True(t, tracing.HasSpan("eventstore.query", "success"))
	assert.True(t, logHandler.HasLogWithAttr(slog.LevelInfo, "eventstore operation: events appended", "event_count"))
}

func givenEventStore(t *testing.T) *memengine.EventStore {
	t.Helper()

	es, err := memengine.NewEventStore()
	require.NoError(t, err, "error in arranging test data")

	return es
}

func givenStorableEvent(t *testing.T, eventType string, payload string) eventstore.StorableEvent {
	t.Helper()

	event, err := eventstore.BuildStorableEventWithEmptyMetadata(eventType, time.Now(), []byte(payload))
	require.NoError(t, err, "error in arranging test data")

	return event
}

func givenAppended(t *testing.T, ctx context.Context, es *memengine.EventStore, eventType string, payload string) {
	t.Helper()

	_, maxSeq, err := es.Query(ctx, eventstore.BuildEventFilter().MatchingAnyEvent())
	require.NoError(t, err, "error in arranging test data")

	err = es.Append(ctx, eventstore.BuildEventFilter().MatchingAnyEvent(), maxSeq, givenStorableEvent(t, eventType, payload))
	require.NoError(t, err, "error in arranging test data")
}

func filterForReader(readerID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("Lent", "Returned").
		AndAnyPredicateOf(eventstore.P("ReaderID", readerID)).
		Finalize()
}
