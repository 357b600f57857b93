// Package memengine is an in-memory eventstore engine with the same optimistic concurrency
// semantics as the SQL engines. It is meant for tests, demos and single-process tools.
package memengine

import (
	"context"
	"errors"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/eventstore/internal/observe"
)

const (
	engineName                = "memory"
	logMsgDecodePayloadFailed = "failed to decode event payload for filtering"
	logMsgOperationAborted    = "eventstore operation aborted"
)

type storedEvent struct {
	event          eventstore.StorableEvent
	payload        map[string]any
	sequenceNumber eventstore.MaxSequenceNumberUint
}

// EventStore keeps all events in a slice guarded by a RWMutex.
type EventStore struct {
	mu          sync.RWMutex
	events      []storedEvent
	instruments observe.Instruments
}

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithLogger sets the logger for the EventStore.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.instruments.Logger = logger
		return nil
	}
}

// WithContextualLogger sets the context-aware logger for the EventStore.
func WithContextualLogger(logger eventstore.ContextualLogger) Option {
	return func(es *EventStore) error {
		es.instruments.ContextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the EventStore.
func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) error {
		es.instruments.Metrics = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the EventStore.
func WithTracing(collector eventstore.TracingCollector) Option {
	return func(es *EventStore) error {
		es.instruments.Tracing = collector
		return nil
	}
}

// NewEventStore creates an empty in-memory EventStore.
func NewEventStore(options ...Option) (*EventStore, error) {
	es := &EventStore{
		events:      make([]storedEvent, 0),
		instruments: observe.Instruments{Engine: engineName},
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// Query returns the events matching the filter in sequence order and the max sequence number among them.
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	ctx, op := es.instruments.StartQuery(ctx)

	if err := ctx.Err(); err != nil {
		op.Failed(logMsgOperationAborted, err)
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, err)
	}

	es.mu.RLock()
	defer es.mu.RUnlock()

	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for _, stored := range es.events {
		if filter.Matches(stored.event.EventType, stored.payload) {
			eventStream = append(eventStream, stored.event)
			maxSequenceNumber = stored.sequenceNumber
		}
	}

	op.QueryCompleted(len(eventStream), maxSequenceNumber)

	return eventStream, maxSequenceNumber, nil
}

// Append appends the events if the max sequence number of the events matching the filter
// still equals expectedMaxSequenceNumber, otherwise it fails with eventstore.ErrConcurrencyConflict.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	allEvents := append(eventstore.StorableEvents{event}, additionalEvents...)
	ctx, op := es.instruments.StartAppend(ctx, len(allEvents), expectedMaxSequenceNumber)

	if err := ctx.Err(); err != nil {
		op.Failed(logMsgOperationAborted, err)
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	decoded := make([]map[string]any, len(allEvents))
	for i, e := range allEvents {
		payload, err := decodePayload(e.PayloadJSON)
		if err != nil {
			op.Failed(logMsgDecodePayloadFailed, err, "event_type", e.EventType)
			return errors.Join(eventstore.ErrAppendingEventFailed, err)
		}

		decoded[i] = payload
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	if es.maxSequenceNumberFor(filter) != expectedMaxSequenceNumber {
		op.Conflicted(expectedMaxSequenceNumber)
		return eventstore.ErrConcurrencyConflict
	}

	next := eventstore.MaxSequenceNumberUint(len(es.events))
	for i, e := range allEvents {
		next++
		es.events = append(es.events, storedEvent{event: e, payload: decoded[i], sequenceNumber: next})
	}

	op.AppendCompleted(len(allEvents))

	return nil
}

// Len returns the total number of stored events.
func (es *EventStore) Len() int {
	es.mu.RLock()
	defer es.mu.RUnlock()

	return len(es.events)
}

func (es *EventStore) maxSequenceNumberFor(filter eventstore.Filter) eventstore.MaxSequenceNumberUint {
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for _, stored := range es.events {
		if filter.Matches(stored.event.EventType, stored.payload) {
			maxSequenceNumber = stored.sequenceNumber
		}
	}

	return maxSequenceNumber
}

func decodePayload(payloadJSON []byte) (map[string]any, error) {
	payload := make(map[string]any)
	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &payload); err != nil {
		return nil, err
	}

	return payload, nil
}
