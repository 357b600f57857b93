// Package eventstore provides the engine-agnostic abstractions for event sourcing
// with dynamic event streams.
//
// A "dynamic event stream" is not a physical stream but the set of events matching a Filter.
// Command handlers Query the events for a filter, make a decision, and Append new events
// with the filter and the MaxSequenceNumberUint they observed. Engines must reject the append
// with ErrConcurrencyConflict if any event matching the filter was appended in between.
//
// The event store supports dynamic filtering of events based on:
//   - Event types
//   - JSON payload predicates (top-level string fields)
//
// Engines live in sub packages: postgresengine, sqliteengine and memengine.
//
//	filter := BuildEventFilter().
//		Matching().
//		AnyEventTypeOf(
//			core.BookCopyLentToReaderEventType,
//			core.BookCopyReturnedByReaderEventType).
//		AndAnyPredicateOf(P("ReaderID", readerID)).
//		Finalize()
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	// decide ...
//	err = store.Append(ctx, filter, maxSeq, newEvent)
package eventstore
