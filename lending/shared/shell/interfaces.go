package shell

import (
	"context"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
)

// QueriesEvents is the read side of an event store engine.
type QueriesEvents interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
}

// AppendsEvents is the write side of an event store engine.
// The append succeeds only if the filter's max sequence number still equals expectedMaxSequenceNumber.
type AppendsEvents interface {
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		storableEvent eventstore.StorableEvent,
		additionalEvents ...eventstore.StorableEvent,
	) error
}

// EventStore is what command handlers need from an engine.
// memengine, sqliteengine and postgresengine all implement it.
type EventStore interface {
	QueriesEvents
	AppendsEvents
}

// Command represents the contract for all command types.
// The CommandType method enables polymorphic handling and observability instrumentation.
type Command interface {
	CommandType() string
}

// CoreCommandHandler processes commands with pure business logic, without observability concerns.
// Handlers return HandlerResult containing business outcomes (idempotency) and execution metadata (retry info).
type CoreCommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}

// CommandHandler is the error-only view of a command handler, implemented by the observable wrappers.
type CommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) error
}

// Query represents the contract for all query types.
type Query interface {
	QueryType() string
}

// QueryResult represents the contract for all query result types (projections).
// GetSequenceNumber returns the highest event sequence number included in the projection.
type QueryResult interface {
	GetSequenceNumber() uint
}

// CoreQueryHandler processes queries with pure projection logic, without observability concerns.
type CoreQueryHandler[Q Query, R QueryResult] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
