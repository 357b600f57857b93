package eventstore

import "context"

// ConsistencyLevel defines the consistency requirements for EventStore operations.
type ConsistencyLevel int

const (
	// StrongConsistency requires reads that observe every committed append (read-after-write).
	// Command handlers that read, decide and append need this level.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows reads from replicas, trading freshness for a lower load on the primary.
	// Read models (queries) can use this level.
	EventualConsistency
)

type contextKey string

// ConsistencyLevelKey is the context key used to store consistency level preferences.
const ConsistencyLevelKey contextKey = "eventstore.consistency_level"

// WithStrongConsistency returns a context that signals EventStore operations
// should use the primary database.
//
//	ctx = eventstore.WithStrongConsistency(ctx)
//	events, maxSeq, err := eventStore.Query(ctx, filter)
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, StrongConsistency)
}

// WithEventualConsistency returns a context that signals EventStore operations
// may read from a replica.
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, EventualConsistency)
}

// GetConsistencyLevel extracts the consistency level from the context, defaulting to StrongConsistency.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	if level, ok := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel); ok {
		return level
	}

	return StrongConsistency
}

func (c ConsistencyLevel) String() string {
	switch c {
	case StrongConsistency:
		return "strong"
	case EventualConsistency:
		return "eventual"
	default:
		return "unknown"
	}
}
