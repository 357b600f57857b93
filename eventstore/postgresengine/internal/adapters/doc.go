// Package adapters lets the PostgreSQL event store run on pgxpool.Pool, database/sql (lib/pq) or sqlx.DB.
//
// Every adapter accepts an optional replica which serves reads when the context asks
// for eventual consistency (see eventstore.WithEventualConsistency).
package adapters
