// Package postgresengine provides a PostgreSQL implementation of the eventstore Query and Append operations.
//
// It supports three connection types (pgxpool.Pool, sql.DB with lib/pq, sqlx.DB), each optionally
// with a read replica that serves queries running with eventual consistency.
//
// The append is a single INSERT ... SELECT statement (behind a transaction scoped advisory lock): a CTE computes the max sequence number of the
// filtered "dynamic event stream" and the rows are only inserted if it equals the expected one.
// If no row was inserted, Append fails with eventstore.ErrConcurrencyConflict.
//
//	db, _ := pgxpool.New(ctx, dsn)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(db, postgresengine.WithLogger(logger))
//	_ = store.CreateSchema(ctx)
//
//	events, maxSeq, _ := store.Query(ctx, filter)
//	err := store.Append(ctx, filter, maxSeq, newEvent)
package postgresengine
