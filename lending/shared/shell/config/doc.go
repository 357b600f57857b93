// Package config loads the lending policy parameters and builds event store connections.
//
// Policy parameters are resolved in this order, later sources winning:
// defaults, the "LibrarySettings" section of a JSON file, LIBRARY_<UPPER_SNAKE_KEY>
// environment variables, command line flags.
//
// The store helpers create pgxpool, database/sql (lib/pq) and sqlx connections for the
// Postgres engine, open SQLite files, or create an in-memory store.
package config
