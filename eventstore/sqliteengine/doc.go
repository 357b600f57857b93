// Package sqliteengine implements the eventstore Query and Append operations on SQLite,
// using the pure Go modernc.org/sqlite driver and goqu for query building.
//
// SQLite has no JSON containment operator, so payload predicates are translated to
// json_extract comparisons. The conditional append runs in an IMMEDIATE transaction:
// it reads the max sequence number of the filtered stream and inserts only if it still
// equals the expected one.
package sqliteengine
