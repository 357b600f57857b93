// Package shell is the imperative shell around the lending rules in core.
//
// It maps domain events to storable events and back (JSON via json-iterator), runs the
// read-decide-append cycle of one consistency boundary as a UnitOfWork, retries optimistic
// concurrency conflicts with exponential backoff and translates store errors into the
// CONTENTION and STORE_FAILURE kinds of core.LendingError.
//
// It also holds the observability vocabulary (metric names, log messages, span names) shared by
// the command and query handlers and the observable wrappers.
package shell
