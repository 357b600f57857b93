// Package oteladapters provides OpenTelemetry implementations of the eventstore observability interfaces.
//
// The same adapters serve the lending command and query handlers, which use the eventstore interfaces
// for their own instrumentation.
package oteladapters
