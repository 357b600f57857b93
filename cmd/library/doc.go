// Package main is the library command line tool.
//
// It drives every command and query of the lending engine against an event store selected with
// --store (memory, sqlite or postgres). Policy parameters resolve from defaults, the --config
// JSON file, LIBRARY_* environment variables and the policy flags, in that order.
//
// Results are printed as JSON on stdout, structured logs go to stderr. With --metrics-addr the
// Prometheus metrics of the engine and the handlers are served on /metrics while a command runs.
// With --metrics-backend otel the metrics are recorded with the OpenTelemetry SDK instead and
// logged when the command ends.
//
// Exit codes: 0 success, 1 failure, 2 rejected by a lending rule, 3 retryable contention.
package main
