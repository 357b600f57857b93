// Package observable provides wrappers that instrument command and query handlers
// with metrics, tracing and logging while the handlers keep only business logic.
//
// The wrappers are applied at wiring time:
//
//	coreHandler := borrowbookcopy.NewCommandHandler(eventStore, policy)
//
//	handler, err := observable.NewCommandWrapper(
//		coreHandler,
//		observable.WithCommandMetrics[borrowbookcopy.Command](metricsCollector),
//		observable.WithCommandTracing[borrowbookcopy.Command](tracingCollector),
//		observable.WithCommandContextualLogging[borrowbookcopy.Command](contextualLogger),
//	)
//
// Outcomes map to statuses as follows: success, idempotent, rejected (any LendingError that is
// a caller input error or a rule violation), concurrency_conflict (CONTENTION), canceled, timeout
// and error (STORE_FAILURE and everything else). Rejections are logged at warn level with their
// error kind, errors at error level.
package observable
