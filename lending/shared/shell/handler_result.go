package shell

import "time"

// HandlerResult represents the outcome of a command handler execution.
// It captures both business outcomes (idempotency) and execution metadata (retry information)
// without coupling the handler to specific observability implementations.
type HandlerResult struct {
	// Idempotent indicates the command had already been applied, e.g. a borrow replayed with the same LoanID.
	Idempotent bool

	// AppendedEvents is the number of events the handler appended, 0 for idempotent and failed operations.
	AppendedEvents int

	// RetryAttempts is the total number of attempts made (1 for no retries, 2+ for retries).
	RetryAttempts int

	// TotalRetryDelay is the cumulative time spent in retry backoff delays.
	TotalRetryDelay time.Duration

	// LastErrorType describes the final error encountered during retries.
	// Values: "none", "concurrency_conflict", "context_canceled", "context_deadline_exceeded", "other"
	LastErrorType string

	// RetriesExhausted indicates whether max retry attempts were reached with a concurrency conflict.
	RetriesExhausted bool
}

// NewSuccessResult creates a HandlerResult for operations that appended events.
func NewSuccessResult(retryMetrics RetryMetrics, appendedEvents int) HandlerResult {
	result := newResult(retryMetrics)
	result.AppendedEvents = appendedEvents

	return result
}

// NewIdempotentResult creates a HandlerResult for idempotent operations.
func NewIdempotentResult(retryMetrics RetryMetrics) HandlerResult {
	result := newResult(retryMetrics)
	result.Idempotent = true

	return result
}

// NewErrorResult creates a HandlerResult for failed operations, which still report retry metadata.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return newResult(retryMetrics)
}

func newResult(retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}
