package borrowbookcopies

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/borrowbookcopy"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/shell"
)

// EventStore defines the interface needed by the command handlers for event store operations.
type EventStore interface {
	shell.QueriesEvents
	shell.AppendsEvents
}

type options struct {
	clock        core.Clock
	retryOptions []shell.RetryOption
}

// Option configures CommandHandler and AtomicCommandHandler.
type Option func(*options)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(o *options) {
		o.retryOptions = opts
	}
}

// WithClock sets the clock which decides the loan dates, the system clock is the default.
func WithClock(clock core.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: core.NewSystemClock()}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// CommandHandler lends the copies of a bulk borrow one after the other.
// Each item is its own unit of work with its own retries.
type CommandHandler struct {
	eventStore    EventStore
	policy        core.PolicyConfig
	borrowHandler borrowbookcopy.CommandHandler
}

// NewCommandHandler creates a new CommandHandler which enforces policy.
func NewCommandHandler(eventStore EventStore, policy core.PolicyConfig, opts ...Option) CommandHandler {
	o := buildOptions(opts)

	return CommandHandler{
		eventStore: eventStore,
		policy:     policy,
		borrowHandler: borrowbookcopy.NewCommandHandler(
			eventStore,
			policy,
			borrowbookcopy.WithClock(o.clock),
			borrowbookcopy.WithRetryOptions(o.retryOptions...),
		),
	}
}

// Handle checks the request as a whole and then borrows item by item.
// If an item is rejected, the returned error is a *PartialBorrowError.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	if err := h.checkRequest(ctx, command); err != nil {
		return shell.HandlerResult{}, err
	}

	total := shell.HandlerResult{Idempotent: true}
	committed := make([]core.LoanIDString, 0, len(command.Items))

	for _, item := range command.Items {
		result, err := h.borrowHandler.Handle(ctx, command.BorrowCommand(item))
		total = accumulate(total, result)

		if err != nil {
			total.Idempotent = false

			return total, &PartialBorrowError{Committed: committed, FailedCopyID: item.CopyID, Err: err}
		}

		committed = append(committed, item.LoanID)
	}

	return total, nil
}

func (h CommandHandler) checkRequest(ctx context.Context, command Command) error {
	bookIDs, err := borrowbookcopy.ResolveBookIDs(ctx, h.eventStore, command.CopyIDs()...)
	if err != nil {
		return err
	}

	boundary, err := shell.LoadBoundary(ctx, h.eventStore, borrowbookcopy.BuildEventFilter(command.ReaderID, command.LibrarianID, bookIDs...))
	if err != nil {
		return err
	}

	return CheckRequest(boundary.History(), command, h.policy)
}

func accumulate(total shell.HandlerResult, result shell.HandlerResult) shell.HandlerResult {
	total.Idempotent = total.Idempotent && result.Idempotent
	total.AppendedEvents += result.AppendedEvents
	total.RetryAttempts += result.RetryAttempts
	total.TotalRetryDelay += result.TotalRetryDelay
	total.LastErrorType = result.LastErrorType
	total.RetriesExhausted = total.RetriesExhausted || result.RetriesExhausted

	return total
}

// AtomicCommandHandler lends all copies of a bulk borrow in one unit of work.
type AtomicCommandHandler struct {
	eventStore EventStore
	policy     core.PolicyConfig
	options    options
}

// NewAtomicCommandHandler creates a new AtomicCommandHandler which enforces policy.
func NewAtomicCommandHandler(eventStore EventStore, policy core.PolicyConfig, opts ...Option) AtomicCommandHandler {
	return AtomicCommandHandler{
		eventStore: eventStore,
		policy:     policy,
		options:    buildOptions(opts),
	}
}

// Handle executes the complete command processing workflow with retry logic.
// Concurrency conflicts are retried, if they persist the error is of kind CONTENTION.
func (h AtomicCommandHandler) Handle(ctx context.Context, command AtomicCommand) (shell.HandlerResult, error) {
	var result core.DecisionResult

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		result, execErr = h.executeCommand(retryCtx, command.Command)

		return execErr
	}, h.options.retryOptions...)

	if err != nil {
		return shell.NewErrorResult(retryMetrics), shell.ToFinalError(err)
	}

	if result.IsIdempotent() {
		return shell.NewIdempotentResult(retryMetrics), nil
	}

	return shell.NewSuccessResult(retryMetrics, len(result.Events)), nil
}

func (h AtomicCommandHandler) executeCommand(ctx context.Context, command Command) (core.DecisionResult, error) {
	bookIDs, err := borrowbookcopy.ResolveBookIDs(ctx, h.eventStore, command.CopyIDs()...)
	if err != nil {
		return core.DecisionResult{}, err
	}

	boundary, err := shell.LoadBoundary(ctx, h.eventStore, borrowbookcopy.BuildEventFilter(command.ReaderID, command.LibrarianID, bookIDs...))
	if err != nil {
		return core.DecisionResult{}, err
	}

	result := DecideAtomically(boundary.History(), command, h.policy, h.options.clock.Now())
	if err = result.HasError(); err != nil {
		return result, err
	}

	return result, boundary.Commit(ctx, h.eventStore, uuid.New(), result.Events...)
}
