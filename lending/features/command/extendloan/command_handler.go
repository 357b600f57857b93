package extendloan

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/shell"
)

// EventStore defines the interface needed by the CommandHandler for event store operations.
type EventStore interface {
	shell.QueriesEvents
	shell.AppendsEvents
}

// CommandHandler orchestrates the complete command processing workflow with pure business logic and retry.
type CommandHandler struct {
	eventStore   EventStore
	policy       core.PolicyConfig
	clock        core.Clock
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// WithClock sets the clock which stamps the extension, the system clock is the default.
func WithClock(clock core.Clock) Option {
	return func(h *CommandHandler) {
		h.clock = clock
	}
}

// NewCommandHandler creates a new CommandHandler which enforces policy.
func NewCommandHandler(eventStore EventStore, policy core.PolicyConfig, opts ...Option) CommandHandler {
	handler := CommandHandler{
		eventStore: eventStore,
		policy:     policy,
		clock:      core.NewSystemClock(),
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the complete command processing workflow with retry logic.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var result core.DecisionResult

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		result, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return shell.NewErrorResult(retryMetrics), shell.ToFinalError(err)
	}

	return shell.NewSuccessResult(retryMetrics, len(result.Events)), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.DecisionResult, error) {
	loanHistory, err := shell.LoadBoundary(ctx, h.eventStore, BuildLoanFilter(command.LoanID))
	if err != nil {
		return core.DecisionResult{}, err
	}

	var readerID core.ReaderIDString
	if loan, ok := loanHistory.State().Loan(command.LoanID); ok {
		readerID = loan.ReaderID
	}

	boundary, err := shell.LoadBoundary(ctx, h.eventStore, BuildEventFilter(command.LoanID, readerID))
	if err != nil {
		return core.DecisionResult{}, err
	}

	result := Decide(boundary.History(), command, h.policy, h.clock.Now())
	if err = result.HasError(); err != nil {
		return result, err
	}

	return result, boundary.Commit(ctx, h.eventStore, uuid.New(), result.Events...)
}
