package borrowbookcopy

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
// It handles the core event sourcing workflow: Resolve -> Query -> Decide -> Append.
// External wrappers handle all observability concerns.
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

// WithClock sets the clock which decides the loan date, the system clock is the default.
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
// Concurrency conflicts are retried, if they persist the error is of kind CONTENTION.
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

	if result.IsIdempotent() {
		return shell.NewIdempotentResult(retryMetrics), nil
	}

	return shell.NewSuccessResult(retryMetrics, len(result.Events)), nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.DecisionResult, error) {
	bookIDs, err := ResolveBookIDs(ctx, h.eventStore, command.CopyID)
	if err != nil {
		return core.DecisionResult{}, err
	}

	boundary, err := shell.LoadBoundary(ctx, h.eventStore, BuildEventFilter(command.ReaderID, command.LibrarianID, bookIDs...))
	if err != nil {
		return core.DecisionResult{}, err
	}

	result := Decide(boundary.History(), command, h.policy, h.clock.Now())
	if err = result.HasError(); err != nil {
		return result, err
	}

	return result, boundary.Commit(ctx, h.eventStore, uuid.New(), result.Events...)
}

// ResolveBookIDs returns the distinct books of the given copies in request order. Unknown copies are skipped,
// the lending rules report them as NOT_FOUND.
func ResolveBookIDs(ctx context.Context, es shell.QueriesEvents, copyIDs ...core.CopyIDString) ([]core.BookIDString, error) {
	boundary, err := shell.LoadBoundary(ctx, es, BuildCopyFilter(copyIDs...))
	if err != nil {
		return nil, err
	}

	state := boundary.State()
	bookIDs := make([]core.BookIDString, 0, len(copyIDs))
	seen := make(map[core.BookIDString]struct{}, len(copyIDs))

	for _, copyID := range copyIDs {
		bookCopy, ok := state.Copy(copyID)
		if !ok {
			continue
		}

		if _, ok = seen[bookCopy.BookID]; ok {
			continue
		}

		seen[bookCopy.BookID] = struct{}{}
		bookIDs = append(bookIDs, bookCopy.BookID)
	}

	return bookIDs, nil
}
