package shell

import (
	"errors"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

// ToStoreError maps an error of the event store or of the event mapping to STORE_FAILURE.
// Concurrency conflicts pass through unchanged so that the retry loop can catch them,
// as do context errors and errors that already are a LendingError.
func ToStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, eventstore.ErrConcurrencyConflict):
		return err
	case IsCancellationError(err), IsTimeoutError(err):
		return err
	case core.KindOf(err) != "":
		return err
	default:
		return errors.Join(core.ErrStoreFailure, err)
	}
}

// ToFinalError maps the error that left the retry loop: a concurrency conflict that survived
// all attempts becomes CONTENTION, everything else is returned as is.
func ToFinalError(err error) error {
	if err != nil && errors.Is(err, eventstore.ErrConcurrencyConflict) && core.KindOf(err) == "" {
		return errors.Join(core.ErrContention, err)
	}

	return err
}
