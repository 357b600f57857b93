package registerreader

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

const (
	minNameLength = 2
	maxNameLength = 50
)

// Decide implements the business logic to determine whether a reader can be registered.
//
// Business Rules:
//
//	GIVEN: A reader with ReaderID
//	WHEN: RegisterReader command is received
//	THEN: ReaderRegistered event is generated
//	ERROR: BAD_ARGUMENT if a name is not 2 to 50 characters long, the address is missing,
//	       the email is malformed, neither email nor phone is given or the kind is unknown
//	IDEMPOTENCY: If the reader is already registered, no event is generated (no-op)
func Decide(history core.DomainEvents, command Command, now time.Time) core.DecisionResult {
	state := core.ProjectLibraryState(history)

	if _, ok := state.Reader(command.ReaderID.String()); ok {
		return core.IdempotentDecision()
	}

	if err := validate(command); err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(core.BuildReaderRegistered(command.ReaderID, normalize(command.Details), command.Kind, now))
}

func validate(command Command) error {
	details := normalize(command.Details)

	if command.ReaderID == uuid.Nil {
		return core.NewError(core.KindBadArgument, "reader id is required")
	}

	names := []struct{ field, value string }{
		{field: "first name", value: details.FirstName},
		{field: "last name", value: details.LastName},
	}

	for _, name := range names {
		if n := utf8.RuneCountInString(name.value); n < minNameLength || n > maxNameLength {
			return core.NewError(core.KindBadArgument, "%s must have %d to %d characters, got %d", name.field, minNameLength, maxNameLength, n)
		}
	}

	if details.Address == "" {
		return core.NewError(core.KindBadArgument, "address is required")
	}

	if details.Email == "" && details.Phone == "" {
		return core.NewError(core.KindBadArgument, "email or phone is required")
	}

	if details.Email != "" {
		if _, err := mail.ParseAddress(details.Email); err != nil {
			return core.NewError(core.KindBadArgument, "email %q: %v", details.Email, err)
		}
	}

	if !core.IsValidReaderKind(command.Kind) {
		return core.NewError(core.KindBadArgument, "unknown reader kind %q", command.Kind)
	}

	return nil
}

func normalize(details core.ReaderDetails) core.ReaderDetails {
	return core.ReaderDetails{
		FirstName: strings.TrimSpace(details.FirstName),
		LastName:  strings.TrimSpace(details.LastName),
		Address:   strings.TrimSpace(details.Address),
		Email:     strings.TrimSpace(details.Email),
		Phone:     strings.TrimSpace(details.Phone),
	}
}

// BuildEventFilter creates the filter for querying the registration of one reader.
func BuildEventFilter(readerID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.ReaderRegisteredEventType).
		AndAnyPredicateOf(eventstore.P("ReaderID", readerID.String())).
		Finalize()
}
