package registerbook

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

const maxTitleLength = 200

// Decide implements the business logic to determine whether a book can be registered.
//
// Business Rules:
//
//	GIVEN: A book with BookID, classified into DomainIDs
//	WHEN: RegisterBook command is received
//	THEN: BookRegistered event is generated, duplicate domain ids collapsed
//	ERROR: BAD_ARGUMENT if the title is empty or longer than 200 characters, no author or no domain is given,
//	       an author has no last name, there are more than MaxDomainsPerBook domains or two domains are related
//	ERROR: NOT_FOUND if a domain does not exist
//	IDEMPOTENCY: If the book is already registered, no event is generated (no-op)
func Decide(history core.DomainEvents, command Command, cfg core.PolicyConfig, now time.Time) core.DecisionResult {
	state := core.ProjectLibraryState(history)

	if _, ok := state.Book(command.BookID.String()); ok {
		return core.IdempotentDecision()
	}

	title := strings.TrimSpace(command.Title)
	if title == "" || utf8.RuneCountInString(title) > maxTitleLength {
		return core.ErrorDecision(core.NewError(core.KindBadArgument, "title must have 1 to %d characters", maxTitleLength))
	}

	if err := validateAuthors(command.Authors); err != nil {
		return core.ErrorDecision(err)
	}

	domainIDs, err := validateDomains(state, cfg, command.DomainIDs)
	if err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(core.BuildBookRegistered(command.BookID, title, command.Authors, domainIDs, now))
}

func validateAuthors(authors []core.Author) error {
	if len(authors) == 0 {
		return core.NewError(core.KindBadArgument, "at least one author is required")
	}

	for i, author := range authors {
		if strings.TrimSpace(author.LastName) == "" {
			return core.NewError(core.KindBadArgument, "author %d has no last name", i+1)
		}
	}

	return nil
}

// validateDomains returns the distinct domain ids in request order.
func validateDomains(state *core.LibraryState, cfg core.PolicyConfig, requested []core.DomainIDString) ([]core.DomainIDString, error) {
	domainIDs := make([]core.DomainIDString, 0, len(requested))
	seen := make(map[core.DomainIDString]struct{}, len(requested))

	for _, domainID := range requested {
		if _, ok := seen[domainID]; ok {
			continue
		}

		seen[domainID] = struct{}{}
		domainIDs = append(domainIDs, domainID)
	}

	if len(domainIDs) == 0 {
		return nil, core.NewError(core.KindBadArgument, "at least one domain is required")
	}

	for _, domainID := range domainIDs {
		if _, ok := state.Domain(domainID); !ok {
			return nil, core.NewError(core.KindNotFound, "domain %s", domainID)
		}
	}

	if len(domainIDs) > cfg.MaxDomainsPerBook {
		return nil, core.NewError(core.KindBadArgument, "%d domains given, limit %d", len(domainIDs), cfg.MaxDomainsPerBook)
	}

	for i, a := range domainIDs {
		for _, b := range domainIDs[i+1:] {
			if core.Related(state, a, b) {
				return nil, core.NewError(core.KindBadArgument, "domains %s and %s are related", a, b)
			}
		}
	}

	return domainIDs, nil
}

// BuildEventFilter creates the filter for querying the domain forest and the registration of one book.
func BuildEventFilter(bookID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookDomainDefinedEventType).
		OrMatching().
		AnyEventTypeOf(core.BookRegisteredEventType).
		AndAnyPredicateOf(eventstore.P("BookID", bookID.String())).
		Finalize()
}
