package definebookdomain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

// Decide implements the business logic to determine whether a domain can be defined.
//
// Business Rules:
//
//	GIVEN: A domain with DomainID and optionally a parent with ParentDomainID
//	WHEN: DefineBookDomain command is received
//	THEN: BookDomainDefined event is generated
//	ERROR: BAD_ARGUMENT if the name is empty, the domain is its own parent
//	       or the domain is already defined with another parent
//	ERROR: NOT_FOUND if the parent does not exist
//	IDEMPOTENCY: If the domain is already defined with the same parent, no event is generated (no-op)
func Decide(history core.DomainEvents, command Command, now time.Time) core.DecisionResult {
	state := core.ProjectLibraryState(history)
	parentID := idOrEmpty(command.ParentDomainID)

	if existing, ok := state.Domain(command.DomainID.String()); ok {
		if existing.ParentDomainID == parentID {
			return core.IdempotentDecision()
		}

		return core.ErrorDecision(core.NewError(core.KindBadArgument, "domain %s is already defined with another parent", command.DomainID))
	}

	name := strings.TrimSpace(command.Name)
	if name == "" {
		return core.ErrorDecision(core.NewError(core.KindBadArgument, "domain name is required"))
	}

	if command.DomainID == command.ParentDomainID {
		return core.ErrorDecision(core.NewError(core.KindBadArgument, "domain %s cannot be its own parent", command.DomainID))
	}

	if parentID != "" {
		if _, ok := state.Domain(parentID); !ok {
			return core.ErrorDecision(core.NewError(core.KindNotFound, "parent domain %s", parentID))
		}
	}

	return core.SuccessDecision(core.BuildBookDomainDefined(command.DomainID, command.ParentDomainID, name, now))
}

// BuildEventFilter creates the filter for querying the definitions of a domain and its parent.
func BuildEventFilter(domainID uuid.UUID, parentDomainID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookDomainDefinedEventType).
		AndAnyPredicateOf(
			eventstore.P("DomainID", domainID.String()),
			eventstore.P("DomainID", idOrEmpty(parentDomainID)),
		).
		Finalize()
}

func idOrEmpty(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}

	return id.String()
}
