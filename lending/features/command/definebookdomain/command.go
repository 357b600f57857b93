package definebookdomain

import (
	"github.com/google/uuid"
)

const (
	commandType = "DefineBookDomain"
)

// Command represents the intent to define a domain. ParentDomainID is uuid.Nil for a root domain.
type Command struct {
	DomainID       uuid.UUID
	ParentDomainID uuid.UUID
	Name           string
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(domainID uuid.UUID, parentDomainID uuid.UUID, name string) Command {
	return Command{
		DomainID:       domainID,
		ParentDomainID: parentDomainID,
		Name:           name,
	}
}
