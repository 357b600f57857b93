package registerbook

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

const (
	commandType = "RegisterBook"
)

// Command represents the intent to register a book.
type Command struct {
	BookID    uuid.UUID
	Title     string
	Authors   []core.Author
	DomainIDs []core.DomainIDString
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(bookID uuid.UUID, title string, authors []core.Author, domainIDs ...core.DomainIDString) Command {
	return Command{
		BookID:    bookID,
		Title:     title,
		Authors:   authors,
		DomainIDs: domainIDs,
	}
}
