package addbookedition

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

const (
	commandType = "AddBookEdition"
)

// Command represents the intent to add an edition to a registered book.
type Command struct {
	EditionID uuid.UUID
	BookID    uuid.UUID
	Details   core.EditionDetails
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(editionID uuid.UUID, bookID uuid.UUID, details core.EditionDetails) Command {
	return Command{
		EditionID: editionID,
		BookID:    bookID,
		Details:   details,
	}
}
