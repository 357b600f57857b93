package addbookcopy

import (
	"github.com/google/uuid"
)

const (
	commandType = "AddBookCopy"
)

// Command represents the intent to add a copy of an edition to circulation.
type Command struct {
	CopyID          uuid.UUID
	EditionID       uuid.UUID
	ReadingRoomOnly bool
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(copyID uuid.UUID, editionID uuid.UUID, readingRoomOnly bool) Command {
	return Command{
		CopyID:          copyID,
		EditionID:       editionID,
		ReadingRoomOnly: readingRoomOnly,
	}
}
