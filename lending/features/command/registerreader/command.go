package registerreader

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

const (
	commandType = "RegisterReader"
)

// Command represents the intent to register a reader.
type Command struct {
	ReaderID uuid.UUID
	Details  core.ReaderDetails
	Kind     core.ReaderKind
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(readerID uuid.UUID, details core.ReaderDetails, kind core.ReaderKind) Command {
	return Command{
		ReaderID: readerID,
		Details:  details,
		Kind:     kind,
	}
}
