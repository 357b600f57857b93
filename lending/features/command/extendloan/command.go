package extendloan

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

const (
	commandType = "ExtendLoan"
)

// Command represents the intent to move the due date of an open loan by Days.
type Command struct {
	LoanID core.LoanIDString
	Days   int
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command.
func BuildCommand(loanID uuid.UUID, days int) Command {
	return Command{LoanID: loanID.String(), Days: days}
}
