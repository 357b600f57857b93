package returnbookcopy

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

const (
	commandType = "ReturnBookCopy"
)

// Command represents the intent to close an open loan.
type Command struct {
	LoanID core.LoanIDString
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command.
func BuildCommand(loanID uuid.UUID) Command {
	return Command{LoanID: loanID.String()}
}
