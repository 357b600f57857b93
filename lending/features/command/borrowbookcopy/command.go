package borrowbookcopy

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

const (
	commandType = "BorrowBookCopy"
)

// Command represents the intent to lend one copy to one reader.
// LoanID is assigned when the command is built, handling the same command twice lends the copy once.
type Command struct {
	LoanID      core.LoanIDString
	ReaderID    core.ReaderIDString
	CopyID      core.CopyIDString
	LibrarianID core.ReaderIDString // empty if no librarian processed the loan
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with a fresh LoanID. Pass uuid.Nil as librarianID for a self-service loan.
func BuildCommand(readerID uuid.UUID, copyID uuid.UUID, librarianID uuid.UUID) Command {
	command := Command{
		LoanID:   uuid.New().String(),
		ReaderID: readerID.String(),
		CopyID:   copyID.String(),
	}

	if librarianID != uuid.Nil {
		command.LibrarianID = librarianID.String()
	}

	return command
}

// Request converts the command into the request the lending rules evaluate.
func (c Command) Request() core.BorrowRequest {
	return core.BorrowRequest{
		LoanID:      c.LoanID,
		ReaderID:    c.ReaderID,
		CopyID:      c.CopyID,
		LibrarianID: c.LibrarianID,
	}
}
