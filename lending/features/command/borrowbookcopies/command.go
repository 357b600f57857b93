package borrowbookcopies

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/borrowbookcopy"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

const (
	commandType       = "BorrowBookCopies"
	atomicCommandType = "BorrowBookCopiesAtomically"
)

// Item is one copy of a bulk borrow with the id of the loan it creates.
type Item struct {
	LoanID core.LoanIDString
	CopyID core.CopyIDString
}

// Command represents the intent to lend several copies to one reader, item by item.
type Command struct {
	ReaderID    core.ReaderIDString
	LibrarianID core.ReaderIDString // empty if no librarian processed the loans
	Items       []Item
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with a fresh LoanID per copy. Pass uuid.Nil as librarianID for a self-service loan.
func BuildCommand(readerID uuid.UUID, librarianID uuid.UUID, copyIDs ...uuid.UUID) Command {
	command := Command{
		ReaderID: readerID.String(),
		Items:    make([]Item, 0, len(copyIDs)),
	}

	if librarianID != uuid.Nil {
		command.LibrarianID = librarianID.String()
	}

	for _, copyID := range copyIDs {
		command.Items = append(command.Items, Item{LoanID: uuid.New().String(), CopyID: copyID.String()})
	}

	return command
}

// CopyIDs returns the requested copies in request order.
func (c Command) CopyIDs() []core.CopyIDString {
	copyIDs := make([]core.CopyIDString, 0, len(c.Items))
	for _, item := range c.Items {
		copyIDs = append(copyIDs, item.CopyID)
	}

	return copyIDs
}

// BorrowCommand returns the single borrow of one item.
func (c Command) BorrowCommand(item Item) borrowbookcopy.Command {
	return borrowbookcopy.Command{
		LoanID:      item.LoanID,
		ReaderID:    c.ReaderID,
		CopyID:      item.CopyID,
		LibrarianID: c.LibrarianID,
	}
}

// AtomicCommand represents the intent to lend several copies to one reader, all or nothing.
type AtomicCommand struct {
	Command
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c AtomicCommand) CommandType() string {
	return atomicCommandType
}

// BuildAtomicCommand creates a new AtomicCommand with a fresh LoanID per copy.
func BuildAtomicCommand(readerID uuid.UUID, librarianID uuid.UUID, copyIDs ...uuid.UUID) AtomicCommand {
	return AtomicCommand{Command: BuildCommand(readerID, librarianID, copyIDs...)}
}
