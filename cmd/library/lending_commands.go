package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/borrowbookcopies"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/borrowbookcopy"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/extendloan"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/returnbookcopy"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/query/bookstock"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/query/loansbyreader"
)

func newBorrowCommand(a *app) *cobra.Command {
	var reader, copyFlag, librarian string

	cmd := &cobra.Command{
		Use:   "borrow",
		Short: "Lend one copy to a reader",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			readerID, err := parseID("reader", reader)
			if err != nil {
				return err
			}

			copyID, err := parseID("copy", copyFlag)
			if err != nil {
				return err
			}

			librarianID, err := parseOptionalID("librarian", librarian)
			if err != nil {
				return err
			}

			command := borrowbookcopy.BuildCommand(readerID, copyID, librarianID)

			result, err := a.handlers.borrow.Handle(cmd.Context(), command)
			if err != nil {
				return err
			}

			return a.printResult(command.CommandType(), result, map[string]string{"loan_id": command.LoanID})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&reader, "reader", "", "reader id")
	flags.StringVar(&copyFlag, "copy", "", "copy id")
	flags.StringVar(&librarian, "librarian", "", "id of the staff member processing the loan")

	return cmd
}

// borrowManyOutput lists the loans of a multi-copy borrow, also when it stopped half way.
type borrowManyOutput struct {
	commandOutput
	LoanIDs      []string `json:"loan_ids"`
	FailedCopyID string   `json:"failed_copy_id,omitempty"`
}

func newBorrowManyCommand(a *app) *cobra.Command {
	var (
		reader    string
		librarian string
		copies    []string
		atomic    bool
	)

	cmd := &cobra.Command{
		Use:   "borrow-many",
		Short: "Lend several copies to a reader in one request",
		Long: "Lend several copies to a reader in one request.\n" +
			"Without --atomic the copies are lent one after the other and the loans made before a\n" +
			"rejection stay. With --atomic either all copies are lent or none.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			readerID, err := parseID("reader", reader)
			if err != nil {
				return err
			}

			librarianID, err := parseOptionalID("librarian", librarian)
			if err != nil {
				return err
			}

			copyIDs, err := parseIDs("copy", copies)
			if err != nil {
				return err
			}

			if atomic {
				command := borrowbookcopies.BuildAtomicCommand(readerID, librarianID, copyIDs...)

				result, handleErr := a.handlers.borrowAtomically.Handle(cmd.Context(), command)
				if handleErr != nil {
					return handleErr
				}

				return a.print(borrowManyOutput{
					commandOutput: commandOutput{Command: command.CommandType(), Result: result},
					LoanIDs:       loanIDsOf(command.Items),
				})
			}

			command := borrowbookcopies.BuildCommand(readerID, librarianID, copyIDs...)

			result, err := a.handlers.borrowMany.Handle(cmd.Context(), command)

			var partialErr *borrowbookcopies.PartialBorrowError
			if errors.As(err, &partialErr) {
				if printErr := a.print(borrowManyOutput{
					commandOutput: commandOutput{Command: command.CommandType(), Result: result},
					LoanIDs:       partialErr.Committed,
					FailedCopyID:  partialErr.FailedCopyID,
				}); printErr != nil {
					return printErr
				}
			}

			if err != nil {
				return err
			}

			return a.print(borrowManyOutput{
				commandOutput: commandOutput{Command: command.CommandType(), Result: result},
				LoanIDs:       loanIDsOf(command.Items),
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&reader, "reader", "", "reader id")
	flags.StringVar(&librarian, "librarian", "", "id of the staff member processing the loans")
	flags.StringSliceVar(&copies, "copy", nil, "copy id, repeatable or comma separated")
	flags.BoolVar(&atomic, "atomic", false, "lend all copies or none")

	return cmd
}

func loanIDsOf(items []borrowbookcopies.Item) []string {
	loanIDs := make([]string, 0, len(items))
	for _, item := range items {
		loanIDs = append(loanIDs, item.LoanID)
	}

	return loanIDs
}

func newReturnCommand(a *app) *cobra.Command {
	var loan string

	cmd := &cobra.Command{
		Use:   "return",
		Short: "Return a lent copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loanID, err := parseID("loan", loan)
			if err != nil {
				return err
			}

			command := returnbookcopy.BuildCommand(loanID)

			result, err := a.handlers.returnCopy.Handle(cmd.Context(), command)
			if err != nil {
				return err
			}

			return a.printResult(command.CommandType(), result, nil)
		},
	}

	cmd.Flags().StringVar(&loan, "loan", "", "loan id")

	return cmd
}

func newExtendCommand(a *app) *cobra.Command {
	var (
		loan string
		days int
	)

	cmd := &cobra.Command{
		Use:   "extend",
		Short: "Move the due date of an open loan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loanID, err := parseID("loan", loan)
			if err != nil {
				return err
			}

			command := extendloan.BuildCommand(loanID, days)

			result, err := a.handlers.extend.Handle(cmd.Context(), command)
			if err != nil {
				return err
			}

			return a.printResult(command.CommandType(), result, nil)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&loan, "loan", "", "loan id")
	flags.IntVar(&days, "days", 7, "days to extend by")

	return cmd
}

func newLoansCommand(a *app) *cobra.Command {
	var reader string

	cmd := &cobra.Command{
		Use:   "loans",
		Short: "List the loans of a reader",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			readerID, err := parseID("reader", reader)
			if err != nil {
				return err
			}

			result, err := a.handlers.loans.Handle(cmd.Context(), loansbyreader.BuildQuery(readerID))
			if err != nil {
				return err
			}

			return a.print(result)
		},
	}

	cmd.Flags().StringVar(&reader, "reader", "", "reader id")

	return cmd
}

func newStockCommand(a *app) *cobra.Command {
	var book string

	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Count the copies of a book by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bookID, err := parseID("book", book)
			if err != nil {
				return err
			}

			result, err := a.handlers.stock.Handle(cmd.Context(), bookstock.BuildQuery(bookID))
			if err != nil {
				return err
			}

			return a.print(struct {
				bookstock.BookStock
				Lendable bool
			}{result, result.Lendable()})
		},
	}

	cmd.Flags().StringVar(&book, "book", "", "book id")

	return cmd
}
