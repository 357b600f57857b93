package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/addbookcopy"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/addbookedition"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/definebookdomain"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/registerbook"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/registerreader"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/command/removebookcopy"
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

func newRegisterReaderCommand(a *app) *cobra.Command {
	var (
		id      string
		kind    string
		details core.ReaderDetails
	)

	cmd := &cobra.Command{
		Use:   "register-reader",
		Short: "Register a reader",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			readerID, err := parseIDOrNew("id", id)
			if err != nil {
				return err
			}

			command := registerreader.BuildCommand(readerID, details, strings.ToUpper(kind))

			result, err := a.handlers.registerReader.Handle(cmd.Context(), command)
			if err != nil {
				return err
			}

			return a.printResult(command.CommandType(), result, map[string]string{"reader_id": readerID.String()})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&id, "id", "", "reader id, generated when empty")
	flags.StringVar(&kind, "kind", core.ReaderKindStandard, "reader kind: STANDARD or STAFF")
	flags.StringVar(&details.FirstName, "first-name", "", "first name")
	flags.StringVar(&details.LastName, "last-name", "", "last name")
	flags.StringVar(&details.Address, "address", "", "postal address")
	flags.StringVar(&details.Email, "email", "", "email address")
	flags.StringVar(&details.Phone, "phone", "", "phone number")

	return cmd
}

func newDefineDomainCommand(a *app) *cobra.Command {
	var id, parent, name string

	cmd := &cobra.Command{
		Use:   "define-domain",
		Short: "Define a book domain, below --parent or as a root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			domainID, err := parseIDOrNew("id", id)
			if err != nil {
				return err
			}

			parentID, err := parseOptionalID("parent", parent)
			if err != nil {
				return err
			}

			command := definebookdomain.BuildCommand(domainID, parentID, name)

			result, err := a.handlers.defineDomain.Handle(cmd.Context(), command)
			if err != nil {
				return err
			}

			return a.printResult(command.CommandType(), result, map[string]string{"domain_id": domainID.String()})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&id, "id", "", "domain id, generated when empty")
	flags.StringVar(&parent, "parent", "", "parent domain id")
	flags.StringVar(&name, "name", "", "domain name")

	return cmd
}

func newRegisterBookCommand(a *app) *cobra.Command {
	var (
		id      string
		title   string
		authors []string
		domains []string
	)

	cmd := &cobra.Command{
		Use:   "register-book",
		Short: "Register a book in one or more domains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bookID, err := parseIDOrNew("id", id)
			if err != nil {
				return err
			}

			domainIDs, err := parseIDs("domain", domains)
			if err != nil {
				return err
			}

			domainIDStrings := make([]core.DomainIDString, 0, len(domainIDs))
			for _, domainID := range domainIDs {
				domainIDStrings = append(domainIDStrings, domainID.String())
			}

			command := registerbook.BuildCommand(bookID, title, parseAuthors(authors), domainIDStrings...)

			result, err := a.handlers.registerBook.Handle(cmd.Context(), command)
			if err != nil {
				return err
			}

			return a.printResult(command.CommandType(), result, map[string]string{"book_id": bookID.String()})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&id, "id", "", "book id, generated when empty")
	flags.StringVar(&title, "title", "", "title")
	flags.StringArrayVar(&authors, "author", nil, `author as "First Last", repeatable`)
	flags.StringSliceVar(&domains, "domain", nil, "domain id, repeatable or comma separated")

	return cmd
}

// parseAuthors splits "First Middle Last" into first names and the last name.
func parseAuthors(values []string) []core.Author {
	authors := make([]core.Author, 0, len(values))

	for _, value := range values {
		fields := strings.Fields(value)
		if len(fields) == 0 {
			authors = append(authors, core.Author{})
			continue
		}

		authors = append(authors, core.Author{
			FirstName: strings.Join(fields[:len(fields)-1], " "),
			LastName:  fields[len(fields)-1],
		})
	}

	return authors
}

func newAddEditionCommand(a *app) *cobra.Command {
	var (
		id      string
		book    string
		details core.EditionDetails
	)

	cmd := &cobra.Command{
		Use:   "add-edition",
		Short: "Add an edition to a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			editionID, err := parseIDOrNew("id", id)
			if err != nil {
				return err
			}

			bookID, err := parseID("book", book)
			if err != nil {
				return err
			}

			command := addbookedition.BuildCommand(editionID, bookID, details)

			result, err := a.handlers.addEdition.Handle(cmd.Context(), command)
			if err != nil {
				return err
			}

			return a.printResult(command.CommandType(), result, map[string]string{"edition_id": editionID.String()})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&id, "id", "", "edition id, generated when empty")
	flags.StringVar(&book, "book", "", "book id")
	flags.StringVar(&details.Publisher, "publisher", "", "publisher")
	flags.IntVar(&details.Year, "year", 0, "year of publication")
	flags.IntVar(&details.EditionNumber, "edition-number", 1, "edition number")
	flags.IntVar(&details.NumberOfPages, "pages", 0, "number of pages")
	flags.StringVar(&details.BookType, "type", "", "e.g. Paperback or Hardcover")

	return cmd
}

func newAddCopyCommand(a *app) *cobra.Command {
	var (
		id              string
		edition         string
		count           int
		readingRoomOnly bool
	)

	cmd := &cobra.Command{
		Use:   "add-copy",
		Short: "Add copies of an edition to circulation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			editionID, err := parseID("edition", edition)
			if err != nil {
				return err
			}

			if id != "" && count != 1 {
				return fmt.Errorf("--id cannot be combined with --count %d", count)
			}

			for range count {
				copyID, parseErr := parseIDOrNew("id", id)
				if parseErr != nil {
					return parseErr
				}

				command := addbookcopy.BuildCommand(copyID, editionID, readingRoomOnly)

				result, handleErr := a.handlers.addCopy.Handle(cmd.Context(), command)
				if handleErr != nil {
					return handleErr
				}

				if printErr := a.printResult(command.CommandType(), result, map[string]string{"copy_id": copyID.String()}); printErr != nil {
					return printErr
				}
			}

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&id, "id", "", "copy id, generated when empty")
	flags.StringVar(&edition, "edition", "", "edition id")
	flags.IntVar(&count, "count", 1, "number of copies to add")
	flags.BoolVar(&readingRoomOnly, "reading-room-only", false, "the copy cannot leave the reading room")

	return cmd
}

func newRemoveCopyCommand(a *app) *cobra.Command {
	var copyFlag string

	cmd := &cobra.Command{
		Use:   "remove-copy",
		Short: "Remove a copy from circulation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			copyID, err := parseID("copy", copyFlag)
			if err != nil {
				return err
			}

			command := removebookcopy.BuildCommand(copyID)

			result, err := a.handlers.removeCopy.Handle(cmd.Context(), command)
			if err != nil {
				return err
			}

			return a.printResult(command.CommandType(), result, nil)
		},
	}

	cmd.Flags().StringVar(&copyFlag, "copy", "", "copy id")

	return cmd
}
