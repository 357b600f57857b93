package main

import (
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/lending-policy-engine/lending/features/query/catalog"
	"github.com/AntonStoeckl/lending-policy-engine/lending/features/query/registeredreaders"
)

func newReadersCommand(a *app) *cobra.Command {
	var reader, kind string

	cmd := &cobra.Command{
		Use:   "readers",
		Short: "List the registered readers, or show one with --reader",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			readerID, err := parseOptionalID("reader", reader)
			if err != nil {
				return err
			}

			query := registeredreaders.BuildQuery(strings.ToUpper(kind))
			if readerID != uuid.Nil {
				query = registeredreaders.BuildQueryForReader(readerID)
			}

			result, err := a.handlers.readers.Handle(cmd.Context(), query)
			if err != nil {
				return err
			}

			return a.print(result)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&reader, "reader", "", "reader id")
	flags.StringVar(&kind, "kind", "", "only readers of this kind: STANDARD or STAFF")

	return cmd
}

func newBooksCommand(a *app) *cobra.Command {
	var book, domain string

	cmd := &cobra.Command{
		Use:   "books",
		Short: "List the books of the catalog, of a domain with --domain, or show one with --book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bookID, err := parseOptionalID("book", book)
			if err != nil {
				return err
			}

			domainID, err := parseOptionalID("domain", domain)
			if err != nil {
				return err
			}

			query := catalog.BuildQuery(domainID)
			if bookID != uuid.Nil {
				query = catalog.BuildQueryForBook(bookID)
			}

			result, err := a.handlers.books.Handle(cmd.Context(), query)
			if err != nil {
				return err
			}

			return a.print(result)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&book, "book", "", "book id")
	flags.StringVar(&domain, "domain", "", "domain id, includes its subdomains")

	return cmd
}
