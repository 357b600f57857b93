package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/shell"
)

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "library",
		Short:         "Lend library book copies under the lending policy",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.teardown()
		},
	}

	a.bindGlobalFlags(root)

	root.AddCommand(
		newInitSchemaCommand(a),
		newRegisterReaderCommand(a),
		newDefineDomainCommand(a),
		newRegisterBookCommand(a),
		newAddEditionCommand(a),
		newAddCopyCommand(a),
		newRemoveCopyCommand(a),
		newBorrowCommand(a),
		newBorrowManyCommand(a),
		newReturnCommand(a),
		newExtendCommand(a),
		newLoansCommand(a),
		newStockCommand(a),
		newReadersCommand(a),
		newBooksCommand(a),
		newDemoCommand(a),
	)

	return root
}

func newInitSchemaCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init-schema",
		Short: "Create the events table of the selected store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.CreateSchema(cmd.Context()); err != nil {
				return err
			}

			return a.print(map[string]string{"store": a.store.Kind(), "schema": "created"})
		},
	}
}

// commandOutput is printed for every successful command.
type commandOutput struct {
	Command string              `json:"command"`
	IDs     map[string]string   `json:"ids,omitempty"`
	Result  shell.HandlerResult `json:"result"`
}

func (a *app) printResult(commandType string, result shell.HandlerResult, ids map[string]string) error {
	return a.print(commandOutput{Command: commandType, IDs: ids, Result: result})
}

// parseID parses a required id flag.
func parseID(flag string, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, fmt.Errorf("--%s is required", flag)
	}

	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("--%s: %w", flag, err)
	}

	return id, nil
}

// parseOptionalID parses an optional id flag, empty yields uuid.Nil.
func parseOptionalID(flag string, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, nil
	}

	return parseID(flag, value)
}

// parseIDOrNew parses the id of an entity to create, empty generates a new one.
func parseIDOrNew(flag string, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.New(), nil
	}

	return parseID(flag, value)
}

func parseIDs(flag string, values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))

	for _, value := range values {
		id, err := parseID(flag, strings.TrimSpace(value))
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, nil
}
