package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/cli"
	"tally/internal/core"
)

func newAddCommand(open Opener) *cobra.Command {
	var description, amount, category string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(app *cli.App) error {
				e, err := app.Service.CreateExpense(cmd.Context(), description, amount, category)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s (%s) %s\n",
					e.Category.Icon(), e.Description, e.Category.Label(), core.FormatCurrency(e.Amount))
				fmt.Fprintln(cmd.OutOrStdout(), e.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "what the money was spent on (required)")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "amount spent (required)")
	cmd.Flags().StringVarP(&category, "category", "c", string(core.Other), "expense category")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
