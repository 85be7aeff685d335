package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/cli"
	"tally/internal/core"
	"tally/internal/services"
)

func newEditCommand(open Opener) *cobra.Command {
	var description, amount, category string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an expense's description, amount or category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in services.EditInput
			if cmd.Flags().Changed("description") {
				in.Description = &description
			}
			if cmd.Flags().Changed("amount") {
				in.Amount = &amount
			}
			if cmd.Flags().Changed("category") {
				in.Category = &category
			}

			if in.IsEmpty() {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to change.")
				return nil
			}

			return withApp(cmd, open, func(app *cli.App) error {
				before, _ := app.Service.Store().Get(args[0])
				e, err := app.Service.EditExpense(cmd.Context(), args[0], in)
				if err != nil {
					return err
				}
				if e == before {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to change.")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s (%s) %s\n",
					e.Category.Icon(), e.Description, e.Category.Label(), core.FormatCurrency(e.Amount))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "new description; blank keeps the current one")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "new amount; invalid or zero keeps the current one")
	cmd.Flags().StringVarP(&category, "category", "c", "", "new category")

	return cmd
}
