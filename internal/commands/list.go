package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"tally/internal/cli"
	"tally/internal/core"
)

func newListCommand(open Opener) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List expenses, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(app *cli.App) error {
				return renderList(cmd.OutOrStdout(), filter, app.Service.List(filter), time.Local)
			})
		},
	}

	cmd.Flags().StringVarP(&filter, "category", "c", core.FilterAll, `category to show, or "all"`)

	return cmd
}

func renderList(w io.Writer, filter string, expenses []core.Expense, loc *time.Location) error {
	if len(expenses) == 0 {
		_, err := fmt.Fprintln(w, emptyListMessage(filter))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tDESCRIPTION\tAMOUNT")
	for _, e := range expenses {
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%s\n",
			e.ID,
			core.FormatDate(e.Date, loc),
			e.Category.Icon(), e.Category.Label(),
			e.Description,
			core.FormatCurrency(e.Amount))
	}
	return tw.Flush()
}

func emptyListMessage(filter string) string {
	if filter == core.FilterAll {
		return "No expenses yet. Add your first expense with `tally add`!"
	}
	name := "selected"
	if c := core.Category(filter); c.Valid() {
		name = c.Label()
	}
	return fmt.Sprintf("No expenses found in the %s category.", name)
}
