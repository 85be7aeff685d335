package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tally/internal/cli"
	"tally/internal/core"
	"tally/internal/services"
)

func newStatsCommand(open Opener) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show totals and the per-category breakdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(app *cli.App) error {
				return renderSummary(cmd.OutOrStdout(), app.Service.Summarize(filter))
			})
		},
	}

	cmd.Flags().StringVarP(&filter, "category", "c", core.FilterAll, `category for the filtered total, or "all"`)

	return cmd
}

func renderSummary(w io.Writer, s services.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total:\t%s\n", core.FormatCurrency(s.Total))
	fmt.Fprintf(tw, "Filtered (%s):\t%s\n", s.Filter, core.FormatCurrency(s.FilteredTotal))
	fmt.Fprintf(tw, "Count:\t%s\n", core.Pluralize(s.Count))
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	if len(s.Breakdown) == 0 {
		_, err := fmt.Fprintln(w, "No data available")
		return err
	}

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, st := range s.Breakdown {
		fmt.Fprintf(tw, "%s %s\t%s\t%s\n",
			st.Category.Icon(), st.Category.Label(),
			core.FormatCurrency(st.Total),
			core.Pluralize(st.Count))
	}
	return tw.Flush()
}
