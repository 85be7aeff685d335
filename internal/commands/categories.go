package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/core"
)

func newCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the available categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range core.Categories() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s %s\n", c, c.Icon(), c.Label())
			}
			return nil
		},
	}
}
