package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	categoryCmd := &cobra.Command{
		Use:   "category",
		Short: "Category overview",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List categories in use with their counts",
		Run:   runCategoryList,
	}

	categoryCmd.AddCommand(listCmd)
	RootCmd.AddCommand(categoryCmd)
}

func runCategoryList(cmd *cobra.Command, args []string) {
	svc, closeFn, err := openService()
	if err != nil {
		exitErr("open store", err)
	}
	defer closeFn()

	stats, err := svc.Stats(cmd.Context())
	if err != nil {
		closeFn()
		exitErr("list categories", err)
	}

	if textFormat() {
		for _, c := range stats.Categories {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%d\n", c.Category, c.Active, c.Retired)
		}
		return
	}
	printJSON(cmd.OutOrStdout(), stats.Categories)
}
