package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/agent-knowledge/internal/memory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search memories by keyword",
		Long: "Rank memories by keyword matches in category, tags and summary, " +
			"weighted by confidence, popularity and recency. Content is not searched.",
		Args: cobra.MinimumNArgs(1),
		Run:  runSearch,
	}

	cmd.Flags().StringP("category", "c", "", "Filter by category")
	cmd.Flags().StringP("status", "s", "active", "Filter by status: active, retired or all")
	cmd.Flags().IntP("limit", "l", memory.DefaultSearchLimit, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	svc, closeFn, err := openService()
	if err != nil {
		exitErr("open store", err)
	}
	defer closeFn()

	res, err := svc.Search(cmd.Context(), memory.SearchParams{
		Query:    query,
		Category: category,
		Status:   status,
		Limit:    limit,
	})
	if err != nil {
		closeFn()
		exitErr("search", err)
	}

	if textFormat() {
		w := cmd.OutOrStdout()
		for _, h := range res.Hits {
			fmt.Fprintf(w, "%s  %5.2f  [%s]  %s\n", h.ID, h.RelevanceScore, h.Category, h.Summary)
		}
		fmt.Fprintf(w, "%d of %d searched\n", len(res.Hits), res.TotalSearched)
		return
	}
	printJSON(cmd.OutOrStdout(), res)
}
