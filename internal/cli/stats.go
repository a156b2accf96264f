package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show knowledge base statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	svc, closeFn, err := openService()
	if err != nil {
		exitErr("open store", err)
	}
	defer closeFn()

	stats, err := svc.Stats(cmd.Context())
	if err != nil {
		closeFn()
		exitErr("stats", err)
	}

	if textFormat() {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "location:   %s\n", stats.Location)
		fmt.Fprintf(w, "memories:   %s active, %s retired\n",
			humanize.Comma(int64(stats.ActiveMemories)), humanize.Comma(int64(stats.RetiredMemories)))
		fmt.Fprintf(w, "reads:      %s\n", humanize.Comma(int64(stats.TotalAccesses)))
		fmt.Fprintf(w, "next id:    %d\n", stats.NextID)
		fmt.Fprintf(w, "updated:    %s\n", ago(stats.LastUpdated))
		for _, c := range stats.Categories {
			fmt.Fprintf(w, "  %-22s %d active, %d retired\n", c.Category, c.Active, c.Retired)
		}
		return
	}
	printJSON(cmd.OutOrStdout(), stats)
}
