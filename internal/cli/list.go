package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rcliao/agent-knowledge/internal/memory"
	"github.com/rcliao/agent-knowledge/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List memories, most recently updated first",
		Run:   runList,
	}

	cmd.Flags().StringP("category", "c", "", "Filter by category")
	cmd.Flags().StringP("status", "s", "active", "Filter by status: active, retired or all")
	cmd.Flags().StringP("tags", "t", "", "Filter by tags (comma-separated, all must match)")
	cmd.Flags().IntP("limit", "l", memory.DefaultListLimit, "Max results")
	cmd.Flags().Bool("ids-only", false, "Only output memory ids")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")
	status, _ := cmd.Flags().GetString("status")
	tagsStr, _ := cmd.Flags().GetString("tags")
	limit, _ := cmd.Flags().GetInt("limit")
	idsOnly, _ := cmd.Flags().GetBool("ids-only")

	svc, closeFn, err := openService()
	if err != nil {
		exitErr("open store", err)
	}
	defer closeFn()

	records, err := svc.List(cmd.Context(), memory.ListParams{
		Category: category,
		Status:   status,
		Tags:     model.ParseTags(tagsStr),
		Limit:    limit,
	})
	if err != nil {
		closeFn()
		exitErr("list", err)
	}

	w := cmd.OutOrStdout()
	if idsOnly {
		for _, r := range records {
			fmt.Fprintln(w, r.ID)
		}
		return
	}

	if textFormat() {
		for _, r := range records {
			fmt.Fprintf(w, "%s  %-8s  [%s]  %s", r.ID, r.Status, r.Category, r.Summary)
			if len(r.Tags) > 0 {
				fmt.Fprintf(w, "  #%s", strings.Join(r.Tags, " #"))
			}
			fmt.Fprintf(w, "  (updated %s, %s)\n", ago(r.Updated), reads(r.AccessCount))
		}
		return
	}
	printJSON(w, records)
}

// ago renders a stored timestamp relative to now, or verbatim when it does
// not parse.
func ago(ts string) string {
	t, err := model.ParseTime(ts)
	if err != nil {
		return ts
	}
	return humanize.Time(t)
}

func reads(n int) string {
	if n == 1 {
		return "1 read"
	}
	return humanize.Comma(int64(n)) + " reads"
}
