package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/agent-knowledge/internal/memory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "consolidate [memory-id...]",
		Short: "Merge memories into a new one",
		Long: "Merge two or more memories into a new memory and retire the sources. " +
			"Ids may be separate args or comma-separated. Merged content comes from --content or stdin.",
		Args: cobra.MinimumNArgs(1),
		Run:  runConsolidate,
	}

	cmd.Flags().String("content", "", "Merged content (default: stdin)")
	cmd.Flags().StringP("summary", "s", "", "Summary of the merged memory (required)")
	cmd.Flags().StringP("tags", "t", "", "Extra comma-separated tags")
	cmd.Flags().Float64("confidence", 0, "Confidence (default: highest source confidence)")

	cmd.MarkFlagRequired("summary")

	RootCmd.AddCommand(cmd)
}

func runConsolidate(cmd *cobra.Command, args []string) {
	summary, _ := cmd.Flags().GetString("summary")
	content, _ := cmd.Flags().GetString("content")
	if content == "" {
		var err error
		if content, err = readContent(nil); err != nil {
			exitErr("read stdin", err)
		}
	}

	svc, closeFn, err := openService()
	if err != nil {
		exitErr("open store", err)
	}
	defer closeFn()

	res, err := svc.Consolidate(cmd.Context(), memory.ConsolidateParams{
		IDs:        memory.ParseIDs(strings.Join(args, ",")),
		Content:    content,
		Summary:    summary,
		Tags:       tagsFlag(cmd),
		Confidence: confidenceFlag(cmd),
	})
	if err != nil {
		closeFn()
		exitErr("consolidate", err)
	}

	if textFormat() {
		fmt.Fprintf(cmd.OutOrStdout(), "Consolidated %s into %s\n", strings.Join(res.Sources, ", "), res.Record.ID)
		return
	}
	printJSON(cmd.OutOrStdout(), res)
}
