package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/agent-knowledge/internal/memory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "update [memory-id] [content]",
		Short: "Update a memory",
		Long: "Update a memory. New content can follow the id or be piped via stdin; " +
			"fields that are not given keep their values.",
		Args: cobra.MinimumNArgs(1),
		Run:  runUpdate,
	}

	cmd.Flags().StringP("summary", "s", "", "New summary")
	cmd.Flags().StringP("tags", "t", "", "Replace tags (comma-separated, empty clears)")
	cmd.Flags().Float64("confidence", 0, "New confidence from 0.0 to 1.0")

	RootCmd.AddCommand(cmd)
}

func runUpdate(cmd *cobra.Command, args []string) {
	summary, _ := cmd.Flags().GetString("summary")

	content, err := readContent(args[1:])
	if err != nil {
		exitErr("read stdin", err)
	}

	svc, closeFn, err := openService()
	if err != nil {
		exitErr("open store", err)
	}
	defer closeFn()

	rec, err := svc.Update(cmd.Context(), memory.UpdateParams{
		ID:         args[0],
		Content:    content,
		Summary:    summary,
		Tags:       tagsFlag(cmd),
		Confidence: confidenceFlag(cmd),
	})
	if err != nil {
		closeFn()
		exitErr("update", err)
	}

	if textFormat() {
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", rec.ID)
		return
	}
	printJSON(cmd.OutOrStdout(), rec)
}
