package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/agent-knowledge/internal/memory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "create [content]",
		Short: "Store a memory",
		Long: "Store a memory. Content can be a positional arg or piped via stdin. " +
			"Creation is refused when the content closely matches an active memory's summary.",
		Run: runCreate,
	}

	cmd.Flags().StringP("category", "c", "", "Category, e.g. user_profile or business_rules (required)")
	cmd.Flags().StringP("summary", "s", "", "One-line summary used for search (required)")
	cmd.Flags().StringP("tags", "t", "", "Comma-separated tags")
	cmd.Flags().Float64("confidence", 0.8, "Confidence from 0.0 to 1.0")

	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("summary")

	RootCmd.AddCommand(cmd)
}

func runCreate(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")
	summary, _ := cmd.Flags().GetString("summary")

	content, err := readContent(args)
	if err != nil {
		exitErr("read stdin", err)
	}

	svc, closeFn, err := openService()
	if err != nil {
		exitErr("open store", err)
	}
	defer closeFn()

	rec, err := svc.Create(cmd.Context(), memory.CreateParams{
		Content:    content,
		Category:   category,
		Summary:    summary,
		Tags:       tagsFlag(cmd),
		Confidence: confidenceFlag(cmd),
	})
	if err != nil {
		closeFn()
		exitErr("create", err)
	}

	if textFormat() {
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s in category '%s' (file: %s)\n", rec.ID, rec.Category, rec.FilePath)
		return
	}
	printJSON(cmd.OutOrStdout(), rec)
}
