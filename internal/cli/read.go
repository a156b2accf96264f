package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "read [memory-id]",
		Short: "Read a memory's full content",
		Args:  cobra.ExactArgs(1),
		Run:   runRead,
	}

	RootCmd.AddCommand(cmd)
}

func runRead(cmd *cobra.Command, args []string) {
	svc, closeFn, err := openService()
	if err != nil {
		exitErr("open store", err)
	}
	defer closeFn()

	res, err := svc.Read(cmd.Context(), args[0])
	if err != nil {
		closeFn()
		exitErr("read", err)
	}

	if textFormat() {
		r := res.Record
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s [%s] %s\n", r.ID, r.Category, r.Summary)
		if len(r.Tags) > 0 {
			fmt.Fprintf(w, "tags: %s\n", strings.Join(r.Tags, ", "))
		}
		fmt.Fprintf(w, "status: %s, confidence: %v, reads: %d\n\n", r.Status, r.Confidence, r.AccessCount)
		fmt.Fprintln(w, res.Content)
		return
	}
	printJSON(cmd.OutOrStdout(), res)
}
