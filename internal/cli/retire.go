package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "retire [memory-id]",
		Short: "Retire a memory",
		Long:  "Mark a memory retired and lower its confidence. Its content stays readable.",
		Args:  cobra.ExactArgs(1),
		Run:   runRetire,
	}

	RootCmd.AddCommand(cmd)
}

func runRetire(cmd *cobra.Command, args []string) {
	svc, closeFn, err := openService()
	if err != nil {
		exitErr("open store", err)
	}
	defer closeFn()

	rec, err := svc.Retire(cmd.Context(), args[0])
	if err != nil {
		closeFn()
		exitErr("retire", err)
	}

	if textFormat() {
		fmt.Fprintf(cmd.OutOrStdout(), "Retired %s\n", rec.ID)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"memory_id":%q,"status":%q}`+"\n", rec.ID, rec.Status)
}
