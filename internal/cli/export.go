package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export memories as JSON",
		Long:  "Export every memory, retired ones included, with its content as a JSON array.",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	svc, closeFn, err := openService()
	if err != nil {
		exitErr("open store", err)
	}
	defer closeFn()

	memories, err := svc.Export(cmd.Context())
	if err != nil {
		closeFn()
		exitErr("export", err)
	}

	printJSON(cmd.OutOrStdout(), memories)
}
