package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/agent-knowledge/internal/memory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import memories from JSON",
		Long: "Import memories from JSON on stdin, in the format produced by export. " +
			"Imported memories get fresh ids; ones refused as duplicates are skipped.",
		Run: runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		exitErr("read stdin", err)
	}

	var memories []memory.ExportedMemory
	if err := json.Unmarshal(data, &memories); err != nil {
		exitErr("parse json", err)
	}

	svc, closeFn, err := openService()
	if err != nil {
		exitErr("open store", err)
	}
	defer closeFn()

	res, err := svc.Import(cmd.Context(), memories)
	if err != nil {
		closeFn()
		exitErr("import", err)
	}

	printJSON(cmd.OutOrStdout(), res)
}
