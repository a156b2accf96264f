package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/agent-knowledge/internal/tools"
)

func init() {
	toolCmd := &cobra.Command{
		Use:   "tool [name] [json-args]",
		Short: "Call a memory tool the way an agent would",
		Long: "Call search_memory_index, read_memory_file or manage_memory with JSON arguments " +
			"(positional or stdin) and print the tool's in-band result.",
		Args: cobra.RangeArgs(1, 2),
		Run:  runTool,
	}

	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the tool definitions with their JSON schemas",
		Run: func(cmd *cobra.Command, args []string) {
			printJSON(cmd.OutOrStdout(), tools.Definitions())
		},
	}

	promptCmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the system prompt block describing the memory tools",
		Run: func(cmd *cobra.Command, args []string) {
			concise, _ := cmd.Flags().GetBool("concise")
			fmt.Fprintln(cmd.OutOrStdout(), tools.SystemPrompt(concise))
		},
	}
	promptCmd.Flags().Bool("concise", false, "Short version for token-limited contexts")

	RootCmd.AddCommand(toolCmd, toolsCmd, promptCmd)
}

func runTool(cmd *cobra.Command, args []string) {
	raw, err := readContent(args[1:])
	if err != nil {
		exitErr("read stdin", err)
	}

	sess, err := openSession()
	if err != nil {
		exitErr("open store", err)
	}
	defer sess.Close()

	tl, err := tools.New(sess.svc, sess.log.Zerolog())
	if err != nil {
		sess.Close()
		exitErr("load tools", err)
	}

	out := tl.Call(cmd.Context(), args[0], []byte(strings.TrimSpace(raw)))
	fmt.Fprintln(cmd.OutOrStdout(), out)
}
