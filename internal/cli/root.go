// Package cli implements the agent-knowledge CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/agent-knowledge/internal/config"
	"github.com/rcliao/agent-knowledge/internal/logger"
	"github.com/rcliao/agent-knowledge/internal/memory"
	"github.com/rcliao/agent-knowledge/internal/model"
	"github.com/rcliao/agent-knowledge/internal/store"
)

var (
	dirFlag      string
	backendFlag  string
	logLevelFlag string
	envFileFlag  string
	formatFlag   string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "agent-knowledge",
	Short: "File-backed long-term memory for AI agents",
	Long: "A keyword-indexed knowledge base for agents. Memories are markdown files " +
		"described by a JSON index; search, read and manage them from the shell or as tools.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "d", "", "Knowledge directory (default: $AGENT_KNOWLEDGE_DIR or ~/.agent-knowledge)")
	RootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Storage backend: file or sqlite (default: $AGENT_KNOWLEDGE_BACKEND or file)")
	RootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (default: $AGENT_KNOWLEDGE_LOG_LEVEL or warn)")
	RootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", "", "Load variables from this .env file (default: ./.env if present)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFileFlag)
	if err != nil {
		return nil, err
	}
	if dirFlag != "" {
		cfg.Dir = dirFlag
	}
	if backendFlag != "" {
		cfg.Backend = backendFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session is an opened knowledge base with its logger.
type session struct {
	svc   *memory.Service
	log   *logger.Logger
	store store.Store
}

func (s *session) Close() {
	s.store.Close()
	s.log.Close()
}

// openSession wires config, logger and store into a memory service.
func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := cfg.Logger()
	if err != nil {
		return nil, err
	}

	st, err := config.OpenStore(cfg)
	if err != nil {
		log.Close()
		return nil, err
	}

	log.Zerolog().Debug().
		Str("dir", cfg.Dir).
		Str("backend", cfg.Backend).
		Str("location", st.Location()).
		Msg("store opened")

	return &session{
		svc:   memory.New(memory.Config{Store: st, Logger: log.Zerolog()}),
		log:   log,
		store: st,
	}, nil
}

// openService is openSession for commands that only need the service. The
// returned func releases the store and the log file.
func openService() (*memory.Service, func(), error) {
	s, err := openSession()
	if err != nil {
		return nil, nil, err
	}
	return s.svc, s.Close, nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

func textFormat() bool {
	return formatFlag == "text"
}

func printJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

// readContent returns the positional args joined, or piped stdin when there
// are none.
func readContent(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	stat, err := os.Stdin.Stat()
	if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
		return "", nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// confidenceFlag returns nil unless --confidence was given.
func confidenceFlag(cmd *cobra.Command) *float64 {
	if !cmd.Flags().Changed("confidence") {
		return nil
	}
	c, _ := cmd.Flags().GetFloat64("confidence")
	return &c
}

// tagsFlag returns nil unless --tags was given, so an explicit empty value
// clears tags on update.
func tagsFlag(cmd *cobra.Command) []string {
	if !cmd.Flags().Changed("tags") {
		return nil
	}
	s, _ := cmd.Flags().GetString("tags")
	return model.ParseTags(s)
}
