// Package config resolves where the knowledge base lives and how the
// process logs, from an optional .env file and AGENT_KNOWLEDGE_* variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/rcliao/agent-knowledge/internal/logger"
	"github.com/rcliao/agent-knowledge/internal/store"
)

// Environment variables.
const (
	EnvDir       = "AGENT_KNOWLEDGE_DIR"
	EnvBackend   = "AGENT_KNOWLEDGE_BACKEND"
	EnvLogLevel  = "AGENT_KNOWLEDGE_LOG_LEVEL"
	EnvLogPretty = "AGENT_KNOWLEDGE_LOG_PRETTY"
	EnvLogFile   = "AGENT_KNOWLEDGE_LOG_FILE"
)

const (
	defaultDirName  = ".agent-knowledge"
	defaultLogLevel = "warn"
)

// Config is the resolved process configuration.
type Config struct {
	Dir       string
	Backend   string
	LogLevel  string
	LogPretty bool
	LogFile   string
}

// Load reads envFile, or ./.env when envFile is empty, and then the
// environment. Variables already set in the environment win over the file.
// A missing default .env is not an error; a missing explicit one is.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &Config{
		Dir:      getEnvOrDefault(EnvDir, DefaultDir()),
		Backend:  getEnvOrDefault(EnvBackend, store.BackendFile),
		LogLevel: getEnvOrDefault(EnvLogLevel, defaultLogLevel),
		LogFile:  os.Getenv(EnvLogFile),
	}
	if v := os.Getenv(EnvLogPretty); v != "" {
		pretty, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLogPretty, err)
		}
		cfg.LogPretty = pretty
	}
	cfg.Dir = expandHome(cfg.Dir)

	return cfg, nil
}

// Validate rejects unknown backends and log levels.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Dir) == "" {
		return fmt.Errorf("knowledge directory is required")
	}
	switch c.Backend {
	case store.BackendFile, store.BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (valid: %s, %s)", c.Backend, store.BackendFile, store.BackendSQLite)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return nil
}

// OpenStore opens the configured backend.
func OpenStore(c *Config) (store.Store, error) {
	return store.Open(c.Backend, c.Dir)
}

// Logger builds the configured logger.
func (c *Config) Logger() (*logger.Logger, error) {
	return logger.New(logger.Config{
		Level:  c.LogLevel,
		Pretty: c.LogPretty,
		File:   c.LogFile,
	})
}

// DefaultDir is ~/.agent-knowledge, or a relative .agent-knowledge when the
// home directory is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultDirName
	}
	return filepath.Join(home, defaultDirName)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func expandHome(dir string) string {
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return dir
	}
	return filepath.Join(home, strings.TrimPrefix(dir, "~"))
}
