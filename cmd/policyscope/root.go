package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"policyscope/internal/config"
	"policyscope/internal/logger"
)

// Persistent flag variables.
var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "policyscope",
	Short: "policyscope: normalize and inspect Intune policies",
	Long: `policyscope reads device configuration, compliance, app protection and
settings catalog policies from Microsoft Graph and turns them into one
uniform record with categorized, human readable settings.

The bearer token is read from the environment variable named by
graph.token_env (GRAPH_TOKEN by default).`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Path to YAML config (default: built-in sources)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Override logging.format (text, json)")
}

// loadConfig reads --config, or the defaults when it is unset.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()

	if flagConfig != "" {
		loaded, err := config.LoadConfig(flagConfig)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}

	if flagLogFormat != "" {
		cfg.Logging.Format = flagLogFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func newLogger(cfg *config.Config) *logger.Logger {
	return logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})
}
