package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/logstate/internal/config"
	"github.com/aretw0/logstate/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "logstated",
	Short: "logstated tracks whether a logging session is active",
	Long: `logstated keeps a single in-memory logging state (current path, previous path,
active flag) and exposes start, stop and status over HTTP or MCP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	addConfigFlags(rootCmd)
}

// addConfigFlags registers the persistent flags read by loadConfig.
func addConfigFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "Path to a YAML or JSON config file")
	cmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().String("log-format", "", "Log format: text or json")
}

// loadConfig reads the config file and environment, then applies the persistent
// flags on top. cmd must have parsed its flags, which cobra does before RunE.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	flags := cmd.Flags()
	path, err := flags.GetString("config")
	if err != nil {
		return nil, nil, err
	}
	lvl, err := flags.GetString("log-level")
	if err != nil {
		return nil, nil, err
	}
	format, err := flags.GetString("log-format")
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if lvl != "" {
		cfg.Log.Level = lvl
	}
	if format != "" {
		cfg.Log.Format = format
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := logging.New(logging.Options{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	})
	for _, name := range cfg.IgnoredEnv {
		logger.Warn("Ignoring unknown environment variable", "name", name)
	}
	return cfg, logger, nil
}
