package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"agent365/observability/pkg/cli"
	"agent365/observability/pkg/config"
	"agent365/observability/pkg/telemetry/logging"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "a365",
	Short: "a365 - Agent365 telemetry exporter tool",
	Long: `a365 inspects and exercises the Agent365 telemetry export pipeline.

Spans are partitioned by tenant and agent, posted to the tenant's sharded
ingestion endpoint, and retried on transient failures. This tool shows
where a tenant's spans go, checks configuration, and sends probe spans.

Configuration is read from --config (YAML) when given, then overridden by
A365_* environment variables.`,
	Version:      Version,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults and environment only when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}

// loadRawConfig reads cfgFile over the defaults, applies environment
// overrides and stops short of validation.
func loadRawConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		data, err := os.ReadFile(cfgFile)
		if err != nil {
			return nil, cli.NewConfigError("", fmt.Sprintf("failed to read config: %v", err))
		}
		if cfg, err = config.Parse(data); err != nil {
			return nil, cli.NewConfigError("", fmt.Sprintf("failed to parse config %q: %v", cfgFile, err))
		}
	}
	if err := config.ApplyEnvOverrides(cfg); err != nil {
		return nil, cli.NewConfigError("", err.Error())
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, nil
}

// loadConfig is loadRawConfig followed by validation.
func loadConfig() (*config.Config, error) {
	cfg, err := loadRawConfig()
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, cli.NewConfigError("", err.Error())
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.New(cfg.Telemetry.Logging, os.Stderr)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	return logger, nil
}

// stdout returns the command's output writer; tests call RunE funcs with a
// nil command.
func stdout(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return os.Stdout
	}
	return cmd.OutOrStdout()
}
