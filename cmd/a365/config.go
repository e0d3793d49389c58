package main

import (
	"errors"
	"fmt"

	"agent365/observability/pkg/cli"
	"agent365/observability/pkg/config"
	"agent365/observability/pkg/endpoint"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect exporter configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long: `Load the configuration (file plus A365_* environment overrides) and report
every validation problem at once.

Examples:
  a365 config validate --config a365.yaml
  A365_DELIVERY_MAX_RETRIES=20 a365 config validate`,
	RunE: validateConfig,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE:  showConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadRawConfig()
	if err != nil {
		return err
	}

	w := stdout(cmd)
	if err := config.Validate(cfg); err != nil {
		var verr config.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(w, "✗ %d configuration error(s):\n", len(verr.Errors))
			for _, fe := range verr.Errors {
				fmt.Fprintf(w, "  - %s\n", fe.Error())
			}
			return cli.NewConfigError("", fmt.Sprintf("%d validation error(s)", len(verr.Errors)))
		}
		return cli.NewConfigError("", err.Error())
	}

	fmt.Fprintln(w, "✓ Configuration is valid")
	if base, ok := endpoint.ParseOverride(cfg.DomainOverride); ok {
		fmt.Fprintf(w, "  domain override: %s\n", base)
	} else if cfg.DomainOverride != "" {
		fmt.Fprintf(w, "  domain override %q is invalid and will be ignored\n", cfg.DomainOverride)
	}
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadRawConfig()
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return cli.NewCommandError("config show", err)
	}
	_, err = stdout(cmd).Write(out)
	return err
}
