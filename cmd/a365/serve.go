package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agent365/observability/pkg/cli"
	"agent365/observability/pkg/server"
	"agent365/observability/pkg/telemetry/health"

	"github.com/spf13/cobra"
)

var serveFlags struct {
	tenant   string
	agent    string
	token    string
	name     string
	listen   string
	interval time.Duration
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Send probe spans periodically and serve metrics and health",
	Long: `Run a synthetic monitor: every --interval a probe span is exported for the
given tenant and agent, and the exporter's Prometheus metrics plus liveness
and readiness endpoints are served on the diagnostics address.

/ready fails once the exporter is shut down or while the latest probe
export failed.

Examples:
  A365_TOKEN=... a365 serve --tenant <id> --agent <id> --interval 30s
  a365 serve --tenant <id> --agent <id> --token "$TOKEN" --listen :9464`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveFlags.tenant, "tenant", "", "tenant id (required)")
	serveCmd.Flags().StringVar(&serveFlags.agent, "agent", "", "agent id (required)")
	serveCmd.Flags().StringVar(&serveFlags.token, "token", "", "bearer token (defaults to $"+tokenEnv+")")
	serveCmd.Flags().StringVar(&serveFlags.name, "name", "a365.probe", "span name")
	serveCmd.Flags().StringVar(&serveFlags.listen, "listen", "", "diagnostics listen address (uses config if not specified)")
	serveCmd.Flags().DurationVar(&serveFlags.interval, "interval", time.Minute, "probe interval")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := cli.SetupSignalHandler()
	defer stop()
	return serve(ctx, cmd, nil)
}

// serve runs until ctx is cancelled. started, when non-nil, receives the
// diagnostics server once it is listening.
func serve(ctx context.Context, cmd *cobra.Command, started chan<- *server.Server) error {
	if strings.TrimSpace(serveFlags.tenant) == "" || strings.TrimSpace(serveFlags.agent) == "" {
		return cli.NewConfigError("tenant/agent", "--tenant and --agent are required")
	}
	if serveFlags.interval <= 0 {
		return cli.NewConfigError("interval", "--interval must be positive")
	}
	token := resolveToken(serveFlags.token)
	if token == "" {
		return cli.NewConfigError("token", "a bearer token is required (--token or $"+tokenEnv+")")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveFlags.listen != "" {
		cfg.Telemetry.Diagnostics.ListenAddress = serveFlags.listen
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	p, err := newPipeline(cfg, logger, token, true, false)
	if err != nil {
		return err
	}
	defer p.shutdown()

	checker := health.New(cfg.Telemetry.Diagnostics.CheckTimeout)
	checker.Register("exporter", p.exporter.Ready)
	checker.Register("last_export", p.capture.LastExport)

	srv := server.New(&cfg.Telemetry.Diagnostics, checker, p.collector.Registry(),
		server.WithLogger(logger),
		server.WithBuildInfo(server.BuildInfo{Version: Version, Commit: GitCommit, BuildDate: BuildDate}),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Start(ctx)
	}()

	if started != nil {
		for srv.Addr() == nil {
			select {
			case err := <-srvErr:
				return cli.NewCommandError("serve", err)
			case <-time.After(5 * time.Millisecond):
			}
		}
		started <- srv
	}

	fmt.Fprintf(stdout(cmd), "Sending probe spans every %s for tenant %s agent %s\n",
		serveFlags.interval, serveFlags.tenant, serveFlags.agent)

	ticker := time.NewTicker(serveFlags.interval)
	defer ticker.Stop()
	for {
		if err := p.emit(ctx, serveFlags.tenant, serveFlags.agent, serveFlags.name, 1); err != nil && ctx.Err() == nil {
			logger.Warn("probe failed", "error", err)
		}

		select {
		case <-ctx.Done():
			cancel()
			if err := <-srvErr; err != nil {
				return cli.NewCommandError("serve", err)
			}
			return nil
		case err := <-srvErr:
			if err != nil {
				return cli.NewCommandError("serve", err)
			}
			return nil
		case <-ticker.C:
		}
	}
}
