package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"agent365/observability/pkg/cli"
	"agent365/observability/pkg/config"
	"agent365/observability/pkg/endpoint"
	"agent365/observability/pkg/exporter"
	"agent365/observability/pkg/telemetry/metrics"

	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var probeFlags struct {
	tenant  string
	agent   string
	token   string
	name    string
	count   int
	timeout time.Duration
	dryRun  bool
	format  string
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Send probe spans through the export pipeline",
	Long: `Start spans inside a baggage scope carrying the tenant and agent ids and
export them with the configured exporter, exactly as an instrumented agent
would.

With --dry-run nothing is sent; the payload each identity group would
receive is printed instead.

Examples:
  a365 probe --tenant <tenant-id> --agent <agent-id> --token "$TOKEN"
  A365_TOKEN=... a365 probe --tenant <id> --agent <id> --count 3
  a365 probe --tenant <id> --agent <id> --dry-run`,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().StringVar(&probeFlags.tenant, "tenant", "", "tenant id (required)")
	probeCmd.Flags().StringVar(&probeFlags.agent, "agent", "", "agent id (required)")
	probeCmd.Flags().StringVar(&probeFlags.token, "token", "", "bearer token (defaults to $"+tokenEnv+")")
	probeCmd.Flags().StringVar(&probeFlags.name, "name", "a365.probe", "span name")
	probeCmd.Flags().IntVar(&probeFlags.count, "count", 1, "number of spans to send")
	probeCmd.Flags().DurationVar(&probeFlags.timeout, "timeout", 0, "overall deadline (0 = none)")
	probeCmd.Flags().BoolVar(&probeFlags.dryRun, "dry-run", false, "print payloads instead of sending them")
	probeCmd.Flags().StringVar(&probeFlags.format, "format", "text", "output format: text, json")
}

type probeResult struct {
	Result   string             `json:"result"`
	Spans    int                `json:"spans"`
	Errors   []string           `json:"errors,omitempty"`
	Attempts map[string]float64 `json:"attempts,omitempty"`
}

func (r probeResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Result: %s (%d span(s))", r.Result, r.Spans)

	classes := make([]string, 0, len(r.Attempts))
	for class := range r.Attempts {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	for _, class := range classes {
		fmt.Fprintf(&sb, "\n  attempts %s: %.0f", class, r.Attempts[class])
	}
	for _, e := range r.Errors {
		fmt.Fprintf(&sb, "\n  error: %s", e)
	}
	return sb.String()
}

type dryRunGroup struct {
	TenantID string            `json:"tenant_id"`
	AgentID  string            `json:"agent_id"`
	URL      string            `json:"url"`
	Payload  *exporter.Payload `json:"payload"`
}

func runProbe(cmd *cobra.Command, args []string) error {
	if strings.TrimSpace(probeFlags.tenant) == "" || strings.TrimSpace(probeFlags.agent) == "" {
		return cli.NewConfigError("tenant/agent", "--tenant and --agent are required")
	}
	if probeFlags.count < 1 {
		return cli.NewConfigError("count", "--count must be at least 1")
	}
	format, err := cli.ParseFormat(probeFlags.format)
	if err != nil {
		return cli.NewConfigError("format", err.Error())
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
	if probeFlags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, probeFlags.timeout)
		defer cancel()
	}

	token := ""
	if !probeFlags.dryRun {
		if token = resolveToken(probeFlags.token); token == "" {
			return cli.NewConfigError("token", "a bearer token is required (--token or $"+tokenEnv+")")
		}
	}

	p, err := newPipeline(cfg, logger, token, !probeFlags.dryRun, true)
	if err != nil {
		return err
	}
	err = p.emit(ctx, probeFlags.tenant, probeFlags.agent, probeFlags.name, probeFlags.count)
	p.shutdown()
	if err != nil {
		return cli.NewCommandError("probe", err)
	}

	if probeFlags.dryRun {
		return printDryRun(cmd, cfg, format, p.capture.Spans())
	}

	errs := p.capture.Errors()
	result := probeResult{
		Result:   exporter.Success.String(),
		Spans:    len(p.capture.Spans()),
		Attempts: attemptsByClass(p.collector),
	}
	for _, e := range errs {
		result.Result = exporter.Failure.String()
		result.Errors = append(result.Errors, e.Error())
	}

	if err := cli.NewFormatter(format).FormatTo(stdout(cmd), result); err != nil {
		return err
	}
	if len(errs) > 0 {
		return cli.NewCommandError("probe", errors.Join(errs...))
	}
	return nil
}

func printDryRun(cmd *cobra.Command, cfg *config.Config, format cli.OutputFormat, spans []sdktrace.ReadOnlySpan) error {
	cluster, err := endpoint.ParseCluster(cfg.ClusterCategory)
	if err != nil {
		return cli.NewConfigError("cluster_category", err.Error())
	}
	resolver := endpoint.NewResolver(cluster,
		endpoint.WithIsland(cfg.Island),
		endpoint.WithServiceToService(cfg.ServiceToService),
		endpoint.WithOverride(cfg.DomainOverride),
	)

	groups, _ := exporter.NewPartitioner(cfg.Identity.TenantKey, cfg.Identity.AgentKey).Partition(spans)
	out := make([]dryRunGroup, 0, len(groups))
	for _, g := range groups {
		desc, err := resolver.Endpoint(g.TenantID)
		if err != nil {
			return cli.NewCommandError("probe", err)
		}
		out = append(out, dryRunGroup{
			TenantID: g.TenantID,
			AgentID:  g.AgentID,
			URL:      desc.BaseURL + exporter.TracePath(g.AgentID, desc.ServiceToService) + "?api-version=" + exporter.APIVersion,
			Payload:  exporter.BuildPayload(g.Spans),
		})
	}

	if format == cli.FormatText {
		w := stdout(cmd)
		for _, g := range out {
			body, err := g.Payload.Marshal()
			if err != nil {
				return cli.NewCommandError("probe", err)
			}
			fmt.Fprintf(w, "POST %s\n%s\n", g.URL, body)
		}
		return nil
	}
	return cli.NewFormatter(format).FormatTo(stdout(cmd), out)
}

// attemptsByClass reads the POST attempt counters from collector.
func attemptsByClass(collector *metrics.Collector) map[string]float64 {
	families, err := collector.Registry().Gather()
	if err != nil {
		return nil
	}

	out := make(map[string]float64)
	for _, f := range families {
		if !strings.HasSuffix(f.GetName(), "_attempts_total") {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "status_class" {
					out[lp.GetValue()] += m.GetCounter().GetValue()
				}
			}
		}
	}
	return out
}
