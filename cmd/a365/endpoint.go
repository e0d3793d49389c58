package main

import (
	"fmt"
	"strings"

	"agent365/observability/pkg/cli"
	"agent365/observability/pkg/endpoint"
	"agent365/observability/pkg/exporter"

	"github.com/spf13/cobra"
)

var endpointFlags struct {
	tenant  string
	agent   string
	cluster string
	island  bool
	format  string
}

var endpointCmd = &cobra.Command{
	Use:   "endpoint",
	Short: "Resolve the ingestion endpoint for a tenant",
	Long: `Resolve the host that a tenant's spans are delivered to.

The tenant id is lowercased and stripped of dashes, then split so that the
cluster's suffix length of trailing characters becomes its own DNS label.
A valid A365_OBSERVABILITY_DOMAIN_OVERRIDE (or domain_override) replaces
resolution entirely.

Examples:
  # Production host for a tenant
  a365 endpoint --tenant e3064512-cc6d-4703-be71-a2ecaecaa98a

  # Island cluster in gov, full URL for an agent, as JSON
  a365 endpoint --tenant <id> --cluster gov --island --agent <agent-id> --format json`,
	RunE: resolveEndpoint,
}

func init() {
	rootCmd.AddCommand(endpointCmd)

	endpointCmd.Flags().StringVar(&endpointFlags.tenant, "tenant", "", "tenant id (required)")
	endpointCmd.Flags().StringVar(&endpointFlags.agent, "agent", "", "agent id; prints the full trace URL when set")
	endpointCmd.Flags().StringVar(&endpointFlags.cluster, "cluster", "", "cluster category (uses config if not specified): "+clusterList())
	endpointCmd.Flags().BoolVar(&endpointFlags.island, "island", false, "resolve the island cluster host")
	endpointCmd.Flags().StringVar(&endpointFlags.format, "format", "text", "output format: text, json")
}

type endpointResult struct {
	TenantID   string `json:"tenant_id"`
	Cluster    string `json:"cluster"`
	Island     bool   `json:"island"`
	BaseURL    string `json:"base_url"`
	Overridden bool   `json:"overridden"`
	TraceURL   string `json:"trace_url,omitempty"`
}

func (r endpointResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tenant:   %s\n", r.TenantID)
	fmt.Fprintf(&sb, "Cluster:  %s", r.Cluster)
	if r.Island {
		sb.WriteString(" (island)")
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Base URL: %s", r.BaseURL)
	if r.Overridden {
		sb.WriteString(" (domain override)")
	}
	if r.TraceURL != "" {
		fmt.Fprintf(&sb, "\nTraces:   %s", r.TraceURL)
	}
	return sb.String()
}

func resolveEndpoint(cmd *cobra.Command, args []string) error {
	if strings.TrimSpace(endpointFlags.tenant) == "" {
		return cli.NewConfigError("tenant", "--tenant is required")
	}

	format, err := cli.ParseFormat(endpointFlags.format)
	if err != nil {
		return cli.NewConfigError("format", err.Error())
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	clusterName := endpointFlags.cluster
	if clusterName == "" {
		clusterName = cfg.ClusterCategory
	}
	cluster, err := endpoint.ParseCluster(clusterName)
	if err != nil {
		return cli.NewConfigError("cluster", err.Error())
	}
	island := endpointFlags.island || cfg.Island

	resolver := endpoint.NewResolver(cluster,
		endpoint.WithIsland(island),
		endpoint.WithServiceToService(cfg.ServiceToService),
		endpoint.WithOverride(cfg.DomainOverride),
	)
	desc, err := resolver.Endpoint(endpointFlags.tenant)
	if err != nil {
		return cli.NewCommandError("endpoint", err)
	}

	result := endpointResult{
		TenantID:   endpointFlags.tenant,
		Cluster:    cluster.String(),
		Island:     island,
		BaseURL:    desc.BaseURL,
		Overridden: desc.Overridden,
	}
	if endpointFlags.agent != "" {
		result.TraceURL = desc.BaseURL + exporter.TracePath(endpointFlags.agent, desc.ServiceToService) +
			"?api-version=" + exporter.APIVersion
	}

	return cli.NewFormatter(format).FormatTo(stdout(cmd), result)
}

func clusterList() string {
	names := make([]string, 0, len(endpoint.Clusters()))
	for _, c := range endpoint.Clusters() {
		names = append(names, c.String())
	}
	return strings.Join(names, ", ")
}
