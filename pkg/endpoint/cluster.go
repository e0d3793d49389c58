package endpoint

import (
	"fmt"
	"sort"
	"strings"
)

// Cluster is a deployment environment category. It selects the host suffix
// and the number of trailing identifier characters used as the shard label.
type Cluster string

const (
	ClusterLocal        Cluster = "local"
	ClusterDev          Cluster = "dev"
	ClusterTest         Cluster = "test"
	ClusterPreprod      Cluster = "preprod"
	ClusterFirstRelease Cluster = "firstrelease"
	ClusterProd         Cluster = "prod"
	ClusterGov          Cluster = "gov"
	ClusterHigh         Cluster = "high"
	ClusterDoD          Cluster = "dod"
	ClusterMooncake     Cluster = "mooncake"
	ClusterEx           Cluster = "ex"
	ClusterRx           Cluster = "rx"
)

// clusterInfo holds the fixed sharding parameters of a cluster.
type clusterInfo struct {
	hostSuffix   string
	suffixLength int
}

var clusters = map[Cluster]clusterInfo{
	ClusterLocal:        {hostSuffix: "api.powerplatform.localhost", suffixLength: 1},
	ClusterDev:          {hostSuffix: "api.powerplatform.com", suffixLength: 1},
	ClusterTest:         {hostSuffix: "api.powerplatform.com", suffixLength: 1},
	ClusterPreprod:      {hostSuffix: "api.powerplatform.com", suffixLength: 1},
	ClusterFirstRelease: {hostSuffix: "api.powerplatform.com", suffixLength: 2},
	ClusterProd:         {hostSuffix: "api.powerplatform.com", suffixLength: 2},
	ClusterGov:          {hostSuffix: "api.gov.powerplatform.microsoft.us", suffixLength: 1},
	ClusterHigh:         {hostSuffix: "api.high.powerplatform.microsoft.us", suffixLength: 1},
	ClusterDoD:          {hostSuffix: "api.appsplatform.us", suffixLength: 1},
	ClusterMooncake:     {hostSuffix: "api.powerplatform.partner.microsoftonline.cn", suffixLength: 1},
	ClusterEx:           {hostSuffix: "api.powerplatform.eaglex.ic.gov", suffixLength: 1},
	ClusterRx:           {hostSuffix: "api.powerplatform.microsoft.scloud", suffixLength: 1},
}

// ParseCluster parses a cluster category name. Matching is case-insensitive
// and ignores surrounding whitespace.
func ParseCluster(s string) (Cluster, error) {
	c := Cluster(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := clusters[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCluster, s)
	}
	return c, nil
}

// Clusters returns every known cluster category in lexical order.
func Clusters() []Cluster {
	out := make([]Cluster, 0, len(clusters))
	for c := range clusters {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Valid reports whether c is a known cluster category.
func (c Cluster) Valid() bool {
	_, ok := clusters[c]
	return ok
}

// HostSuffix returns the DNS suffix shared by every tenant host in the
// cluster, or "" for an unknown cluster.
func (c Cluster) HostSuffix() string {
	return clusters[c].hostSuffix
}

// SuffixLength returns the number of trailing identifier characters that
// form the shard label, or 0 for an unknown cluster.
func (c Cluster) SuffixLength() int {
	return clusters[c].suffixLength
}

func (c Cluster) String() string {
	return string(c)
}
