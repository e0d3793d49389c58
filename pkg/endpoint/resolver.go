package endpoint

import (
	"fmt"
	"strings"
)

const (
	tenantLabel  = "tenant"
	islandPrefix = "il-"
)

// Descriptor is the resolved delivery target for one tenant.
type Descriptor struct {
	// BaseURL is scheme and authority without a trailing slash,
	// e.g. "https://abc.1.tenant.api.powerplatform.com".
	BaseURL string

	// Overridden is true when BaseURL came from the override rather than
	// from tenant sharding.
	Overridden bool

	// ServiceToService selects the service-to-service path variant.
	ServiceToService bool
}

// Resolve returns the host for tenantID in cluster.
func Resolve(cluster Cluster, tenantID string) (string, error) {
	return resolve(cluster, tenantID, false)
}

// ResolveIsland returns the island-cluster host for tenantID, which carries
// an "il-" marker on the leading label.
func ResolveIsland(cluster Cluster, tenantID string) (string, error) {
	return resolve(cluster, tenantID, true)
}

func resolve(cluster Cluster, tenantID string, island bool) (string, error) {
	info, ok := clusters[cluster]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCluster, string(cluster))
	}

	normalized := strings.ReplaceAll(strings.ToLower(tenantID), "-", "")

	if !validTenantChars(tenantID) {
		return "", &ValidationError{Value: tenantID, Reason: "contains invalid characters; only letters, digits and '-' are allowed"}
	}

	minLength := info.suffixLength + 1
	if len(normalized) < minLength {
		return "", &ValidationError{Value: tenantID, Reason: "is too short", MinLength: minLength}
	}

	split := len(normalized) - info.suffixLength
	prefix, suffix := normalized[:split], normalized[split:]
	if island {
		prefix = islandPrefix + prefix
	}

	return prefix + "." + suffix + "." + tenantLabel + "." + info.hostSuffix, nil
}

func validTenantChars(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
		default:
			return false
		}
	}
	return true
}

// Resolver binds cluster-level settings so callers resolve by tenant alone.
// A Resolver is immutable and safe for concurrent use.
type Resolver struct {
	cluster          Cluster
	island           bool
	serviceToService bool
	override         string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithIsland resolves island-cluster hosts.
func WithIsland(island bool) Option {
	return func(r *Resolver) { r.island = island }
}

// WithServiceToService marks descriptors for the service-to-service path.
func WithServiceToService(enabled bool) Option {
	return func(r *Resolver) { r.serviceToService = enabled }
}

// WithOverride installs a raw override value. Invalid values are ignored.
func WithOverride(raw string) Option {
	return func(r *Resolver) {
		if base, ok := ParseOverride(raw); ok {
			r.override = base
		}
	}
}

// NewResolver creates a Resolver for cluster.
func NewResolver(cluster Cluster, opts ...Option) *Resolver {
	r := &Resolver{cluster: cluster}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cluster returns the bound cluster category.
func (r *Resolver) Cluster() Cluster {
	return r.cluster
}

// Override returns the active override base URL, if any.
func (r *Resolver) Override() (string, bool) {
	return r.override, r.override != ""
}

// Endpoint resolves the delivery target for tenantID. With an override
// installed, sharding is skipped and tenantID is not validated.
func (r *Resolver) Endpoint(tenantID string) (Descriptor, error) {
	if r.override != "" {
		return Descriptor{BaseURL: r.override, Overridden: true, ServiceToService: r.serviceToService}, nil
	}

	host, err := resolve(r.cluster, tenantID, r.island)
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{BaseURL: "https://" + host, ServiceToService: r.serviceToService}, nil
}
