// Package endpoint derives per-tenant delivery hosts for the Agent 365
// telemetry ingestion service.
//
// # Sharding
//
// A tenant's host is a pure function of its identifier and the cluster
// category. The identifier is lowercased and stripped of dashes, then split
// so that the trailing hex characters become their own DNS label:
//
//	tenant:  e3064512-cc6d-4703-be71-a2ecaecaa98a
//	prod:    e3064512cc6d4703be71a2ecaecaa9.8a.tenant.api.powerplatform.com
//	dev:     e3064512cc6d4703be71a2ecaecaa98.a.tenant.api.powerplatform.com
//
// Any sender can compute the same host for the same tenant without a lookup,
// which keeps the exporter stateless.
//
// # Override
//
// Deployments that front the service with their own gateway set an override
// (bare "host[:port]" or "http(s)://host[:port]"). A valid override replaces
// resolution entirely; an invalid one is ignored.
//
// # Usage
//
//	host, err := endpoint.Resolve(endpoint.ClusterProd, tenantID)
//	if err != nil {
//	    return err // *endpoint.ValidationError
//	}
//
//	r := endpoint.NewResolver(endpoint.ClusterProd,
//	    endpoint.WithOverride(os.Getenv("A365_OBSERVABILITY_DOMAIN_OVERRIDE")))
//	desc, err := r.Endpoint(tenantID)
package endpoint
