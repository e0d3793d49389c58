package exporter

import (
	"strings"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Identity is the (tenant, agent) pair that routes a span.
type Identity struct {
	TenantID string
	AgentID  string
}

// Group is the spans of one identity, in batch order.
type Group struct {
	Identity
	Spans []sdktrace.ReadOnlySpan
}

// Partitioner splits batches by identity attributes.
type Partitioner struct {
	tenantKey attribute.Key
	agentKey  attribute.Key
}

// NewPartitioner returns a Partitioner reading the given attribute keys.
func NewPartitioner(tenantKey, agentKey string) *Partitioner {
	return &Partitioner{
		tenantKey: attribute.Key(tenantKey),
		agentKey:  attribute.Key(agentKey),
	}
}

// Partition groups spans by the exact identity strings, in order of first
// appearance. Spans with a missing or blank identity value are skipped and
// counted in dropped.
func (p *Partitioner) Partition(spans []sdktrace.ReadOnlySpan) (groups []Group, dropped int) {
	index := make(map[Identity]int)

	for _, span := range spans {
		if span == nil {
			dropped++
			continue
		}
		id, ok := p.identity(span.Attributes())
		if !ok {
			dropped++
			continue
		}

		i, seen := index[id]
		if !seen {
			i = len(groups)
			index[id] = i
			groups = append(groups, Group{Identity: id})
		}
		groups[i].Spans = append(groups[i].Spans, span)
	}

	return groups, dropped
}

func (p *Partitioner) identity(attrs []attribute.KeyValue) (Identity, bool) {
	var id Identity
	for _, kv := range attrs {
		switch kv.Key {
		case p.tenantKey:
			id.TenantID = kv.Value.Emit()
		case p.agentKey:
			id.AgentID = kv.Value.Emit()
		}
	}
	return id, strings.TrimSpace(id.TenantID) != "" && strings.TrimSpace(id.AgentID) != ""
}
