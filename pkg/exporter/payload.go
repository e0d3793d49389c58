package exporter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Payload is the JSON document posted for one identity group.
type Payload struct {
	ResourceSpans []ResourceSpans `json:"resourceSpans"`
}

// ResourceSpans holds every scope group of one payload.
type ResourceSpans struct {
	Resource   Resource     `json:"resource"`
	ScopeSpans []ScopeSpans `json:"scopeSpans"`
}

// Resource carries the resource attributes of the group's first span.
type Resource struct {
	Attributes map[string]any `json:"attributes"`
}

// ScopeSpans holds the spans of one instrumentation scope.
type ScopeSpans struct {
	Scope Scope  `json:"scope"`
	Spans []Span `json:"spans"`
}

// Scope identifies the instrumentation library.
type Scope struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Span is the wire form of a finished span. Empty collections encode as null.
type Span struct {
	TraceID           string         `json:"traceId"`
	SpanID            string         `json:"spanId"`
	ParentSpanID      string         `json:"parentSpanId,omitempty"`
	Name              string         `json:"name"`
	Kind              string         `json:"kind"`
	StartTimeUnixNano int64          `json:"startTimeUnixNano"`
	EndTimeUnixNano   int64          `json:"endTimeUnixNano"`
	Attributes        map[string]any `json:"attributes"`
	Events            []Event        `json:"events"`
	Links             []Link         `json:"links"`
	Status            Status         `json:"status"`
}

// Event is the wire form of a span event.
type Event struct {
	TimeUnixNano int64          `json:"timeUnixNano"`
	Name         string         `json:"name"`
	Attributes   map[string]any `json:"attributes"`
}

// Link is the wire form of a span link.
type Link struct {
	TraceID    string         `json:"traceId"`
	SpanID     string         `json:"spanId"`
	Attributes map[string]any `json:"attributes"`
}

// Status is the wire form of a span status.
type Status struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var spanKindNames = map[trace.SpanKind]string{
	trace.SpanKindUnspecified: "INTERNAL",
	trace.SpanKindInternal:    "INTERNAL",
	trace.SpanKindServer:      "SERVER",
	trace.SpanKindClient:      "CLIENT",
	trace.SpanKindProducer:    "PRODUCER",
	trace.SpanKindConsumer:    "CONSUMER",
}

var statusCodeNames = map[codes.Code]string{
	codes.Unset: "UNSET",
	codes.Ok:    "OK",
	codes.Error: "ERROR",
}

type scopeKey struct {
	name    string
	version string
}

// BuildPayload renders spans as one resourceSpans document. Spans are
// grouped by instrumentation scope in order of first appearance and keep
// their batch order within a scope. Resource attributes are taken from the
// first span only.
func BuildPayload(spans []sdktrace.ReadOnlySpan) *Payload {
	rs := ResourceSpans{}
	if len(spans) > 0 {
		rs.Resource = Resource{Attributes: resourceAttributes(spans[0].Resource())}
	}

	index := make(map[scopeKey]int)
	for _, span := range spans {
		is := span.InstrumentationScope()
		key := scopeKey{name: is.Name, version: is.Version}

		i, seen := index[key]
		if !seen {
			i = len(rs.ScopeSpans)
			index[key] = i
			rs.ScopeSpans = append(rs.ScopeSpans, ScopeSpans{
				Scope: Scope{Name: is.Name, Version: is.Version},
				Spans: []Span{},
			})
		}
		rs.ScopeSpans[i].Spans = append(rs.ScopeSpans[i].Spans, renderSpan(span))
	}

	return &Payload{ResourceSpans: []ResourceSpans{rs}}
}

// Marshal encodes the payload as JSON with sorted object keys.
func (p *Payload) Marshal() ([]byte, error) {
	data, err := sonic.ConfigStd.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return data, nil
}

// ScopeLabel joins the distinct scope names of the payload, for logs.
func (p *Payload) ScopeLabel() string {
	var names []string
	seen := make(map[string]struct{})
	for _, rs := range p.ResourceSpans {
		for _, ss := range rs.ScopeSpans {
			if _, ok := seen[ss.Scope.Name]; ok {
				continue
			}
			seen[ss.Scope.Name] = struct{}{}
			names = append(names, ss.Scope.Name)
		}
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// SpanCount returns the number of spans in the payload.
func (p *Payload) SpanCount() int {
	n := 0
	for _, rs := range p.ResourceSpans {
		for _, ss := range rs.ScopeSpans {
			n += len(ss.Spans)
		}
	}
	return n
}

func renderSpan(span sdktrace.ReadOnlySpan) Span {
	sc := span.SpanContext()
	out := Span{
		TraceID:           sc.TraceID().String(),
		SpanID:            sc.SpanID().String(),
		Name:              span.Name(),
		Kind:              spanKindName(span.SpanKind()),
		StartTimeUnixNano: unixNano(span.StartTime()),
		EndTimeUnixNano:   unixNano(span.EndTime()),
		Attributes:        attributeMap(span.Attributes()),
		Status: Status{
			Code:    statusCodeName(span.Status().Code),
			Message: span.Status().Description,
		},
	}

	if parent := span.Parent(); parent.HasSpanID() {
		out.ParentSpanID = parent.SpanID().String()
	}

	if events := span.Events(); len(events) > 0 {
		out.Events = make([]Event, 0, len(events))
		for _, ev := range events {
			out.Events = append(out.Events, Event{
				TimeUnixNano: unixNano(ev.Time),
				Name:         ev.Name,
				Attributes:   attributeMap(ev.Attributes),
			})
		}
	}

	if links := span.Links(); len(links) > 0 {
		out.Links = make([]Link, 0, len(links))
		for _, l := range links {
			out.Links = append(out.Links, Link{
				TraceID:    l.SpanContext.TraceID().String(),
				SpanID:     l.SpanContext.SpanID().String(),
				Attributes: attributeMap(l.Attributes),
			})
		}
	}

	return out
}

func spanKindName(k trace.SpanKind) string {
	if name, ok := spanKindNames[k]; ok {
		return name
	}
	return "INTERNAL"
}

func statusCodeName(c codes.Code) string {
	if name, ok := statusCodeNames[c]; ok {
		return name
	}
	return "UNSET"
}

// attributeMap returns nil for no attributes so they encode as null.
func attributeMap(attrs []attribute.KeyValue) map[string]any {
	if len(attrs) == 0 {
		return nil
	}
	m := make(map[string]any, len(attrs))
	for _, kv := range attrs {
		m[string(kv.Key)] = kv.Value.AsInterface()
	}
	return m
}

func resourceAttributes(res *resource.Resource) map[string]any {
	if res == nil {
		return nil
	}
	return attributeMap(res.Attributes())
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}
