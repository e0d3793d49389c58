package exporter

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/instrumentation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"agent365/observability/pkg/config"
	"agent365/observability/pkg/telemetry/logging"
)

const (
	testTenant = "e3064512-cc6d-4703-be71-a2ecaecaa98a"
	testAgent  = "agent-1"
)

type recordedRequest struct {
	Method      string
	Path        string
	Query       string
	Auth        string
	ContentType string
	Body        []byte
}

// recordingServer answers with the queued statuses in order, then 200.
type recordingServer struct {
	*httptest.Server

	mu       sync.Mutex
	statuses []int
	requests []recordedRequest
}

func newRecordingServer(t *testing.T, statuses ...int) *recordingServer {
	t.Helper()
	rs := &recordingServer{statuses: statuses}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		rs.mu.Lock()
		rs.requests = append(rs.requests, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.RawQuery,
			Auth:        r.Header.Get("Authorization"),
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
		})
		status := http.StatusOK
		if len(rs.statuses) > 0 {
			status = rs.statuses[0]
			rs.statuses = rs.statuses[1:]
		}
		rs.mu.Unlock()

		w.WriteHeader(status)
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *recordingServer) Requests() []recordedRequest {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]recordedRequest(nil), rs.requests...)
}

func testConfig(serverURL string) *config.Config {
	cfg := config.Default()
	cfg.DomainOverride = serverURL
	cfg.Delivery.BaseBackoff = time.Millisecond
	cfg.Delivery.Timeout = 5 * time.Second
	return cfg
}

func newTestExporter(t *testing.T, cfg *config.Config, tokens TokenResolver, opts ...Option) *Exporter {
	t.Helper()
	opts = append([]Option{WithLogger(logging.Discard())}, opts...)
	exp, err := New(cfg, tokens, opts...)
	require.NoError(t, err)
	return exp
}

var spanSeq byte

type spanOpt func(*tracetest.SpanStub)

func withScope(name, version string) spanOpt {
	return func(s *tracetest.SpanStub) {
		s.InstrumentationScope = instrumentation.Scope{Name: name, Version: version}
	}
}

func withAttrs(attrs ...attribute.KeyValue) spanOpt {
	return func(s *tracetest.SpanStub) {
		s.Attributes = append(s.Attributes, attrs...)
	}
}

// identitySpan returns a finished span carrying the default identity keys.
func identitySpan(name, tenant, agent string, opts ...spanOpt) sdktrace.ReadOnlySpan {
	var attrs []attribute.KeyValue
	if tenant != "" {
		attrs = append(attrs, attribute.String("tenant.id", tenant))
	}
	if agent != "" {
		attrs = append(attrs, attribute.String("gen_ai.agent.id", agent))
	}
	return newSpan(name, append([]spanOpt{withAttrs(attrs...)}, opts...)...)
}

func newSpan(name string, opts ...spanOpt) sdktrace.ReadOnlySpan {
	spanSeq++
	start := time.Unix(1700000000, 0)
	stub := tracetest.SpanStub{
		Name: name,
		SpanContext: trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    trace.TraceID{0xab, 0xcd, spanSeq},
			SpanID:     trace.SpanID{0x01, spanSeq},
			TraceFlags: trace.FlagsSampled,
		}),
		SpanKind:             trace.SpanKindInternal,
		StartTime:            start,
		EndTime:              start.Add(time.Second),
		InstrumentationScope: instrumentation.Scope{Name: "test-scope", Version: "1.0.0"},
	}
	for _, opt := range opts {
		opt(&stub)
	}
	return stub.Snapshot()
}

// decodeBody decodes a payload generically. Numbers stay json.Number so
// nanosecond timestamps keep full precision.
func decodeBody(t *testing.T, body []byte) map[string]any {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc map[string]any
	require.NoError(t, dec.Decode(&doc))
	return doc
}

func jsonInt(v int64) json.Number {
	return json.Number(strconv.FormatInt(v, 10))
}

// spanNames lists span names in payload order.
func spanNames(t *testing.T, body []byte) []string {
	t.Helper()
	var p Payload
	require.NoError(t, json.Unmarshal(body, &p))
	var names []string
	for _, rs := range p.ResourceSpans {
		for _, ss := range rs.ScopeSpans {
			for _, s := range ss.Spans {
				names = append(names, s.Name)
			}
		}
	}
	return names
}
