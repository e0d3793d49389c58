package exporter

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agent365/observability/pkg/config"
	"agent365/observability/pkg/endpoint"
	"agent365/observability/pkg/telemetry/logging"
)

func newTestDelivery(t *testing.T, cfg *config.Config, tokens TokenResolver) *DeliveryClient {
	t.Helper()
	cluster, err := endpoint.ParseCluster(cfg.ClusterCategory)
	require.NoError(t, err)
	resolver := endpoint.NewResolver(cluster,
		endpoint.WithServiceToService(cfg.ServiceToService),
		endpoint.WithOverride(cfg.DomainOverride),
	)
	d := NewDeliveryClient(resolver, tokens, cfg.Delivery, WithLogger(logging.Discard()))
	t.Cleanup(d.Close)
	return d
}

var testID = Identity{TenantID: testTenant, AgentID: testAgent}

func TestTracePath(t *testing.T) {
	assert.Equal(t, "/maven/agent365/agents/agent-1/traces", TracePath("agent-1", false))
	assert.Equal(t, "/maven/agent365/service/agents/agent-1/traces", TracePath("agent-1", true))
	assert.Equal(t, "/maven/agent365/agents/a%2Fb/traces", TracePath("a/b", false))
}

func TestPostGroup_RequestShape(t *testing.T) {
	srv := newRecordingServer(t)
	d := newTestDelivery(t, testConfig(srv.URL), StaticToken("tok-123"))

	err := d.PostGroup(context.Background(), testID, []byte(`{"resourceSpans":[]}`), "scope")
	require.NoError(t, err)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/maven/agent365/agents/agent-1/traces", reqs[0].Path)
	assert.Equal(t, "api-version=1", reqs[0].Query)
	assert.Equal(t, "Bearer tok-123", reqs[0].Auth)
	assert.Equal(t, "application/json", reqs[0].ContentType)
	assert.JSONEq(t, `{"resourceSpans":[]}`, string(reqs[0].Body))
}

func TestPostGroup_ServiceToServicePath(t *testing.T) {
	srv := newRecordingServer(t)
	cfg := testConfig(srv.URL)
	cfg.ServiceToService = true
	d := newTestDelivery(t, cfg, StaticToken("tok"))

	require.NoError(t, d.PostGroup(context.Background(), testID, []byte(`{}`), ""))
	assert.Equal(t, "/maven/agent365/service/agents/agent-1/traces", srv.Requests()[0].Path)
}

func TestPostGroup_RetryPolicy(t *testing.T) {
	tests := []struct {
		name         string
		statuses     []int
		wantErr      bool
		wantKind     ErrorKind
		wantStatus   int
		wantRequests int
	}{
		{name: "immediate success", statuses: nil, wantRequests: 1},
		{name: "accepted", statuses: []int{http.StatusAccepted}, wantRequests: 1},
		{name: "500 twice then ok", statuses: []int{500, 500}, wantRequests: 3},
		{name: "500 three times then ok", statuses: []int{500, 502, 503}, wantRequests: 4},
		{name: "408 then ok", statuses: []int{http.StatusRequestTimeout}, wantRequests: 2},
		{name: "429 then ok", statuses: []int{http.StatusTooManyRequests}, wantRequests: 2},
		{
			name:         "retries exhausted",
			statuses:     []int{500, 500, 500, 500, 500},
			wantErr:      true,
			wantKind:     KindTransient,
			wantStatus:   500,
			wantRequests: 4,
		},
		{
			name:         "400 is not retried",
			statuses:     []int{http.StatusBadRequest},
			wantErr:      true,
			wantKind:     KindPermanent,
			wantStatus:   400,
			wantRequests: 1,
		},
		{
			name:         "401 is not retried",
			statuses:     []int{http.StatusUnauthorized},
			wantErr:      true,
			wantKind:     KindPermanent,
			wantStatus:   401,
			wantRequests: 1,
		},
		{
			name:         "500 then 404",
			statuses:     []int{500, http.StatusNotFound},
			wantErr:      true,
			wantKind:     KindPermanent,
			wantStatus:   404,
			wantRequests: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newRecordingServer(t, tt.statuses...)
			d := newTestDelivery(t, testConfig(srv.URL), StaticToken("tok"))

			err := d.PostGroup(context.Background(), testID, []byte(`{}`), "")
			assert.Len(t, srv.Requests(), tt.wantRequests)

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var ee *Error
			require.ErrorAs(t, err, &ee)
			assert.Equal(t, tt.wantKind, ee.Kind)
			assert.Equal(t, tt.wantStatus, ee.StatusCode)
			assert.Equal(t, tt.wantRequests, ee.Attempts)
			assert.Equal(t, testTenant, ee.TenantID)
			assert.Equal(t, testAgent, ee.AgentID)
		})
	}
}

func TestPostGroup_ZeroRetries(t *testing.T) {
	srv := newRecordingServer(t, 503)
	cfg := testConfig(srv.URL)
	cfg.Delivery.MaxRetries = 0
	d := newTestDelivery(t, cfg, StaticToken("tok"))

	err := d.PostGroup(context.Background(), testID, []byte(`{}`), "")
	assert.Equal(t, KindTransient, KindOf(err))
	assert.Len(t, srv.Requests(), 1)
}

func TestPostGroup_NetworkErrorIsRetried(t *testing.T) {
	srv := newRecordingServer(t)
	url := srv.URL
	srv.Close()

	cfg := testConfig(url)
	cfg.Delivery.MaxRetries = 2
	d := newTestDelivery(t, cfg, StaticToken("tok"))

	err := d.PostGroup(context.Background(), testID, []byte(`{}`), "")
	var ee *Error
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, KindTransient, ee.Kind)
	assert.Equal(t, 3, ee.Attempts)
	assert.Zero(t, ee.StatusCode)
}

func TestPostGroup_ContextCanceledStopsRetries(t *testing.T) {
	srv := newRecordingServer(t, 500, 500, 500, 500)
	cfg := testConfig(srv.URL)
	cfg.Delivery.BaseBackoff = time.Hour
	d := newTestDelivery(t, cfg, StaticToken("tok"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := d.PostGroup(ctx, testID, []byte(`{}`), "")
	assert.Error(t, err)
	assert.Len(t, srv.Requests(), 1)
}

func TestPostGroup_TokenFailures(t *testing.T) {
	tests := []struct {
		name   string
		tokens TokenResolver
	}{
		{
			name: "resolver error",
			tokens: TokenResolverFunc(func(context.Context, string, string) (string, error) {
				return "", errors.New("vault unavailable")
			}),
		},
		{name: "empty token", tokens: StaticToken("")},
		{
			name: "resolver panic",
			tokens: TokenResolverFunc(func(context.Context, string, string) (string, error) {
				panic("nil map")
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newRecordingServer(t)
			d := newTestDelivery(t, testConfig(srv.URL), tt.tokens)

			err := d.PostGroup(context.Background(), testID, []byte(`{}`), "")
			assert.Equal(t, KindToken, KindOf(err))
			assert.Empty(t, srv.Requests())
		})
	}
}

func TestPostGroup_TokenResolverArguments(t *testing.T) {
	srv := newRecordingServer(t)
	var gotAgent, gotTenant string
	d := newTestDelivery(t, testConfig(srv.URL), TokenResolverFunc(
		func(_ context.Context, agentID, tenantID string) (string, error) {
			gotAgent, gotTenant = agentID, tenantID
			return "tok", nil
		}))

	require.NoError(t, d.PostGroup(context.Background(), testID, []byte(`{}`), ""))
	assert.Equal(t, testAgent, gotAgent)
	assert.Equal(t, testTenant, gotTenant)
}

func TestPostGroup_InvalidTenantWithoutOverride(t *testing.T) {
	cfg := testConfig("")
	d := newTestDelivery(t, cfg, StaticToken("tok"))

	err := d.PostGroup(context.Background(), Identity{TenantID: "bad?tenant", AgentID: "a"}, []byte(`{}`), "")
	var ee *Error
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, KindValidation, ee.Kind)

	var ve *endpoint.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestPostGroup_Throttled(t *testing.T) {
	srv := newRecordingServer(t, 500)
	cfg := testConfig(srv.URL)
	cfg.Delivery.RequestsPerSecond = 1000
	d := newTestDelivery(t, cfg, StaticToken("tok"))

	require.NoError(t, d.PostGroup(context.Background(), testID, []byte(`{}`), ""))
	assert.Len(t, srv.Requests(), 2)
}

func TestLinearBackoff(t *testing.T) {
	base := 200 * time.Millisecond
	assert.Equal(t, 200*time.Millisecond, linearBackoff(base, 0, 0, nil))
	assert.Equal(t, 400*time.Millisecond, linearBackoff(base, 0, 1, nil))
	assert.Equal(t, 600*time.Millisecond, linearBackoff(base, 0, 2, nil))
}

func TestRetryableStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504, 599} {
		assert.True(t, retryableStatus(code), "status %d", code)
	}
	for _, code := range []int{200, 301, 400, 401, 403, 404, 409, 600} {
		assert.False(t, retryableStatus(code), "status %d", code)
	}
}
