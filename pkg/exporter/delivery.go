package exporter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"time"

	"agent365/observability/pkg/config"
	"agent365/observability/pkg/endpoint"
	"agent365/observability/pkg/telemetry/metrics"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// APIVersion is the wire-format version sent as the api-version query
// parameter.
const APIVersion = "1"

const maxErrorBody = 512

// TracePath returns the ingestion path for agentID.
func TracePath(agentID string, serviceToService bool) string {
	if serviceToService {
		return "/maven/agent365/service/agents/" + url.PathEscape(agentID) + "/traces"
	}
	return "/maven/agent365/agents/" + url.PathEscape(agentID) + "/traces"
}

// DeliveryClient posts identity-group payloads to the Agent365 service.
// The underlying HTTP transport is shared by every call until Close.
type DeliveryClient struct {
	resolver *endpoint.Resolver
	tokens   TokenResolver
	client   *retryablehttp.Client
	logger   *slog.Logger
	metrics  *metrics.Collector
}

// attemptCounter travels in the request context so the client-wide retry
// policy can count attempts per delivery.
type attemptCounter struct {
	n int
}

type attemptCounterKey struct{}

// NewDeliveryClient creates a client resolving endpoints with resolver and
// tokens with tokens.
func NewDeliveryClient(resolver *endpoint.Resolver, tokens TokenResolver, cfg config.DeliveryConfig, opts ...Option) *DeliveryClient {
	o := buildOptions(opts)

	d := &DeliveryClient{
		resolver: resolver,
		tokens:   tokens,
		logger:   o.logger,
		metrics:  o.metrics,
	}

	rc := retryablehttp.NewClient()
	if o.httpClient != nil {
		hc := *o.httpClient
		rc.HTTPClient = &hc
	}
	rc.HTTPClient.Timeout = cfg.Timeout
	if cfg.RequestsPerSecond > 0 {
		base := rc.HTTPClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		rc.HTTPClient.Transport = &throttledTransport{
			base:    base,
			limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		}
	}

	rc.RetryMax = cfg.MaxRetries
	rc.RetryWaitMin = cfg.BaseBackoff
	rc.RetryWaitMax = cfg.BaseBackoff * time.Duration(cfg.MaxRetries+1)
	rc.Backoff = linearBackoff
	rc.CheckRetry = d.checkRetry
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = o.logger
	d.client = rc

	return d
}

// PostGroup delivers one serialized payload for id. It returns nil on a 2xx
// response and an *Error otherwise. scopeLabel is only used for logging.
func (d *DeliveryClient) PostGroup(ctx context.Context, id Identity, payload []byte, scopeLabel string) error {
	desc, err := d.resolver.Endpoint(id.TenantID)
	if err != nil {
		return &Error{Kind: KindValidation, TenantID: id.TenantID, AgentID: id.AgentID, Cause: err}
	}

	target := desc.BaseURL + TracePath(id.AgentID, desc.ServiceToService) + "?api-version=" + APIVersion

	token, err := d.resolveToken(ctx, id)
	if err != nil {
		return &Error{Kind: KindToken, TenantID: id.TenantID, AgentID: id.AgentID, Cause: err}
	}

	counter := &attemptCounter{}
	ctx = context.WithValue(ctx, attemptCounterKey{}, counter)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, target, payload)
	if err != nil {
		return &Error{Kind: KindUnknown, TenantID: id.TenantID, AgentID: id.AgentID, Cause: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	d.logger.Debug("posting spans",
		"tenant_id", id.TenantID,
		"agent_id", id.AgentID,
		"scope", scopeLabel,
		"url", target,
		"bytes", len(payload),
	)

	resp, err := d.client.Do(req)
	if err != nil {
		if resp != nil {
			drainBody(resp.Body)
		}
		return &Error{
			Kind:     KindTransient,
			TenantID: id.TenantID,
			AgentID:  id.AgentID,
			Attempts: counter.n,
			Cause:    err,
		}
	}
	defer drainBody(resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	kind := KindPermanent
	if retryableStatus(resp.StatusCode) {
		kind = KindTransient
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &Error{
		Kind:       kind,
		TenantID:   id.TenantID,
		AgentID:    id.AgentID,
		StatusCode: resp.StatusCode,
		Attempts:   counter.n,
		Cause:      fmt.Errorf("unexpected response %q: %s", resp.Status, bytes.TrimSpace(body)),
	}
}

// Close releases idle connections held by the transport.
func (d *DeliveryClient) Close() {
	d.client.HTTPClient.CloseIdleConnections()
}

// resolveToken calls the host's resolver, converting panics and empty
// tokens into errors.
func (d *DeliveryClient) resolveToken(ctx context.Context, id Identity) (token string, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("token resolver panicked",
				"tenant_id", id.TenantID,
				"agent_id", id.AgentID,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			token, err = "", fmt.Errorf("token resolver panicked: %v", r)
		}
	}()

	token, err = d.tokens.ResolveToken(ctx, id.AgentID, id.TenantID)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// checkRetry retries network errors and 408, 429 and 5xx responses. It stops
// as soon as the request context is done.
func (d *DeliveryClient) checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if c, ok := ctx.Value(attemptCounterKey{}).(*attemptCounter); ok {
		c.n++
	}
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	d.metrics.RecordAttempt(status, err)

	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	return retryableStatus(resp.StatusCode), nil
}

// linearBackoff waits base*(n+1) before retry n (zero-based).
func linearBackoff(base, _ time.Duration, attemptNum int, _ *http.Response) time.Duration {
	return base * time.Duration(attemptNum+1)
}

func retryableStatus(code int) bool {
	switch {
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests:
		return true
	case code >= 500 && code <= 599:
		return true
	default:
		return false
	}
}

func drainBody(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
	_ = body.Close()
}

// throttledTransport waits on a shared limiter before every round trip,
// retries included.
type throttledTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *throttledTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

func (t *throttledTransport) CloseIdleConnections() {
	type closeIdler interface{ CloseIdleConnections() }
	if ci, ok := t.base.(closeIdler); ok {
		ci.CloseIdleConnections()
	}
}
