package exporter

import (
	"context"
	"errors"
)

// ErrNoToken is reported when a TokenResolver returns an empty token.
var ErrNoToken = errors.New("token resolver returned no token")

// TokenResolver supplies bearer tokens for outbound deliveries. An empty
// token with a nil error means no token is available.
type TokenResolver interface {
	ResolveToken(ctx context.Context, agentID, tenantID string) (string, error)
}

// TokenResolverFunc adapts a function to TokenResolver.
type TokenResolverFunc func(ctx context.Context, agentID, tenantID string) (string, error)

// ResolveToken calls f.
func (f TokenResolverFunc) ResolveToken(ctx context.Context, agentID, tenantID string) (string, error) {
	return f(ctx, agentID, tenantID)
}

// StaticToken returns a resolver that hands out token for every identity.
func StaticToken(token string) TokenResolver {
	return TokenResolverFunc(func(context.Context, string, string) (string, error) {
		return token, nil
	})
}
