// Package http provides the gin middleware that authenticates API clients and checks
// their path policies.
package http

import (
	"context"

	authDomain "github.com/allisson/tokenize/internal/auth/domain"
)

type clientKey struct{}

// WithClient returns a copy of ctx carrying the authenticated client.
func WithClient(ctx context.Context, client *authDomain.Client) context.Context {
	return context.WithValue(ctx, clientKey{}, client)
}

// GetClient returns the client stored by WithClient.
func GetClient(ctx context.Context) (*authDomain.Client, bool) {
	client, ok := ctx.Value(clientKey{}).(*authDomain.Client)
	return client, ok && client != nil
}

// ClientName returns the authenticated client's name, or "" for anonymous requests.
func ClientName(ctx context.Context) string {
	if client, ok := GetClient(ctx); ok {
		return client.Name
	}
	return ""
}
