// Package usecase implements API client authentication.
package usecase

import (
	"context"

	authDomain "github.com/allisson/tokenize/internal/auth/domain"
)

// ClientRepository lists the configured API clients.
type ClientRepository interface {
	List(ctx context.Context) ([]*authDomain.Client, error)
}

// Authenticator resolves a bearer secret to its client.
type Authenticator interface {
	// Authenticate returns the client owning plainSecret. It fails with
	// ErrInvalidCredentials when no client matches and ErrClientInactive when the
	// matching client is disabled.
	Authenticate(ctx context.Context, plainSecret string) (*authDomain.Client, error)
}
