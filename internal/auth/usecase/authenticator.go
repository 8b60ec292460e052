package usecase

import (
	"context"
	"sync"

	authDomain "github.com/allisson/tokenize/internal/auth/domain"
	authService "github.com/allisson/tokenize/internal/auth/service"
	apperrors "github.com/allisson/tokenize/internal/errors"
)

// authenticator verifies secrets against the Argon2id hashes of every client and caches
// successful matches by secret fingerprint.
type authenticator struct {
	clientRepo    ClientRepository
	secretService authService.SecretService

	verified sync.Map // fingerprint -> *authDomain.Client
}

// NewAuthenticator creates an Authenticator over the given clients.
func NewAuthenticator(clientRepo ClientRepository, secretService authService.SecretService) Authenticator {
	return &authenticator{
		clientRepo:    clientRepo,
		secretService: secretService,
	}
}

// Authenticate resolves plainSecret to its client.
func (a *authenticator) Authenticate(ctx context.Context, plainSecret string) (*authDomain.Client, error) {
	if plainSecret == "" {
		return nil, authDomain.ErrInvalidCredentials
	}

	fingerprint := a.secretService.Fingerprint(plainSecret)
	if cached, ok := a.verified.Load(fingerprint); ok {
		return checkActive(cached.(*authDomain.Client))
	}

	clients, err := a.clientRepo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list clients")
	}

	for _, client := range clients {
		if a.secretService.CompareSecret(plainSecret, client.Secret) {
			a.verified.Store(fingerprint, client)
			return checkActive(client)
		}
	}

	return nil, authDomain.ErrInvalidCredentials
}

func checkActive(client *authDomain.Client) (*authDomain.Client, error) {
	if !client.IsActive {
		return nil, authDomain.ErrClientInactive
	}
	return client, nil
}
