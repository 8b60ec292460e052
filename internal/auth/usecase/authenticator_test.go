package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/tokenize/internal/auth/domain"
	authService "github.com/allisson/tokenize/internal/auth/service"
	"github.com/allisson/tokenize/internal/auth/usecase/mocks"
)

func newHashedClient(t *testing.T, service authService.SecretService, name, secret string, active bool) *authDomain.Client {
	t.Helper()
	hash, err := service.HashSecret(secret)
	require.NoError(t, err)
	return &authDomain.Client{Name: name, Secret: hash, IsActive: active}
}

func TestAuthenticator_Authenticate(t *testing.T) {
	ctx := context.Background()
	secretService := authService.NewSecretService()
	checkout := newHashedClient(t, secretService, "checkout", "checkout-secret", true)
	retired := newHashedClient(t, secretService, "retired", "retired-secret", false)

	t.Run("Success_MatchesClient", func(t *testing.T) {
		repo := &mocks.MockClientRepository{}
		repo.On("List", mock.Anything).Return([]*authDomain.Client{retired, checkout}, nil).Once()
		auth := NewAuthenticator(repo, secretService)

		client, err := auth.Authenticate(ctx, "checkout-secret")

		require.NoError(t, err)
		assert.Equal(t, "checkout", client.Name)
		repo.AssertExpectations(t)
	})

	t.Run("Success_CachedAfterFirstMatch", func(t *testing.T) {
		repo := &mocks.MockClientRepository{}
		repo.On("List", mock.Anything).Return([]*authDomain.Client{checkout}, nil).Once()
		auth := NewAuthenticator(repo, secretService)

		_, err := auth.Authenticate(ctx, "checkout-secret")
		require.NoError(t, err)
		client, err := auth.Authenticate(ctx, "checkout-secret")
		require.NoError(t, err)

		assert.Equal(t, "checkout", client.Name)
		repo.AssertNumberOfCalls(t, "List", 1)
	})

	t.Run("Error_InactiveClient", func(t *testing.T) {
		repo := &mocks.MockClientRepository{}
		repo.On("List", mock.Anything).Return([]*authDomain.Client{retired}, nil).Once()
		auth := NewAuthenticator(repo, secretService)

		client, err := auth.Authenticate(ctx, "retired-secret")

		assert.Nil(t, client)
		assert.ErrorIs(t, err, authDomain.ErrClientInactive)
	})

	t.Run("Error_UnknownSecret", func(t *testing.T) {
		repo := &mocks.MockClientRepository{}
		repo.On("List", mock.Anything).Return([]*authDomain.Client{checkout}, nil)
		auth := NewAuthenticator(repo, secretService)

		_, err := auth.Authenticate(ctx, "guess")
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)

		_, err = auth.Authenticate(ctx, "guess")
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		repo.AssertNumberOfCalls(t, "List", 2)
	})

	t.Run("Error_EmptySecret", func(t *testing.T) {
		auth := NewAuthenticator(&mocks.MockClientRepository{}, secretService)

		_, err := auth.Authenticate(ctx, "")

		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		repo := &mocks.MockClientRepository{}
		repo.On("List", mock.Anything).Return(nil, errors.New("disk gone")).Once()
		auth := NewAuthenticator(repo, secretService)

		_, err := auth.Authenticate(ctx, "checkout-secret")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list clients")
	})
}
