package app

import (
	"context"
	"fmt"

	authRepository "github.com/allisson/tokenize/internal/auth/repository"
	authService "github.com/allisson/tokenize/internal/auth/service"
	authUseCase "github.com/allisson/tokenize/internal/auth/usecase"
)

// SecretService returns the secret service for authentication operations.
func (c *Container) SecretService() authService.SecretService {
	c.secretServiceInit.Do(func() {
		c.secretService = authService.NewSecretService()
	})
	return c.secretService
}

// Authenticator returns the API client authenticator.
func (c *Container) Authenticator(ctx context.Context) (authUseCase.Authenticator, error) {
	var err error
	c.authenticatorInit.Do(func() {
		c.authenticator, err = c.initAuthenticator(ctx)
		if err != nil {
			c.initErrors["authenticator"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authenticator"]; exists {
		return nil, storedErr
	}
	return c.authenticator, nil
}

// initAuthenticator loads the clients file and wraps the authenticator with metrics when enabled.
func (c *Container) initAuthenticator(ctx context.Context) (authUseCase.Authenticator, error) {
	clients, err := authRepository.LoadClientsFile(c.config.AuthClientsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load api clients: %w", err)
	}

	if list, err := clients.List(ctx); err == nil {
		c.Logger().Info("api clients loaded", "count", len(list))
	}

	baseAuthenticator := authUseCase.NewAuthenticator(clients, c.SecretService())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for authenticator: %w", err)
		}
		return authUseCase.NewAuthenticatorWithMetrics(baseAuthenticator, businessMetrics), nil
	}

	return baseAuthenticator, nil
}
