// Package mocks provides mock implementations of the auth use case interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/tokenize/internal/auth/domain"
)

// MockAuthenticator is a mock implementation of usecase.Authenticator.
type MockAuthenticator struct {
	mock.Mock
}

// Authenticate mocks the Authenticate method of Authenticator.
func (m *MockAuthenticator) Authenticate(ctx context.Context, plainSecret string) (*authDomain.Client, error) {
	args := m.Called(ctx, plainSecret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Client), args.Error(1)
}

// MockClientRepository is a mock implementation of usecase.ClientRepository.
type MockClientRepository struct {
	mock.Mock
}

// List mocks the List method of ClientRepository.
func (m *MockClientRepository) List(ctx context.Context) ([]*authDomain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.Client), args.Error(1)
}
