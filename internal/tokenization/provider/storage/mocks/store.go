// Package mocks provides mock implementations of the storage package interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
)

// MockStore is a mock implementation of storage.Store.
type MockStore struct {
	mock.Mock
}

// Create mocks the Create method of Store.
func (m *MockStore) Create(ctx context.Context, entry *tokenizationDomain.VaultEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// Get mocks the Get method of Store.
func (m *MockStore) Get(
	ctx context.Context,
	accountID, token string,
) (*tokenizationDomain.VaultEntry, error) {
	args := m.Called(ctx, accountID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenizationDomain.VaultEntry), args.Error(1)
}

// Delete mocks the Delete method of Store.
func (m *MockStore) Delete(ctx context.Context, accountID, token string) (bool, error) {
	args := m.Called(ctx, accountID, token)
	return args.Bool(0), args.Error(1)
}

// Stats mocks the Stats method of Store.
func (m *MockStore) Stats(ctx context.Context, accountID string) (tokenizationDomain.UsageStats, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(tokenizationDomain.UsageStats), args.Error(1)
}
