// Package mocks provides mock implementations of the tokenization use case interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
)

// MockGateway is a mock implementation of usecase.Gateway.
type MockGateway struct {
	mock.Mock
}

// Initialize mocks the Initialize method of Gateway.
func (m *MockGateway) Initialize(ctx context.Context, provider string, slot int) error {
	args := m.Called(ctx, provider, slot)
	return args.Error(0)
}

// ReinitializeConnection mocks the ReinitializeConnection method of Gateway.
func (m *MockGateway) ReinitializeConnection(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Store mocks the Store method of Gateway.
func (m *MockGateway) Store(ctx context.Context, data any, scheme string) (string, error) {
	args := m.Called(ctx, data, scheme)
	return args.String(0), args.Error(1)
}

// StoreWithOutcome mocks the StoreWithOutcome method of Gateway.
func (m *MockGateway) StoreWithOutcome(
	ctx context.Context,
	data any,
	scheme string,
) (string, tokenizationDomain.Outcome, error) {
	args := m.Called(ctx, data, scheme)
	return args.String(0), args.Get(1).(tokenizationDomain.Outcome), args.Error(2)
}

// Get mocks the Get method of Gateway.
func (m *MockGateway) Get(ctx context.Context, token string) (any, error) {
	args := m.Called(ctx, token)
	return args.Get(0), args.Error(1)
}

// GetInto mocks the GetInto method of Gateway.
func (m *MockGateway) GetInto(ctx context.Context, token string, out any) error {
	args := m.Called(ctx, token, out)
	return args.Error(0)
}

// Validate mocks the Validate method of Gateway.
func (m *MockGateway) Validate(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

// Delete mocks the Delete method of Gateway.
func (m *MockGateway) Delete(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

// DeleteWithOutcome mocks the DeleteWithOutcome method of Gateway.
func (m *MockGateway) DeleteWithOutcome(ctx context.Context, token string) (bool, tokenizationDomain.Outcome, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Get(1).(tokenizationDomain.Outcome), args.Error(2)
}

// Errors mocks the Errors method of Gateway.
func (m *MockGateway) Errors() []tokenizationDomain.ActionError {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]tokenizationDomain.ActionError)
}

// ReferenceNumber mocks the ReferenceNumber method of Gateway.
func (m *MockGateway) ReferenceNumber() string {
	args := m.Called()
	return args.String(0)
}

// UsageStats mocks the UsageStats method of Gateway.
func (m *MockGateway) UsageStats(ctx context.Context) (map[string]any, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

// TokenCount mocks the TokenCount method of Gateway.
func (m *MockGateway) TokenCount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// State mocks the State method of Gateway.
func (m *MockGateway) State() tokenizationDomain.GatewayState {
	args := m.Called()
	return args.Get(0).(tokenizationDomain.GatewayState)
}
