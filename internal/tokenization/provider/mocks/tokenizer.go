// Package mocks provides mock implementations of provider.Tokenizer for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
)

// MockTokenizer is a mock implementation of provider.Tokenizer.
type MockTokenizer struct {
	mock.Mock
}

// Tokenize mocks the Tokenize method of Tokenizer.
func (m *MockTokenizer) Tokenize(
	ctx context.Context,
	data string,
	scheme tokenizationDomain.SchemeCode,
) (string, error) {
	args := m.Called(ctx, data, scheme)
	return args.String(0), args.Error(1)
}

// TokenizeFromEncryptedData mocks the TokenizeFromEncryptedData method of Tokenizer.
func (m *MockTokenizer) TokenizeFromEncryptedData(
	ctx context.Context,
	encrypted string,
	scheme tokenizationDomain.SchemeCode,
) (string, error) {
	args := m.Called(ctx, encrypted, scheme)
	return args.String(0), args.Error(1)
}

// TokenizeFromCreditCardNumber mocks the TokenizeFromCreditCardNumber method of Tokenizer.
func (m *MockTokenizer) TokenizeFromCreditCardNumber(ctx context.Context, ccNumber string) (string, error) {
	args := m.Called(ctx, ccNumber)
	return args.String(0), args.Error(1)
}

// ValidateToken mocks the ValidateToken method of Tokenizer.
func (m *MockTokenizer) ValidateToken(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

// Detokenize mocks the Detokenize method of Tokenizer.
func (m *MockTokenizer) Detokenize(ctx context.Context, token string) (string, bool, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Bool(1), args.Error(2)
}

// DeleteToken mocks the DeleteToken method of Tokenizer.
func (m *MockTokenizer) DeleteToken(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

// UsageStats mocks the UsageStats method of Tokenizer.
func (m *MockTokenizer) UsageStats(ctx context.Context) (map[string]any, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

// TokenCount mocks the TokenCount method of Tokenizer.
func (m *MockTokenizer) TokenCount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// LastResult mocks the LastResult method of Tokenizer.
func (m *MockTokenizer) LastResult() tokenizationDomain.ActionResult {
	args := m.Called()
	return args.Get(0).(tokenizationDomain.ActionResult)
}

// Schemes mocks the Schemes method of Tokenizer.
func (m *MockTokenizer) Schemes() tokenizationDomain.SchemeTable {
	args := m.Called()
	return args.Get(0).(tokenizationDomain.SchemeTable)
}
