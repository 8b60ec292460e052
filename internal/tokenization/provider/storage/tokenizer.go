// Package storage implements a vault driver on top of any token Store. The SQL and
// Redis providers are thin Store implementations plugged into this Tokenizer.
package storage

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/allisson/tokenize/internal/errors"
	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
	"github.com/allisson/tokenize/internal/tokenization/provider"
	"github.com/allisson/tokenize/internal/tokenization/service"
)

// MaxTokenAttempts bounds token regeneration when a generated token is already taken.
const MaxTokenAttempts = 3

// Store persists vault entries scoped by account.
type Store interface {
	// Create inserts entry. It returns ErrVaultTokenConflict when the token is taken.
	Create(ctx context.Context, entry *tokenizationDomain.VaultEntry) error

	// Get returns the entry for token. It returns ErrVaultEntryNotFound when absent.
	Get(ctx context.Context, accountID, token string) (*tokenizationDomain.VaultEntry, error)

	// Delete removes the entry and reports whether one existed.
	Delete(ctx context.Context, accountID, token string) (bool, error)

	// Stats summarizes the entries of the account.
	Stats(ctx context.Context, accountID string) (tokenizationDomain.UsageStats, error)
}

// Tokenizer is a provider.Tokenizer backed by a Store. The descriptor ID scopes every
// entry so several connections can share one store without seeing each other's tokens.
type Tokenizer struct {
	provider.ResultRecorder

	store     Store
	formatter *service.SchemeFormatter
	accountID string
	now       func() time.Time
}

// New creates a Tokenizer for the descriptor over store.
func New(store Store, descriptor tokenizationDomain.ConnectionDescriptor) *Tokenizer {
	return &Tokenizer{
		store:     store,
		formatter: service.NewSchemeFormatter(),
		accountID: descriptor.ID,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Tokenize issues a scheme-shaped token for data and stores the mapping.
func (t *Tokenizer) Tokenize(
	ctx context.Context,
	data string,
	scheme tokenizationDomain.SchemeCode,
) (string, error) {
	ref := provider.NewReferenceNumber()

	var lastErr error
	for attempt := 0; attempt < MaxTokenAttempts; attempt++ {
		token, err := t.formatter.Format(data, scheme)
		if err != nil {
			if errors.Is(err, service.ErrUnsupportedScheme) {
				t.Fail(
					ctx,
					ref,
					tokenizationDomain.InvalidSchemeActionErrorCode,
					tokenizationDomain.InvalidSchemeActionErrorMessage,
				)
				return "", nil
			}
			return "", t.storeFailure(ctx, ref, err)
		}

		entry := &tokenizationDomain.VaultEntry{
			AccountID: t.accountID,
			Token:     token,
			Value:     data,
			Scheme:    scheme,
			CreatedAt: t.now(),
		}

		err = t.store.Create(ctx, entry)
		if err == nil {
			t.Succeed(ctx, ref)
			return token, nil
		}
		if !errors.Is(err, tokenizationDomain.ErrVaultTokenConflict) {
			return "", t.storeFailure(ctx, ref, err)
		}
		lastErr = err
	}

	return "", t.storeFailure(ctx, ref, lastErr)
}

// TokenizeFromEncryptedData stores the ciphertext as the value. Local vaults hold no
// private key, so the value is kept exactly as received.
func (t *Tokenizer) TokenizeFromEncryptedData(
	ctx context.Context,
	encrypted string,
	scheme tokenizationDomain.SchemeCode,
) (string, error) {
	return t.Tokenize(ctx, encrypted, scheme)
}

// TokenizeFromCreditCardNumber rejects numbers failing the Luhn check.
func (t *Tokenizer) TokenizeFromCreditCardNumber(ctx context.Context, ccNumber string) (string, error) {
	if !service.IsLuhnValid(ccNumber) {
		t.Fail(
			ctx,
			provider.NewReferenceNumber(),
			tokenizationDomain.InvalidCardActionErrorCode,
			tokenizationDomain.InvalidCardActionErrorMessage,
		)
		return "", nil
	}
	return t.Tokenize(ctx, ccNumber, tokenizationDomain.StandardSchemes[tokenizationDomain.CreditCardScheme])
}

// ValidateToken reports whether the account holds token.
func (t *Tokenizer) ValidateToken(ctx context.Context, token string) (bool, error) {
	ref := provider.NewReferenceNumber()

	_, err := t.store.Get(ctx, t.accountID, token)
	switch {
	case err == nil:
		t.Succeed(ctx, ref)
		return true, nil
	case errors.Is(err, tokenizationDomain.ErrVaultEntryNotFound):
		t.Succeed(ctx, ref)
		return false, nil
	default:
		return false, t.storeFailure(ctx, ref, err)
	}
}

// Detokenize returns the stored value.
func (t *Tokenizer) Detokenize(ctx context.Context, token string) (string, bool, error) {
	ref := provider.NewReferenceNumber()

	entry, err := t.store.Get(ctx, t.accountID, token)
	switch {
	case err == nil:
		t.Succeed(ctx, ref)
		return entry.Value, true, nil
	case errors.Is(err, tokenizationDomain.ErrVaultEntryNotFound):
		t.notFound(ctx, ref)
		return "", false, nil
	default:
		return "", false, t.storeFailure(ctx, ref, err)
	}
}

// DeleteToken removes the token.
func (t *Tokenizer) DeleteToken(ctx context.Context, token string) (bool, error) {
	ref := provider.NewReferenceNumber()

	deleted, err := t.store.Delete(ctx, t.accountID, token)
	if err != nil {
		return false, t.storeFailure(ctx, ref, err)
	}
	if !deleted {
		t.notFound(ctx, ref)
		return false, nil
	}
	t.Succeed(ctx, ref)
	return true, nil
}

// UsageStats reports the account summary.
func (t *Tokenizer) UsageStats(ctx context.Context) (map[string]any, error) {
	ref := provider.NewReferenceNumber()

	stats, err := t.store.Stats(ctx, t.accountID)
	if err != nil {
		return nil, t.storeFailure(ctx, ref, err)
	}
	t.Succeed(ctx, ref)
	return stats.AsMap(), nil
}

// TokenCount returns the number of tokens of the account.
func (t *Tokenizer) TokenCount(ctx context.Context) (int64, error) {
	ref := provider.NewReferenceNumber()

	stats, err := t.store.Stats(ctx, t.accountID)
	if err != nil {
		return 0, t.storeFailure(ctx, ref, err)
	}
	t.Succeed(ctx, ref)
	return stats.TokenCount, nil
}

// Schemes returns the standard scheme table.
func (t *Tokenizer) Schemes() tokenizationDomain.SchemeTable {
	return tokenizationDomain.StandardSchemes
}

func (t *Tokenizer) notFound(ctx context.Context, ref string) {
	t.Fail(ctx, ref, tokenizationDomain.NotFoundActionErrorCode, tokenizationDomain.NotFoundActionErrorMessage)
}

func (t *Tokenizer) storeFailure(ctx context.Context, ref string, err error) error {
	t.Fail(ctx, ref, tokenizationDomain.VaultFailureActionErrorCode, tokenizationDomain.VaultFailureActionErrorMessage)
	return apperrors.Join(tokenizationDomain.ErrDriver, err)
}
