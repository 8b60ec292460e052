// Package memory implements the "Test" vault provider: an in-process map that issues
// reproducible UUIDv5 tokens. It is meant for tests and local development.
package memory

import (
	"context"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
	"github.com/allisson/tokenize/internal/tokenization/provider"
)

// DefaultSeed names the token namespace when the host name is unknown.
const DefaultSeed = "example.net"

// Tokenizer is an in-memory vault. Every instance has its own token space, so a new
// driver (for example after a waterfall advance) starts empty.
type Tokenizer struct {
	provider.ResultRecorder

	accountID string
	seed      string

	mu         sync.Mutex
	sequence   uint64
	tokens     map[string]string
	lastIssued *time.Time
}

// New creates an in-memory driver for the descriptor. Tokens are derived from the
// host name, falling back to DefaultSeed.
func New(descriptor tokenizationDomain.ConnectionDescriptor) *Tokenizer {
	seed, err := os.Hostname()
	if err != nil || seed == "" {
		seed = DefaultSeed
	}
	return NewWithSeed(descriptor, seed)
}

// NewWithSeed creates an in-memory driver whose tokens derive from seed.
func NewWithSeed(descriptor tokenizationDomain.ConnectionDescriptor, seed string) *Tokenizer {
	return &Tokenizer{
		accountID: descriptor.ID,
		seed:      seed,
		tokens:    make(map[string]string),
	}
}

// Factory adapts New to provider.Factory.
func Factory(descriptor tokenizationDomain.ConnectionDescriptor) (provider.Tokenizer, error) {
	return New(descriptor), nil
}

// TokenAt returns the token the n-th (one-based) Tokenize call of a driver seeded with
// seed issues.
func TokenAt(seed string, n uint64) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(seed+"/"+strconv.FormatUint(n, 10))).String()
}

// Tokenize stores data and returns the next token of the sequence. The scheme is
// accepted for interface compatibility only.
func (t *Tokenizer) Tokenize(
	ctx context.Context,
	data string,
	scheme tokenizationDomain.SchemeCode,
) (string, error) {
	t.mu.Lock()
	t.sequence++
	token := TokenAt(t.seed, t.sequence)
	t.tokens[token] = data
	now := time.Now().UTC()
	t.lastIssued = &now
	t.mu.Unlock()

	t.Succeed(ctx, "")
	return token, nil
}

// TokenizeFromEncryptedData behaves like Tokenize.
func (t *Tokenizer) TokenizeFromEncryptedData(
	ctx context.Context,
	encrypted string,
	scheme tokenizationDomain.SchemeCode,
) (string, error) {
	return t.Tokenize(ctx, encrypted, scheme)
}

// TokenizeFromCreditCardNumber tokenizes ccNumber with the credit card scheme.
func (t *Tokenizer) TokenizeFromCreditCardNumber(ctx context.Context, ccNumber string) (string, error) {
	return t.Tokenize(ctx, ccNumber, tokenizationDomain.StandardSchemes[tokenizationDomain.CreditCardScheme])
}

// ValidateToken reports whether token is held.
func (t *Tokenizer) ValidateToken(ctx context.Context, token string) (bool, error) {
	t.mu.Lock()
	_, ok := t.tokens[token]
	t.mu.Unlock()

	t.Succeed(ctx, "")
	return ok, nil
}

// Detokenize returns the stored value.
func (t *Tokenizer) Detokenize(ctx context.Context, token string) (string, bool, error) {
	t.mu.Lock()
	value, ok := t.tokens[token]
	t.mu.Unlock()

	if !ok {
		t.Fail(ctx, "", tokenizationDomain.NotFoundActionErrorCode, tokenizationDomain.NotFoundActionErrorMessage)
		return "", false, nil
	}
	t.Succeed(ctx, "")
	return value, true, nil
}

// DeleteToken removes the token.
func (t *Tokenizer) DeleteToken(ctx context.Context, token string) (bool, error) {
	t.mu.Lock()
	_, ok := t.tokens[token]
	delete(t.tokens, token)
	t.mu.Unlock()

	if !ok {
		t.Fail(ctx, "", tokenizationDomain.NotFoundActionErrorCode, tokenizationDomain.NotFoundActionErrorMessage)
		return false, nil
	}
	t.Succeed(ctx, "")
	return true, nil
}

// UsageStats reports the number of held tokens.
func (t *Tokenizer) UsageStats(ctx context.Context) (map[string]any, error) {
	t.mu.Lock()
	stats := tokenizationDomain.UsageStats{
		AccountID:  t.accountID,
		TokenCount: int64(len(t.tokens)),
		LastIssued: t.lastIssued,
	}
	t.mu.Unlock()

	t.Succeed(ctx, "")
	return stats.AsMap(), nil
}

// TokenCount returns the number of held tokens.
func (t *Tokenizer) TokenCount(ctx context.Context) (int64, error) {
	t.mu.Lock()
	count := int64(len(t.tokens))
	t.mu.Unlock()

	t.Succeed(ctx, "")
	return count, nil
}

// Schemes returns the standard scheme table.
func (t *Tokenizer) Schemes() tokenizationDomain.SchemeTable {
	return tokenizationDomain.StandardSchemes
}
