// Package provider defines the contract every vault backend implements and the static
// registry the gateway uses to build drivers by provider name.
package provider

import (
	"context"

	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
)

// Tokenizer is a driver bound to one connection descriptor of one vault provider.
//
// Remote drivers return the value the vault answered with even when the vault reported
// a failure; the outcome of every call is available afterwards through LastResult.
// A non-nil error means the call did not produce a usable answer at all (transport
// failure, malformed response, open circuit). Absence of a token is not an error.
type Tokenizer interface {
	// Tokenize issues a token for data using the provider scheme code.
	Tokenize(ctx context.Context, data string, scheme tokenizationDomain.SchemeCode) (string, error)

	// TokenizeFromEncryptedData issues a token for a value the vault decrypts itself.
	TokenizeFromEncryptedData(
		ctx context.Context,
		encrypted string,
		scheme tokenizationDomain.SchemeCode,
	) (string, error)

	// TokenizeFromCreditCardNumber issues a TOKENfour token for a card number.
	TokenizeFromCreditCardNumber(ctx context.Context, ccNumber string) (string, error)

	// ValidateToken reports whether the token exists in the vault.
	ValidateToken(ctx context.Context, token string) (bool, error)

	// Detokenize returns the value stored for token. ok is false when the vault has no
	// such token or refused to reveal it.
	Detokenize(ctx context.Context, token string) (value string, ok bool, err error)

	// DeleteToken removes the token. It returns false when nothing was deleted.
	DeleteToken(ctx context.Context, token string) (bool, error)

	// UsageStats returns the account usage report in the vault's own shape.
	UsageStats(ctx context.Context) (map[string]any, error)

	// TokenCount returns the number of tokens held for the account.
	TokenCount(ctx context.Context) (int64, error)

	// LastResult returns the outcome of the most recent call.
	LastResult() tokenizationDomain.ActionResult

	// Schemes returns the scheme table this provider understands.
	Schemes() tokenizationDomain.SchemeTable
}

// Factory builds a driver for a connection descriptor.
type Factory func(descriptor tokenizationDomain.ConnectionDescriptor) (Tokenizer, error)
