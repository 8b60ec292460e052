// Package usecase implements the tokenization gateway: it owns the active vault driver,
// applies the envelope codec, and fails over across configured connections.
package usecase

import (
	"context"

	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
	"github.com/allisson/tokenize/internal/tokenization/provider"
)

// DriverFactory builds vault drivers by provider name. *provider.Registry implements it.
type DriverFactory interface {
	Has(name string) bool
	New(name string, descriptor tokenizationDomain.ConnectionDescriptor) (provider.Tokenizer, error)
}

// EnvelopeCodec converts payloads to and from the string handed to the vault.
// *envelope.Codec implements it.
type EnvelopeCodec interface {
	Encode(ctx context.Context, data any) (string, error)
	Decode(ctx context.Context, envelope string, out any) error
}

// Gateway is the entry point for tokenization. It is safe for concurrent use.
type Gateway interface {
	// Initialize binds the gateway to the connection at slot of provider. On failure the
	// previous state, if any, is kept.
	Initialize(ctx context.Context, provider string, slot int) error

	// ReinitializeConnection advances to the next slot of the active provider.
	ReinitializeConnection(ctx context.Context) error

	// Store encodes data and returns the token issued by the vault. An empty scheme
	// selects GUID. Driver failures fail over to the next configured connection.
	Store(ctx context.Context, data any, scheme string) (string, error)

	// StoreWithOutcome is Store that also returns the vault result of this call and the
	// slot moves it made.
	StoreWithOutcome(ctx context.Context, data any, scheme string) (string, tokenizationDomain.Outcome, error)

	// Get returns the payload stored for token in its generic JSON form.
	Get(ctx context.Context, token string) (any, error)

	// GetInto decodes the payload stored for token into out.
	GetInto(ctx context.Context, token string, out any) error

	// Validate reports whether the vault holds token.
	Validate(ctx context.Context, token string) (bool, error)

	// Delete removes token from the vault. It returns false when nothing was deleted.
	Delete(ctx context.Context, token string) (bool, error)

	// DeleteWithOutcome is Delete that also returns the vault result of this call.
	DeleteWithOutcome(ctx context.Context, token string) (bool, tokenizationDomain.Outcome, error)

	// Errors returns the errors of the last vault call on the active driver, empty when
	// there is none. Concurrent calls overwrite it.
	Errors() []tokenizationDomain.ActionError

	// ReferenceNumber returns the reference number of the last vault call on the active
	// driver. Concurrent calls overwrite it.
	ReferenceNumber() string

	// UsageStats returns the account usage report.
	UsageStats(ctx context.Context) (map[string]any, error)

	// TokenCount returns the number of tokens held for the account.
	TokenCount(ctx context.Context) (int64, error)

	// State returns a snapshot of the active connection.
	State() tokenizationDomain.GatewayState
}
