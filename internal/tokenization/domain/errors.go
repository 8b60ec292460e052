package domain

import (
	"github.com/allisson/tokenize/internal/errors"
)

// Connection errors are fatal to the current call unless the waterfall recovers them.
var (
	// ErrConnection is the parent of every connection-level failure.
	ErrConnection = errors.Wrap(errors.ErrUnavailable, "tokenization connection error")

	// ErrNoConnectionAvailable indicates no complete descriptor exists for a provider slot.
	ErrNoConnectionAvailable = errors.Wrap(ErrConnection, "no API connection available")

	// ErrWaterfallExhausted indicates every configured slot of the provider has been tried.
	ErrWaterfallExhausted = errors.Wrap(ErrConnection, "could not create waterfall connection")

	// ErrUnknownProvider indicates the provider name is not in the static provider registry.
	ErrUnknownProvider = errors.Wrap(ErrConnection, "unknown tokenization provider")

	// ErrNoActiveConnection indicates an operation ran before any successful initialization.
	ErrNoActiveConnection = errors.Wrap(ErrConnection, "no active tokenization connection")
)

// Validation errors describe bad input or unusable envelopes; they are never retried.
var (
	// ErrValidation is the parent of every tokenization validation failure.
	ErrValidation = errors.Wrap(errors.ErrInvalidInput, "tokenization validation error")

	// ErrTokenNotFound indicates the token does not exist within the token vault.
	ErrTokenNotFound = errors.Wrap(ErrValidation, "token does not exist within the token vault")

	// ErrUnknownScheme indicates the scheme name is not supported by the active provider.
	ErrUnknownScheme = errors.Wrap(ErrValidation, "unknown token scheme")

	// ErrEncodeFailed indicates the payload could not be serialized or encrypted.
	ErrEncodeFailed = errors.Wrap(ErrValidation, "could not encode data")

	// ErrDecodeFailed indicates the stored envelope could not be decrypted or deserialized.
	ErrDecodeFailed = errors.Wrap(ErrValidation, "could not decode data")

	// ErrCipherUnavailable indicates envelope encryption is enabled without a cipher.
	ErrCipherUnavailable = errors.Wrap(ErrValidation, "envelope encryption is enabled but no cipher is configured")

	// ErrPayloadTooLarge indicates the encoded envelope exceeds MaxPayloadSize.
	ErrPayloadTooLarge = errors.Wrap(ErrValidation, "encoded payload exceeds maximum size")
)

// Driver errors come from the transport or the remote vault.
var (
	// ErrDriver is the parent of every transport or remote vault failure.
	ErrDriver = errors.Wrap(errors.ErrUpstream, "tokenization driver error")

	// ErrMalformedResponse indicates the vault answered with an unparseable body.
	ErrMalformedResponse = errors.Wrap(ErrDriver, "malformed vault response")

	// ErrActionFailed indicates the vault reported an unsuccessful action.
	ErrActionFailed = errors.Wrap(ErrDriver, "vault action failed")
)

// Vault store errors are raised by storage-backed providers and never leave the driver.
var (
	// ErrVaultEntryNotFound indicates the store holds no entry for the token.
	ErrVaultEntryNotFound = errors.Wrap(errors.ErrNotFound, "vault entry not found")

	// ErrVaultTokenConflict indicates the generated token is already taken.
	ErrVaultTokenConflict = errors.Wrap(errors.ErrConflict, "vault token already exists")
)
