package envelope

import (
	"bytes"
	"context"
	"encoding/json"

	apperrors "github.com/allisson/tokenize/internal/errors"
	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
)

var jsonNull = []byte("null")

// Codec turns arbitrary payloads into envelopes and back.
//
// Encryption is decided once at construction. A codec built with encryption enabled
// never falls back to plaintext: a missing cipher fails every call with
// ErrCipherUnavailable instead.
type Codec struct {
	cipher  Cipher
	encrypt bool
}

// NewCodec creates a codec. When encrypt is true, cipher is required at call time.
func NewCodec(cipher Cipher, encrypt bool) *Codec {
	return &Codec{cipher: cipher, encrypt: encrypt}
}

// NewEncryptedCodec creates a codec that always encrypts with cipher.
func NewEncryptedCodec(cipher Cipher) *Codec {
	return NewCodec(cipher, true)
}

// NewPlainCodec creates a codec that only serializes.
func NewPlainCodec() *Codec {
	return NewCodec(nil, false)
}

// Encrypted reports whether envelopes produced by this codec are encrypted.
func (c *Codec) Encrypted() bool {
	return c.encrypt
}

// Encode serializes data to JSON and encrypts it when encryption is enabled.
// A payload that serializes to JSON null is rejected since it could never be decoded.
func (c *Codec) Encode(ctx context.Context, data any) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", apperrors.Join(tokenizationDomain.ErrEncodeFailed, err)
	}
	if bytes.Equal(raw, jsonNull) {
		return "", tokenizationDomain.ErrEncodeFailed
	}

	envelope := string(raw)
	if c.encrypt {
		if c.cipher == nil {
			return "", tokenizationDomain.ErrCipherUnavailable
		}
		envelope, err = c.cipher.Encrypt(ctx, raw)
		if err != nil {
			return "", apperrors.Join(tokenizationDomain.ErrEncodeFailed, err)
		}
	}

	if len(envelope) > tokenizationDomain.MaxPayloadSize {
		return "", tokenizationDomain.ErrPayloadTooLarge
	}

	return envelope, nil
}

// Decode decrypts the envelope when encryption is enabled and unmarshals it into out.
func (c *Codec) Decode(ctx context.Context, envelope string, out any) error {
	raw := []byte(envelope)
	if c.encrypt {
		if c.cipher == nil {
			return tokenizationDomain.ErrCipherUnavailable
		}
		plaintext, err := c.cipher.Decrypt(ctx, envelope)
		if err != nil {
			return apperrors.Join(tokenizationDomain.ErrDecodeFailed, err)
		}
		raw = plaintext
	}

	if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return tokenizationDomain.ErrDecodeFailed
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.Join(tokenizationDomain.ErrDecodeFailed, err)
	}
	return nil
}

// DecodeValue decodes the envelope into its generic JSON representation
// (map[string]any, []any, string, float64 or bool).
func (c *Codec) DecodeValue(ctx context.Context, envelope string) (any, error) {
	var value any
	if err := c.Decode(ctx, envelope, &value); err != nil {
		return nil, err
	}
	return value, nil
}
