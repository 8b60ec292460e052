package envelope

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Algorithm names the AEAD construction used by AEADCipher.
type Algorithm string

const (
	// AESGCM is AES-256-GCM. Fast on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305. Constant time in software.
	ChaCha20 Algorithm = "chacha20-poly1305"

	// KeySize is the key length required by both algorithms.
	KeySize = 32
)

var (
	// ErrInvalidKeySize indicates the key is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.New("key must be exactly 32 bytes")

	// ErrUnsupportedAlgorithm indicates an unknown Algorithm value.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrCiphertextTooShort indicates the ciphertext cannot even hold a nonce.
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)

// AEADCipher encrypts envelopes with a local 256-bit key.
//
// The output is base64(nonce || ciphertext || tag). A fresh random nonce is drawn for
// every call, so encrypting the same payload twice yields different strings.
// The cipher is stateless and safe for concurrent use.
type AEADCipher struct {
	aead      cipher.AEAD
	algorithm Algorithm
}

// NewAEADCipher creates an AEADCipher for the given algorithm and 32-byte key.
func NewAEADCipher(key []byte, alg Algorithm) (*AEADCipher, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}

	var (
		aead cipher.AEAD
		err  error
	)

	switch alg {
	case AESGCM:
		block, blockErr := aes.NewCipher(key)
		if blockErr != nil {
			return nil, fmt.Errorf("failed to create AES cipher: %w", blockErr)
		}
		aead, err = cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("failed to create GCM: %w", err)
		}
	case ChaCha20:
		aead, err = chacha20poly1305.New(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
		}
	default:
		return nil, ErrUnsupportedAlgorithm
	}

	return &AEADCipher{aead: aead, algorithm: alg}, nil
}

// NewAEADCipherFromBase64 decodes a standard base64 key and creates an AEADCipher.
func NewAEADCipherFromBase64(encodedKey string, alg Algorithm) (*AEADCipher, error) {
	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode envelope key: %w", err)
	}
	defer zero(key)

	return NewAEADCipher(key, alg)
}

// Algorithm returns the AEAD construction in use.
func (a *AEADCipher) Algorithm() Algorithm {
	return a.algorithm
}

// Encrypt seals plaintext under a random nonce.
func (a *AEADCipher) Encrypt(ctx context.Context, plaintext []byte) (string, error) {
	nonce := make([]byte, a.aead.NonceSize(), a.aead.NonceSize()+len(plaintext)+a.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := a.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a string produced by Encrypt.
func (a *AEADCipher) Decrypt(ctx context.Context, ciphertext string) ([]byte, error) {
	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	nonceSize := a.aead.NonceSize()
	if len(sealed) < nonceSize+a.aead.Overhead() {
		return nil, ErrCiphertextTooShort
	}

	plaintext, err := a.aead.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}

// GenerateKey returns a new random key encoded as standard base64.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	defer zero(key)

	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// zero overwrites key material once it is no longer needed.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
