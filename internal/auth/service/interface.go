// Package service provides API client secret generation, hashing and fingerprinting.
package service

// SecretService defines operations for client secret generation and validation.
type SecretService interface {
	// GenerateSecret creates a new random secret and returns it with its Argon2id hash.
	// The plain secret is shown once and must never be logged.
	GenerateSecret() (plainSecret string, hashedSecret string, err error)

	// HashSecret hashes a plain text secret with Argon2id.
	HashSecret(plainSecret string) (hashedSecret string, err error)

	// CompareSecret reports whether plainSecret matches hashedSecret in constant time.
	CompareSecret(plainSecret string, hashedSecret string) bool

	// Fingerprint returns the SHA-256 hex digest of a plain secret, used as a cache key
	// so the plain value is never retained.
	Fingerprint(plainSecret string) string
}
