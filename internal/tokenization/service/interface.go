// Package service generates vault tokens for the storage-backed providers. Tokens follow
// the shape each scheme promises: digits, alphanumerics or printable ASCII, optionally
// preserving leading and trailing characters of the tokenized value.
package service

// TokenGenerator produces random token bodies.
type TokenGenerator interface {
	Generate(length int) (string, error)
	Validate(token string) error
}
