// Package envelope serializes payloads into the opaque string form handed to a vault
// and optionally encrypts it with a process-held key before it leaves the process.
package envelope

import (
	"context"
)

// Cipher symmetrically encrypts envelope bytes into a transport-safe string.
type Cipher interface {
	// Encrypt encrypts plaintext and returns an opaque, printable ciphertext.
	Encrypt(ctx context.Context, plaintext []byte) (string, error)

	// Decrypt reverses Encrypt. It fails when the ciphertext was altered or produced
	// with a different key.
	Decrypt(ctx context.Context, ciphertext string) ([]byte, error)
}

// Keeper is the subset of *secrets.Keeper used by KeeperCipher.
type Keeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
