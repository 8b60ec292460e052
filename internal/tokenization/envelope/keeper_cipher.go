package envelope

import (
	"context"
	"encoding/base64"
	"fmt"

	"gocloud.dev/secrets"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KeeperCipher delegates envelope encryption to a KMS through gocloud.dev/secrets.
// Ciphertexts are base64-encoded so they survive JSON transport to the vault.
type KeeperCipher struct {
	keeper Keeper
}

// NewKeeperCipher wraps an already opened keeper.
func NewKeeperCipher(keeper Keeper) *KeeperCipher {
	return &KeeperCipher{keeper: keeper}
}

// OpenKeeperCipher opens a keeper for keyURI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func OpenKeeperCipher(ctx context.Context, keyURI string) (*KeeperCipher, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return NewKeeperCipher(keeper), nil
}

// Encrypt encrypts plaintext with the KMS key.
func (k *KeeperCipher) Encrypt(ctx context.Context, plaintext []byte) (string, error) {
	ciphertext, err := k.keeper.Encrypt(ctx, plaintext)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt with KMS: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt decrypts a string produced by Encrypt.
func (k *KeeperCipher) Decrypt(ctx context.Context, ciphertext string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	plaintext, err := k.keeper.Decrypt(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt with KMS: %w", err)
	}
	return plaintext, nil
}

// Close releases the underlying keeper.
func (k *KeeperCipher) Close() error {
	return k.keeper.Close()
}
