package commands

import (
	"fmt"
	"log/slog"

	authService "github.com/allisson/tokenize/internal/auth/service"
	"github.com/allisson/tokenize/internal/tokenization/envelope"
)

// RunCreateEnvelopeKey generates a 32-byte envelope key and prints the environment
// variables that enable local envelope encryption.
func RunCreateEnvelopeKey(logger *slog.Logger, algorithm string, io IOTuple) error {
	switch envelope.Algorithm(algorithm) {
	case envelope.AESGCM, envelope.ChaCha20:
	default:
		return fmt.Errorf(
			"invalid algorithm: %s (valid options: aes-gcm, chacha20-poly1305)",
			algorithm,
		)
	}

	key, err := envelope.GenerateKey()
	if err != nil {
		return fmt.Errorf("failed to generate envelope key: %w", err)
	}

	_, _ = fmt.Fprintln(io.Writer, "ENVELOPE_ENCRYPTION_ENABLED=true")
	_, _ = fmt.Fprintf(io.Writer, "ENVELOPE_ALGORITHM=%s\n", algorithm)
	_, _ = fmt.Fprintf(io.Writer, "ENVELOPE_KEY=%s\n", key)

	logger.Info("envelope key generated", slog.String("algorithm", algorithm))
	return nil
}

// RunHashAPIToken hashes token for the clients file. An empty token generates a new one,
// which is printed once alongside its hash.
func RunHashAPIToken(
	secretService authService.SecretService,
	logger *slog.Logger,
	token string,
	format string,
	io IOTuple,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	generated := token == ""
	var (
		hash string
		err  error
	)
	if generated {
		token, hash, err = secretService.GenerateSecret()
	} else {
		hash, err = secretService.HashSecret(token)
	}
	if err != nil {
		return fmt.Errorf("failed to hash api token: %w", err)
	}

	logger.Info("api token hashed", slog.Bool("generated", generated))

	if format == "json" {
		result := map[string]string{"hash": hash}
		if generated {
			result["token"] = token
		}
		return outputJSON(io.Writer, result)
	}

	if generated {
		_, _ = fmt.Fprintf(io.Writer, "Token: %s\n", token)
	}
	_, _ = fmt.Fprintf(io.Writer, "Hash: %s\n", hash)
	if generated {
		_, _ = fmt.Fprintln(io.Writer, "\nIMPORTANT: The token is shown only once. Store it securely.")
	}
	return nil
}
