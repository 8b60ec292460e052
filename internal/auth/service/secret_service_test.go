package service

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSecretService(t *testing.T) {
	service := NewSecretService()
	assert.NotNil(t, service)
	assert.IsType(t, &secretService{}, service)
}

func TestSecretService_GenerateSecret(t *testing.T) {
	service := NewSecretService()

	t.Run("Success_GeneratesValidSecret", func(t *testing.T) {
		plainSecret, hashedSecret, err := service.GenerateSecret()
		require.NoError(t, err)

		decoded, err := base64.URLEncoding.DecodeString(plainSecret)
		require.NoError(t, err)
		assert.Len(t, decoded, 32)

		assert.NotEqual(t, plainSecret, hashedSecret)
		assert.Contains(t, hashedSecret, "$argon2id$")
		assert.True(t, service.CompareSecret(plainSecret, hashedSecret))
	})

	t.Run("Success_GeneratesUniqueSecrets", func(t *testing.T) {
		plainSecret1, hashedSecret1, err := service.GenerateSecret()
		require.NoError(t, err)

		plainSecret2, hashedSecret2, err := service.GenerateSecret()
		require.NoError(t, err)

		assert.NotEqual(t, plainSecret1, plainSecret2)
		assert.NotEqual(t, hashedSecret1, hashedSecret2)
	})
}

func TestSecretService_CompareSecret(t *testing.T) {
	service := NewSecretService()

	hashedSecret, err := service.HashSecret("correct-secret")
	require.NoError(t, err)

	t.Run("Success_Matches", func(t *testing.T) {
		assert.True(t, service.CompareSecret("correct-secret", hashedSecret))
	})

	t.Run("Failure_WrongSecret", func(t *testing.T) {
		assert.False(t, service.CompareSecret("wrong-secret", hashedSecret))
	})

	t.Run("Failure_MalformedHash", func(t *testing.T) {
		assert.False(t, service.CompareSecret("correct-secret", "not-a-hash"))
	})
}

func TestSecretService_Fingerprint(t *testing.T) {
	service := NewSecretService()

	fingerprint := service.Fingerprint("secret")

	assert.Len(t, fingerprint, 64)
	assert.Equal(t, fingerprint, service.Fingerprint("secret"))
	assert.NotEqual(t, fingerprint, service.Fingerprint("other"))
	assert.NotContains(t, fingerprint, "secret")
}
