package service

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDGenerator(t *testing.T) {
	t.Run("Success_Dashed", func(t *testing.T) {
		gen := NewUUIDGenerator(false)
		token, err := gen.Generate(0)
		require.NoError(t, err)

		id, err := uuid.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), id.Version())
		assert.Len(t, token, 36)
		assert.NoError(t, gen.Validate(token))
	})

	t.Run("Success_Compact", func(t *testing.T) {
		gen := NewUUIDGenerator(true)
		token, err := gen.Generate(0)
		require.NoError(t, err)

		assert.Len(t, token, 32)
		assert.False(t, strings.Contains(token, "-"))
		assert.NoError(t, gen.Validate(token))
	})

	t.Run("Error_Invalid", func(t *testing.T) {
		assert.Error(t, NewUUIDGenerator(false).Validate("not-a-uuid"))
		assert.Error(t, NewUUIDGenerator(true).Validate(uuid.NewString()))
	})
}
