package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// createTestClient creates a Client instance with the given policies for testing.
func createTestClient(policies []PolicyDocument) *Client {
	return &Client{
		Name:     "test-client",
		Secret:   "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		IsActive: true,
		Policies: policies,
	}
}

func TestClient_IsAllowed(t *testing.T) {
	tests := []struct {
		name       string
		policies   []PolicyDocument
		path       string
		capability Capability
		expected   bool
	}{
		{
			name:       "Success_WildcardMatchesAnyPath",
			policies:   []PolicyDocument{{Path: "*", Capabilities: []Capability{ReadCapability}}},
			path:       "/v1/connection",
			capability: ReadCapability,
			expected:   true,
		},
		{
			name:       "Failure_WildcardWithWrongCapability",
			policies:   []PolicyDocument{{Path: "*", Capabilities: []Capability{ReadCapability}}},
			path:       "/v1/tokens",
			capability: TokenizeCapability,
			expected:   false,
		},
		{
			name:       "Success_ExactPath",
			policies:   []PolicyDocument{{Path: "/v1/tokens", Capabilities: []Capability{TokenizeCapability}}},
			path:       "/v1/tokens",
			capability: TokenizeCapability,
			expected:   true,
		},
		{
			name:       "Failure_ExactPathIsCaseSensitive",
			policies:   []PolicyDocument{{Path: "/v1/tokens", Capabilities: []Capability{TokenizeCapability}}},
			path:       "/v1/Tokens",
			capability: TokenizeCapability,
			expected:   false,
		},
		{
			name:       "Success_TrailingWildcard",
			policies:   []PolicyDocument{{Path: "/v1/tokens/*", Capabilities: []Capability{DetokenizeCapability}}},
			path:       "/v1/tokens/detokenize",
			capability: DetokenizeCapability,
			expected:   true,
		},
		{
			name:       "Failure_TrailingWildcardDoesNotMatchPrefixItself",
			policies:   []PolicyDocument{{Path: "/v1/tokens/*", Capabilities: []Capability{TokenizeCapability}}},
			path:       "/v1/tokens",
			capability: TokenizeCapability,
			expected:   false,
		},
		{
			name:       "Success_MidPathWildcard",
			policies:   []PolicyDocument{{Path: "/v1/*/usage", Capabilities: []Capability{ReadCapability}}},
			path:       "/v1/reports/usage",
			capability: ReadCapability,
			expected:   true,
		},
		{
			name:       "Failure_MidPathWildcardSegmentCount",
			policies:   []PolicyDocument{{Path: "/v1/*/usage", Capabilities: []Capability{ReadCapability}}},
			path:       "/v1/reports/x/usage",
			capability: ReadCapability,
			expected:   false,
		},
		{
			name:       "Failure_EmptyPath",
			policies:   []PolicyDocument{{Path: "*", Capabilities: []Capability{ReadCapability}}},
			path:       "",
			capability: ReadCapability,
			expected:   false,
		},
		{
			name:       "Failure_NoPolicies",
			path:       "/v1/tokens",
			capability: TokenizeCapability,
			expected:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := createTestClient(tt.policies)
			assert.Equal(t, tt.expected, client.IsAllowed(tt.path, tt.capability))
		})
	}
}

func TestClient_Validate(t *testing.T) {
	t.Run("Success_ValidClient", func(t *testing.T) {
		client := createTestClient([]PolicyDocument{{Path: "*", Capabilities: Capabilities}})
		assert.NoError(t, client.Validate())
	})

	t.Run("Error_MissingName", func(t *testing.T) {
		client := createTestClient(nil)
		client.Name = " "
		assert.ErrorIs(t, client.Validate(), ErrInvalidClient)
	})

	t.Run("Error_MissingSecret", func(t *testing.T) {
		client := createTestClient(nil)
		client.Secret = ""
		assert.ErrorIs(t, client.Validate(), ErrInvalidClient)
	})

	t.Run("Error_UnknownCapability", func(t *testing.T) {
		client := createTestClient([]PolicyDocument{{Path: "*", Capabilities: []Capability{"encrypt"}}})
		err := client.Validate()
		assert.ErrorIs(t, err, ErrInvalidClient)
		assert.Contains(t, err.Error(), "encrypt")
	})
}
