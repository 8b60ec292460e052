package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
)

func TestMapActionErrorsToResponse(t *testing.T) {
	t.Run("Success_MapsErrors", func(t *testing.T) {
		responses := MapActionErrorsToResponse([]tokenizationDomain.ActionError{
			{Code: 3000, Message: "Token does not exist"},
		})

		assert.Equal(t, []ActionErrorResponse{{Code: 3000, Message: "Token does not exist"}}, responses)
	})

	t.Run("Success_EmptyIsNotNil", func(t *testing.T) {
		responses := MapActionErrorsToResponse(nil)

		assert.NotNil(t, responses)
		assert.Empty(t, responses)
	})
}

func TestMapStateToConnectionResponse(t *testing.T) {
	response := MapStateToConnectionResponse(tokenizationDomain.GatewayState{
		Provider: "TokenEx",
		Slot:     2,
		Active:   true,
	})

	assert.Equal(t, ConnectionResponse{Provider: "TokenEx", Slot: 2, Active: true}, response)
}
