package dto

import (
	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
)

// ActionErrorResponse is a vault error reported by the last call.
type ActionErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MapActionErrorsToResponse converts vault action errors to API responses.
func MapActionErrorsToResponse(errs []tokenizationDomain.ActionError) []ActionErrorResponse {
	responses := make([]ActionErrorResponse, 0, len(errs))
	for _, e := range errs {
		responses = append(responses, ActionErrorResponse{Code: e.Code, Message: e.Message})
	}
	return responses
}

// StoreResponse represents the result of tokenizing a payload.
type StoreResponse struct {
	Token           string `json:"token"`
	ReferenceNumber string `json:"reference_number,omitempty"`
}

// DetokenizeResponse represents the payload stored for a token.
type DetokenizeResponse struct {
	Data any `json:"data"`
}

// ValidateTokenResponse represents the result of validating a token.
type ValidateTokenResponse struct {
	Valid bool `json:"valid"`
}

// DeleteTokenResponse represents the result of deleting a token.
type DeleteTokenResponse struct {
	Deleted         bool                  `json:"deleted"`
	ReferenceNumber string                `json:"reference_number,omitempty"`
	Errors          []ActionErrorResponse `json:"errors"`
}

// ConnectionResponse represents the active vault connection.
type ConnectionResponse struct {
	Provider string `json:"provider"`
	Slot     int    `json:"slot"`
	Active   bool   `json:"active"`
}

// MapStateToConnectionResponse converts a gateway state to an API response.
func MapStateToConnectionResponse(state tokenizationDomain.GatewayState) ConnectionResponse {
	return ConnectionResponse{
		Provider: state.Provider,
		Slot:     state.Slot,
		Active:   state.Active,
	}
}

// UsageStatsResponse represents the account usage report of the vault.
type UsageStatsResponse struct {
	Stats map[string]any `json:"stats"`
}

// TokenCountResponse represents the number of tokens held for the account.
type TokenCountResponse struct {
	Count int64 `json:"count"`
}
