// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
	"github.com/allisson/tokenize/internal/tokenization/service"
	customValidation "github.com/allisson/tokenize/internal/validation"
)

// StoreRequest contains the payload to tokenize.
type StoreRequest struct {
	Data   any    `json:"data"`
	Scheme string `json:"scheme,omitempty"` // Defaults to GUID
}

// Validate checks if the store request is valid.
func (r *StoreRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Data,
			validation.NotNil,
		),
		validation.Field(&r.Scheme,
			customValidation.NoWhitespace,
			validation.In(schemeNames()...),
		),
	)
}

// TokenRequest names the token of a detokenize, validate or delete call.
type TokenRequest struct {
	Token string `json:"token"`
}

// Validate checks if the token request is valid.
func (r *TokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token,
			validation.Required,
			customValidation.NotBlank,
			customValidation.PrintableASCII,
			validation.Length(1, service.MaxTokenLength),
		),
	)
}

func schemeNames() []any {
	names := tokenizationDomain.StandardSchemes.Names()
	values := make([]any, 0, len(names))
	for _, name := range names {
		values = append(values, name)
	}
	return values
}
