package domain

import (
	"github.com/allisson/tokenize/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrInvalidCredentials indicates the bearer secret matches no configured client.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrClientInactive indicates the client exists but is disabled.
	ErrClientInactive = errors.Wrap(errors.ErrForbidden, "client is inactive")

	// ErrInvalidClient indicates a client definition is incomplete.
	ErrInvalidClient = errors.Wrap(errors.ErrInvalidInput, "invalid client definition")
)
