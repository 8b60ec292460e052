// Package errors defines the error kinds the gateway reports. Domain packages wrap one
// of these sentinels so handlers can pick a status code with Is, independent of which
// vault provider produced the failure.
package errors

import (
	"errors"
	"fmt"
)

// Error kinds. httputil maps each to an HTTP status.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrUnavailable means no usable vault connection exists.
	ErrUnavailable = errors.New("service unavailable")

	// ErrUpstream means a vault answered with a failure or an unreadable response.
	ErrUpstream = errors.New("upstream failure")
)

// Wrap prefixes err with message, keeping err reachable. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Join attaches cause to kind so both match Is and As. A nil cause returns kind.
func Join(kind, cause error) error {
	if cause == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, cause)
}

// Is is errors.Is, re-exported so callers need a single errors import.
func Is(err, target error) bool { return errors.Is(err, target) }

// As is errors.As, re-exported so callers need a single errors import.
func As(err error, target any) bool { return errors.As(err, target) }
