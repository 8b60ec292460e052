package domain

import (
	"strconv"
	"strings"
)

// ActionError is the normalized error reported by a vault for a single call.
type ActionError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ActionResult is the normalized outcome of the most recent vault call.
// Drivers keep the last result so callers can inspect it after the call returned.
type ActionResult struct {
	Success         bool
	ReferenceNumber string
	Error           *ActionError
}

// Errors returns the error of the result as a list, empty when there is none.
func (r ActionResult) Errors() []ActionError {
	if r.Error == nil {
		return []ActionError{}
	}
	return []ActionError{*r.Error}
}

// ParseActionError splits a vault error string of the form "<code> : <message>".
// A string without the delimiter, or with a non-numeric code, keeps the whole text
// as the message and reports code 0.
func ParseActionError(raw string) *ActionError {
	if raw == "" {
		return nil
	}

	code, message, found := strings.Cut(raw, ActionErrorDelimiter)
	if !found {
		return &ActionError{Message: raw}
	}

	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return &ActionError{Message: raw}
	}

	return &ActionError{Code: n, Message: message}
}

// Outcome describes how the gateway served one Store or Delete call. It is built while
// the call holds its driver, so concurrent calls never see each other's results.
type Outcome struct {
	// Result is the vault result of the call that decided the outcome. For Store it is
	// the result of the tokenize action on the last connection tried.
	Result ActionResult
	// State is the connection that served the last attempt.
	State GatewayState
	// StartSlot is the slot the call started on.
	StartSlot int
	// Failovers counts the slot moves made by this call.
	Failovers int
}
