// Package http provides HTTP handlers for token and connection operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/tokenize/internal/httputil"
	"github.com/allisson/tokenize/internal/tokenization/http/dto"
	tokenizationUseCase "github.com/allisson/tokenize/internal/tokenization/usecase"
	customValidation "github.com/allisson/tokenize/internal/validation"
)

// TokenizationHandler handles HTTP requests for token operations.
type TokenizationHandler struct {
	gateway tokenizationUseCase.Gateway
	logger  *slog.Logger
}

// NewTokenizationHandler creates a new tokenization handler with required dependencies.
func NewTokenizationHandler(gateway tokenizationUseCase.Gateway, logger *slog.Logger) *TokenizationHandler {
	return &TokenizationHandler{
		gateway: gateway,
		logger:  logger,
	}
}

// bindTokenRequest parses and validates a TokenRequest, writing the error response on failure.
func (h *TokenizationHandler) bindTokenRequest(c *gin.Context) (dto.TokenRequest, bool) {
	var req dto.TokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return req, false
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return req, false
	}

	return req, true
}

// StoreHandler tokenizes the request payload.
// POST /v1/tokens
// Returns 201 Created with the issued token.
func (h *TokenizationHandler) StoreHandler(c *gin.Context) {
	var req dto.StoreRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	token, outcome, err := h.gateway.StoreWithOutcome(c.Request.Context(), req.Data, req.Scheme)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.StoreResponse{
		Token:           token,
		ReferenceNumber: outcome.Result.ReferenceNumber,
	})
}

// DetokenizeHandler returns the payload stored for a token.
// POST /v1/tokens/detokenize
func (h *TokenizationHandler) DetokenizeHandler(c *gin.Context) {
	req, ok := h.bindTokenRequest(c)
	if !ok {
		return
	}

	data, err := h.gateway.Get(c.Request.Context(), req.Token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DetokenizeResponse{Data: data})
}

// ValidateHandler reports whether the vault holds a token.
// POST /v1/tokens/validate
func (h *TokenizationHandler) ValidateHandler(c *gin.Context) {
	req, ok := h.bindTokenRequest(c)
	if !ok {
		return
	}

	valid, err := h.gateway.Validate(c.Request.Context(), req.Token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ValidateTokenResponse{Valid: valid})
}

// DeleteHandler removes a token from the vault.
// POST /v1/tokens/delete
// A token the vault does not hold is reported with deleted=false and the vault errors.
func (h *TokenizationHandler) DeleteHandler(c *gin.Context) {
	req, ok := h.bindTokenRequest(c)
	if !ok {
		return
	}

	deleted, outcome, err := h.gateway.DeleteWithOutcome(c.Request.Context(), req.Token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteTokenResponse{
		Deleted:         deleted,
		ReferenceNumber: outcome.Result.ReferenceNumber,
		Errors:          dto.MapActionErrorsToResponse(outcome.Result.Errors()),
	})
}
