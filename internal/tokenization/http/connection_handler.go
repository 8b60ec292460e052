package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/tokenize/internal/httputil"
	"github.com/allisson/tokenize/internal/tokenization/http/dto"
	tokenizationUseCase "github.com/allisson/tokenize/internal/tokenization/usecase"
)

// ConnectionHandler exposes the active vault connection and the vault reports.
type ConnectionHandler struct {
	gateway tokenizationUseCase.Gateway
	logger  *slog.Logger
}

// NewConnectionHandler creates a new connection handler with required dependencies.
func NewConnectionHandler(gateway tokenizationUseCase.Gateway, logger *slog.Logger) *ConnectionHandler {
	return &ConnectionHandler{
		gateway: gateway,
		logger:  logger,
	}
}

// GetHandler returns the active connection.
// GET /v1/connection
func (h *ConnectionHandler) GetHandler(c *gin.Context) {
	c.JSON(http.StatusOK, dto.MapStateToConnectionResponse(h.gateway.State()))
}

// WaterfallHandler advances the gateway to the next configured connection.
// POST /v1/connection/waterfall
func (h *ConnectionHandler) WaterfallHandler(c *gin.Context) {
	if err := h.gateway.ReinitializeConnection(c.Request.Context()); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStateToConnectionResponse(h.gateway.State()))
}

// UsageStatsHandler returns the account usage report.
// GET /v1/reports/usage
func (h *ConnectionHandler) UsageStatsHandler(c *gin.Context) {
	stats, err := h.gateway.UsageStats(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.UsageStatsResponse{Stats: stats})
}

// TokenCountHandler returns the number of tokens held for the account.
// GET /v1/reports/token-count
func (h *ConnectionHandler) TokenCountHandler(c *gin.Context) {
	count, err := h.gateway.TokenCount(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.TokenCountResponse{Count: count})
}
