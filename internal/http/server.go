// Package http provides the HTTP API server of the tokenization gateway.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/tokenize/internal/auth/domain"
	authHTTP "github.com/allisson/tokenize/internal/auth/http"
	authUseCase "github.com/allisson/tokenize/internal/auth/usecase"
	"github.com/allisson/tokenize/internal/config"
	"github.com/allisson/tokenize/internal/metrics"
	tokenizationHTTP "github.com/allisson/tokenize/internal/tokenization/http"
)

const readinessTimeout = 2 * time.Second

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Server is the API HTTP server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
	checks map[string]ReadinessCheck
}

// NewServer creates a Server. db may be nil when no SQL vault is configured.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		checks: make(map[string]ReadinessCheck),
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// AddReadinessCheck registers a named component reported by /ready.
func (s *Server) AddReadinessCheck(name string, check ReadinessCheck) {
	s.checks[name] = check
}

// SetupRouter builds the gin engine with every API route.
//
// When authenticator is nil the /v1 routes are served without authentication.
func (s *Server) SetupRouter(
	cfg *config.Config,
	tokenizationHandler *tokenizationHTTP.TokenizationHandler,
	connectionHandler *tokenizationHTTP.ConnectionHandler,
	authenticator authUseCase.Authenticator,
	metricsProvider *metrics.Provider,
	metricsNamespace string,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	if authenticator != nil {
		v1.Use(authHTTP.AuthenticationMiddleware(authenticator, s.logger))
	}

	// authorize is a no-op when authentication is disabled.
	authorize := func(capability authDomain.Capability) gin.HandlerFunc {
		if authenticator == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return authHTTP.AuthorizationMiddleware(capability, s.logger)
	}

	tokens := v1.Group("/tokens")
	{
		tokens.POST("", authorize(authDomain.TokenizeCapability), tokenizationHandler.StoreHandler)
		tokens.POST("/detokenize", authorize(authDomain.DetokenizeCapability), tokenizationHandler.DetokenizeHandler)
		tokens.POST("/validate", authorize(authDomain.ReadCapability), tokenizationHandler.ValidateHandler)
		tokens.POST("/delete", authorize(authDomain.DeleteCapability), tokenizationHandler.DeleteHandler)
	}

	connection := v1.Group("/connection")
	{
		connection.GET("", authorize(authDomain.ReadCapability), connectionHandler.GetHandler)
		connection.POST("/waterfall", authorize(authDomain.WaterfallCapability), connectionHandler.WaterfallHandler)
	}

	reports := v1.Group("/reports")
	{
		reports.GET("/usage", authorize(authDomain.ReadCapability), connectionHandler.UsageStatsHandler)
		reports.GET("/token-count", authorize(authDomain.ReadCapability), connectionHandler.TokenCountHandler)
	}

	s.router = router
}

// GetHandler returns the configured router, nil before SetupRouter.
func (s *Server) GetHandler() http.Handler {
	if s.router == nil {
		return nil
	}
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router is not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports 503 when any registered component fails. The database
// component is reported only when a database is configured.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	checks := make(map[string]ReadinessCheck, len(s.checks)+1)
	for name, check := range s.checks {
		checks[name] = check
	}
	if s.db != nil {
		checks["database"] = s.db.PingContext
	}

	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	ready := true
	components := make(map[string]string, len(checks))
	for _, name := range names {
		if err := checks[name](ctx); err != nil {
			s.logger.Warn("readiness check failed",
				slog.String("component", name),
				slog.Any("error", err))
			components[name] = "error"
			ready = false
			continue
		}
		components[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}
