package http

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const corsWildcard = "*"

// corsConfig builds the gin-contrib/cors configuration for the gateway routes.
// A "*" entry allows any origin and turns credentials off, since browsers reject
// credentialed wildcard responses. ok is false when no origin survives parsing.
func corsConfig(allowOrigins string) (cfg cors.Config, ok bool) {
	origins := splitOrigins(allowOrigins)
	if len(origins) == 0 {
		return cors.Config{}, false
	}

	cfg = cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders:  []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposeHeaders: []string{"X-Request-Id"},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, corsWildcard) {
		cfg.AllowAllOrigins = true
		return cfg, true
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg, true
}

// createCORSMiddleware returns nil when CORS is disabled or misconfigured.
func createCORSMiddleware(enabled bool, allowOrigins string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	cfg, ok := corsConfig(allowOrigins)
	if !ok {
		logger.Warn("CORS enabled but CORS_ALLOW_ORIGINS is empty, skipping")
		return nil
	}

	logger.Info("CORS enabled",
		slog.Bool("allow_all_origins", cfg.AllowAllOrigins),
		slog.Any("origins", cfg.AllowOrigins))
	return cors.New(cfg)
}

// splitOrigins splits a comma-separated origin list, dropping blanks and duplicates.
func splitOrigins(s string) []string {
	var origins []string
	for part := range strings.SplitSeq(s, ",") {
		origin := strings.TrimRight(strings.TrimSpace(part), "/")
		if origin == "" || slices.Contains(origins, origin) {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
