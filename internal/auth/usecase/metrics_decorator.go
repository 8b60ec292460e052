package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/tokenize/internal/auth/domain"
	"github.com/allisson/tokenize/internal/metrics"
)

// authenticatorWithMetrics decorates Authenticator with metrics instrumentation.
type authenticatorWithMetrics struct {
	next    Authenticator
	metrics metrics.BusinessMetrics
}

// NewAuthenticatorWithMetrics wraps an Authenticator with metrics recording.
func NewAuthenticatorWithMetrics(auth Authenticator, m metrics.BusinessMetrics) Authenticator {
	return &authenticatorWithMetrics{
		next:    auth,
		metrics: m,
	}
}

// Authenticate records metrics for authentication attempts.
func (a *authenticatorWithMetrics) Authenticate(
	ctx context.Context,
	plainSecret string,
) (*authDomain.Client, error) {
	start := time.Now()
	client, err := a.next.Authenticate(ctx, plainSecret)

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}

	a.metrics.RecordOperation(ctx, "auth", "authenticate", status)
	a.metrics.RecordDuration(ctx, "auth", "authenticate", time.Since(start), status)

	return client, err
}
