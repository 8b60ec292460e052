package usecase

import (
	"context"
	"time"

	apperrors "github.com/allisson/tokenize/internal/errors"
	"github.com/allisson/tokenize/internal/metrics"
	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
)

const metricsDomain = "tokenization"

// gatewayWithMetrics decorates Gateway with metrics instrumentation.
type gatewayWithMetrics struct {
	next    Gateway
	metrics metrics.BusinessMetrics
}

// NewGatewayUseCaseWithMetrics wraps a Gateway with metrics recording.
func NewGatewayUseCaseWithMetrics(gateway Gateway, m metrics.BusinessMetrics) Gateway {
	return &gatewayWithMetrics{
		next:    gateway,
		metrics: m,
	}
}

func status(err error) string {
	if err != nil {
		return metrics.StatusError
	}
	return metrics.StatusSuccess
}

func (g *gatewayWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	g.metrics.RecordOperation(ctx, metricsDomain, operation, status(err))
	g.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status(err))
}

// Initialize records metrics for connection initialization.
func (g *gatewayWithMetrics) Initialize(ctx context.Context, provider string, slot int) error {
	start := time.Now()
	err := g.next.Initialize(ctx, provider, slot)
	g.record(ctx, "initialize", start, err)
	return err
}

// ReinitializeConnection records metrics for manual waterfall advances.
func (g *gatewayWithMetrics) ReinitializeConnection(ctx context.Context) error {
	start := time.Now()
	err := g.next.ReinitializeConnection(ctx)
	g.record(ctx, "reinitialize", start, err)

	state := g.next.State()
	g.metrics.RecordWaterfall(ctx, state.Provider, state.Slot, status(err))
	return err
}

// Store records metrics for tokenization.
func (g *gatewayWithMetrics) Store(ctx context.Context, data any, scheme string) (string, error) {
	token, _, err := g.StoreWithOutcome(ctx, data, scheme)
	return token, err
}

// StoreWithOutcome records metrics for tokenization, plus a waterfall transition when
// the call ran out of slots or moved the active slot.
func (g *gatewayWithMetrics) StoreWithOutcome(
	ctx context.Context,
	data any,
	scheme string,
) (string, tokenizationDomain.Outcome, error) {
	start := time.Now()
	token, outcome, err := g.next.StoreWithOutcome(ctx, data, scheme)
	g.record(ctx, "store", start, err)

	switch {
	case apperrors.Is(err, tokenizationDomain.ErrWaterfallExhausted):
		g.metrics.RecordWaterfall(ctx, outcome.State.Provider, outcome.State.Slot, metrics.StatusError)
	case outcome.Failovers > 0:
		g.metrics.RecordWaterfall(ctx, outcome.State.Provider, outcome.State.Slot, metrics.StatusSuccess)
	}
	return token, outcome, err
}

// Get records metrics for detokenization.
func (g *gatewayWithMetrics) Get(ctx context.Context, token string) (any, error) {
	start := time.Now()
	value, err := g.next.Get(ctx, token)
	g.record(ctx, "get", start, err)
	return value, err
}

// GetInto records metrics for typed detokenization.
func (g *gatewayWithMetrics) GetInto(ctx context.Context, token string, out any) error {
	start := time.Now()
	err := g.next.GetInto(ctx, token, out)
	g.record(ctx, "get", start, err)
	return err
}

// Validate records metrics for token validation.
func (g *gatewayWithMetrics) Validate(ctx context.Context, token string) (bool, error) {
	start := time.Now()
	valid, err := g.next.Validate(ctx, token)
	g.record(ctx, "validate", start, err)
	return valid, err
}

// Delete records metrics for token deletion.
func (g *gatewayWithMetrics) Delete(ctx context.Context, token string) (bool, error) {
	deleted, _, err := g.DeleteWithOutcome(ctx, token)
	return deleted, err
}

// DeleteWithOutcome records metrics for token deletion.
func (g *gatewayWithMetrics) DeleteWithOutcome(
	ctx context.Context,
	token string,
) (bool, tokenizationDomain.Outcome, error) {
	start := time.Now()
	deleted, outcome, err := g.next.DeleteWithOutcome(ctx, token)
	g.record(ctx, "delete", start, err)
	return deleted, outcome, err
}

func (g *gatewayWithMetrics) Errors() []tokenizationDomain.ActionError {
	return g.next.Errors()
}

func (g *gatewayWithMetrics) ReferenceNumber() string {
	return g.next.ReferenceNumber()
}

// UsageStats records metrics for usage reports.
func (g *gatewayWithMetrics) UsageStats(ctx context.Context) (map[string]any, error) {
	start := time.Now()
	stats, err := g.next.UsageStats(ctx)
	g.record(ctx, "usage_stats", start, err)
	return stats, err
}

// TokenCount records metrics for token counts.
func (g *gatewayWithMetrics) TokenCount(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := g.next.TokenCount(ctx)
	g.record(ctx, "token_count", start, err)
	return count, err
}

func (g *gatewayWithMetrics) State() tokenizationDomain.GatewayState {
	return g.next.State()
}
