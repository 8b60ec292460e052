package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	apperrors "github.com/allisson/tokenize/internal/errors"
	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
	"github.com/allisson/tokenize/internal/tokenization/provider"
	"github.com/allisson/tokenize/internal/tokenization/registry"
)

// gatewayUseCase implements Gateway.
type gatewayUseCase struct {
	connections registry.ConnectionRegistry
	drivers     DriverFactory
	codec       EnvelopeCodec
	logger      *slog.Logger

	mu     sync.RWMutex
	state  tokenizationDomain.GatewayState
	driver provider.Tokenizer
}

// NewGatewayUseCase creates a Gateway with no active connection. A nil logger discards
// log output.
func NewGatewayUseCase(
	connections registry.ConnectionRegistry,
	drivers DriverFactory,
	codec EnvelopeCodec,
	logger *slog.Logger,
) Gateway {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &gatewayUseCase{
		connections: connections,
		drivers:     drivers,
		codec:       codec,
		logger:      logger,
	}
}

// OpenGateway creates a Gateway bound to slot 0 of providerName.
func OpenGateway(
	ctx context.Context,
	connections registry.ConnectionRegistry,
	drivers DriverFactory,
	codec EnvelopeCodec,
	logger *slog.Logger,
	providerName string,
) (Gateway, error) {
	gateway := NewGatewayUseCase(connections, drivers, codec, logger)
	if err := gateway.Initialize(ctx, providerName, 0); err != nil {
		return nil, err
	}
	return gateway, nil
}

// Initialize binds the gateway to (providerName, slot).
func (g *gatewayUseCase) Initialize(ctx context.Context, providerName string, slot int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.bindLocked(providerName, slot); err != nil {
		g.logger.Warn("tokenization connection unavailable",
			slog.String("operation", "initialize"),
			slog.String("provider", providerName),
			slog.Int("slot", slot),
			slog.Any("error", err),
		)
		return err
	}

	g.logger.Info("tokenization connection initialized",
		slog.String("provider", providerName),
		slog.Int("slot", slot),
	)
	return nil
}

// ReinitializeConnection advances to the next slot of the active provider.
func (g *gatewayUseCase) ReinitializeConnection(ctx context.Context) error {
	g.mu.RLock()
	state := g.state
	g.mu.RUnlock()

	if !state.Active {
		return tokenizationDomain.ErrNoActiveConnection
	}
	return g.advance(state.Slot)
}

// bindLocked replaces the active driver. The caller holds the write lock.
func (g *gatewayUseCase) bindLocked(providerName string, slot int) error {
	if !g.drivers.Has(providerName) {
		return fmt.Errorf("%w: %q", tokenizationDomain.ErrUnknownProvider, providerName)
	}

	descriptor, ok := g.connections.DescriptorFor(providerName, slot)
	if !ok {
		return fmt.Errorf(
			"%w: provider %q slot %d",
			tokenizationDomain.ErrNoConnectionAvailable,
			providerName,
			slot,
		)
	}

	driver, err := g.drivers.New(providerName, descriptor)
	if err != nil {
		if apperrors.Is(err, tokenizationDomain.ErrConnection) {
			return err
		}
		return apperrors.Join(tokenizationDomain.ErrNoConnectionAvailable, err)
	}

	g.driver = driver
	g.state = tokenizationDomain.GatewayState{Provider: providerName, Slot: slot, Active: true}
	return nil
}

// advance moves from failedSlot to the next slot. It is a no-op when another caller
// already moved past failedSlot.
func (g *gatewayUseCase) advance(failedSlot int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Slot != failedSlot {
		return nil
	}

	providerName := g.state.Provider
	next := failedSlot + 1
	if err := g.bindLocked(providerName, next); err != nil {
		g.logger.Error("tokenization waterfall exhausted",
			slog.String("operation", "reinitialize_connection"),
			slog.String("provider", providerName),
			slog.Int("slot", next),
			slog.Any("error", err),
		)
		return apperrors.Join(tokenizationDomain.ErrWaterfallExhausted, err)
	}

	g.logger.Warn("tokenization waterfall advanced",
		slog.String("provider", providerName),
		slog.Int("from_slot", failedSlot),
		slog.Int("to_slot", next),
	)
	return nil
}

// snapshot returns the active driver and the state it belongs to.
func (g *gatewayUseCase) snapshot() (provider.Tokenizer, tokenizationDomain.GatewayState, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.driver == nil {
		return nil, g.state, tokenizationDomain.ErrNoActiveConnection
	}
	return g.driver, g.state, nil
}

// Store encodes data and tokenizes it, failing over on driver errors.
func (g *gatewayUseCase) Store(ctx context.Context, data any, scheme string) (string, error) {
	token, _, err := g.StoreWithOutcome(ctx, data, scheme)
	return token, err
}

// StoreWithOutcome is Store that also reports the vault result of the call and the slot
// moves it made.
func (g *gatewayUseCase) StoreWithOutcome(
	ctx context.Context,
	data any,
	scheme string,
) (string, tokenizationDomain.Outcome, error) {
	driver, state, err := g.snapshot()
	outcome := tokenizationDomain.Outcome{State: state, StartSlot: state.Slot}
	if err != nil {
		return "", outcome, err
	}

	if scheme == "" {
		scheme = tokenizationDomain.DefaultScheme
	}
	code, err := driver.Schemes().Resolve(scheme)
	if err != nil {
		return "", outcome, fmt.Errorf("%w: %q", err, scheme)
	}

	envelope, err := g.codec.Encode(ctx, data)
	if err != nil {
		g.logFailure("store", state, err)
		return "", outcome, err
	}

	maxAttempts := g.connections.Count(state.Provider)
	var lastErr error

	for attempt := 1; ; attempt++ {
		token, result, err := g.tokenize(ctx, driver, envelope, code)
		outcome.Result = result
		outcome.State = state
		if err == nil {
			return token, outcome, nil
		}
		lastErr = err
		g.logFailure("store", state, err)

		if ctx.Err() != nil {
			return "", outcome, err
		}
		if attempt >= maxAttempts {
			return "", outcome, apperrors.Join(tokenizationDomain.ErrWaterfallExhausted, lastErr)
		}
		if err := g.advance(state.Slot); err != nil {
			return "", outcome, apperrors.Join(err, lastErr)
		}
		outcome.Failovers++

		driver, state, err = g.snapshot()
		if err != nil {
			return "", outcome, err
		}
	}
}

// tokenize issues a token on driver and confirms the vault holds it. The returned result
// is the one recorded by the tokenize action of this call.
func (g *gatewayUseCase) tokenize(
	ctx context.Context,
	driver provider.Tokenizer,
	envelope string,
	code tokenizationDomain.SchemeCode,
) (string, tokenizationDomain.ActionResult, error) {
	callCtx, capture := provider.WithResultCapture(ctx)
	token, err := driver.Tokenize(callCtx, envelope, code)
	if err != nil {
		result, _ := capture.Result()
		return "", result, err
	}
	result := capturedResult(capture, driver)
	if !result.Success {
		return "", result, actionFailure("tokenize", result)
	}
	if token == "" {
		return "", result, fmt.Errorf("%w: vault returned an empty token", tokenizationDomain.ErrActionFailed)
	}

	valid, err := driver.ValidateToken(ctx, token)
	if err != nil {
		return "", result, err
	}
	if !valid {
		return "", result, fmt.Errorf("%w: issued token did not validate", tokenizationDomain.ErrActionFailed)
	}
	return token, result, nil
}

// Get returns the stored payload in its generic JSON form.
func (g *gatewayUseCase) Get(ctx context.Context, token string) (any, error) {
	var value any
	if err := g.GetInto(ctx, token, &value); err != nil {
		return nil, err
	}
	return value, nil
}

// GetInto validates token, detokenizes it and decodes the envelope into out.
func (g *gatewayUseCase) GetInto(ctx context.Context, token string, out any) error {
	driver, state, err := g.snapshot()
	if err != nil {
		return err
	}

	valid, err := driver.ValidateToken(ctx, token)
	if err != nil {
		g.logFailure("get", state, err)
		return err
	}
	if !valid {
		return tokenizationDomain.ErrTokenNotFound
	}

	detokenizeCtx, capture := provider.WithResultCapture(ctx)
	envelope, ok, err := driver.Detokenize(detokenizeCtx, token)
	if err != nil {
		g.logFailure("get", state, err)
		return err
	}
	if !ok {
		err := apperrors.Join(
			tokenizationDomain.ErrDecodeFailed,
			actionFailure("detokenize", capturedResult(capture, driver)),
		)
		g.logFailure("get", state, err)
		return err
	}

	if err := g.codec.Decode(ctx, envelope, out); err != nil {
		g.logFailure("get", state, err)
		return err
	}
	return nil
}

// Validate reports whether the vault holds token.
func (g *gatewayUseCase) Validate(ctx context.Context, token string) (bool, error) {
	driver, state, err := g.snapshot()
	if err != nil {
		return false, err
	}

	valid, err := driver.ValidateToken(ctx, token)
	if err != nil {
		g.logFailure("validate", state, err)
		return false, err
	}
	return valid, nil
}

// Delete removes token from the vault.
func (g *gatewayUseCase) Delete(ctx context.Context, token string) (bool, error) {
	deleted, _, err := g.DeleteWithOutcome(ctx, token)
	return deleted, err
}

// DeleteWithOutcome is Delete that also reports the vault result of the call.
func (g *gatewayUseCase) DeleteWithOutcome(
	ctx context.Context,
	token string,
) (bool, tokenizationDomain.Outcome, error) {
	driver, state, err := g.snapshot()
	outcome := tokenizationDomain.Outcome{State: state, StartSlot: state.Slot}
	if err != nil {
		return false, outcome, err
	}

	callCtx, capture := provider.WithResultCapture(ctx)
	deleted, err := driver.DeleteToken(callCtx, token)
	if err != nil {
		outcome.Result, _ = capture.Result()
		g.logFailure("delete", state, err)
		return false, outcome, err
	}
	outcome.Result = capturedResult(capture, driver)
	return deleted, outcome, nil
}

// Errors returns the errors of the last vault call on the active driver. Concurrent
// calls overwrite it; StoreWithOutcome and DeleteWithOutcome report per-call results.
func (g *gatewayUseCase) Errors() []tokenizationDomain.ActionError {
	driver, _, err := g.snapshot()
	if err != nil {
		return []tokenizationDomain.ActionError{}
	}
	return driver.LastResult().Errors()
}

// ReferenceNumber returns the reference number of the last vault call on the active
// driver.
func (g *gatewayUseCase) ReferenceNumber() string {
	driver, _, err := g.snapshot()
	if err != nil {
		return ""
	}
	return driver.LastResult().ReferenceNumber
}

// UsageStats returns the account usage report.
func (g *gatewayUseCase) UsageStats(ctx context.Context) (map[string]any, error) {
	driver, state, err := g.snapshot()
	if err != nil {
		return nil, err
	}

	stats, err := driver.UsageStats(ctx)
	if err != nil {
		g.logFailure("usage_stats", state, err)
		return nil, err
	}
	return stats, nil
}

// TokenCount returns the number of tokens held for the account.
func (g *gatewayUseCase) TokenCount(ctx context.Context) (int64, error) {
	driver, state, err := g.snapshot()
	if err != nil {
		return 0, err
	}

	count, err := driver.TokenCount(ctx)
	if err != nil {
		g.logFailure("token_count", state, err)
		return 0, err
	}
	return count, nil
}

// State returns a snapshot of the active connection.
func (g *gatewayUseCase) State() tokenizationDomain.GatewayState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

func (g *gatewayUseCase) logFailure(operation string, state tokenizationDomain.GatewayState, err error) {
	g.logger.Error("tokenization operation failed",
		slog.String("operation", operation),
		slog.String("provider", state.Provider),
		slog.Int("slot", state.Slot),
		slog.Any("error", err),
	)
}

// capturedResult returns the result recorded into capture, falling back to the driver's
// last result for drivers that do not record through the call context.
func capturedResult(capture *provider.ResultCapture, driver provider.Tokenizer) tokenizationDomain.ActionResult {
	if result, ok := capture.Result(); ok {
		return result
	}
	return driver.LastResult()
}

// actionFailure describes a vault call that reported failure.
func actionFailure(operation string, result tokenizationDomain.ActionResult) error {
	if result.Error == nil {
		return fmt.Errorf("%w: %s reported failure", tokenizationDomain.ErrActionFailed, operation)
	}
	return fmt.Errorf(
		"%w: %s reported %d %s",
		tokenizationDomain.ErrActionFailed,
		operation,
		result.Error.Code,
		result.Error.Message,
	)
}
