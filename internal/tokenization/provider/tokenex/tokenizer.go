// Package tokenex implements the "TokenEx" vault provider over the TokenEx REST API.
package tokenex

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	apperrors "github.com/allisson/tokenize/internal/errors"
	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
	"github.com/allisson/tokenize/internal/tokenization/provider"
)

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 1 << 20

// Config holds the transport settings shared by every TokenEx driver.
type Config struct {
	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// BreakerFailureThreshold is the number of consecutive transport failures that
	// opens the circuit.
	BreakerFailureThreshold uint32

	// BreakerTimeout is how long the circuit stays open before probing again.
	BreakerTimeout time.Duration

	// BreakerMaxRequests is the number of probes allowed while half-open.
	BreakerMaxRequests uint32

	// BaseURL overrides the sandbox/live URL selected by the descriptor.
	BaseURL string

	// HTTPClient overrides the default TLS 1.2+ client.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// DefaultConfig returns the default transport settings.
func DefaultConfig() Config {
	return Config{
		Timeout:                 30 * time.Second,
		BreakerFailureThreshold: 5,
		BreakerTimeout:          30 * time.Second,
		BreakerMaxRequests:      1,
	}
}

// Tokenizer talks to one TokenEx account.
type Tokenizer struct {
	provider.ResultRecorder

	baseURL string
	id      string
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// New creates a driver for the descriptor.
func New(descriptor tokenizationDomain.ConnectionDescriptor, cfg Config) *Tokenizer {
	baseURL := LiveURL
	if descriptor.Sandbox {
		baseURL = SandboxURL
	}
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = newHTTPClient(cfg.Timeout)
	}

	t := &Tokenizer{
		baseURL: strings.TrimRight(baseURL, "/"),
		id:      descriptor.ID,
		apiKey:  descriptor.APIKey,
		client:  client,
		logger:  logger,
	}
	t.breaker = newBreaker("tokenex:"+descriptor.ID, cfg, logger)
	return t
}

// NewFactory returns a provider.Factory building drivers with cfg.
func NewFactory(cfg Config) provider.Factory {
	return func(descriptor tokenizationDomain.ConnectionDescriptor) (provider.Tokenizer, error) {
		return New(descriptor, cfg), nil
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	return &http.Client{Timeout: timeout, Transport: transport}
}

func newBreaker(name string, cfg Config, logger *slog.Logger) *gobreaker.CircuitBreaker {
	threshold := cfg.BreakerFailureThreshold
	if threshold == 0 {
		threshold = DefaultConfig().BreakerFailureThreshold
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.BreakerMaxRequests,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
}

// Tokenize sends the Tokenize action.
func (t *Tokenizer) Tokenize(
	ctx context.Context,
	data string,
	scheme tokenizationDomain.SchemeCode,
) (string, error) {
	raw, err := t.send(ctx, ActionTokenize, map[string]any{
		ParamData:        data,
		ParamTokenScheme: int(scheme),
	})
	if err != nil {
		return "", err
	}
	return decodeString(ActionTokenize, raw)
}

// TokenizeFromEncryptedData sends the TokenizeFromEncryptedValue action.
func (t *Tokenizer) TokenizeFromEncryptedData(
	ctx context.Context,
	encrypted string,
	scheme tokenizationDomain.SchemeCode,
) (string, error) {
	raw, err := t.send(ctx, ActionTokenizeFromEncryptedValue, map[string]any{
		ParamEncryptedData: encrypted,
		ParamTokenScheme:   int(scheme),
	})
	if err != nil {
		return "", err
	}
	return decodeString(ActionTokenizeFromEncryptedValue, raw)
}

// TokenizeFromCreditCardNumber tokenizes ccNumber with the TOKENfour scheme.
func (t *Tokenizer) TokenizeFromCreditCardNumber(ctx context.Context, ccNumber string) (string, error) {
	return t.Tokenize(ctx, ccNumber, tokenizationDomain.StandardSchemes[tokenizationDomain.CreditCardScheme])
}

// ValidateToken sends the ValidateToken action.
func (t *Tokenizer) ValidateToken(ctx context.Context, token string) (bool, error) {
	raw, err := t.send(ctx, ActionValidateToken, map[string]any{ParamToken: token})
	if err != nil {
		return false, err
	}
	return decodeBool(ActionValidateToken, raw)
}

// Detokenize sends the Detokenize action. ok is false unless the vault reported success
// and returned a value.
func (t *Tokenizer) Detokenize(ctx context.Context, token string) (string, bool, error) {
	raw, result, err := t.exchange(ctx, ActionDetokenize, map[string]any{ParamToken: token})
	if err != nil {
		return "", false, err
	}
	if isNull(raw) {
		return "", false, nil
	}
	value, err := decodeString(ActionDetokenize, raw)
	if err != nil {
		return "", false, err
	}
	return value, result.Success, nil
}

// DeleteToken sends the DeleteToken action.
func (t *Tokenizer) DeleteToken(ctx context.Context, token string) (bool, error) {
	raw, err := t.send(ctx, ActionDeleteToken, map[string]any{ParamToken: token})
	if err != nil {
		return false, err
	}
	return decodeBool(ActionDeleteToken, raw)
}

// UsageStats sends the GetUsageStats action.
func (t *Tokenizer) UsageStats(ctx context.Context) (map[string]any, error) {
	raw, err := t.send(ctx, ActionGetUsageStats, nil)
	if err != nil {
		return nil, err
	}
	if isNull(raw) {
		return map[string]any{}, nil
	}

	var stats map[string]any
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, malformed(ActionGetUsageStats, err)
	}
	return stats, nil
}

// TokenCount reads TokenCount from the usage stats endpoint.
func (t *Tokenizer) TokenCount(ctx context.Context) (int64, error) {
	raw, err := t.send(ctx, ActionGetTokenCount, nil)
	if err != nil {
		return 0, err
	}
	if isNull(raw) {
		return 0, nil
	}

	var count int64
	if err := json.Unmarshal(raw, &count); err != nil {
		return 0, malformed(ActionGetTokenCount, err)
	}
	return count, nil
}

// Schemes returns the TokenEx scheme table.
func (t *Tokenizer) Schemes() tokenizationDomain.SchemeTable {
	return tokenizationDomain.StandardSchemes
}

// send posts the action and records the ActionResult. It returns the raw value of the
// action key, which is nil when the key is absent.
func (t *Tokenizer) send(ctx context.Context, action Action, params map[string]any) (json.RawMessage, error) {
	raw, _, err := t.exchange(ctx, action, params)
	return raw, err
}

// exchange is send that also returns the ActionResult of this call.
func (t *Tokenizer) exchange(
	ctx context.Context,
	action Action,
	params map[string]any,
) (json.RawMessage, tokenizationDomain.ActionResult, error) {
	body := map[string]any{
		ParamAPIKey:    t.apiKey,
		ParamTokenExID: t.id,
	}
	for k, v := range params {
		body[k] = v
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, tokenizationDomain.ActionResult{}, apperrors.Join(tokenizationDomain.ErrDriver, err)
	}

	result, err := t.breaker.Execute(func() (interface{}, error) {
		data, err := t.post(ctx, t.baseURL+"/"+action.Path, payload)
		if err != nil {
			return nil, err
		}
		var response map[string]json.RawMessage
		if err := json.Unmarshal(data, &response); err != nil {
			return nil, malformed(action, err)
		}
		return response, nil
	})
	if err != nil {
		t.Record(ctx, tokenizationDomain.ActionResult{})
		t.logger.Debug("tokenex request failed",
			slog.String("action", action.Name),
			slog.Any("error", err),
		)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, tokenizationDomain.ActionResult{}, apperrors.Join(tokenizationDomain.ErrDriver, err)
		}
		return nil, tokenizationDomain.ActionResult{}, err
	}

	response := result.(map[string]json.RawMessage)
	actionResult := t.record(ctx, action, response)
	return response[action.Key], actionResult, nil
}

func (t *Tokenizer) post(ctx context.Context, url string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Join(tokenizationDomain.ErrDriver, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, apperrors.Join(tokenizationDomain.ErrDriver, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, apperrors.Join(tokenizationDomain.ErrDriver, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", tokenizationDomain.ErrDriver, resp.StatusCode)
	}
	return data, nil
}

func (t *Tokenizer) record(
	ctx context.Context,
	action Action,
	response map[string]json.RawMessage,
) tokenizationDomain.ActionResult {
	var (
		success  bool
		rawError string
		ref      string
	)
	_ = json.Unmarshal(response[ResponseSuccess], &success)
	_ = json.Unmarshal(response[ResponseError], &rawError)
	_ = json.Unmarshal(response[ResponseReferenceNumber], &ref)

	result := tokenizationDomain.ActionResult{
		Success:         success,
		ReferenceNumber: ref,
		Error:           tokenizationDomain.ParseActionError(rawError),
	}
	t.Record(ctx, result)

	attrs := []any{
		slog.String("action", action.Name),
		slog.Bool("success", success),
		slog.String("reference_number", ref),
	}
	if result.Error != nil {
		attrs = append(attrs,
			slog.Int("error_code", result.Error.Code),
			slog.String("error_message", result.Error.Message),
		)
	}
	t.logger.Debug("tokenex response", attrs...)
	return result
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeString(action Action, raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", malformed(action, err)
	}
	return s, nil
}

func decodeBool(action Action, raw json.RawMessage) (bool, error) {
	if isNull(raw) {
		return false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, malformed(action, err)
	}
	return b, nil
}

func malformed(action Action, err error) error {
	return apperrors.Join(
		tokenizationDomain.ErrMalformedResponse,
		fmt.Errorf("%s: %w", action.Name, err),
	)
}
