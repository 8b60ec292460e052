package provider

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
)

type captureKey struct{}

// ResultCapture holds the ActionResult recorded by a driver for a single call.
type ResultCapture struct {
	mu       sync.Mutex
	result   tokenizationDomain.ActionResult
	recorded bool
}

// WithResultCapture returns a context whose driver calls record their ActionResult into
// the returned capture in addition to the driver's last result.
func WithResultCapture(ctx context.Context) (context.Context, *ResultCapture) {
	capture := &ResultCapture{}
	return context.WithValue(ctx, captureKey{}, capture), capture
}

// Result returns the captured result. ok is false when no driver recorded one.
func (c *ResultCapture) Result() (tokenizationDomain.ActionResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result, c.recorded
}

func (c *ResultCapture) set(result tokenizationDomain.ActionResult) {
	c.mu.Lock()
	c.result = result
	c.recorded = true
	c.mu.Unlock()
}

// ResultRecorder keeps the last ActionResult of a driver. The zero value is ready to use.
type ResultRecorder struct {
	mu   sync.RWMutex
	last tokenizationDomain.ActionResult
}

// Record replaces the last result and fills the capture carried by ctx, if any.
func (r *ResultRecorder) Record(ctx context.Context, result tokenizationDomain.ActionResult) {
	r.mu.Lock()
	r.last = result
	r.mu.Unlock()

	if capture, ok := ctx.Value(captureKey{}).(*ResultCapture); ok {
		capture.set(result)
	}
}

// Succeed records a successful call.
func (r *ResultRecorder) Succeed(ctx context.Context, referenceNumber string) {
	r.Record(ctx, tokenizationDomain.ActionResult{Success: true, ReferenceNumber: referenceNumber})
}

// Fail records a failed call with the given vault error.
func (r *ResultRecorder) Fail(ctx context.Context, referenceNumber string, code int, message string) {
	r.Record(ctx, tokenizationDomain.ActionResult{
		ReferenceNumber: referenceNumber,
		Error:           &tokenizationDomain.ActionError{Code: code, Message: message},
	})
}

// LastResult returns the last recorded result. Concurrent callers overwrite it; use
// WithResultCapture to read the result of one call.
func (r *ResultRecorder) LastResult() tokenizationDomain.ActionResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// NewReferenceNumber returns a reference number for local vault calls.
func NewReferenceNumber() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return strings.ReplaceAll(id.String(), "-", "")
}
