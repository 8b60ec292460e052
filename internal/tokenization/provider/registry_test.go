package provider

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
)

type stubTokenizer struct {
	ResultRecorder
	descriptor tokenizationDomain.ConnectionDescriptor
}

func (s *stubTokenizer) Tokenize(context.Context, string, tokenizationDomain.SchemeCode) (string, error) {
	return "tok", nil
}

func (s *stubTokenizer) TokenizeFromEncryptedData(
	context.Context,
	string,
	tokenizationDomain.SchemeCode,
) (string, error) {
	return "tok", nil
}

func (s *stubTokenizer) TokenizeFromCreditCardNumber(context.Context, string) (string, error) {
	return "tok", nil
}

func (s *stubTokenizer) ValidateToken(context.Context, string) (bool, error) { return true, nil }

func (s *stubTokenizer) Detokenize(context.Context, string) (string, bool, error) {
	return "", false, nil
}

func (s *stubTokenizer) DeleteToken(context.Context, string) (bool, error) { return false, nil }

func (s *stubTokenizer) UsageStats(context.Context) (map[string]any, error) { return nil, nil }

func (s *stubTokenizer) TokenCount(context.Context) (int64, error) { return 0, nil }

func (s *stubTokenizer) Schemes() tokenizationDomain.SchemeTable {
	return tokenizationDomain.StandardSchemes
}

func stubFactory(d tokenizationDomain.ConnectionDescriptor) (Tokenizer, error) {
	return &stubTokenizer{descriptor: d}, nil
}

func TestRegistry_New(t *testing.T) {
	reg := NewRegistry()
	reg.Register("Stub", stubFactory)
	reg.Register("Broken", func(tokenizationDomain.ConnectionDescriptor) (Tokenizer, error) {
		return nil, errors.New("boom")
	})

	t.Run("Success", func(t *testing.T) {
		d := tokenizationDomain.ConnectionDescriptor{Sandbox: true, ID: "id", APIKey: "key"}
		tok, err := reg.New("Stub", d)
		require.NoError(t, err)
		assert.Equal(t, d, tok.(*stubTokenizer).descriptor)
	})

	t.Run("Error_UnknownProvider", func(t *testing.T) {
		tok, err := reg.New("stub", tokenizationDomain.ConnectionDescriptor{})
		assert.Nil(t, tok)
		assert.ErrorIs(t, err, tokenizationDomain.ErrUnknownProvider)
		assert.ErrorIs(t, err, tokenizationDomain.ErrConnection)
	})

	t.Run("Error_FactoryFailure", func(t *testing.T) {
		_, err := reg.New("Broken", tokenizationDomain.ConnectionDescriptor{})
		assert.EqualError(t, err, "boom")
	})
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry()
	reg.Register("TokenEx", stubFactory)
	reg.Register("Test", stubFactory)

	assert.Equal(t, []string{"Test", "TokenEx"}, reg.Names())
	assert.True(t, reg.Has("Test"))
	assert.False(t, reg.Has("SQL"))
}

func TestResultRecorder(t *testing.T) {
	var rec ResultRecorder
	assert.Equal(t, tokenizationDomain.ActionResult{}, rec.LastResult())
	assert.Empty(t, rec.LastResult().Errors())

	rec.Succeed(context.Background(), "ref-1")
	assert.Equal(t, tokenizationDomain.ActionResult{Success: true, ReferenceNumber: "ref-1"}, rec.LastResult())

	rec.Fail(context.Background(), "ref-2", tokenizationDomain.NotFoundActionErrorCode, tokenizationDomain.NotFoundActionErrorMessage)
	last := rec.LastResult()
	assert.False(t, last.Success)
	assert.Equal(t, "ref-2", last.ReferenceNumber)
	assert.Equal(t, []tokenizationDomain.ActionError{{Code: 3000, Message: "Token does not exist"}}, last.Errors())
}

func TestResultRecorder_Concurrent(t *testing.T) {
	var (
		rec ResultRecorder
		wg  sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			rec.Succeed(context.Background(), NewReferenceNumber())
		}()
		go func() {
			defer wg.Done()
			_ = rec.LastResult()
		}()
	}
	wg.Wait()
	assert.True(t, rec.LastResult().Success)
}

func TestResultCapture(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		_, capture := WithResultCapture(context.Background())
		_, ok := capture.Result()
		assert.False(t, ok)
	})

	t.Run("KeepsOwnCallResult", func(t *testing.T) {
		var (
			rec ResultRecorder
			wg  sync.WaitGroup
		)
		ctx, capture := WithResultCapture(context.Background())
		rec.Fail(ctx, "mine", tokenizationDomain.NotFoundActionErrorCode, tokenizationDomain.NotFoundActionErrorMessage)

		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				rec.Succeed(context.Background(), NewReferenceNumber())
			}()
		}
		wg.Wait()

		result, ok := capture.Result()
		require.True(t, ok)
		assert.False(t, result.Success)
		assert.Equal(t, "mine", result.ReferenceNumber)
		assert.Equal(t, 3000, result.Error.Code)
		assert.True(t, rec.LastResult().Success)
	})
}

func TestNewReferenceNumber(t *testing.T) {
	a := NewReferenceNumber()
	b := NewReferenceNumber()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
