package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
	"github.com/allisson/tokenize/internal/tokenization/provider"
)

var _ provider.Tokenizer = (*Tokenizer)(nil)

func newTestTokenizer() *Tokenizer {
	return NewWithSeed(tokenizationDomain.ConnectionDescriptor{Sandbox: true, ID: "acct", APIKey: "key"}, DefaultSeed)
}

func TestTokenizer_Tokenize(t *testing.T) {
	ctx := context.Background()

	t.Run("tokens are UUIDv5", func(t *testing.T) {
		tok := newTestTokenizer()
		token, err := tok.Tokenize(ctx, `"4242424242424242"`, 4)
		require.NoError(t, err)

		id, err := uuid.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(5), id.Version())
		assert.True(t, tok.LastResult().Success)
	})

	t.Run("fresh drivers issue the same sequence", func(t *testing.T) {
		a := newTestTokenizer()
		b := newTestTokenizer()

		for i := 1; i <= 3; i++ {
			ta, err := a.Tokenize(ctx, "x", 4)
			require.NoError(t, err)
			tb, err := b.Tokenize(ctx, "y", 4)
			require.NoError(t, err)
			assert.Equal(t, ta, tb)
			assert.Equal(t, TokenAt(DefaultSeed, uint64(i)), ta)
		}
	})

	t.Run("successive tokens differ", func(t *testing.T) {
		tok := newTestTokenizer()
		first, _ := tok.Tokenize(ctx, "same", 4)
		second, _ := tok.Tokenize(ctx, "same", 4)
		assert.NotEqual(t, first, second)
	})

	t.Run("credit card and encrypted variants", func(t *testing.T) {
		tok := newTestTokenizer()
		cc, err := tok.TokenizeFromCreditCardNumber(ctx, "4111111111111111")
		require.NoError(t, err)
		enc, err := tok.TokenizeFromEncryptedData(ctx, "ciphertext", 4)
		require.NoError(t, err)

		value, ok, err := tok.Detokenize(ctx, cc)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "4111111111111111", value)

		value, ok, err = tok.Detokenize(ctx, enc)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "ciphertext", value)
	})
}

func TestTokenizer_Lifecycle(t *testing.T) {
	ctx := context.Background()
	tok := newTestTokenizer()

	token, err := tok.Tokenize(ctx, "payload", 4)
	require.NoError(t, err)

	valid, err := tok.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.True(t, valid)

	value, ok, err := tok.Detokenize(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "payload", value)

	deleted, err := tok.DeleteToken(ctx, token)
	require.NoError(t, err)
	assert.True(t, deleted)

	valid, err = tok.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.False(t, valid)

	_, ok, err = tok.Detokenize(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, tok.LastResult().Success)
	assert.Equal(t, []tokenizationDomain.ActionError{{Code: 3000, Message: "Token does not exist"}}, tok.LastResult().Errors())

	deleted, err = tok.DeleteToken(ctx, token)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestTokenizer_Reporting(t *testing.T) {
	ctx := context.Background()
	tok := newTestTokenizer()

	stats, err := tok.UsageStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"AccountID": "acct", "TokenCount": int64(0)}, stats)

	for i := 0; i < 3; i++ {
		_, err := tok.Tokenize(ctx, fmt.Sprint(i), 4)
		require.NoError(t, err)
	}

	count, err := tok.TokenCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	stats, err = tok.UsageStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats["TokenCount"])
	assert.Contains(t, stats, "LastIssued")
}

func TestTokenizer_Concurrent(t *testing.T) {
	ctx := context.Background()
	tok := newTestTokenizer()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		tokens = make(map[string]struct{})
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token, err := tok.Tokenize(ctx, fmt.Sprint(i), 4)
			assert.NoError(t, err)
			mu.Lock()
			tokens[token] = struct{}{}
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Len(t, tokens, 100)
	count, err := tok.TokenCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100), count)
}

func TestFactory(t *testing.T) {
	tok, err := Factory(tokenizationDomain.ConnectionDescriptor{ID: "x"})
	require.NoError(t, err)
	assert.Equal(t, tokenizationDomain.StandardSchemes, tok.Schemes())
}
