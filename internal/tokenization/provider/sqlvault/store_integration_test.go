package sqlvault

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/tokenize/internal/testutil"
	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
	"github.com/allisson/tokenize/internal/tokenization/provider/storage"
)

// exerciseStore runs the same lifecycle against a real database.
func exerciseStore(t *testing.T, store storage.Store) {
	t.Helper()
	ctx := context.Background()

	entry := testEntry()
	entry.CreatedAt = time.Now().UTC().Truncate(time.Second)

	require.NoError(t, store.Create(ctx, entry))
	assert.ErrorIs(t, store.Create(ctx, entry), tokenizationDomain.ErrVaultTokenConflict)

	got, err := store.Get(ctx, entry.AccountID, entry.Token)
	require.NoError(t, err)
	assert.Equal(t, entry.Value, got.Value)
	assert.Equal(t, entry.Scheme, got.Scheme)

	_, err = store.Get(ctx, "other-account", entry.Token)
	assert.ErrorIs(t, err, tokenizationDomain.ErrVaultEntryNotFound)

	stats, err := store.Stats(ctx, entry.AccountID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TokenCount)
	require.NotNil(t, stats.LastIssued)
	assert.WithinDuration(t, entry.CreatedAt, *stats.LastIssued, time.Second)

	deleted, err := store.Delete(ctx, entry.AccountID, entry.Token)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete(ctx, entry.AccountID, entry.Token)
	require.NoError(t, err)
	assert.False(t, deleted)

	stats, err = store.Stats(ctx, entry.AccountID)
	require.NoError(t, err)
	assert.Zero(t, stats.TokenCount)
	assert.Nil(t, stats.LastIssued)
}

func TestPostgreSQLStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	exerciseStore(t, NewPostgreSQLStore(db))
}

func TestMySQLStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)

	exerciseStore(t, NewMySQLStore(db))
}
