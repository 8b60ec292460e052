// Package redisvault implements the "Redis" vault provider. Each token is a hash keyed
// by account and token; per-account counters back the reporting actions.
package redisvault

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/allisson/tokenize/internal/errors"
	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
	"github.com/allisson/tokenize/internal/tokenization/provider"
	"github.com/allisson/tokenize/internal/tokenization/provider/storage"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "tokenize:"

const (
	fieldValue     = "value"
	fieldScheme    = "scheme"
	fieldCreatedAt = "created_at"
)

// createScript inserts the entry unless the token exists.
// KEYS[1] = entry key, KEYS[2] = count key, KEYS[3] = last issued key
// ARGV[1] = value, ARGV[2] = scheme, ARGV[3] = created_at (unix nanoseconds)
var createScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 1 then
		return 0
	end
	redis.call('HSET', KEYS[1], 'value', ARGV[1], 'scheme', ARGV[2], 'created_at', ARGV[3])
	redis.call('INCR', KEYS[2])
	redis.call('SET', KEYS[3], ARGV[3])
	return 1
`)

// deleteScript removes the entry and keeps the counter in sync.
// KEYS[1] = entry key, KEYS[2] = count key
var deleteScript = redis.NewScript(`
	if redis.call('DEL', KEYS[1]) == 1 then
		redis.call('DECR', KEYS[2])
		return 1
	end
	return 0
`)

// Store persists vault entries in Redis.
type Store struct {
	client redis.UniversalClient
	prefix string
}

// NewStore creates a Store. An empty prefix selects DefaultPrefix.
func NewStore(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// NewFactory returns a provider.Factory whose drivers share store.
func NewFactory(store *Store) provider.Factory {
	return func(descriptor tokenizationDomain.ConnectionDescriptor) (provider.Tokenizer, error) {
		return storage.New(store, descriptor), nil
	}
}

// accountTag renders accountID as a length-prefixed hash tag, "{<len>:<account>}". The
// length keeps accounts containing ':' apart from tokens, and the tag puts every key of
// an account in one cluster slot so the scripts can touch them together.
func accountTag(accountID string) string {
	return "{" + strconv.Itoa(len(accountID)) + ":" + accountID + "}"
}

func (s *Store) entryKey(accountID, token string) string {
	return s.prefix + "token:" + accountTag(accountID) + ":" + token
}

func (s *Store) countKey(accountID string) string {
	return s.prefix + "count:" + accountTag(accountID)
}

func (s *Store) lastIssuedKey(accountID string) string {
	return s.prefix + "last:" + accountTag(accountID)
}

// Create inserts a vault entry.
func (s *Store) Create(ctx context.Context, entry *tokenizationDomain.VaultEntry) error {
	keys := []string{
		s.entryKey(entry.AccountID, entry.Token),
		s.countKey(entry.AccountID),
		s.lastIssuedKey(entry.AccountID),
	}
	created, err := createScript.Run(
		ctx,
		s.client,
		keys,
		entry.Value,
		int(entry.Scheme),
		entry.CreatedAt.UnixNano(),
	).Int()
	if err != nil {
		return apperrors.Wrap(err, "failed to create vault entry")
	}
	if created == 0 {
		return tokenizationDomain.ErrVaultTokenConflict
	}
	return nil
}

// Get retrieves a vault entry by account and token.
func (s *Store) Get(
	ctx context.Context,
	accountID, token string,
) (*tokenizationDomain.VaultEntry, error) {
	fields, err := s.client.HGetAll(ctx, s.entryKey(accountID, token)).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get vault entry")
	}
	if len(fields) == 0 {
		return nil, tokenizationDomain.ErrVaultEntryNotFound
	}

	scheme, err := strconv.Atoi(fields[fieldScheme])
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse vault entry scheme")
	}
	createdAt, err := parseUnixNano(fields[fieldCreatedAt])
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse vault entry timestamp")
	}

	return &tokenizationDomain.VaultEntry{
		AccountID: accountID,
		Token:     token,
		Value:     fields[fieldValue],
		Scheme:    tokenizationDomain.SchemeCode(scheme),
		CreatedAt: createdAt,
	}, nil
}

// Delete removes a vault entry and reports whether one existed.
func (s *Store) Delete(ctx context.Context, accountID, token string) (bool, error) {
	keys := []string{s.entryKey(accountID, token), s.countKey(accountID)}
	deleted, err := deleteScript.Run(ctx, s.client, keys).Int()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to delete vault entry")
	}
	return deleted == 1, nil
}

// Stats reads the account counters.
func (s *Store) Stats(ctx context.Context, accountID string) (tokenizationDomain.UsageStats, error) {
	stats := tokenizationDomain.UsageStats{AccountID: accountID}

	count, err := s.client.Get(ctx, s.countKey(accountID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return stats, apperrors.Wrap(err, "failed to get vault token count")
	}
	stats.TokenCount = count

	last, err := s.client.Get(ctx, s.lastIssuedKey(accountID)).Result()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return stats, apperrors.Wrap(err, "failed to get vault last issued")
	default:
		t, parseErr := parseUnixNano(last)
		if parseErr != nil {
			return stats, apperrors.Wrap(parseErr, "failed to parse vault last issued")
		}
		stats.LastIssued = &t
	}

	return stats, nil
}

func parseUnixNano(s string) (time.Time, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, n).UTC(), nil
}
