// Package sqlvault implements the "SQL" vault provider on PostgreSQL or MySQL. Token
// mappings live in the vault_tokens table created by the migrate command.
package sqlvault

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	apperrors "github.com/allisson/tokenize/internal/errors"
	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
)

const pgUniqueViolation = "23505"

// PostgreSQLStore persists vault entries in PostgreSQL.
type PostgreSQLStore struct {
	db *sql.DB
}

// NewPostgreSQLStore creates a PostgreSQLStore.
func NewPostgreSQLStore(db *sql.DB) *PostgreSQLStore {
	return &PostgreSQLStore{db: db}
}

// Create inserts a vault entry.
func (p *PostgreSQLStore) Create(ctx context.Context, entry *tokenizationDomain.VaultEntry) error {
	query := `INSERT INTO vault_tokens (account_id, token, value, scheme, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := p.db.ExecContext(
		ctx,
		query,
		entry.AccountID,
		entry.Token,
		entry.Value,
		int(entry.Scheme),
		entry.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return tokenizationDomain.ErrVaultTokenConflict
		}
		return apperrors.Wrap(err, "failed to create vault entry")
	}
	return nil
}

// Get retrieves a vault entry by account and token.
func (p *PostgreSQLStore) Get(
	ctx context.Context,
	accountID, token string,
) (*tokenizationDomain.VaultEntry, error) {
	query := `SELECT account_id, token, value, scheme, created_at
			  FROM vault_tokens
			  WHERE account_id = $1 AND token = $2`

	var (
		entry  tokenizationDomain.VaultEntry
		scheme int
	)
	err := p.db.QueryRowContext(ctx, query, accountID, token).Scan(
		&entry.AccountID,
		&entry.Token,
		&entry.Value,
		&scheme,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tokenizationDomain.ErrVaultEntryNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get vault entry")
	}

	entry.Scheme = tokenizationDomain.SchemeCode(scheme)
	return &entry, nil
}

// Delete removes a vault entry and reports whether a row was deleted.
func (p *PostgreSQLStore) Delete(ctx context.Context, accountID, token string) (bool, error) {
	query := `DELETE FROM vault_tokens WHERE account_id = $1 AND token = $2`

	result, err := p.db.ExecContext(ctx, query, accountID, token)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to delete vault entry")
	}
	return rowsAffected(result)
}

// Stats counts the entries of an account.
func (p *PostgreSQLStore) Stats(
	ctx context.Context,
	accountID string,
) (tokenizationDomain.UsageStats, error) {
	query := `SELECT COUNT(*), MAX(created_at) FROM vault_tokens WHERE account_id = $1`

	return scanStats(p.db.QueryRowContext(ctx, query, accountID), accountID)
}

func rowsAffected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read affected rows")
	}
	return n > 0, nil
}

func scanStats(row *sql.Row, accountID string) (tokenizationDomain.UsageStats, error) {
	var (
		count      int64
		lastIssued sql.NullTime
	)
	if err := row.Scan(&count, &lastIssued); err != nil {
		return tokenizationDomain.UsageStats{}, apperrors.Wrap(err, "failed to get vault usage stats")
	}

	stats := tokenizationDomain.UsageStats{AccountID: accountID, TokenCount: count}
	if lastIssued.Valid {
		t := lastIssued.Time.UTC()
		stats.LastIssued = &t
	}
	return stats, nil
}
