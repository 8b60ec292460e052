package sqlvault

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	apperrors "github.com/allisson/tokenize/internal/errors"
	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
)

const mysqlDuplicateEntry = 1062

// MySQLStore persists vault entries in MySQL. The DSN must set parseTime=true.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore creates a MySQLStore.
func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

// Create inserts a vault entry.
func (m *MySQLStore) Create(ctx context.Context, entry *tokenizationDomain.VaultEntry) error {
	query := `INSERT INTO vault_tokens (account_id, token, value, scheme, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err := m.db.ExecContext(
		ctx,
		query,
		entry.AccountID,
		entry.Token,
		entry.Value,
		int(entry.Scheme),
		entry.CreatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return tokenizationDomain.ErrVaultTokenConflict
		}
		return apperrors.Wrap(err, "failed to create vault entry")
	}
	return nil
}

// Get retrieves a vault entry by account and token.
func (m *MySQLStore) Get(
	ctx context.Context,
	accountID, token string,
) (*tokenizationDomain.VaultEntry, error) {
	query := `SELECT account_id, token, value, scheme, created_at
			  FROM vault_tokens
			  WHERE account_id = ? AND token = ?`

	var (
		entry  tokenizationDomain.VaultEntry
		scheme int
	)
	err := m.db.QueryRowContext(ctx, query, accountID, token).Scan(
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
func (m *MySQLStore) Delete(ctx context.Context, accountID, token string) (bool, error) {
	query := `DELETE FROM vault_tokens WHERE account_id = ? AND token = ?`

	result, err := m.db.ExecContext(ctx, query, accountID, token)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to delete vault entry")
	}
	return rowsAffected(result)
}

// Stats counts the entries of an account.
func (m *MySQLStore) Stats(
	ctx context.Context,
	accountID string,
) (tokenizationDomain.UsageStats, error) {
	query := `SELECT COUNT(*), MAX(created_at) FROM vault_tokens WHERE account_id = ?`

	return scanStats(m.db.QueryRowContext(ctx, query, accountID), accountID)
}
