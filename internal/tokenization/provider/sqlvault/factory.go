package sqlvault

import (
	"database/sql"
	"fmt"

	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
	"github.com/allisson/tokenize/internal/tokenization/provider"
	"github.com/allisson/tokenize/internal/tokenization/provider/storage"
)

// NewStore returns the Store matching the database driver name ("postgres" or "mysql").
func NewStore(db *sql.DB, driver string) (storage.Store, error) {
	switch driver {
	case "postgres":
		return NewPostgreSQLStore(db), nil
	case "mysql":
		return NewMySQLStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// NewFactory returns a provider.Factory whose drivers share store.
func NewFactory(store storage.Store) provider.Factory {
	return func(descriptor tokenizationDomain.ConnectionDescriptor) (provider.Tokenizer, error) {
		return storage.New(store, descriptor), nil
	}
}
