package document

import (
	"context"
	"errors"
	"fmt"

	"booklending/internal/domain"
)

// ErrUnknownBackend is returned when the configured store backend is not recognized.
var ErrUnknownBackend = errors.New("unknown store backend")

// Store defines the interface for whole-document persistence.
//
// Load on a missing or corrupt backing resource returns an empty document
// rather than an error, so the service stays available on first run or after
// corruption. Save replaces the entire document; a failed save is reported
// to the caller and never retried.
type Store interface {
	// Load reads the current document. Never returns a nil document on success.
	Load(ctx context.Context) (*domain.Document, error)

	// Save replaces the persisted document as a single unit.
	Save(ctx context.Context, doc *domain.Document) error

	// Close releases any resources held by the store.
	Close() error
}

// StoreFactory is a function that creates a new Store instance.
// Returns an error if initialization fails.
type StoreFactory func() (Store, error)

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	// Backend is the storage backend to use ("json", "sqlite" or "memory")
	Backend string `env:"BACKEND" default:"json"`

	JSON   JSONFileStoreConfig `envPrefix:"JSON_"`
	SQLite SQLiteStoreConfig   `envPrefix:"SQLITE_"`
}

// NewStoreFactory creates a factory function for the configured backend.
// The factory function implements the StoreFactory type.
func NewStoreFactory(cfg StoreConfig) StoreFactory {
	return func() (Store, error) {
		switch cfg.Backend {
		case "json":
			return NewJSONFileStore(cfg.JSON), nil
		case "sqlite":
			return NewSQLiteStore(cfg.SQLite)
		case "memory":
			return NewMemoryStore(), nil
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
		}
	}
}
