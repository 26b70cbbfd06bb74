package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"booklending/internal/domain"
	"booklending/internal/infra/logging"
)

// SQLiteStoreConfig holds configuration for the SQLite document store.
type SQLiteStoreConfig struct {
	// DatabasePath is the filesystem path to the SQLite database file
	DatabasePath string `env:"DATABASE_PATH" default:"var/storage/library.db"`
}

// SQLiteStore implements Store by keeping the whole document as one row.
// It trades the human-inspectable file of JSONFileStore for a single
// database file with durable writes.
type SQLiteStore struct {
	db        *sql.DB
	log       logging.Logger
	writeLock *sync.Mutex // go-sqlite does not support concurrent writes
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLiteStore with the given configuration.
// It initializes the database connection and creates the schema if needed.
// Returns an error if database connection or initialization fails.
func NewSQLiteStore(cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	log := logging.GetLogger("repo.document.sqlite_store").With(
		logging.Group("db", "path", cfg.DatabasePath),
	)

	db, err := sql.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := initializeDB(db); err != nil {
		return nil, fmt.Errorf("initialize db: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	return &SQLiteStore{
		db:        db,
		log:       log,
		writeLock: new(sync.Mutex),
	}, nil
}

func initializeDB(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS document (
			id         INTEGER PRIMARY KEY CHECK (id = 1),
			payload    TEXT    NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}

// Load implements Store.Load. A missing row or an unparseable payload
// degrades to an empty document, logged at warn level.
func (s *SQLiteStore) Load(ctx context.Context) (*domain.Document, error) {
	var payload []byte

	err := s.db.QueryRowContext(ctx, "SELECT payload FROM document WHERE id = 1").Scan(&payload)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.log.WarnContext(ctx, "read document failed, starting empty", "error", err)
		}

		return domain.NewDocument(), nil
	}

	doc := domain.NewDocument()
	if err := codec.Unmarshal(payload, doc); err != nil {
		s.log.WarnContext(ctx, "decode document failed, starting empty", "error", err)

		return domain.NewDocument(), nil
	}

	return doc, nil
}

// Save implements Store.Save with a full-document overwrite of the single row.
func (s *SQLiteStore) Save(ctx context.Context, doc *domain.Document) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	payload, err := codec.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO document (id, payload, updated_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, payload, time.Now().Unix()); err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}

	return nil
}

// Close implements Store.Close by closing the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}

	return nil
}
