package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"booklending/internal/domain"
	"booklending/internal/infra/logging"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONFileStoreConfig holds configuration for the JSON file store.
type JSONFileStoreConfig struct {
	// Path is the filesystem path of the document file
	Path string `env:"PATH" default:"var/storage/library.json"`
}

// JSONFileStore implements Store with a single pretty-printed JSON file.
// Saves go through a temp file plus rename, so a reader never observes a
// partially written document.
type JSONFileStore struct {
	cfg JSONFileStoreConfig
	log logging.Logger
}

var _ Store = (*JSONFileStore)(nil)

// NewJSONFileStore creates a new JSONFileStore with the given configuration.
func NewJSONFileStore(cfg JSONFileStoreConfig) *JSONFileStore {
	log := logging.GetLogger("repo.document.json_file_store").With(
		logging.Group("store", "path", cfg.Path),
	)

	return &JSONFileStore{
		cfg: cfg,
		log: log,
	}
}

// Load implements Store.Load. A missing or unparseable file degrades to an
// empty document, logged at warn level.
func (s *JSONFileStore) Load(ctx context.Context) (*domain.Document, error) {
	buf, err := os.ReadFile(s.cfg.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.WarnContext(ctx, "read document failed, starting empty", "error", err)
		}

		return domain.NewDocument(), nil
	}

	doc := domain.NewDocument()
	if err := codec.Unmarshal(buf, doc); err != nil {
		s.log.WarnContext(ctx, "decode document failed, starting empty", "error", err)

		return domain.NewDocument(), nil
	}

	return doc, nil
}

// Save implements Store.Save with a full-document overwrite.
func (s *JSONFileStore) Save(ctx context.Context, doc *domain.Document) error {
	buf, err := codec.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	dir := filepath.Dir(s.cfg.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir all: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".library-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.cfg.Path); err != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// Close implements Store.Close. The file store holds no open resources.
func (s *JSONFileStore) Close() error {
	return nil
}
