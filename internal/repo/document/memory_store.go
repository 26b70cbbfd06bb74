package document

import (
	"context"
	"fmt"
	"sync"

	"booklending/internal/domain"
)

// MemoryStore implements Store with a process-local document. It is used by
// tests and by ephemeral deployments that do not need persistence. Load and
// Save exchange deep copies, so callers never alias the stored document.
type MemoryStore struct {
	payload []byte
	m       sync.Mutex
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store.Load.
func (s *MemoryStore) Load(_ context.Context) (*domain.Document, error) {
	s.m.Lock()
	defer s.m.Unlock()

	if s.payload == nil {
		return domain.NewDocument(), nil
	}

	doc := domain.NewDocument()
	if err := codec.Unmarshal(s.payload, doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	return doc, nil
}

// Save implements Store.Save.
func (s *MemoryStore) Save(_ context.Context, doc *domain.Document) error {
	payload, err := codec.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	s.m.Lock()
	defer s.m.Unlock()

	s.payload = payload

	return nil
}

// Close implements Store.Close.
func (s *MemoryStore) Close() error {
	return nil
}
