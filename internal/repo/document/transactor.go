package document

import (
	"context"
	"fmt"
	"sync"

	"booklending/internal/domain"
)

// Transactor serializes load-mutate-save cycles against a Store behind a
// single mutex. The store itself has no locking primitive, so without this
// guard two concurrent borrow transitions could both read the document
// before either writes and break the one-active-borrow-per-book invariant.
type Transactor struct {
	store Store
	m     sync.Mutex
}

// NewTransactor creates a Transactor guarding the given store.
func NewTransactor(store Store) *Transactor {
	return &Transactor{
		store: store,
	}
}

// View loads the current document and passes it to fn. Mutations made by fn
// are discarded. The error from fn is returned unchanged so callers can map
// their own sentinel errors.
func (t *Transactor) View(ctx context.Context, fn func(doc *domain.Document) error) error {
	t.m.Lock()
	defer t.m.Unlock()

	doc, err := t.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	return fn(doc)
}

// Update loads the current document, passes it to fn, and persists the whole
// document afterwards. If fn returns an error the document is not saved and
// the error is returned unchanged. A failed save is reported to the caller;
// the in-memory mutation is lost and never retried.
func (t *Transactor) Update(ctx context.Context, fn func(doc *domain.Document) error) error {
	t.m.Lock()
	defer t.m.Unlock()

	doc, err := t.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	if err := fn(doc); err != nil {
		return err
	}

	if err := t.store.Save(ctx, doc); err != nil {
		return fmt.Errorf("save document: %w", err)
	}

	return nil
}

// Close closes the underlying store.
func (t *Transactor) Close() error {
	return t.store.Close()
}
