package document_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booklending/internal/domain"
	"booklending/internal/repo/document"
)

var errBoom = errors.New("boom")

// failingStore wraps a MemoryStore and fails saves on demand.
type failingStore struct {
	*document.MemoryStore
	failSave bool
}

func (s *failingStore) Save(ctx context.Context, doc *domain.Document) error {
	if s.failSave {
		return errBoom
	}

	return s.MemoryStore.Save(ctx, doc)
}

func TestTransactor_UpdatePersists(t *testing.T) {
	store := document.NewMemoryStore()
	transactor := document.NewTransactor(store)
	ctx := context.Background()

	err := transactor.Update(ctx, func(doc *domain.Document) error {
		doc.Books = append(doc.Books, domain.Book{ID: "b1", Title: "Dune", Available: true})

		return nil
	})
	require.NoError(t, err)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Books, 1)
}

func TestTransactor_UpdateErrorAbortsSave(t *testing.T) {
	store := document.NewMemoryStore()
	transactor := document.NewTransactor(store)
	ctx := context.Background()

	err := transactor.Update(ctx, func(doc *domain.Document) error {
		doc.Books = append(doc.Books, domain.Book{ID: "b1", Title: "Dune", Available: true})

		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, doc.Books)
}

func TestTransactor_UpdateSurfacesSaveFailure(t *testing.T) {
	store := &failingStore{MemoryStore: document.NewMemoryStore(), failSave: true}
	transactor := document.NewTransactor(store)

	err := transactor.Update(context.Background(), func(doc *domain.Document) error {
		doc.Books = append(doc.Books, domain.Book{ID: "b1", Available: true})

		return nil
	})
	require.ErrorIs(t, err, errBoom)

	// the mutation is lost, not retried
	doc, err := store.MemoryStore.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Books)
}

func TestTransactor_ViewDiscardsMutations(t *testing.T) {
	store := document.NewMemoryStore()
	transactor := document.NewTransactor(store)
	ctx := context.Background()

	err := transactor.View(ctx, func(doc *domain.Document) error {
		doc.Books = append(doc.Books, domain.Book{ID: "b1", Available: true})

		return nil
	})
	require.NoError(t, err)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, doc.Books)
}

func TestTransactor_ConcurrentUpdatesAreSerialized(t *testing.T) {
	const writers = 32

	transactor := document.NewTransactor(document.NewMemoryStore())
	ctx := context.Background()

	var wg sync.WaitGroup

	for i := 0; i < writers; i++ {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			_ = transactor.Update(ctx, func(doc *domain.Document) error {
				doc.Books = append(doc.Books, domain.Book{ID: strconv.Itoa(n), Available: true})

				return nil
			})
		}(i)
	}

	wg.Wait()

	var count int

	require.NoError(t, transactor.View(ctx, func(doc *domain.Document) error {
		count = len(doc.Books)

		return nil
	}))

	// without serialization, concurrent read-modify-write cycles would lose appends
	assert.Equal(t, writers, count)
}
