package document_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booklending/internal/domain"
	"booklending/internal/repo/document"
)

func newSQLiteStore(t *testing.T) *document.SQLiteStore {
	t.Helper()

	store, err := document.NewSQLiteStore(document.SQLiteStoreConfig{
		DatabasePath: filepath.Join(t.TempDir(), "library.db"),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

func TestSQLiteStore_LoadEmptyDatabase(t *testing.T) {
	store := newSQLiteStore(t)

	doc, err := store.Load(context.Background())
	require.NoError(t, err)

	assert.Empty(t, doc.Users)
	assert.Empty(t, doc.Books)
	assert.Empty(t, doc.BorrowRecords)
}

func TestSQLiteStore_SaveLoadRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	doc := domain.NewDocument()
	doc.Books = append(doc.Books, domain.Book{
		ID: "b1", Title: "Dune", Author: "Frank Herbert", Category: "SciFi", Available: true,
	})

	require.NoError(t, store.Save(ctx, doc))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Books, 1)
	assert.Equal(t, doc.Books[0], loaded.Books[0])
}

func TestSQLiteStore_SaveOverwritesSingleRow(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	first := domain.NewDocument()
	first.Books = append(first.Books, domain.Book{ID: "b1", Title: "One", Available: true})
	require.NoError(t, store.Save(ctx, first))

	second := domain.NewDocument()
	second.Books = append(second.Books,
		domain.Book{ID: "b1", Title: "One", Available: true},
		domain.Book{ID: "b2", Title: "Two", Available: true},
	)
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Books, 2)
}
