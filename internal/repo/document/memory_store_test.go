package document_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booklending/internal/domain"
	"booklending/internal/repo/document"
)

func TestMemoryStore_LoadEmpty(t *testing.T) {
	store := document.NewMemoryStore()

	doc, err := store.Load(context.Background())
	require.NoError(t, err)

	assert.Empty(t, doc.Users)
	assert.Empty(t, doc.Books)
	assert.Empty(t, doc.BorrowRecords)
}

func TestMemoryStore_LoadReturnsCopy(t *testing.T) {
	store := document.NewMemoryStore()
	ctx := context.Background()

	doc := domain.NewDocument()
	doc.Books = append(doc.Books, domain.Book{ID: "b1", Title: "Dune", Available: true})
	require.NoError(t, store.Save(ctx, doc))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	// mutating the loaded copy must not leak into the store
	loaded.Books[0].Available = false

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, reloaded.Books[0].Available)
}
