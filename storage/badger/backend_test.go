package badger

import (
	"path/filepath"
	"testing"

	"github.com/poiesic/docmem/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Collection_GetOrCreate(t *testing.T) {
	store, err := OpenMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	meta := storage.CollectionMeta{
		Name:            "documents_Sentence_Transformers",
		EmbeddingMethod: "Sentence-Transformers",
		EmbeddingModel:  "all-MiniLM-L6-v2",
	}

	first, err := store.Collection(meta)
	require.NoError(t, err)
	assert.Equal(t, meta.Name, first.Name())
	assert.False(t, first.Meta().CreatedAt.IsZero())

	// A second request with different metadata returns the stored original.
	second, err := store.Collection(storage.CollectionMeta{
		Name:            meta.Name,
		EmbeddingMethod: "OpenAIEmbeddings",
	})
	require.NoError(t, err)
	assert.Equal(t, "Sentence-Transformers", second.Meta().EmbeddingMethod)
	assert.Equal(t, first.Meta().CreatedAt, second.Meta().CreatedAt)
}

func TestStore_Collection_MetaPersistsAcrossReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docmem")

	store, err := OpenStore(dir)
	require.NoError(t, err)

	meta := storage.CollectionMeta{
		Name:            "documents_OpenAIEmbeddings",
		Description:     "remote embeddings",
		EmbeddingMethod: "OpenAIEmbeddings",
		EmbeddingModel:  "text-embedding-3-small",
	}
	col, err := store.Collection(meta)
	require.NoError(t, err)
	created := col.Meta().CreatedAt
	require.NoError(t, store.Close())

	reopened, err := OpenStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	col, err = reopened.Collection(storage.CollectionMeta{Name: meta.Name})
	require.NoError(t, err)
	assert.Equal(t, "OpenAIEmbeddings", col.Meta().EmbeddingMethod)
	assert.Equal(t, "text-embedding-3-small", col.Meta().EmbeddingModel)
	assert.Equal(t, created, col.Meta().CreatedAt)
}

func TestStore_Path(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docmem")

	store, err := OpenStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, dir, store.Path())
}
