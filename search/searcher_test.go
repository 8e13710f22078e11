package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/docmem/ai/mock"
	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/storage"
	"github.com/poiesic/docmem/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSearchCollection(t *testing.T) storage.Collection {
	t.Helper()

	store, err := badger.OpenMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	col, err := store.Collection(storage.CollectionMeta{
		Name:            "documents_Sentence_Transformers",
		EmbeddingMethod: "Sentence-Transformers",
		EmbeddingModel:  "mock-embedding-model",
	})
	require.NoError(t, err)
	return col
}

func insertSearchFragment(t *testing.T, col storage.Collection, documentID, filePath, content string, vector []float32) {
	t.Helper()

	require.NoError(t, col.Insert(context.Background(), []*core.Fragment{{
		Id:              core.ChunkID(documentID, 0),
		DocumentId:      documentID,
		FilePath:        filePath,
		FileType:        core.FileTypeMarkdown,
		ChunkIndex:      0,
		TotalChunks:     1,
		Timestamp:       time.Now().UTC(),
		EmbeddingMethod: "Sentence-Transformers",
		CollectionName:  col.Name(),
		Content:         content,
		Vector:          vector,
	}}))
}

// queryEmbedder returns a fixed vector for every query so tests control the
// ranking precisely.
func queryEmbedder(vector []float32) *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return vector, nil
	}
	return embedder
}

func newTestSearcher(t *testing.T, col storage.Collection, embedder *mock.MockEmbedder) *Searcher {
	t.Helper()

	provider := mock.NewMockProviderWithEmbedder(embedder, "Sentence-Transformers", "mock-embedding-model")
	s, err := NewSearcher(col, provider)
	require.NoError(t, err)
	return s
}

func TestNewSearcher_RequiredCollaborators(t *testing.T) {
	col := setupSearchCollection(t)

	_, err := NewSearcher(nil, mock.NewMockProvider())
	assert.ErrorIs(t, err, ErrCollectionRequired)

	_, err = NewSearcher(col, nil)
	assert.ErrorIs(t, err, ErrProviderRequired)
}

func TestSearcher_FindSimilar_RanksNearestFirst(t *testing.T) {
	col := setupSearchCollection(t)
	insertSearchFragment(t, col, "doc_a", "/a.md", "about cats", []float32{1, 0, 0})
	insertSearchFragment(t, col, "doc_b", "/b.md", "about dogs", []float32{0.9, 0.4, 0})
	insertSearchFragment(t, col, "doc_c", "/c.md", "about tax law", []float32{0, 0, 1})

	s := newTestSearcher(t, col, queryEmbedder([]float32{1, 0, 0}))

	results, err := s.FindSimilar(context.Background(), "cats", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "about cats", results[0].Fragment.Content)
	assert.Equal(t, "about dogs", results[1].Fragment.Content)
	assert.Less(t, results[0].Distance, results[1].Distance)
}

func TestSearcher_FindSimilar_EmptyQuery(t *testing.T) {
	col := setupSearchCollection(t)
	s := newTestSearcher(t, col, mock.NewMockEmbedder())

	_, err := s.FindSimilar(context.Background(), "   ", 5)
	assert.ErrorIs(t, err, core.ErrEmptyQuery)
}

func TestSearcher_FindSimilar_DefaultMaxHits(t *testing.T) {
	col := setupSearchCollection(t)
	for i := 0; i < 10; i++ {
		documentID := core.DocumentIDPrefix + string(rune('a'+i))
		insertSearchFragment(t, col, documentID, "/x.md", "filler", []float32{1, float32(i), 0})
	}

	s := newTestSearcher(t, col, queryEmbedder([]float32{1, 0, 0}))

	results, err := s.FindSimilar(context.Background(), "filler", 0)
	require.NoError(t, err)
	assert.Len(t, results, DefaultMaxHits)
}

func TestSearcher_FindSimilarIn_DocumentScope(t *testing.T) {
	col := setupSearchCollection(t)
	insertSearchFragment(t, col, "doc_a", "/a.md", "scoped", []float32{1, 0, 0})
	insertSearchFragment(t, col, "doc_b", "/b.md", "other", []float32{1, 0, 0})

	s := newTestSearcher(t, col, queryEmbedder([]float32{1, 0, 0}))

	results, err := s.FindSimilarIn(context.Background(), "anything", "doc_a", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc_a", results[0].Fragment.DocumentId)
}

func TestSearcher_FindSimilarIn_PathScope(t *testing.T) {
	col := setupSearchCollection(t)
	insertSearchFragment(t, col, "doc_a", "/a.md", "scoped", []float32{1, 0, 0})
	insertSearchFragment(t, col, "doc_b", "/b.md", "other", []float32{1, 0, 0})

	s := newTestSearcher(t, col, queryEmbedder([]float32{1, 0, 0}))

	results, err := s.FindSimilarIn(context.Background(), "anything", "/a.md", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "/a.md", results[0].Fragment.FilePath)
}

func TestSearcher_FindSimilarIn_UnknownDocumentScope(t *testing.T) {
	col := setupSearchCollection(t)
	insertSearchFragment(t, col, "doc_a", "/a.md", "scoped", []float32{1, 0, 0})

	s := newTestSearcher(t, col, queryEmbedder([]float32{1, 0, 0}))

	results, err := s.FindSimilarIn(context.Background(), "anything", "doc_missing", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearcher_FindSimilar_EmbedderError(t *testing.T) {
	col := setupSearchCollection(t)
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedder unavailable")
	}
	s := newTestSearcher(t, col, embedder)

	_, err := s.FindSimilar(context.Background(), "query", 5)
	assert.Error(t, err)
}
