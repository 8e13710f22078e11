package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/storage"
	"github.com/poiesic/docmem/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupManager(t *testing.T) (*Manager, storage.Collection) {
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

	m, err := NewManager(col, WithDatabasePath("/tmp/docmem-test"))
	require.NoError(t, err)
	return m, col
}

func insertDocument(t *testing.T, col storage.Collection, documentID, filePath string, chunks int) {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	fragments := make([]*core.Fragment, chunks)
	for i := range fragments {
		fragments[i] = &core.Fragment{
			Id:              core.ChunkID(documentID, i),
			DocumentId:      documentID,
			FilePath:        filePath,
			FileType:        core.FileTypeMarkdown,
			ChunkIndex:      i,
			TotalChunks:     chunks,
			Timestamp:       now,
			EmbeddingMethod: "Sentence-Transformers",
			CollectionName:  col.Name(),
			Content:         "0123456789",
			Vector:          []float32{1, 0, 0},
		}
	}
	require.NoError(t, col.Insert(context.Background(), fragments))
}

func TestNewManager_RequiresCollection(t *testing.T) {
	_, err := NewManager(nil)
	assert.ErrorIs(t, err, ErrCollectionRequired)
}

func TestManager_List(t *testing.T) {
	m, col := setupManager(t)

	assert.Empty(t, m.List(context.Background()))

	insertDocument(t, col, "doc_a", "/notes/a.md", 3)
	insertDocument(t, col, "doc_b", "/notes/b.md", 2)

	summaries := m.List(context.Background())
	require.Len(t, summaries, 2)

	byID := make(map[string]*core.DocumentSummary)
	for _, summary := range summaries {
		byID[summary.DocumentId] = summary
	}
	require.Contains(t, byID, "doc_a")
	assert.Equal(t, "/notes/a.md", byID["doc_a"].FilePath)
	assert.Equal(t, 3, byID["doc_a"].TotalChunks)
	assert.Equal(t, 2, byID["doc_b"].TotalChunks)
}

func TestManager_Check(t *testing.T) {
	m, col := setupManager(t)
	insertDocument(t, col, "doc_a", "/notes/a.md", 2)

	result, err := m.Check(context.Background(), "doc_a")
	require.NoError(t, err)
	assert.True(t, result.Exists)
	assert.Equal(t, 2, result.ChunksCount)

	result, err = m.Check(context.Background(), "doc_missing")
	require.NoError(t, err)
	assert.False(t, result.Exists)
	assert.Zero(t, result.ChunksCount)
}

func TestManager_Check_ByPath(t *testing.T) {
	m, col := setupManager(t)

	path := filepath.Join(t.TempDir(), "studied.md")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))

	documentID, err := core.DocumentIDFromPath(path)
	require.NoError(t, err)
	insertDocument(t, col, documentID, path, 1)

	result, err := m.Check(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, result.Exists)
	assert.Equal(t, documentID, result.DocumentID)
}

func TestManager_Check_BasenameFallback(t *testing.T) {
	m, col := setupManager(t)
	insertDocument(t, col, "doc_a", "/home/alice/notes.md", 2)

	// The checked path resolves to a different identity, so the exact id
	// probe misses; basename matching still finds the studied file.
	result, err := m.Check(context.Background(), "/elsewhere/notes.md")
	require.NoError(t, err)
	assert.True(t, result.Exists)
	assert.Equal(t, 2, result.ChunksCount)
	assert.Equal(t, "doc_a", result.DocumentID)

	result, err = m.Check(context.Background(), "/elsewhere/absent.md")
	require.NoError(t, err)
	assert.False(t, result.Exists)
}

func TestManager_DeleteByID(t *testing.T) {
	m, col := setupManager(t)
	insertDocument(t, col, "doc_a", "/notes/a.md", 3)
	insertDocument(t, col, "doc_b", "/notes/b.md", 1)

	result, err := m.DeleteByID(context.Background(), "doc_a")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 3, result.ChunksDeleted)

	remaining, err := col.Fetch(context.Background(), storage.Filter{}, 0)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestManager_DeleteByID_NotFound(t *testing.T) {
	m, _ := setupManager(t)

	result, err := m.DeleteByID(context.Background(), "doc_missing")
	require.NoError(t, err)
	assert.Equal(t, StatusNotFound, result.Status)
	assert.Zero(t, result.ChunksDeleted)
}

func TestManager_DeleteMany(t *testing.T) {
	m, col := setupManager(t)
	insertDocument(t, col, "doc_a", "/notes/a.md", 2)
	insertDocument(t, col, "doc_b", "/notes/b.md", 1)

	results, err := m.DeleteMany(context.Background(), []string{"doc_a", "doc_missing", "doc_b"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, StatusSuccess, results[0].Status)
	assert.Equal(t, StatusNotFound, results[1].Status)
	assert.Equal(t, StatusSuccess, results[2].Status)

	remaining, err := col.Fetch(context.Background(), storage.Filter{}, 0)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestManager_DeleteManyByPaths(t *testing.T) {
	m, col := setupManager(t)
	insertDocument(t, col, "doc_a", "/notes/a.md", 2)
	insertDocument(t, col, "doc_b", "/home/bob/moved.md", 1)

	results, err := m.DeleteManyByPaths(context.Background(),
		[]string{"/notes/a.md", "/elsewhere/moved.md", "/notes/absent.md"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, StatusSuccess, results[0].Status)
	assert.Equal(t, []string{"doc_a"}, results[0].DocumentIDs)

	// Second path resolves through the basename fallback.
	assert.Equal(t, StatusSuccess, results[1].Status)
	assert.Equal(t, []string{"doc_b"}, results[1].DocumentIDs)

	assert.Equal(t, StatusNotFound, results[2].Status)

	remaining, err := col.Fetch(context.Background(), storage.Filter{}, 0)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestManager_DeleteByPath_ExactMatch(t *testing.T) {
	m, col := setupManager(t)
	insertDocument(t, col, "doc_a", "/notes/a.md", 2)
	insertDocument(t, col, "doc_b", "/notes/b.md", 1)

	result, err := m.DeleteByPath(context.Background(), "/notes/a.md")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, []string{"doc_a"}, result.DocumentIDs)
	assert.Equal(t, 2, result.ChunksDeleted)
}

func TestManager_DeleteByPath_BasenameFallback(t *testing.T) {
	m, col := setupManager(t)
	insertDocument(t, col, "doc_a", "/home/alice/notes.md", 2)
	insertDocument(t, col, "doc_b", "/home/bob/notes.md", 1)
	insertDocument(t, col, "doc_c", "/home/bob/other.md", 1)

	// The requested path does not match any stored path exactly, so the
	// basename fallback removes every document named notes.md.
	result, err := m.DeleteByPath(context.Background(), "/elsewhere/notes.md")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, result.Status)
	assert.ElementsMatch(t, []string{"doc_a", "doc_b"}, result.DocumentIDs)
	assert.Equal(t, 3, result.ChunksDeleted)

	remaining, err := col.Fetch(context.Background(), storage.Filter{}, 0)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "doc_c", remaining[0].DocumentId)
}

func TestManager_DeleteByPath_NotFound(t *testing.T) {
	m, _ := setupManager(t)

	result, err := m.DeleteByPath(context.Background(), "/nowhere/absent.md")
	require.NoError(t, err)
	assert.Equal(t, StatusNotFound, result.Status)
	assert.Empty(t, result.DocumentIDs)
}

func TestManager_DeleteAll(t *testing.T) {
	m, col := setupManager(t)
	insertDocument(t, col, "doc_a", "/notes/a.md", 2)
	insertDocument(t, col, "doc_b", "/notes/b.md", 3)

	deleted, err := m.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, deleted)

	remaining, err := col.Fetch(context.Background(), storage.Filter{}, 0)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	deleted, err = m.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestManager_Stats(t *testing.T) {
	m, col := setupManager(t)

	stats := m.Stats(context.Background())
	assert.Zero(t, stats.TotalChunks)
	assert.Zero(t, stats.UniqueDocuments)
	assert.Equal(t, "/tmp/docmem-test", stats.DatabasePath)
	assert.Equal(t, col.Name(), stats.CollectionName)
	assert.Equal(t, "Sentence-Transformers", stats.EmbeddingMethod)

	insertDocument(t, col, "doc_a", "/notes/a.md", 3)
	insertDocument(t, col, "doc_b", "/notes/b.md", 2)

	stats = m.Stats(context.Background())
	assert.Equal(t, 5, stats.TotalChunks)
	assert.Equal(t, 2, stats.UniqueDocuments)
	assert.Equal(t, 50, stats.TotalContentSizeBytes)
}
