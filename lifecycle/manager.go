package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/storage"
)

// ErrCollectionRequired is returned when a fragment collection is not provided.
var ErrCollectionRequired = errors.New("fragment collection required")

// Manager handles listing, existence checks and deletion of studied
// documents within one collection.
type Manager struct {
	collection   storage.Collection
	databasePath string
	logger       *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager) error

// WithDatabasePath records the store location reported by Stats.
func WithDatabasePath(path string) Option {
	return func(m *Manager) error {
		m.databasePath = path
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewManager creates a lifecycle manager over a fragment collection.
func NewManager(collection storage.Collection, opts ...Option) (*Manager, error) {
	if collection == nil {
		return nil, ErrCollectionRequired
	}

	m := &Manager{
		collection: collection,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	m.logger = m.logger.With("component", "lifecycle")

	return m, nil
}

// List returns one summary per distinct document in the collection, derived
// from the first fragment seen for each document id. An unreachable store
// yields an empty list rather than an error.
func (m *Manager) List(ctx context.Context) []*core.DocumentSummary {
	fragments, err := m.collection.Fetch(ctx, storage.Filter{}, 0)
	if err != nil {
		m.logger.Warn("error listing documents, returning empty list", "err", err)
		return nil
	}

	seen := make(map[string]bool)
	var summaries []*core.DocumentSummary
	for _, fragment := range fragments {
		if seen[fragment.DocumentId] {
			continue
		}
		seen[fragment.DocumentId] = true
		summary := fragment.Summary()
		summaries = append(summaries, &summary)
	}
	return summaries
}

// Check reports whether a document is present. The token is either a
// document id or a file path; paths are resolved the same way ingestion
// resolves them, so checking a path answers "was this file studied".
// A path whose derived identity misses is probed again by basename, the
// same fallback DeleteByPath uses, so a moved file still reports as
// studied. An unreachable store reports the document as absent.
func (m *Manager) Check(ctx context.Context, token string) (*CheckResult, error) {
	documentID := token
	resolved := ""
	if !strings.HasPrefix(token, core.DocumentIDPrefix) {
		var err error
		resolved, err = core.ResolvePath(token)
		if err != nil {
			return nil, err
		}
		documentID, err = core.DocumentIDFromPath(resolved)
		if err != nil {
			return nil, err
		}
	}

	result := &CheckResult{DocumentID: documentID}
	fragments, err := m.collection.Fetch(ctx, storage.Filter{DocumentId: documentID}, 0)
	if err != nil {
		m.logger.Warn("error checking document, reporting absent", "document", documentID, "err", err)
		return result, nil
	}
	if len(fragments) == 0 && resolved != "" {
		basename := filepath.Base(resolved)
		fragments, err = m.collection.Fetch(ctx, storage.Filter{Basename: basename}, 0)
		if err != nil {
			m.logger.Warn("error checking document by basename, reporting absent", "basename", basename, "err", err)
			return result, nil
		}
		if len(fragments) > 0 {
			result.DocumentID = fragments[0].DocumentId
		}
	}
	result.Exists = len(fragments) > 0
	result.ChunksCount = len(fragments)
	return result, nil
}

// DeleteByID removes every fragment of one document. Deleting a document
// that is not present is reported as not found, not as an error.
func (m *Manager) DeleteByID(ctx context.Context, documentID string) (*DeleteResult, error) {
	result := &DeleteResult{Status: StatusNotFound, DocumentID: documentID}

	fragments, err := m.collection.Fetch(ctx, storage.Filter{DocumentId: documentID}, 0)
	if err != nil {
		return nil, err
	}
	if len(fragments) == 0 {
		return result, nil
	}

	if err := m.collection.Delete(ctx, fragmentIDs(fragments)...); err != nil {
		return nil, err
	}

	m.logger.Info("document deleted", "document", documentID, "chunks", len(fragments))
	result.Status = StatusSuccess
	result.ChunksDeleted = len(fragments)
	return result, nil
}

// DeleteMany removes several documents by id, one result per id in input
// order. The first storage error aborts the batch.
func (m *Manager) DeleteMany(ctx context.Context, documentIDs []string) ([]*DeleteResult, error) {
	results := make([]*DeleteResult, 0, len(documentIDs))
	for _, documentID := range documentIDs {
		result, err := m.DeleteByID(ctx, documentID)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// DeleteManyByPaths removes the documents behind several file paths, one
// result per path in input order, each with DeleteByPath's full two-stage
// matching. The first storage error aborts the batch.
func (m *Manager) DeleteManyByPaths(ctx context.Context, paths []string) ([]*PathDeleteResult, error) {
	results := make([]*PathDeleteResult, 0, len(paths))
	for _, path := range paths {
		result, err := m.DeleteByPath(ctx, path)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// DeleteByPath removes every fragment whose source file matches the path.
//
// The path is first resolved and matched exactly. When nothing matches,
// fragments are matched by basename instead, which covers files that were
// studied from a different working directory or have since moved; that
// fallback can span several documents, all of which are deleted.
func (m *Manager) DeleteByPath(ctx context.Context, path string) (*PathDeleteResult, error) {
	resolved, err := core.ResolvePath(path)
	if err != nil {
		return nil, err
	}

	result := &PathDeleteResult{Status: StatusNotFound, FilePath: resolved}

	fragments, err := m.collection.Fetch(ctx, storage.Filter{FilePath: resolved}, 0)
	if err != nil {
		return nil, err
	}
	if len(fragments) == 0 {
		basename := filepath.Base(resolved)
		m.logger.Debug("no exact path match, scanning by basename", "basename", basename)
		fragments, err = m.collection.Fetch(ctx, storage.Filter{Basename: basename}, 0)
		if err != nil {
			return nil, err
		}
	}
	if len(fragments) == 0 {
		return result, nil
	}

	if err := m.collection.Delete(ctx, fragmentIDs(fragments)...); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, fragment := range fragments {
		if !seen[fragment.DocumentId] {
			seen[fragment.DocumentId] = true
			result.DocumentIDs = append(result.DocumentIDs, fragment.DocumentId)
		}
	}

	m.logger.Info("documents deleted by path",
		"path", resolved, "documents", len(result.DocumentIDs), "chunks", len(fragments))
	result.Status = StatusSuccess
	result.ChunksDeleted = len(fragments)
	return result, nil
}

// DeleteAll removes every fragment in the collection and returns the number
// of chunks deleted.
func (m *Manager) DeleteAll(ctx context.Context) (int, error) {
	fragments, err := m.collection.Fetch(ctx, storage.Filter{}, 0)
	if err != nil {
		return 0, err
	}
	if len(fragments) == 0 {
		return 0, nil
	}
	if err := m.collection.Delete(ctx, fragmentIDs(fragments)...); err != nil {
		return 0, err
	}
	m.logger.Info("collection cleared", "chunks", len(fragments))
	return len(fragments), nil
}

// Stats aggregates counts over the collection. A failed scan yields zero
// counts with the collection identity still filled in; Stats never fails.
func (m *Manager) Stats(ctx context.Context) *core.CollectionStats {
	stats := &core.CollectionStats{
		DatabasePath:    m.databasePath,
		CollectionName:  m.collection.Name(),
		EmbeddingMethod: m.collection.Meta().EmbeddingMethod,
	}

	fragments, err := m.collection.Fetch(ctx, storage.Filter{}, 0)
	if err != nil {
		m.logger.Warn("error aggregating stats, returning zero counts", "err", err)
		return stats
	}

	documents := make(map[string]bool)
	for _, fragment := range fragments {
		documents[fragment.DocumentId] = true
		stats.TotalContentSizeBytes += len(fragment.Content)
	}
	stats.TotalChunks = len(fragments)
	stats.UniqueDocuments = len(documents)
	return stats
}

func fragmentIDs(fragments []*core.Fragment) []string {
	ids := make([]string, len(fragments))
	for i, fragment := range fragments {
		ids[i] = fragment.Id
	}
	return ids
}
