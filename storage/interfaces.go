package storage

import (
	"context"
	"path/filepath"
	"time"

	"github.com/poiesic/docmem/core"
)

// CollectionMeta describes a collection: its routed name plus the embedding
// method and model identifiers recorded for later introspection.
type CollectionMeta struct {
	Name            string
	Description     string
	EmbeddingMethod string
	EmbeddingModel  string
	CreatedAt       time.Time
}

// Filter narrows fetch and query operations by fragment metadata.
// The zero value matches every fragment. DocumentId and FilePath are exact
// matches; Basename matches on the final path element of the stored file
// path and is only used by the delete-by-path fallback scan.
type Filter struct {
	DocumentId string
	FilePath   string
	Basename   string
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f.DocumentId == "" && f.FilePath == "" && f.Basename == ""
}

// Matches reports whether a fragment satisfies the filter.
func (f Filter) Matches(fragment *core.Fragment) bool {
	if f.DocumentId != "" && fragment.DocumentId != f.DocumentId {
		return false
	}
	if f.FilePath != "" && fragment.FilePath != f.FilePath {
		return false
	}
	if f.Basename != "" && filepath.Base(fragment.FilePath) != f.Basename {
		return false
	}
	return true
}

// Collection is the sole gateway to one embedding-method-scoped partition of
// the vector store. Implementations must be thread-safe; note that no
// read-modify-write atomicity is provided across calls, so duplicate
// suppression through Fetch-then-Insert is advisory only.
type Collection interface {
	// Name returns the routed collection name.
	Name() string

	// Meta returns the collection-level metadata recorded at creation.
	Meta() CollectionMeta

	// Insert adds fragments to the collection. Every fragment must carry
	// content and an embedding vector; validation or backend failures wrap
	// ErrWriteFailed and nothing may be partially visible afterwards.
	Insert(ctx context.Context, fragments []*core.Fragment) error

	// Fetch returns fragments matching the filter, up to limit (0 = all).
	// Stored records that fail to decode are skipped, not fatal, so read
	// paths degrade gracefully.
	Fetch(ctx context.Context, filter Filter, limit int) ([]*core.Fragment, error)

	// Query returns the n fragments nearest to vector, ranked by cosine
	// distance ascending, optionally narrowed by filter.
	Query(ctx context.Context, vector []float32, n int, filter Filter) ([]*core.SearchResult, error)

	// Delete removes fragments by id. Deleting ids that do not exist is
	// not an error.
	Delete(ctx context.Context, ids ...string) error
}

// Store manages named collections over one database path.
type Store interface {
	// Collection returns the collection described by meta, creating and
	// tagging it on first use. Reopening an existing collection keeps the
	// originally recorded metadata.
	Collection(meta CollectionMeta) (Collection, error)

	// Path returns the database path backing the store.
	Path() string

	// Close closes the store and releases resources.
	Close() error
}
