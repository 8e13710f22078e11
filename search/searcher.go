package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/docmem/ai"
	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/storage"
)

// DefaultMaxHits is the number of results returned when the caller does not
// ask for a specific count.
const DefaultMaxHits = 5

// Searcher provides semantic search over document fragments.
type Searcher struct {
	collection storage.Collection
	embedder   ai.Embedder
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher over a fragment collection.
func NewSearcher(collection storage.Collection, provider ai.Provider, opts ...Option) (*Searcher, error) {
	if collection == nil {
		return nil, ErrCollectionRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	s := &Searcher{
		collection: collection,
		embedder:   provider.Embedder(),
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "search")

	return s, nil
}

// FindSimilar searches fragments similar to the query across the whole
// collection. Returns up to maxHits results ranked by cosine distance,
// nearest first.
func (s *Searcher) FindSimilar(ctx context.Context, query string, maxHits int) ([]*core.SearchResult, error) {
	return s.FindSimilarIn(ctx, query, "", maxHits)
}

// FindSimilarIn searches fragments similar to the query within an optional
// document scope.
//
// An empty scope searches the whole collection. A scope starting with the
// document id prefix restricts results to that document; any other scope is
// treated as a file path and resolved to its canonical absolute form before
// matching. Scoping to an unknown document yields no results rather than an
// error.
func (s *Searcher) FindSimilarIn(ctx context.Context, query, scope string, maxHits int) ([]*core.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, core.ErrEmptyQuery
	}
	if maxHits < 1 {
		maxHits = DefaultMaxHits
	}

	filter, err := scopeFilter(scope)
	if err != nil {
		return nil, err
	}

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "err", err)
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	results, err := s.collection.Query(ctx, embedding, maxHits, filter)
	if err != nil {
		s.logger.Error("error querying fragments", "err", err)
		return nil, err
	}

	s.logger.Debug("search complete", "hits", len(results), "max", maxHits)
	return results, nil
}

// scopeFilter interprets a scope token as either a document id or a file
// path, mirroring how document ids are minted at ingestion time.
func scopeFilter(scope string) (storage.Filter, error) {
	if scope == "" {
		return storage.Filter{}, nil
	}
	if strings.HasPrefix(scope, core.DocumentIDPrefix) {
		return storage.Filter{DocumentId: scope}, nil
	}
	resolved, err := core.ResolvePath(scope)
	if err != nil {
		return storage.Filter{}, err
	}
	return storage.Filter{FilePath: resolved}, nil
}
