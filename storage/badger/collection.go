package badger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/storage"
)

// collection implements storage.Collection over a key-prefix partition of
// the shared BadgerDB instance.
type collection struct {
	store  *Store
	meta   storage.CollectionMeta
	logger *slog.Logger
}

var _ storage.Collection = (*collection)(nil)

func newCollection(store *Store, meta storage.CollectionMeta) *collection {
	return &collection{
		store:  store,
		meta:   meta,
		logger: store.logger.With("collection", meta.Name),
	}
}

// Name returns the routed collection name.
func (c *collection) Name() string {
	return c.meta.Name
}

// Meta returns the collection-level metadata recorded at creation.
func (c *collection) Meta() storage.CollectionMeta {
	return c.meta
}

// Insert adds fragments to the collection in a single transaction.
// Fragments must validate, carry a vector, and belong to this collection.
func (c *collection) Insert(ctx context.Context, fragments []*core.Fragment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, fragment := range fragments {
		if err := core.ValidateFragment(fragment); err != nil {
			return fmt.Errorf("%w: %w", storage.ErrWriteFailed, err)
		}
		if len(fragment.Vector) == 0 {
			return fmt.Errorf("%w: fragment %s has no embedding vector", storage.ErrWriteFailed, fragment.Id)
		}
		if fragment.CollectionName != c.meta.Name {
			return fmt.Errorf("%w: fragment %s targets %q, this is %q",
				storage.ErrCollectionMismatch, fragment.Id, fragment.CollectionName, c.meta.Name)
		}
	}

	err := c.store.db.Update(func(tx *badger.Txn) error {
		for _, fragment := range fragments {
			if err := tx.Set(makeFragmentKey(c.meta.Name, fragment.Id), storage.MarshalFragment(fragment)); err != nil {
				return err
			}
			if err := tx.Set(makeDocIndexKey(c.meta.Name, fragment.DocumentId, fragment.Id), []byte(fragment.Id)); err != nil {
				return err
			}
			if err := tx.Set(makePathIndexKey(c.meta.Name, fragment.FilePath, fragment.Id), []byte(fragment.Id)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrWriteFailed, err)
	}

	c.logger.Debug("inserted fragments", "count", len(fragments))
	return nil
}

// Fetch returns fragments matching the filter, up to limit (0 means all).
// Document-id and exact-path filters are served from indexes; basename
// filters require a full scan. Records that fail to decode are skipped.
func (c *collection) Fetch(ctx context.Context, filter storage.Filter, limit int) ([]*core.Fragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch {
	case filter.DocumentId != "":
		return c.fetchByIndex(filter, limit, makeDocIndexPrefix(c.meta.Name, filter.DocumentId))
	case filter.FilePath != "":
		return c.fetchByIndex(filter, limit, makePathIndexPrefix(c.meta.Name, filter.FilePath))
	default:
		return c.scan(filter, limit)
	}
}

// fetchByIndex resolves fragment ids through an index prefix and loads the
// records. The residual filter still applies: an index hit may carry more
// constraints than the indexed field.
func (c *collection) fetchByIndex(filter storage.Filter, limit int, prefix []byte) ([]*core.Fragment, error) {
	var fragments []*core.Fragment

	err := c.store.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var fragmentID string
			if err := iter.Item().Value(func(val []byte) error {
				fragmentID = string(val)
				return nil
			}); err != nil {
				return err
			}

			fragment, ok := c.readFragment(tx, fragmentID)
			if !ok || !filter.Matches(fragment) {
				continue
			}
			fragments = append(fragments, fragment)
			if limit > 0 && len(fragments) >= limit {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fragments, nil
}

// scan walks every fragment record in the collection.
func (c *collection) scan(filter storage.Filter, limit int) ([]*core.Fragment, error) {
	var fragments []*core.Fragment

	err := c.store.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeFragmentScanPrefix(c.meta.Name)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var fragment *core.Fragment
			err := iter.Item().Value(func(val []byte) error {
				var decodeErr error
				fragment, decodeErr = storage.UnmarshalFragment(val)
				if decodeErr != nil {
					// Fail-safe-empty: a corrupt record shrinks the
					// result instead of failing the read.
					c.logger.Warn("skipping malformed fragment record",
						"key", string(iter.Item().Key()), "err", decodeErr)
					fragment = nil
				}
				return nil
			})
			if err != nil {
				return err
			}
			if fragment == nil || !filter.Matches(fragment) {
				continue
			}
			fragments = append(fragments, fragment)
			if limit > 0 && len(fragments) >= limit {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fragments, nil
}

// readFragment loads and decodes one fragment record inside a transaction.
// Missing or malformed records report !ok.
func (c *collection) readFragment(tx *badger.Txn, fragmentID string) (*core.Fragment, bool) {
	item, err := tx.Get(makeFragmentKey(c.meta.Name, fragmentID))
	if err != nil {
		if err != badger.ErrKeyNotFound {
			c.logger.Warn("failed to read fragment record", "fragment_id", fragmentID, "err", err)
		}
		return nil, false
	}

	var fragment *core.Fragment
	if err := item.Value(func(val []byte) error {
		var decodeErr error
		fragment, decodeErr = storage.UnmarshalFragment(val)
		return decodeErr
	}); err != nil {
		c.logger.Warn("skipping malformed fragment record", "fragment_id", fragmentID, "err", err)
		return nil, false
	}
	return fragment, true
}

// Query returns the n fragments nearest to vector, ranked by cosine
// distance ascending.
func (c *collection) Query(ctx context.Context, vector []float32, n int, filter storage.Filter) ([]*core.SearchResult, error) {
	fragments, err := c.Fetch(ctx, filter, 0)
	if err != nil {
		return nil, err
	}

	results := make([]*core.SearchResult, 0, len(fragments))
	for _, fragment := range fragments {
		if len(fragment.Vector) == 0 {
			continue
		}
		results = append(results, &core.SearchResult{
			Fragment: fragment,
			Distance: cosineDistance(vector, fragment.Vector),
		})
	}

	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		if a.Distance < b.Distance {
			return -1
		}
		if a.Distance > b.Distance {
			return 1
		}
		return 0
	})

	if n > 0 && len(results) > n {
		results = results[:n]
	}
	return results, nil
}

// Delete removes fragments and their index entries by id.
// Ids that do not exist are ignored.
func (c *collection) Delete(ctx context.Context, ids ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	err := c.store.db.Update(func(tx *badger.Txn) error {
		for _, id := range ids {
			fragment, ok := c.readFragment(tx, id)
			if err := tx.Delete(makeFragmentKey(c.meta.Name, id)); err != nil {
				return err
			}
			if !ok {
				continue
			}
			if err := tx.Delete(makeDocIndexKey(c.meta.Name, fragment.DocumentId, id)); err != nil {
				return err
			}
			if err := tx.Delete(makePathIndexKey(c.meta.Name, fragment.FilePath, id)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrWriteFailed, err)
	}

	c.logger.Debug("deleted fragments", "count", len(ids))
	return nil
}

// cosineDistance computes 1 - cosine similarity. Orthogonal or
// zero-magnitude vectors are maximally distant.
func cosineDistance(a, b []float32) float32 {
	var dot, normA, normB float64
	minLen := min(len(a), len(b))
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return float32(1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)))
}
