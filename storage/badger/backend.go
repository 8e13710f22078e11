package badger

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/docmem/storage"
)

// Store implements storage.Store over a single BadgerDB instance.
// Collections share the database and are separated by key prefixes.
type Store struct {
	db     *badger.DB
	path   string
	logger *slog.Logger

	mu          sync.Mutex
	collections map[string]*collection
}

var _ storage.Store = (*Store)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenStore opens a BadgerDB-backed store at the specified path.
// Creates the directory if it doesn't exist.
func OpenStore(path string) (storage.Store, error) {
	return openStore(path, false)
}

func openStore(path string, inMemory bool) (*Store, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(path, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(path)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", path)
		}
		opts = badger.DefaultOptions(path)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:          db,
		path:        path,
		logger:      slog.Default().With("component", "badger-store"),
		collections: make(map[string]*collection),
	}, nil
}

// Path returns the database path backing the store.
func (s *Store) Path() string {
	return s.path
}

// Close closes the BadgerDB database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Collection returns the collection described by meta, creating and tagging
// it on first use. A collection created earlier keeps its recorded metadata;
// the caller's meta is only used when no record exists yet.
func (s *Store) Collection(meta storage.CollectionMeta) (storage.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if col, ok := s.collections[meta.Name]; ok {
		return col, nil
	}

	stored, err := s.loadCollectionMeta(meta.Name)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		if meta.CreatedAt.IsZero() {
			meta.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
		}
		if err := s.saveCollectionMeta(&meta); err != nil {
			return nil, err
		}
		stored = &meta
		s.logger.Info("created collection",
			"collection", meta.Name, "embedding_method", meta.EmbeddingMethod, "model", meta.EmbeddingModel)
	}

	col := newCollection(s, *stored)
	s.collections[meta.Name] = col
	return col, nil
}

// loadCollectionMeta reads collection metadata, returning nil when the
// collection has not been created yet.
func (s *Store) loadCollectionMeta(name string) (*storage.CollectionMeta, error) {
	var meta *storage.CollectionMeta
	err := s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCollectionMetaKey(name))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			meta, err = storage.UnmarshalCollectionMeta(val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return meta, nil
}

func (s *Store) saveCollectionMeta(meta *storage.CollectionMeta) error {
	return s.db.Update(func(tx *badger.Txn) error {
		return tx.Set(makeCollectionMetaKey(meta.Name), storage.MarshalCollectionMeta(meta))
	})
}
