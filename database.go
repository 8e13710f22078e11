// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package docmem

import (
	"log/slog"

	"github.com/poiesic/docmem/ai"
	"github.com/poiesic/docmem/ai/openai"
	"github.com/poiesic/docmem/ingestion"
	"github.com/poiesic/docmem/lifecycle"
	"github.com/poiesic/docmem/search"
	"github.com/poiesic/docmem/storage"
	"github.com/poiesic/docmem/storage/badger"
)

// Database ties together a fragment store and an embedding provider. The
// active collection is routed from the embedding method, so documents
// studied with different embedding backends never mix.
type Database struct {
	store      storage.Store
	collection storage.Collection
	provider   ai.Provider
	logger     *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
}

// WithAIConfig overrides the embedding configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider injects a pre-built embedding provider, bypassing the
// configuration entirely. Intended for tests and embedders not covered by
// the OpenAI-compatible provider.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// NewDatabase opens the fragment store at filePath and connects the
// embedding provider for the configured method.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	store, err := badger.OpenStore(filePath)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	collection, err := store.Collection(storage.CollectionMeta{
		Name:            storage.CollectionName(provider.Method()),
		Description:     "document fragments",
		EmbeddingMethod: provider.Method(),
		EmbeddingModel:  provider.Model(),
	})
	if err != nil {
		provider.Close()
		store.Close()
		return nil, err
	}

	return &Database{
		store:      store,
		collection: collection,
		provider:   provider,
		logger:     slog.Default(),
	}, nil
}

// Close releases the provider and the underlying store.
func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}
	if err := db.store.Close(); err != nil {
		db.logger.Error("error closing fragment store", "err", err)
		return err
	}
	return nil
}

// Collection returns the active fragment collection.
func (db *Database) Collection() storage.Collection {
	return db.collection
}

// Provider returns the active embedding provider.
func (db *Database) Provider() ai.Provider {
	return db.provider
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.collection, db.provider, opts...)
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.collection, db.provider, opts...)
}

func (db *Database) NewLifecycleManager(opts ...lifecycle.Option) (*lifecycle.Manager, error) {
	opts = append([]lifecycle.Option{lifecycle.WithDatabasePath(db.store.Path())}, opts...)
	return lifecycle.NewManager(db.collection, opts...)
}
