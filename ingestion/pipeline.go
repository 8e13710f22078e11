package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/docmem/ai"
	"github.com/poiesic/docmem/chunker"
	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/extract"
	"github.com/poiesic/docmem/storage"
)

// Study statuses reported in StudyResult.
const (
	StatusCreated = "created"
	StatusExists  = "exists"
)

// embedBatchSize is the number of chunks embedded per worker task.
const embedBatchSize = 16

// StudyResult describes the outcome of studying a single document.
type StudyResult struct {
	Status          string `json:"status"`
	DocumentID      string `json:"document_id"`
	ChunksCount     int    `json:"chunks_count"`
	FilePath        string `json:"file_path"`
	FileType        string `json:"file_type"`
	CollectionName  string `json:"collection_name"`
	EmbeddingMethod string `json:"embedding_method"`
}

// Pipeline orchestrates studying documents: extraction, chunking, embedding
// and fragment storage. Embedding batches run concurrently on a worker pool.
type Pipeline struct {
	collection storage.Collection
	provider   ai.Provider
	chunker    *chunker.Chunker
	pool       *ants.Pool
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithChunker replaces the default chunker.
func WithChunker(c *chunker.Chunker) Option {
	return func(p *Pipeline) error {
		if c != nil {
			p.chunker = c
		}
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline bound to a fragment
// collection and an embedding provider.
func NewPipeline(collection storage.Collection, provider ai.Provider, opts ...Option) (*Pipeline, error) {
	if collection == nil {
		return nil, ErrCollectionRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	defaultChunker, err := chunker.New(chunker.DefaultChunkSize, chunker.DefaultOverlap)
	if err != nil {
		pool.Release()
		return nil, err
	}

	p := &Pipeline{
		collection: collection,
		provider:   provider,
		chunker:    defaultChunker,
		pool:       pool,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	p.logger = p.logger.With("component", "ingestion")

	return p, nil
}

// Study ingests a single document file into the collection.
//
// The document's identity is derived from its resolved path; a document that
// was already studied is reported with StatusExists and left untouched. New
// documents are extracted, chunked, embedded and stored as one fragment
// batch sharing a single timestamp, so a document is either fully present or
// fully absent.
func (p *Pipeline) Study(ctx context.Context, path string, fileType core.FileType) (*StudyResult, error) {
	resolved, err := core.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	documentID, err := core.DocumentIDFromPath(path)
	if err != nil {
		return nil, err
	}

	result := &StudyResult{
		DocumentID:      documentID,
		FilePath:        resolved,
		FileType:        string(fileType),
		CollectionName:  p.collection.Name(),
		EmbeddingMethod: p.provider.Method(),
	}

	// An unreachable store reports the document as absent here; re-studying
	// an existing document is harmless compared to silently skipping a new one.
	if storage.Exists(ctx, p.collection, documentID) {
		p.logger.Info("document already studied", "document", documentID, "path", resolved)
		result.Status = StatusExists
		return result, nil
	}

	extractor, err := extract.ForType(fileType)
	if err != nil {
		return nil, err
	}
	text, err := extractor.Extract(ctx, resolved)
	if err != nil {
		return nil, err
	}

	chunks := p.chunker.Split(text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrEmptyContent, resolved)
	}

	vectors, err := p.embedChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().UTC().Truncate(time.Microsecond)
	fragments := make([]*core.Fragment, len(chunks))
	for i, chunk := range chunks {
		fragments[i] = &core.Fragment{
			Id:              core.ChunkID(documentID, i),
			DocumentId:      documentID,
			FilePath:        resolved,
			FileType:        fileType,
			ChunkIndex:      i,
			TotalChunks:     len(chunks),
			Timestamp:       timestamp,
			EmbeddingMethod: p.provider.Method(),
			CollectionName:  p.collection.Name(),
			Content:         chunk,
			Vector:          vectors[i],
		}
	}

	if err := p.collection.Insert(ctx, fragments); err != nil {
		return nil, err
	}

	p.logger.Info("document studied",
		"document", documentID, "path", resolved, "chunks", len(chunks))

	result.Status = StatusCreated
	result.ChunksCount = len(chunks)
	return result, nil
}

// embedChunks generates embeddings for all chunks, splitting them into
// batches processed concurrently on the worker pool. Results keep chunk
// order; the first batch error fails the whole document.
func (p *Pipeline) embedChunks(ctx context.Context, chunks []string) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))
	batches := (len(chunks) + embedBatchSize - 1) / embedBatchSize
	errs := make([]error, batches)

	var wg sync.WaitGroup
	for b := 0; b < batches; b++ {
		start := b * embedBatchSize
		end := min(start+embedBatchSize, len(chunks))

		wg.Add(1)
		task := func() {
			defer wg.Done()
			embeddings, err := p.provider.Embedder().EmbedTexts(ctx, chunks[start:end])
			if err != nil {
				errs[b] = err
				return
			}
			if len(embeddings) != end-start {
				errs[b] = fmt.Errorf("embedding result mismatch. expected %d, received %d", end-start, len(embeddings))
				return
			}
			copy(vectors[start:], embeddings)
		}
		if err := p.pool.Submit(task); err != nil {
			// Pool rejected the task (released or overloaded); run inline so
			// the batch is never silently dropped.
			task()
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return vectors, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
