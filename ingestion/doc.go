// Package ingestion provides pipeline orchestration for studying documents.
//
// The Pipeline type manages the full ingestion workflow for a document file:
//   - Resolving the file path to a stable document identity
//   - Skipping documents that were already studied
//   - Extracting plain text and splitting it into overlapping chunks
//   - Generating embeddings concurrently using a worker pool
//   - Persisting the resulting fragments as one batch
//
// Ingestion is synchronous from the caller's point of view: Study returns
// only after every fragment of the document has been embedded and stored.
package ingestion
