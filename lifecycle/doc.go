// Package lifecycle manages stored documents after ingestion.
//
// The Manager type covers the bookkeeping half of a document store: listing
// distinct documents, checking whether a document is present, deleting by
// document id or by file path, and aggregating collection statistics.
//
// Read operations degrade to empty results when the store is unreachable so
// that inspection commands never fail outright; deletions report errors.
package lifecycle
