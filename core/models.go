package core

import (
	"fmt"
	"strings"
	"time"
)

// FileType identifies the source format of an ingested document.
type FileType string

const (
	// FileTypeMarkdown represents a plain markdown document.
	FileTypeMarkdown FileType = "md"
	// FileTypePDF represents a PDF document.
	FileTypePDF FileType = "pdf"
)

// ParseFileType validates and normalizes a file type tag.
func ParseFileType(s string) (FileType, error) {
	switch FileType(strings.ToLower(strings.TrimSpace(s))) {
	case FileTypeMarkdown:
		return FileTypeMarkdown, nil
	case FileTypePDF:
		return FileTypePDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, s)
	}
}

// Fragment is a contiguous slice of a document's normalized text, stored and
// embedded independently. A fragment is owned by exactly one document and
// carries full provenance so that filtering, grouping, and deletion never
// need a document-level record in the store.
type Fragment struct {
	Id              string    // "{document_id}_chunk_{index}"
	DocumentId      string    // owning document identity
	FilePath        string    // absolute source path
	FileType        FileType  // md or pdf
	ChunkIndex      int       // ordinal position within the document
	TotalChunks     int       // sibling count at ingestion time
	Timestamp       time.Time // ingestion time, shared by all siblings
	EmbeddingMethod string    // embedding backend that produced Vector
	CollectionName  string    // owning collection
	Content         string
	Vector          []float32 // embedding vector (populated before insert)
}

// Summary derives a DocumentSummary from this fragment's provenance fields.
func (f *Fragment) Summary() DocumentSummary {
	return DocumentSummary{
		DocumentId:      f.DocumentId,
		FilePath:        f.FilePath,
		FileType:        f.FileType,
		TotalChunks:     f.TotalChunks,
		Timestamp:       f.Timestamp,
		EmbeddingMethod: f.EmbeddingMethod,
		CollectionName:  f.CollectionName,
	}
}

// DocumentSummary describes one distinct document in a collection,
// derived from the first-seen fragment of its group.
type DocumentSummary struct {
	DocumentId      string    `json:"document_id"`
	FilePath        string    `json:"file_path"`
	FileType        FileType  `json:"file_type"`
	TotalChunks     int       `json:"total_chunks"`
	Timestamp       time.Time `json:"timestamp"`
	EmbeddingMethod string    `json:"embedding_method"`
	CollectionName  string    `json:"collection_name"`
}

// SearchResult is a ranked fragment match from similarity search.
// Distance is cosine distance: 0 is identical, larger is less similar.
type SearchResult struct {
	Fragment *Fragment
	Distance float32
}

// CollectionStats aggregates counts over a single active collection.
type CollectionStats struct {
	TotalChunks           int    `json:"total_chunks"`
	UniqueDocuments       int    `json:"unique_documents"`
	TotalContentSizeBytes int    `json:"total_content_size_bytes"`
	DatabasePath          string `json:"database_path"`
	CollectionName        string `json:"collection_name"`
	EmbeddingMethod       string `json:"embedding_method"`
}
