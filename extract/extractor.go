package extract

import (
	"context"
	"fmt"

	"github.com/poiesic/docmem/core"
)

// Extractor normalizes a document file into plain text.
// Implementations must be safe for concurrent use.
type Extractor interface {
	// Extract reads the file at path and returns its text content.
	// A file that yields no extractable text is an error, not an empty
	// result.
	Extract(ctx context.Context, path string) (string, error)
}

// ForType returns the extractor for a file type.
// File types outside {md, pdf} are rejected with core.ErrUnsupportedFileType.
func ForType(fileType core.FileType) (Extractor, error) {
	switch fileType {
	case core.FileTypeMarkdown:
		return NewMarkdown(), nil
	case core.FileTypePDF:
		return NewPDF(), nil
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedFileType, fileType)
	}
}
