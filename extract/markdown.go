package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/docmem/core"
)

// Markdown reads markdown files as UTF-8 text.
// Markdown needs no structural parsing here; headings and inline markup are
// kept verbatim since the chunker works on plain text.
type Markdown struct {
	logger *slog.Logger
}

var _ Extractor = (*Markdown)(nil)

// NewMarkdown creates a markdown extractor.
func NewMarkdown() *Markdown {
	return &Markdown{
		logger: slog.Default().With("component", "markdown-extractor"),
	}
}

// Extract reads the markdown file at path.
func (m *Markdown) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", core.ErrExtraction, path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s: not valid UTF-8", core.ErrExtraction, path)
	}

	content := string(data)
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: %s: file is empty", core.ErrExtraction, path)
	}

	m.logger.Debug("read markdown file", "path", path, "bytes", len(data))
	return content, nil
}
