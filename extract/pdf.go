package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/poiesic/docmem/core"
)

// PDF extracts plain text from PDF files page by page.
// Pages that fail to extract are skipped with a warning; extraction succeeds
// as long as at least one page yields text.
type PDF struct {
	logger *slog.Logger
}

var _ Extractor = (*PDF)(nil)

// NewPDF creates a PDF extractor.
func NewPDF() *PDF {
	return &PDF{
		logger: slog.Default().With("component", "pdf-extractor"),
	}
}

// Extract reads the PDF at path and concatenates the text of all readable
// pages, each preceded by a page marker.
func (p *PDF) Extract(ctx context.Context, path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", core.ErrExtraction, path, err)
	}
	defer file.Close()

	var builder strings.Builder
	extracted := 0

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			p.logger.Warn("skipping unreadable page", "path", path, "page", pageNum)
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			p.logger.Warn("failed to extract text from page",
				"path", path, "page", pageNum, "err", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		fmt.Fprintf(&builder, "\n--- Page %d ---\n%s\n", pageNum, text)
		extracted++
	}

	content := builder.String()
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: %s: no text content extracted", core.ErrExtraction, path)
	}

	p.logger.Debug("read pdf file", "path", path, "pages", reader.NumPage(), "pages_with_text", extracted)
	return content, nil
}
