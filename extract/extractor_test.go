package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/docmem/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestForType(t *testing.T) {
	md, err := ForType(core.FileTypeMarkdown)
	require.NoError(t, err)
	assert.IsType(t, &Markdown{}, md)

	pdfExt, err := ForType(core.FileTypePDF)
	require.NoError(t, err)
	assert.IsType(t, &PDF{}, pdfExt)

	_, err = ForType(core.FileType("txt"))
	assert.ErrorIs(t, err, core.ErrUnsupportedFileType)
}

func TestMarkdown_Extract(t *testing.T) {
	path := writeFile(t, "notes.md", "# Title\n\nSome body text.\n")

	content, err := NewMarkdown().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, content, "# Title")
	assert.Contains(t, content, "Some body text.")
}

func TestMarkdown_Extract_Missing(t *testing.T) {
	_, err := NewMarkdown().Extract(context.Background(), filepath.Join(t.TempDir(), "absent.md"))
	assert.ErrorIs(t, err, core.ErrExtraction)
}

func TestMarkdown_Extract_Empty(t *testing.T) {
	path := writeFile(t, "empty.md", "   \n\t\n")

	_, err := NewMarkdown().Extract(context.Background(), path)
	assert.ErrorIs(t, err, core.ErrExtraction)
}

func TestMarkdown_Extract_InvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binary.md")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x80}, 0o644))

	_, err := NewMarkdown().Extract(context.Background(), path)
	assert.ErrorIs(t, err, core.ErrExtraction)
}

func TestMarkdown_Extract_Cancelled(t *testing.T) {
	path := writeFile(t, "notes.md", "content")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMarkdown().Extract(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPDF_Extract_NotAPDF(t *testing.T) {
	path := writeFile(t, "fake.pdf", "this is not a pdf")

	_, err := NewPDF().Extract(context.Background(), path)
	assert.ErrorIs(t, err, core.ErrExtraction)
}
