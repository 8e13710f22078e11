package chunker

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/poiesic/docmem/core"
)

const (
	// DefaultChunkSize is the target window length in characters.
	DefaultChunkSize = 1000
	// DefaultOverlap is the number of trailing characters repeated at the
	// start of the next chunk.
	DefaultOverlap = 200

	// boundaryRatio is the fraction of the window past which a sentence
	// terminator is preferred over a hard cut.
	boundaryRatio = 0.7
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Chunker splits normalized text into overlapping, boundary-aware windows.
// The zero value is not usable; construct with New.
type Chunker struct {
	chunkSize int
	overlap   int
	logger    *slog.Logger
}

// New creates a Chunker. Splitting cannot terminate unless the window
// advances on every step, so chunkSize must exceed overlap and overlap must
// not be negative; violations are configuration errors reported here.
func New(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", core.ErrInvalidChunking, chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %d must not be negative", core.ErrInvalidChunking, overlap)
	}
	if chunkSize <= overlap {
		return nil, fmt.Errorf("%w: chunk size %d must exceed overlap %d", core.ErrInvalidChunking, chunkSize, overlap)
	}
	return &Chunker{
		chunkSize: chunkSize,
		overlap:   overlap,
		logger:    slog.Default().With("component", "chunker"),
	}, nil
}

// ChunkSize returns the configured window length.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap returns the configured overlap length.
func (c *Chunker) Overlap() int { return c.overlap }

// Split divides text into overlapping chunks. Runs of whitespace are
// collapsed to single spaces first; empty or blank input yields nil.
// Splitting never fails on content.
//
// Each window tentatively spans chunkSize characters. The walk counts
// runes, not bytes, so multi-byte text is never cut mid-character and every
// chunk is valid UTF-8. When the window does not reach end-of-text and the
// rightmost sentence terminator (. ! ? or newline) falls in the last 30% of
// the window, the window ends just after that terminator; otherwise the
// full window is kept and the cut may land mid-sentence. The next window
// starts overlap characters before the previous window's end.
func (c *Chunker) Split(text string) []string {
	text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	if text == "" {
		return nil
	}

	var chunks []string
	runes := []rune(text)
	length := len(runes)
	start := 0

	for start < length {
		// end is intentionally left unclamped: the final window advances by
		// a full chunkSize so the loop cannot re-emit the tail.
		end := start + c.chunkSize
		sliceEnd := min(end, length)
		window := runes[start:sliceEnd]

		if end < length {
			breakPoint := lastBoundary(window)
			if float64(breakPoint) > float64(c.chunkSize)*boundaryRatio {
				window = window[:breakPoint+1]
				end = start + breakPoint + 1
			}
		}

		chunks = append(chunks, strings.TrimSpace(string(window)))

		start = end - c.overlap
		if start >= length {
			break
		}
	}

	c.logger.Debug("split text into chunks", "chars", length, "chunks", len(chunks))
	return chunks
}

// lastBoundary returns the offset of the rightmost sentence terminator in
// window, or -1 when none is present. Whitespace normalization has already
// removed newlines, but they are still treated as terminators for callers
// splitting raw text.
func lastBoundary(window []rune) int {
	breakPoint := -1
	for i, r := range window {
		switch r {
		case '.', '!', '?', '\n':
			breakPoint = i
		}
	}
	return breakPoint
}
