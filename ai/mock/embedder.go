package mock

import (
	"context"
	"hash/fnv"
	"math"
)

// mockDimension matches the output width of all-MiniLM-L6-v2, the default
// local embedding model, so mock vectors are shaped like real ones.
const mockDimension = 384

// MockEmbedder is a test double for ai.Embedder.
// Without injected behavior it derives a deterministic unit vector from the
// input text, so identical texts always land at distance zero and tests can
// rank results without a live embedding service.
type MockEmbedder struct {
	// EmbedTextFunc overrides EmbedText when set.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedTextsFunc overrides EmbedTexts when set.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	callCount int
}

// NewMockEmbedder creates a mock embedder with deterministic behavior.
// Returns the concrete type so tests can reach CallCount and the override
// fields.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

// EmbedText generates a deterministic embedding derived from the text.
func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.callCount++

	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return vectorFor(text), nil
}

// EmbedTexts generates deterministic embeddings for multiple texts.
func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.callCount++

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = vectorFor(text)
	}
	return embeddings, nil
}

// CallCount returns the number of times any method was called.
func (m *MockEmbedder) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockEmbedder) Reset() {
	m.callCount = 0
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

// vectorFor derives a unit vector from text. An FNV-1a hash of the text
// seeds an xorshift sequence, so the mapping is stable across processes and
// different texts spread out in the vector space.
func vectorFor(text string) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	state := h.Sum64()
	if state == 0 {
		state = 1 // xorshift must not start at zero
	}

	vector := make([]float32, mockDimension)
	var sumSquares float64
	for i := range vector {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		v := float32(state%2048)/2048.0 - 0.5
		vector[i] = v
		sumSquares += float64(v) * float64(v)
	}

	if sumSquares > 0 {
		norm := float32(math.Sqrt(sumSquares))
		for i := range vector {
			vector[i] /= norm
		}
	}
	return vector
}
