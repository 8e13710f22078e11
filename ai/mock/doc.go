// Package mock provides test double implementations of the ai interfaces.
//
// The mocks allow tests to run without external embedding services and
// enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	provider := mock.NewMockProvider()
//	vector, err := provider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
//	    return nil, errors.New("embedding backend down")
//	}
//
// # Default Behavior
//
// MockEmbedder returns deterministic 384-dimension vectors derived from an
// FNV hash of the input text, so identical text always embeds identically.
package mock
