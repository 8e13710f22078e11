package mock

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	embedder := NewMockEmbedder()
	ctx := context.Background()

	first, err := embedder.EmbedText(ctx, "the same text")
	require.NoError(t, err)
	second, err := embedder.EmbedText(ctx, "the same text")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := embedder.EmbedText(ctx, "a different text")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestMockEmbedder_UnitVectors(t *testing.T) {
	embedder := NewMockEmbedder()

	vector, err := embedder.EmbedText(context.Background(), "normalize me")
	require.NoError(t, err)
	require.Len(t, vector, mockDimension)

	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 1e-4)
}

func TestMockEmbedder_BatchMatchesSingle(t *testing.T) {
	embedder := NewMockEmbedder()
	ctx := context.Background()

	single, err := embedder.EmbedText(ctx, "batch member")
	require.NoError(t, err)

	batch, err := embedder.EmbedTexts(ctx, []string{"batch member", "other"})
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, single, batch[0])
}

func TestMockEmbedder_OverridesAndReset(t *testing.T) {
	embedder := NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("injected failure")
	}

	_, err := embedder.EmbedText(context.Background(), "anything")
	assert.Error(t, err)
	assert.Equal(t, 1, embedder.CallCount())

	embedder.Reset()
	assert.Zero(t, embedder.CallCount())

	_, err = embedder.EmbedText(context.Background(), "anything")
	assert.NoError(t, err)
}
