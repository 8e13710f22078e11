package ai

import (
	"testing"

	"github.com/poiesic/docmem/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, MethodSentenceTransformers, cfg.Method)
	assert.Equal(t, "http://localhost:11434/v1", cfg.LocalHost)
	assert.Equal(t, "all-MiniLM-L6-v2", cfg.LocalModel)
	assert.Equal(t, "text-embedding-3-small", cfg.RemoteModel)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithMethod(MethodOpenAI),
		WithRemoteModel("text-embedding-3-large"),
		WithAPIKey("sk-test"),
	)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, MethodOpenAI, cfg.Method)
	assert.Equal(t, "text-embedding-3-large", cfg.Model())
	assert.Equal(t, "sk-test", cfg.APIKey)
}

func TestConfig_Normalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"bare host", "http://localhost:11434", "http://localhost:11434/v1"},
		{"trailing slash", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"already normalized", "http://localhost:11434/v1", "http://localhost:11434/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(WithLocalHost(tt.host))
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.LocalHost)
		})
	}
}

func TestConfig_Validate_MissingAPIKey(t *testing.T) {
	t.Setenv(APIKeyEnv, "")

	cfg := NewConfig(WithMethod(MethodOpenAI))
	err := cfg.Validate()
	assert.ErrorIs(t, err, core.ErrMissingAPIKey)
}

func TestConfig_Validate_APIKeyFromEnv(t *testing.T) {
	t.Setenv(APIKeyEnv, "sk-from-env")

	cfg := NewConfig(WithMethod(MethodOpenAI))
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "sk-from-env", cfg.APIKey)
}

func TestConfig_Validate_ExplicitKeyWins(t *testing.T) {
	t.Setenv(APIKeyEnv, "sk-from-env")

	cfg := NewConfig(WithMethod(MethodOpenAI), WithAPIKey("sk-explicit"))
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "sk-explicit", cfg.APIKey)
}

func TestConfig_Validate_UnsupportedMethod(t *testing.T) {
	cfg := NewConfig(WithMethod("word2vec"))
	assert.Error(t, cfg.Validate())
}

func TestConfig_Model(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, cfg.LocalModel, cfg.Model())

	cfg.Method = MethodOpenAI
	assert.Equal(t, cfg.RemoteModel, cfg.Model())
}
