// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"fmt"
	"os"
	"strings"

	"github.com/poiesic/docmem/core"
)

// Supported embedding methods. Distinct methods produce vectors of different
// dimensions and must never share a collection.
const (
	// MethodSentenceTransformers embeds locally through an OpenAI-compatible
	// server (Ollama, LocalAI, vLLM); no API key required.
	MethodSentenceTransformers = "Sentence-Transformers"

	// MethodOpenAI embeds through the OpenAI API; requires an API key.
	MethodOpenAI = "OpenAIEmbeddings"
)

// APIKeyEnv is the environment variable consulted when no explicit API key
// is configured for a remote embedding method.
const APIKeyEnv = "OPENAI_API_KEY"

// Config holds configuration for embedding providers.
type Config struct {
	// Method selects the embedding backend: MethodSentenceTransformers or
	// MethodOpenAI.
	Method string

	// LocalHost is the base URL for the local OpenAI-compatible embedding
	// server. Example: "http://localhost:11434/v1"
	LocalHost string

	// LocalModel is the model identifier for local embeddings.
	// Example: "all-MiniLM-L6-v2"
	LocalModel string

	// RemoteModel is the model identifier for the OpenAI API.
	// Example: "text-embedding-3-small"
	RemoteModel string

	// APIKey is the OpenAI API key. When empty and Method is MethodOpenAI,
	// Validate falls back to the APIKeyEnv environment variable.
	APIKey string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithMethod selects the embedding method.
func WithMethod(method string) ConfigOption {
	return func(c *Config) {
		c.Method = method
	}
}

// WithLocalHost sets the local embedding server URL.
func WithLocalHost(host string) ConfigOption {
	return func(c *Config) {
		c.LocalHost = host
	}
}

// WithLocalModel sets the local embedding model identifier.
func WithLocalModel(model string) ConfigOption {
	return func(c *Config) {
		c.LocalModel = model
	}
}

// WithRemoteModel sets the OpenAI embedding model identifier.
func WithRemoteModel(model string) ConfigOption {
	return func(c *Config) {
		c.RemoteModel = model
	}
}

// WithAPIKey sets an explicit API key, taking precedence over the environment.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// DefaultConfig returns a Config with sensible defaults: local embeddings
// against an OpenAI-compatible server, no credential required.
func DefaultConfig() *Config {
	return &Config{
		Method:      MethodSentenceTransformers,
		LocalHost:   "http://localhost:11434/v1",
		LocalModel:  "all-MiniLM-L6-v2",
		RemoteModel: "text-embedding-3-small",
	}
}

// NewConfig creates a Config with the default values and applies the provided
// options. This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := NewConfig(
//	    WithMethod(MethodOpenAI),
//	    WithRemoteModel("text-embedding-3-large"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Model returns the model identifier behind the configured method.
func (c *Config) Model() string {
	if c.Method == MethodOpenAI {
		return c.RemoteModel
	}
	return c.LocalModel
}

// Normalize ensures the configuration is in a canonical form. The /v1 suffix
// is appended to the local host if missing, which is required by most
// OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.LocalHost != "" && !strings.HasSuffix(c.LocalHost, "/v1") {
		c.LocalHost = strings.TrimSuffix(c.LocalHost, "/") + "/v1"
	}
}

// Validate checks that the configuration is valid and complete, resolving the
// API key from the environment when needed. It automatically normalizes the
// configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Method {
	case MethodSentenceTransformers:
		if c.LocalHost == "" {
			return fmt.Errorf("ai config: LocalHost is required for %s", c.Method)
		}
		if c.LocalModel == "" {
			return fmt.Errorf("ai config: LocalModel is required for %s", c.Method)
		}
	case MethodOpenAI:
		if c.RemoteModel == "" {
			return fmt.Errorf("ai config: RemoteModel is required for %s", c.Method)
		}
		if c.APIKey == "" {
			c.APIKey = os.Getenv(APIKeyEnv)
		}
		if c.APIKey == "" {
			return fmt.Errorf("%w: %s selected but no key provided (set %s or pass one explicitly)",
				core.ErrMissingAPIKey, c.Method, APIKeyEnv)
		}
	default:
		return fmt.Errorf("ai config: unsupported embedding method %q (supported: %s, %s)",
			c.Method, MethodSentenceTransformers, MethodOpenAI)
	}
	return nil
}
