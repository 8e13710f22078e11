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


// Package openai provides embedding implementations using OpenAI-compatible APIs.
//
// This package implements the ai.Provider interface using the langchaingo
// library. The same provider serves both embedding methods: the local
// Sentence-Transformers method talks to an OpenAI-compatible server (such as
// Ollama, LocalAI, or vLLM) without credentials, while the OpenAIEmbeddings
// method talks to the OpenAI API with a key.
//
// # Usage
//
//	config := ai.DefaultConfig() // local embeddings
//	// Or remote:
//	config := ai.NewConfig(ai.WithMethod(ai.MethodOpenAI))
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "sample text")
package openai
