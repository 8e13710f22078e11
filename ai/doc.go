// Package ai defines the embedding abstraction used throughout docmem.
//
// An Embedder maps text to fixed-length numeric vectors; a Provider bundles
// an Embedder with the method and model identifiers that scope a collection.
// The openai subpackage implements both the local (OpenAI-compatible server)
// and remote (OpenAI API) variants behind the same interface; the mock
// subpackage provides deterministic test doubles.
package ai
