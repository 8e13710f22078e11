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


// Package storage provides the vector store abstraction for docmem.
//
// A Store holds named collections; a Collection is an embedding-method-scoped
// partition holding fragments with their vectors. Collections are the only
// write path to the backing database, and fragment metadata is the only
// channel through which filtering, grouping, and deletion occur.
//
// # Constructor Return Type Pattern
//
// Public constructors return the storage interfaces rather than backend
// concrete types:
//
//	store, err := badger.OpenStore(path)  // returns storage.Store interface
//
// This keeps consumers decoupled from BadgerDB specifics and makes backends
// swappable in tests.
//
// # Collection routing
//
// CollectionName maps an embedding method to its collection
// ("documents_<sanitized method>"). Vectors produced by different embedding
// backends have incompatible dimensions, so routed collections must never be
// shared across methods.
//
// # Failure policy
//
// Writes are strict: Insert and Delete surface backend errors wrapped in
// ErrWriteFailed. Reads are resilient: individual records that fail to
// decode are skipped so that listing and statistics degrade to smaller
// results instead of crashing. Decoding happens exactly once, at this
// package's boundary, yielding typed fragments or ErrMalformedRecord.
//
// # Thread Safety
//
// All implementations must be safe for concurrent use. No atomicity is
// guaranteed across calls; callers that need single-writer semantics must
// serialize externally.
package storage
