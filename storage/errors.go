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


package storage

import "errors"

var (
	// ErrWriteFailed indicates an insert or delete against the store failed.
	ErrWriteFailed = errors.New("store write failed")

	// ErrMalformedRecord indicates a stored record could not be decoded.
	ErrMalformedRecord = errors.New("malformed stored record")

	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrCollectionMismatch indicates a fragment routed to the wrong collection.
	ErrCollectionMismatch = errors.New("fragment belongs to a different collection")
)
